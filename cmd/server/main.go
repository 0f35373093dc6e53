package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yukikurage/task-assignment-api/internal/config"
	"github.com/yukikurage/task-assignment-api/internal/database"
	"github.com/yukikurage/task-assignment-api/internal/handlers"
	"github.com/yukikurage/task-assignment-api/internal/logging"
	"github.com/yukikurage/task-assignment-api/internal/metrics"
	"github.com/yukikurage/task-assignment-api/internal/middleware"
	"github.com/yukikurage/task-assignment-api/internal/notify"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"github.com/yukikurage/task-assignment-api/internal/services"
	"github.com/yukikurage/task-assignment-api/internal/token"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to an optional YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})

	// Set Gin mode
	gin.SetMode(cfg.HTTP.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	taskRepo, userRepo, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	var notifier notify.Notifier = notify.Disabled{}
	if cfg.MailEnabled() {
		notifier = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, log)
	} else {
		log.Warn("EMAIL_USER/EMAIL_PASS not set, assignment emails are disabled")
	}
	dispatcher := notify.NewDispatcher(notifier, log, cfg.Mail.Timeout, collector)

	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, dispatcher)
	userService := services.NewUserService(userRepo)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
		Burst: cfg.RateLimit.Burst,
	}, log)
	defer limiter.Stop()

	router := handlers.SetupRouter(handlers.RouterConfig{
		Log:            log,
		Auth:           handlers.NewAuthHandler(authService, tokens),
		Tasks:          handlers.NewTaskHandler(taskService),
		Users:          handlers.NewUserHandler(userService),
		Notifications:  handlers.NewNotificationHandler(authService, notifier, cfg.Mail.Timeout),
		Verifier:       tokens,
		RateLimiter:    limiter,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),
		CORSOrigins:    cfg.HTTP.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTP.Address).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	// Let in-flight notifications finish; each is bounded by its own timeout.
	dispatcher.Wait()
}

// openStores connects the backend selected by DB_DRIVER and returns its repositories
func openStores(ctx context.Context, cfg *config.Config, log *logrus.Logger) (repository.TaskRepository, repository.UserRepository, func(), error) {
	if cfg.DB.Driver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg, log)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.WithError(err).Warn("Failed to disconnect from MongoDB")
			}
		}
		if err := database.EnsureMongoIndexes(ctx, db, log); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return repository.NewMongoTaskRepository(db), repository.NewMongoUserRepository(db), closeFn, nil
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return repository.NewTaskRepository(db), repository.NewUserRepository(db), closeFn, nil
}
