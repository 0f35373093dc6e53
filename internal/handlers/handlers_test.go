package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-assignment-api/internal/logging"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/notify"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"github.com/yukikurage/task-assignment-api/internal/services"
	"github.com/yukikurage/task-assignment-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "secret1!"

// notifierFunc adapts a function to notify.Notifier
type notifierFunc func(ctx context.Context, a notify.Assignment) notify.Result

func (f notifierFunc) NotifyAssigned(ctx context.Context, a notify.Assignment) notify.Result {
	return f(ctx, a)
}

// sentMail records every assignment handed to the notifier
type sentMail struct {
	mu     sync.Mutex
	result notify.Result
	sent   []notify.Assignment
}

func (s *sentMail) NotifyAssigned(_ context.Context, a notify.Assignment) notify.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, a)
	return s.result
}

func (s *sentMail) all() []notify.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Assignment(nil), s.sent...)
}

// APITestSuite drives the full router against an in-memory SQLite database
type APITestSuite struct {
	suite.Suite
	db         *gorm.DB
	tokens     *token.Manager
	mail       *sentMail
	dispatcher *notify.Dispatcher
	router     *gin.Engine
}

// SetupTest runs before each test
func (suite *APITestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	suite.Require().NoError(suite.db.AutoMigrate(&models.User{}, &models.Task{}))

	suite.mail = &sentMail{result: notify.Result{Success: true, MessageID: "<test@localhost>"}}
	suite.buildRouter(suite.mail)
}

// TearDownTest runs after each test
func (suite *APITestSuite) TearDownTest() {
	suite.dispatcher.Wait()
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *APITestSuite) buildRouter(notifier notify.Notifier) {
	log := logging.Discard()
	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)

	suite.tokens = token.NewManager("test-secret", time.Hour)
	suite.dispatcher = notify.NewDispatcher(notifier, log, time.Second, nil)

	authService := services.NewAuthService(userRepo)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	suite.router = SetupRouter(RouterConfig{
		Log:           log,
		Auth:          NewAuthHandler(authService, suite.tokens),
		Tasks:         NewTaskHandler(services.NewTaskService(taskRepo, userRepo, suite.dispatcher)),
		Users:         NewUserHandler(services.NewUserService(userRepo)),
		Notifications: NewNotificationHandler(authService, notifier, time.Second),
		Verifier:      suite.tokens,
		CORSOrigins:   []string{"*"},
	})
}

// Helper function to create test data
func (suite *APITestSuite) createUser(name, email string, role models.Role) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	suite.Require().NoError(err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *APITestSuite) createTask(title string, assignee, assigner *models.User, createdAt time.Time) *models.Task {
	task := &models.Task{
		Title:      title,
		Priority:   models.TaskPriorityMedium,
		Status:     models.TaskStatusPending,
		AssignedTo: assignee.ID,
		AssignedBy: assigner.ID,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *APITestSuite) tokenFor(user *models.User) string {
	tok, err := suite.tokens.Issue(user)
	suite.Require().NoError(err)
	return tok
}

// Helper function to send a request through the router
func (suite *APITestSuite) request(method, url string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+suite.tokenFor(user))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *APITestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	suite.decode(w, &body)
	suite.NotEmpty(body.Message)
	return body.Code
}
