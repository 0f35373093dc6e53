package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-assignment-api/internal/logging"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/notify"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"github.com/yukikurage/task-assignment-api/internal/services"
	"github.com/yukikurage/task-assignment-api/internal/token"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPersistenceFailureIsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	log := logging.Discard()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := token.NewManager("test-secret", time.Hour)
	dispatcher := notify.NewDispatcher(notify.Disabled{}, log, time.Second, nil)
	authService := services.NewAuthService(userRepo)

	router := SetupRouter(RouterConfig{
		Log:      log,
		Auth:     NewAuthHandler(authService, tokens),
		Tasks:    NewTaskHandler(services.NewTaskService(taskRepo, userRepo, dispatcher)),
		Users:    NewUserHandler(services.NewUserService(userRepo)),
		Verifier: tokens,
	})

	mock.ExpectQuery("SELECT \\* FROM `tasks`").WillReturnError(assert.AnError)

	tok, err := tokens.Issue(&models.User{ID: "m-1", Role: models.RoleManager})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
