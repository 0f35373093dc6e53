package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/notify"
	"github.com/yukikurage/task-assignment-api/internal/policy"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Assignment
}

func (n *recordingNotifier) Dispatch(a notify.Assignment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, a)
}

func (n *recordingNotifier) assignments() []notify.Assignment {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Assignment(nil), n.sent...)
}

type testEnv struct {
	db       *gorm.DB
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	notifier *recordingNotifier
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	return testEnv{
		db:       db,
		taskRepo: repository.NewTaskRepository(db),
		userRepo: repository.NewUserRepository(db),
		notifier: &recordingNotifier{},
	}
}

func (env testEnv) createUser(t *testing.T, name, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, env.userRepo.Create(context.Background(), user))
	return user
}

func callerFor(u *models.User) policy.Caller {
	return policy.Caller{UserID: u.ID, Role: u.Role}
}
