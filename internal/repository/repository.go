package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/task-assignment-api/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no record, whatever the backend
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint (user email) is violated
	ErrDuplicate = errors.New("repository: duplicate record")
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List returns every task, newest first
	List(ctx context.Context) ([]models.Task, error)

	// ListByAssignee returns the tasks assigned to one user, newest first
	ListByAssignee(ctx context.Context, userID string) ([]models.Task, error)

	// UpdateStatus sets the status and updated_at of a task
	UpdateStatus(ctx context.Context, id string, status models.TaskStatus, updatedAt time.Time) error

	// Delete removes a task. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIDs returns the users matching ids; unknown ids are skipped
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)

	// ListByRole lists all users with the given role
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
}
