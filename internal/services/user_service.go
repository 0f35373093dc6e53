package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/policy"
	"github.com/yukikurage/task-assignment-api/internal/repository"
)

// UserService exposes the user directory
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListEmployees returns every user with the Employee role. Managers only.
func (s *UserService) ListEmployees(ctx context.Context, caller policy.Caller) ([]models.User, error) {
	if !policy.CanListEmployees(caller) {
		return nil, ErrNotManager
	}

	users, err := s.userRepo.ListByRole(ctx, models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return users, nil
}
