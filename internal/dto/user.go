package dto

import (
	"time"

	"github.com/yukikurage/task-assignment-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// UserRef is a reference to a user inside a task.
// Name and Email are only present when the reference was expanded.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// toUserRef expands the reference when the user was loaded
func toUserRef(id string, user *models.User) UserRef {
	if user == nil {
		return UserRef{ID: id}
	}
	return UserRef{ID: user.ID, Name: user.Name, Email: user.Email}
}
