// Package policy holds the authorization rules of the task API as pure
// functions over the caller and, where relevant, the task being touched.
package policy

import (
	"github.com/yukikurage/task-assignment-api/internal/models"
)

// Caller is the authenticated identity a request runs as
type Caller struct {
	UserID string
	Role   models.Role
}

// IsManager reports whether c holds the Manager role
func (c Caller) IsManager() bool {
	return c.Role == models.RoleManager
}

// CanCreateTask reports whether c may create and assign tasks
func CanCreateTask(c Caller) bool {
	return c.IsManager()
}

// CanDeleteTask reports whether c may delete tasks
func CanDeleteTask(c Caller) bool {
	return c.IsManager()
}

// CanListEmployees reports whether c may read the employee directory
func CanListEmployees(c Caller) bool {
	return c.IsManager()
}

// CanView reports whether t is visible to c
func CanView(c Caller, t *models.Task) bool {
	if c.IsManager() {
		return true
	}
	return c.Role == models.RoleEmployee && t.AssignedTo == c.UserID
}

// CanUpdateStatus reports whether c may change the status of t.
// Managers may update any task; employees only their own.
func CanUpdateStatus(c Caller, t *models.Task) bool {
	if c.IsManager() {
		return true
	}
	return c.Role == models.RoleEmployee && t.AssignedTo == c.UserID
}
