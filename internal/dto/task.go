package dto

import (
	"time"

	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Deadline    *time.Time          `json:"deadline"`
	Status      models.TaskStatus   `json:"status"`
	AssignedTo  UserRef             `json:"assignedTo"`
	AssignedBy  UserRef             `json:"assignedBy"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// UpdateStatusRequest is the body of a status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateTaskRequest is the body of a task creation.
// Deadline is parsed by the handler so both date-only and RFC 3339 values are accepted.
// Required fields are checked by the service once the caller is authorized.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
	AssignedTo  string `json:"assignedTo"`
}

// ToTaskDTO converts a Task model to TaskDTO with unexpanded references
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Deadline:    task.Deadline,
		Status:      task.Status,
		AssignedTo:  UserRef{ID: task.AssignedTo},
		AssignedBy:  UserRef{ID: task.AssignedBy},
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDetailsDTO converts a task with its resolved users
func ToTaskDetailsDTO(details services.TaskDetails) TaskDTO {
	dto := ToTaskDTO(details.Task)
	dto.AssignedTo = toUserRef(details.Task.AssignedTo, details.AssignedTo)
	dto.AssignedBy = toUserRef(details.Task.AssignedBy, details.AssignedBy)
	return dto
}

// ToTaskListResponse converts a slice of task details. The result is never nil.
func ToTaskListResponse(tasks []services.TaskDetails) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDetailsDTO(task)
	}
	return items
}
