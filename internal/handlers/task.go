package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-assignment-api/internal/dto"
	apierrors "github.com/yukikurage/task-assignment-api/internal/errors"
	"github.com/yukikurage/task-assignment-api/internal/middleware"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/policy"
	"github.com/yukikurage/task-assignment-api/internal/services"
)

// deadlineLayouts are tried in order; the first is what an HTML date input sends
var deadlineLayouts = []string{"2006-01-02", time.RFC3339}

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks for managers and the caller's own tasks for employees
func (h *TaskHandler) ListTasks(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), caller)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// CreateTask creates a new task and assigns it to an employee
func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if !policy.CanCreateTask(caller) {
		apierrors.Forbidden(c, "Access denied. Managers only.")
		return
	}

	var req dto.CreateTaskRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Request body must be a JSON object")
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		apierrors.BadRequest(c, "Deadline must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), caller, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TaskPriority(strings.ToLower(strings.TrimSpace(req.Priority))),
		Deadline:    deadline,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDetailsDTO(*task))
}

// UpdateTaskStatus changes the status of a task
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	// A missing status is rejected by the service after the lookup and ownership checks.
	var req dto.UpdateStatusRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Request body must be a JSON object")
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), caller, c.Param("id"), models.TaskStatus(req.Status))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func parseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotManager):
		apierrors.Forbidden(c, "Access denied. Managers only.")
	case errors.Is(err, services.ErrNotTaskAssignee):
		apierrors.Forbidden(c, "Access denied. You can only update your own tasks.")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrAssignerNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrAssigneeRequired),
		errors.Is(err, services.ErrAssigneeNotEmployee),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}

// bindOptionalJSON decodes the body into obj, treating an empty body as {}
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
