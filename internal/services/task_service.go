package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/notify"
	"github.com/yukikurage/task-assignment-api/internal/policy"
	"github.com/yukikurage/task-assignment-api/internal/repository"
)

var (
	ErrNotManager          = errors.New("only managers can perform this action")
	ErrTaskNotFound        = errors.New("task not found")
	ErrNotTaskAssignee     = errors.New("you can only update your own tasks")
	ErrTitleRequired       = errors.New("title is required")
	ErrAssigneeRequired    = errors.New("assignedTo is required")
	ErrAssigneeNotFound    = errors.New("assigned user not found")
	ErrAssignerNotFound    = errors.New("assigning manager not found")
	ErrAssigneeNotEmployee = errors.New("tasks can only be assigned to employees")
	ErrInvalidStatus       = errors.New("status must be pending or completed")
	ErrInvalidPriority     = errors.New("priority must be low, medium or high")
)

// AssignmentNotifier hands an assignment email off for delivery without waiting on it
type AssignmentNotifier interface {
	Dispatch(a notify.Assignment)
}

// TaskDetails is a task with its user references resolved.
// A reference is nil when it was not expanded or the user no longer exists.
type TaskDetails struct {
	Task       models.Task
	AssignedTo *models.User
	AssignedBy *models.User
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	notifier AssignmentNotifier
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, notifier AssignmentNotifier) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	Deadline    *time.Time
	AssignedTo  string
}

// ListTasks returns every task to a manager and only their own tasks to an employee
func (s *TaskService) ListTasks(ctx context.Context, caller policy.Caller) ([]TaskDetails, error) {
	if caller.IsManager() {
		tasks, err := s.taskRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		return s.expand(ctx, tasks, true)
	}

	tasks, err := s.taskRepo.ListByAssignee(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	visible := tasks[:0]
	for _, t := range tasks {
		if policy.CanView(caller, &t) {
			visible = append(visible, t)
		}
	}
	return s.expand(ctx, visible, false)
}

// CreateTask creates a task assigned by the calling manager and queues the assignee notification
func (s *TaskService) CreateTask(ctx context.Context, caller policy.Caller, input CreateTaskInput) (*TaskDetails, error) {
	if !policy.CanCreateTask(caller) {
		return nil, ErrNotManager
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.AssignedTo) == "" {
		return nil, ErrAssigneeRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	employee, err := s.findUser(ctx, input.AssignedTo, ErrAssigneeNotFound)
	if err != nil {
		return nil, err
	}
	manager, err := s.findUser(ctx, caller.UserID, ErrAssignerNotFound)
	if err != nil {
		return nil, err
	}
	if employee.Role != models.RoleEmployee {
		return nil, ErrAssigneeNotEmployee
	}

	now := s.now().UTC()
	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		Deadline:    input.Deadline,
		Status:      models.TaskStatusPending,
		AssignedTo:  employee.ID,
		AssignedBy:  manager.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// The task is persisted; delivery runs on its own and cannot fail the request.
	if s.notifier != nil {
		s.notifier.Dispatch(notify.Assignment{
			RecipientEmail: employee.Email,
			RecipientName:  employee.Name,
			TaskTitle:      task.Title,
			AssignerName:   manager.Name,
		})
	}

	return &TaskDetails{
		Task:       *task,
		AssignedTo: employee,
		AssignedBy: manager,
	}, nil
}

// UpdateStatus sets the status of a task the caller is allowed to modify
func (s *TaskService) UpdateStatus(ctx context.Context, caller policy.Caller, taskID string, status models.TaskStatus) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanUpdateStatus(caller, task) {
		return nil, ErrNotTaskAssignee
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task.Status = status
	task.UpdatedAt = s.now().UTC()

	if err := s.taskRepo.UpdateStatus(ctx, task.ID, task.Status, task.UpdatedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task. A missing task is not an error.
func (s *TaskService) DeleteTask(ctx context.Context, caller policy.Caller, taskID string) error {
	if !policy.CanDeleteTask(caller) {
		return ErrNotManager
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) findUser(ctx context.Context, id string, notFound error) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// expand resolves assignedBy, and assignedTo when withAssignee is set, in one user query
func (s *TaskService) expand(ctx context.Context, tasks []models.Task, withAssignee bool) ([]TaskDetails, error) {
	details := make([]TaskDetails, len(tasks))
	if len(tasks) == 0 {
		return details, nil
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, len(tasks))
	addID := func(id string) {
		if _, ok := seen[id]; ok || id == "" {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, t := range tasks {
		addID(t.AssignedBy)
		if withAssignee {
			addID(t.AssignedTo)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load task users: %w", err)
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	for i, t := range tasks {
		details[i] = TaskDetails{Task: t, AssignedBy: byID[t.AssignedBy]}
		if withAssignee {
			details[i].AssignedTo = byID[t.AssignedTo]
		}
	}
	return details, nil
}
