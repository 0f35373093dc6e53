package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is one of the two task states
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Task is a unit of work assigned by a manager to an employee.
// Only Status and UpdatedAt change after creation.
type Task struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" bson:"title" json:"title"`
	Description string       `gorm:"type:text" bson:"description" json:"description"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" bson:"priority" json:"priority"`
	Deadline    *time.Time   `bson:"deadline,omitempty" json:"deadline"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" bson:"status" json:"status"`
	AssignedTo  string       `gorm:"type:varchar(36);not null;index" bson:"assignedTo" json:"assignedTo"`
	AssignedBy  string       `gorm:"type:varchar(36);not null" bson:"assignedBy" json:"assignedBy"`
	CreatedAt   time.Time    `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// BeforeCreate assigns an identifier when the caller did not
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
