package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus is persisted as a small integer.
type TaskStatus uint8

const (
	TaskStatusToDo TaskStatus = iota + 1
	TaskStatusInProgress
	TaskStatusDone
)

// Valid reports whether the status is one of the enumerated values.
func (s TaskStatus) Valid() bool {
	return s >= TaskStatusToDo && s <= TaskStatusDone
}

// Display returns the human-readable status label.
func (s TaskStatus) Display() string {
	switch s {
	case TaskStatusToDo:
		return "To Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusDone:
		return "Done"
	default:
		return ""
	}
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(250);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"not null;default:1" json:"status"`
	CreatedByID uint64         `gorm:"not null;index" json:"created_by"`
	AssigneeID  *uint64        `gorm:"index" json:"assignee"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedBy User  `gorm:"foreignKey:CreatedByID" json:"-"`
	Assignee  *User `gorm:"foreignKey:AssigneeID" json:"-"`
}
