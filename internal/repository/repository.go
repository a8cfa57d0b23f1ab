package repository

import (
	"time"

	"github.com/taskcove/task-tracker-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task; the store assigns ID and CreatedAt
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves the tasks visible to the viewer, with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ViewerID uint64
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ExistsByID reports whether a user with the given ID exists
	ExistsByID(id uint64) (bool, error)

	// Delete removes a user within a single transaction: tasks they created
	// are deleted, tasks merely assigned to them keep living with the
	// assignee cleared, and their tokens are revoked.
	Delete(id uint64) error
}

// TokenRepository defines the interface for bearer token persistence
type TokenRepository interface {
	// Create persists a new token record
	Create(token *models.AuthToken) error

	// FindByDigest finds a token by its digest
	FindByDigest(digest string) (*models.AuthToken, error)

	// ListByUser lists all tokens issued to a user
	ListByUser(userID uint64) ([]models.AuthToken, error)

	// DeleteByUser removes every token issued to a user
	DeleteByUser(userID uint64) error

	// DeleteExpired removes tokens that expired before the reference time
	DeleteExpired(reference time.Time) error
}
