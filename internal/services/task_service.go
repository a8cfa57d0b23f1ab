package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskcove/task-tracker-api/internal/models"
	"github.com/taskcove/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both a missing task and a task the requester may
	// not see. The two cases are indistinguishable to callers.
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidStatus    = errors.New("status must be one of 1 (To Do), 2 (In Progress), 3 (Done)")
	ErrAssigneeNotFound = errors.New("assignee does not exist")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ViewerID uint64
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	AssigneeID  *uint64
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched; ClearAssignee unsets the assignee.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	AssigneeID    *uint64
	ClearAssignee bool
}

// ListTasks returns the tasks visible to the viewer
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}

	filter := repository.TaskFilter{
		ViewerID: input.ViewerID,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// CreateTask validates input and creates a task owned by the requester.
// Whatever a request payload claims about created_by is irrelevant here: the
// creator is always the authenticated requester.
func (s *TaskService) CreateTask(requesterID uint64, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == 0 {
		input.Status = models.TaskStatusToDo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if input.AssigneeID != nil {
		if err := s.ensureUserExists(*input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		AssigneeID:  input.AssigneeID,
		CreatedByID: requesterID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "Assignee")
}

// GetTask returns a task if it exists and the requester may see it
func (s *TaskService) GetTask(requesterID, taskID uint64) (*models.Task, error) {
	task, err := s.findVisible(requesterID, taskID)
	if err != nil {
		return nil, err
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "Assignee")
}

// UpdateTask applies the provided fields to a task the requester may mutate.
// CreatedByID and CreatedAt are immutable and not part of the input.
func (s *TaskService) UpdateTask(requesterID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findVisible(requesterID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.ensureUserExists(*input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "CreatedBy", "Assignee")
}

// DeleteTask removes a task the requester may mutate
func (s *TaskService) DeleteTask(requesterID, taskID uint64) error {
	task, err := s.findVisible(requesterID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// findVisible loads a task and applies the visibility gate. A task that does
// not exist and a task the requester may not see produce the same error.
func (s *TaskService) findVisible(requesterID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !IsVisible(task, requesterID) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// ensureUserExists validates an assignee reference
func (s *TaskService) ensureUserExists(userID uint64) error {
	exists, err := s.userRepo.ExistsByID(userID)
	if err != nil {
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	if !exists {
		return ErrAssigneeNotFound
	}
	return nil
}
