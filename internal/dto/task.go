package dto

import (
	"time"

	"github.com/taskcove/task-tracker-api/internal/models"
	"github.com/taskcove/task-tracker-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                uint64            `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Status            models.TaskStatus `json:"status"`
	StatusDisplay     string            `json:"status_display"`
	CreatedBy         uint64            `json:"created_by"`
	CreatedByUsername string            `json:"created_by_username"`
	Assignee          *uint64           `json:"assignee"`
	AssigneeUsername  string            `json:"assignee_username"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		StatusDisplay: task.Status.Display(),
		CreatedBy:     task.CreatedByID,
		Assignee:      task.AssigneeID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	// Usernames come from preloaded relations
	if task.CreatedBy.ID != 0 {
		dto.CreatedByUsername = task.CreatedBy.Username
	}
	if task.Assignee != nil {
		dto.AssigneeUsername = task.Assignee.Username
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
