package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskcove/task-tracker-api/internal/dto"
	apierrors "github.com/taskcove/task-tracker-api/internal/errors"
	"github.com/taskcove/task-tracker-api/internal/middleware"
	"github.com/taskcove/task-tracker-api/internal/models"
	"github.com/taskcove/task-tracker-api/internal/services"
	"github.com/taskcove/task-tracker-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the current user, optionally
// filtered by status.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		ViewerID: userID,
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		value, err := strconv.ParseUint(statusStr, 10, 8)
		if err != nil {
			apierrors.BadRequest(c, "Invalid status value")
			return
		}
		status := models.TaskStatus(value)
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// CreateTask creates a new task owned by the current user. A created_by
// value in the payload is discarded.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title" binding:"required"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		Assignee    *uint64           `json:"assignee"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssigneeID:  req.Assignee,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a task by ID. A task that does not exist and a task the
// user may not see produce the same 404.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := requestIdentity(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask partially updates a task. Fields absent from the payload stay
// untouched; created_by and created_at are ignored if supplied.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := requestIdentity(c)
	if !ok {
		return
	}

	// Parse raw JSON to distinguish absent fields from null values
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid title value")
			return
		}
		input.Title = &titleStr
	}
	if description, ok := rawReq["description"]; ok {
		descStr, ok := description.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid description value")
			return
		}
		input.Description = &descStr
	}
	if status, ok := rawReq["status"]; ok {
		statusNum, ok := status.(float64)
		if !ok || statusNum != math.Trunc(statusNum) || statusNum < 0 || statusNum > 255 {
			apierrors.BadRequest(c, "Invalid status value")
			return
		}
		statusVal := models.TaskStatus(statusNum)
		input.Status = &statusVal
	}
	if assignee, ok := rawReq["assignee"]; ok {
		if assignee == nil {
			input.ClearAssignee = true
		} else {
			assigneeNum, ok := assignee.(float64)
			if !ok || assigneeNum != math.Trunc(assigneeNum) || assigneeNum < 1 {
				apierrors.BadRequest(c, "Invalid assignee value")
				return
			}
			assigneeID := uint64(assigneeNum)
			input.AssigneeID = &assigneeID
		}
	}

	task, err := h.taskService.UpdateTask(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := requestIdentity(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// requestIdentity extracts the authenticated user ID and the task ID from
// the request, responding on failure.
func requestIdentity(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return userID, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{"title": "Title is required"})
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{"status": err.Error()})
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{"assignee": err.Error()})
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
