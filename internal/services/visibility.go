package services

import "github.com/taskcove/task-tracker-api/internal/models"

// IsVisible reports whether a user may observe a task. A task is visible to
// its creator and to its current assignee, nobody else. There is no role
// hierarchy and no admin override.
func IsVisible(task *models.Task, userID uint64) bool {
	if task == nil {
		return false
	}
	if task.CreatedByID == userID {
		return true
	}
	return task.AssigneeID != nil && *task.AssigneeID == userID
}

// CanMutate reports whether a user may modify or delete a task. Mutation
// permission is identical to visibility; there is no separate edit tier.
func CanMutate(task *models.Task, userID uint64) bool {
	return IsVisible(task, userID)
}
