package database

import (
	"gorm.io/gorm"

	"github.com/taskcove/task-tracker-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// VisibleTo restricts a task query to rows the user may observe: tasks they
// created or tasks currently assigned to them. This is the entire
// authorization predicate, pushed down to SQL.
func VisibleTo(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.created_by_id = ? OR tasks.assignee_id = ?", userID, userID)
	}
}
