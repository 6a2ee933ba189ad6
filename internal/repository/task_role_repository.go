package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskmanagement/internal/model"
)

type TaskRoleRepository struct {
	db *gorm.DB
}

func NewTaskRoleRepository(db *gorm.DB) *TaskRoleRepository {
	return &TaskRoleRepository{db: db}
}

// GetByTaskID returns the role grants of a task ordered by role name
func (r *TaskRoleRepository) GetByTaskID(ctx context.Context, taskID string) ([]model.TaskRole, error) {
	var roles []model.TaskRole
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("role_name").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("load task roles: %w", err)
	}
	return roles, nil
}

// ReplaceForTask swaps the grants of a task for the given set. Callers hold the task row lock.
func (r *TaskRoleRepository) ReplaceForTask(ctx context.Context, taskID string, roles []model.TaskRole) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("task_id = ?", taskID).Delete(&model.TaskRole{}).Error; err != nil {
		return fmt.Errorf("delete task roles: %w", err)
	}
	if len(roles) == 0 {
		return nil
	}

	for i := range roles {
		roles[i].TaskID = taskID
		if roles[i].TaskRoleID == uuid.Nil {
			roles[i].TaskRoleID = uuid.New()
		}
	}
	if err := db.Create(&roles).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetByTaskIDs loads grants for several tasks at once, keyed by task id
func (r *TaskRoleRepository) GetByTaskIDs(ctx context.Context, taskIDs []string) (map[string][]model.TaskRole, error) {
	out := make(map[string][]model.TaskRole, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}

	var roles []model.TaskRole
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("task_id, role_name").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("load task roles: %w", err)
	}
	for _, role := range roles {
		out[role.TaskID] = append(out[role.TaskID], role)
	}
	return out, nil
}
