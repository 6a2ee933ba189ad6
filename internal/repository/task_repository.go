package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskmanagement/internal/model"
	"taskmanagement/internal/signature"
)

// TaskRepositoryInterface is the task persistence contract the services depend on.
type TaskRepositoryInterface interface {
	Transaction(ctx context.Context, fn func(tx TaskRepositoryInterface) error) error
	InsertAndLock(ctx context.Context, taskID string, created, dueDate, priorityDate time.Time) error
	GetByID(ctx context.Context, taskID string) (*model.Task, error)
	GetByIDForUpdate(ctx context.Context, taskID string) (*model.Task, error)
	GetByIDs(ctx context.Context, taskIDs []string) ([]model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	SaveVersioned(ctx context.Context, task *model.Task) error
	MarkToReconfigure(ctx context.Context, caseIDs []string, at time.Time) (int64, error)
	FindIDsToReconfigure(ctx context.Context, after time.Time) ([]string, error)
	FindIDsPendingReconfigurationBefore(ctx context.Context, before time.Time) ([]string, error)
	DeleteByCaseID(ctx context.Context, caseID string) (int64, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

var activeStates = []model.TaskState{model.StateAssigned, model.StateUnassigned}

type TaskRepository struct {
	db    *gorm.DB
	roles *TaskRoleRepository
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, roles: NewTaskRoleRepository(db)}
}

// Transaction runs fn against a repository bound to a single database transaction
func (r *TaskRepository) Transaction(ctx context.Context, fn func(tx TaskRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewTaskRepository(tx))
	})
}

// InsertAndLock inserts the bare task row that starts a task's lifecycle. It is a
// plain INSERT so that a second initiation of the same id fails on the primary key
// instead of overwriting; inside a transaction the new row stays locked until commit.
func (r *TaskRepository) InsertAndLock(ctx context.Context, taskID string, created, dueDate, priorityDate time.Time) error {
	err := r.db.WithContext(ctx).Exec(
		"INSERT INTO tasks (task_id, created, due_date_time, priority_date, state, indexed, version) VALUES (?, ?, ?, ?, ?, false, 0)",
		taskID, created, dueDate, priorityDate, model.StateUnconfigured,
	).Error
	return translateError(err)
}

// GetByID retrieves a task and its role grants without locking
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "task_id = ?", taskID).Error; err != nil {
		return nil, translateError(err)
	}
	return r.withRoles(ctx, &task)
}

// GetByIDForUpdate locks the task row with NOWAIT. A concurrent holder of the
// lock makes this fail immediately with ErrTaskLocked rather than queue.
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		First(&task, "task_id = ?", taskID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return r.withRoles(ctx, &task)
}

// GetByIDs loads tasks with their grants, in the order of taskIDs. Missing ids are skipped.
func (r *TaskRepository) GetByIDs(ctx context.Context, taskIDs []string) ([]model.Task, error) {
	if len(taskIDs) == 0 {
		return []model.Task{}, nil
	}

	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("task_id IN ?", taskIDs).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	roles, err := r.roles.GetByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		t.TaskRoles = roles[t.TaskID]
		byID[t.TaskID] = t
	}
	ordered := make([]model.Task, 0, len(tasks))
	for _, id := range taskIDs {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

// Save writes every column of the task and replaces its grants. It is used on the
// configuration path under the row lock and always bumps the version, so that a
// reconfiguration that read the task earlier fails its optimistic check.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := prepareForWrite(task); err != nil {
		return err
	}
	task.Version++

	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(task)
	if result.Error != nil {
		task.Version--
		return translateError(result.Error)
	}
	return r.roles.ReplaceForTask(ctx, task.TaskID, task.TaskRoles)
}

// SaveVersioned writes the mutable lifecycle columns only if the stored version
// still equals the version that was read. Grants are left untouched.
func (r *TaskRepository) SaveVersioned(ctx context.Context, task *model.Task) error {
	if err := prepareForWrite(task); err != nil {
		return err
	}

	current := task.Version
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("task_id = ? AND version = ?", task.TaskID, current).
		Updates(map[string]any{
			"state":                     task.State,
			"assignee":                  nullableString(task.Assignee),
			"auto_assigned":             task.AutoAssigned,
			"indexed":                   task.Indexed,
			"filter_signatures":         task.FilterSignatures,
			"role_signatures":           task.RoleSignatures,
			"reconfigure_request_time":  nullableTime(task.ReconfigureRequestTime),
			"last_reconfiguration_time": nullableTime(task.LastReconfigurationTime),
			"last_updated_timestamp":    nullableTime(task.LastUpdatedTimestamp),
			"last_updated_action":       task.LastUpdatedAction,
			"version":                   current + 1,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOptimisticLock
	}
	task.Version = current + 1
	return nil
}

// MarkToReconfigure stamps active tasks of the given cases that are not already marked
func (r *TaskRepository) MarkToReconfigure(ctx context.Context, caseIDs []string, at time.Time) (int64, error) {
	if len(caseIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("case_id IN ? AND state IN ? AND reconfigure_request_time IS NULL", caseIDs, activeStates).
		Updates(map[string]any{
			"reconfigure_request_time": at,
			"version":                  gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark tasks to reconfigure: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// FindIDsToReconfigure lists active tasks marked for reconfiguration after the given time
func (r *TaskRepository) FindIDsToReconfigure(ctx context.Context, after time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("reconfigure_request_time > ? AND state IN ?", after, activeStates).
		Order("reconfigure_request_time ASC, task_id ASC").
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find tasks to reconfigure: %w", err)
	}
	return ids, nil
}

// FindIDsPendingReconfigurationBefore lists active tasks still marked since before the given time
func (r *TaskRepository) FindIDsPendingReconfigurationBefore(ctx context.Context, before time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("reconfigure_request_time < ? AND state IN ?", before, activeStates).
		Order("task_id ASC").
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find stale reconfiguration requests: %w", err)
	}
	return ids, nil
}

// DeleteByCaseID physically removes all tasks of a case together with their grants
func (r *TaskRepository) DeleteByCaseID(ctx context.Context, caseID string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM task_roles WHERE task_id IN (SELECT task_id FROM tasks WHERE case_id = ?)", caseID,
		).Error; err != nil {
			return err
		}
		result := tx.Where("case_id = ?", caseID).Delete(&model.Task{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete tasks for case %s: %w", caseID, err)
	}
	return deleted, nil
}

func (r *TaskRepository) withRoles(ctx context.Context, task *model.Task) (*model.Task, error) {
	roles, err := r.roles.GetByTaskID(ctx, task.TaskID)
	if err != nil {
		return nil, err
	}
	task.TaskRoles = roles
	return task, nil
}

// prepareForWrite recomputes the signature columns from the current attributes and grants.
func prepareForWrite(task *model.Task) error {
	if !task.Indexed {
		task.FilterSignatures = nil
		task.RoleSignatures = nil
		return nil
	}
	if !task.Indexable() {
		return fmt.Errorf("%w: task %s", ErrTaskNotIndexable, task.TaskID)
	}
	task.FilterSignatures = signature.FilterSignatures(task)
	task.RoleSignatures = signature.RoleSignatures(task)
	return nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
