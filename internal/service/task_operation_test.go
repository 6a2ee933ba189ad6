package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskmanagement/internal/model"
	"taskmanagement/internal/retry"
	"taskmanagement/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markedAt = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func markedTask(id, caseID string) *model.Task {
	task := activeTask(id, caseID, model.StateUnassigned)
	ts := markedAt
	task.ReconfigureRequestTime = &ts
	task.Version = 1
	return task
}

func noSleepPolicy() retry.Policy {
	return service.ConflictPolicy(4, time.Millisecond, time.Millisecond).
		WithSleep(func(context.Context, time.Duration) error { return nil })
}

func executeRequest(after time.Time) model.TaskOperationRequest {
	return model.TaskOperationRequest{
		Operation: model.TaskOperation{Type: model.OperationExecuteReconfigure, RunID: "run-1"},
		TaskFilters: []model.TaskFilter{{
			Field:    model.FilterReconfigureRequestTime,
			Value:    model.FilterValue{after.Format(time.RFC3339)},
			Operator: model.OperatorAfter,
		}},
	}
}

func setupOperations(tasks ...*model.Task) (*service.TaskOperationService, *memoryTasks, *fakeRoles) {
	store := newMemoryTasks(tasks...)
	roles := newFakeRoles()
	assigner := service.NewAutoAssignment(roles, newFakeWorkflow(), nil)
	return service.NewTaskOperationService(store, assigner, noSleepPolicy(), nil), store, roles
}

func TestExecuteReconfigure_BatchIsolation(t *testing.T) {
	// Arrange
	svc, store, roles := setupOperations(
		markedTask("task-1", "100"),
		markedTask("task-2", "200"),
		markedTask("task-3", "300"),
	)
	roles.byCase["100"] = []model.RoleAssignment{caseworker("actor-1", "100")}
	roles.caseErr["200"] = errors.New("role assignment service unavailable")
	roles.byCase["300"] = []model.RoleAssignment{caseworker("actor-3", "300")}

	// Act
	result, err := svc.PerformOperation(context.Background(), executeRequest(markedAt.Add(-time.Hour)))

	// Assert
	var rerr *service.ReconfigurationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "run-1", rerr.RunID)
	assert.Equal(t, []string{"task-2"}, rerr.FailedTaskIDs)
	assert.Equal(t, 2, result.Succeeded)

	for id, actor := range map[string]string{"task-1": "actor-1", "task-3": "actor-3"} {
		stored := store.stored(id)
		assert.Equal(t, model.StateAssigned, stored.State, id)
		assert.Equal(t, actor, stored.AssigneeID(), id)
		assert.Nil(t, stored.ReconfigureRequestTime, id)
		assert.NotNil(t, stored.LastReconfigurationTime, id)
		assert.Equal(t, 2, stored.Version, id)
	}

	unchanged := store.stored("task-2")
	assert.Equal(t, model.StateUnassigned, unchanged.State)
	assert.Nil(t, unchanged.Assignee)
	assert.NotNil(t, unchanged.ReconfigureRequestTime)
	assert.Equal(t, 1, unchanged.Version)
	assert.Equal(t, 0, store.saveVersionedCalls["task-2"], "a non-retryable failure is not retried")
}

func TestExecuteReconfigure_RetryBound(t *testing.T) {
	// Arrange
	svc, store, roles := setupOperations(markedTask("task-1", "100"))
	roles.byCase["100"] = []model.RoleAssignment{caseworker("actor-1", "100")}
	store.beforeSaveVersioned = func(taskID string, _ int) { store.bumpVersion(taskID) }

	// Act
	_, err := svc.PerformOperation(context.Background(), executeRequest(markedAt.Add(-time.Hour)))

	// Assert
	var rerr *service.ReconfigurationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []string{"task-1"}, rerr.FailedTaskIDs)
	assert.Equal(t, 4, store.saveVersionedCalls["task-1"])
	assert.Equal(t, 4, roles.caseCalls)
}

func TestExecuteReconfigure_ConcurrentConfigurationWins(t *testing.T) {
	// Arrange
	task := markedTask("task-1", "100")
	svc, store, roles := setupOperations(task)
	roles.byCase["100"] = []model.RoleAssignment{caseworker("actor-1", "100")}

	workflow := newFakeWorkflow()
	configure := service.NewTaskService(store, service.NewAutoAssignment(roles, workflow, nil), nil)
	store.beforeSaveVersioned = func(taskID string, call int) {
		if call != 1 {
			return
		}
		// a configuration call commits between the reconfiguration's read and write
		_, err := configure.Configure(context.Background(), taskID)
		require.NoError(t, err)
	}

	// Act
	result, err := svc.PerformOperation(context.Background(), executeRequest(markedAt.Add(-time.Hour)))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, store.saveVersionedCalls["task-1"], "the stale write is rejected and retried once")

	stored := store.stored("task-1")
	assert.Equal(t, model.StateAssigned, stored.State)
	assert.Equal(t, "actor-1", stored.AssigneeID())
	assert.Nil(t, stored.ReconfigureRequestTime)
	assert.Equal(t, service.ActionReconfigure, stored.LastUpdatedAction)
	assert.Equal(t, 3, stored.Version)
}

func TestExecuteReconfigure_TimeLimitReportsUnreachedTasks(t *testing.T) {
	// Arrange
	store := newMemoryTasks(markedTask("task-1", "100"), markedTask("task-2", "200"))
	svc := service.NewTaskOperationService(store, blockingReassigner{}, noSleepPolicy(), nil)
	req := executeRequest(markedAt.Add(-time.Hour))
	req.Operation.MaxTimeLimit = 1

	// Act
	_, err := svc.PerformOperation(context.Background(), req)

	// Assert
	var rerr *service.ReconfigurationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []string{"task-1", "task-2"}, rerr.FailedTaskIDs)
	assert.NotNil(t, store.stored("task-2").ReconfigureRequestTime)
}

func TestExecuteReconfigure_ReportsRequestsOutsideRetryWindow(t *testing.T) {
	// Arrange
	stale := markedTask("task-old", "100")
	old := time.Now().Add(-48 * time.Hour)
	stale.ReconfigureRequestTime = &old
	svc, _, _ := setupOperations(stale)
	req := executeRequest(time.Now().Add(-time.Hour))
	req.Operation.RetryWindowHours = 24

	// Act
	result, err := svc.PerformOperation(context.Background(), req)

	// Assert
	var rerr *service.ReconfigurationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, []string{"task-old"}, rerr.FailedTaskIDs)
	assert.Equal(t, int64(0), result.Matched)
}

func TestExecuteReconfigure_RequiresAfterFilter(t *testing.T) {
	svc, _, _ := setupOperations()
	req := model.TaskOperationRequest{Operation: model.TaskOperation{Type: model.OperationExecuteReconfigure}}

	_, err := svc.PerformOperation(context.Background(), req)

	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMarkToReconfigure(t *testing.T) {
	// Arrange
	svc, store, _ := setupOperations(
		activeTask("task-1", "100", model.StateAssigned),
		activeTask("task-2", "100", model.StateCompleted),
		activeTask("task-3", "200", model.StateUnassigned),
	)
	req := model.TaskOperationRequest{
		Operation: model.TaskOperation{Type: model.OperationMarkToReconfigure},
		TaskFilters: []model.TaskFilter{{
			Field: model.FilterCaseID, Value: model.FilterValue{"100"}, Operator: model.OperatorIn,
		}},
	}

	// Act
	result, err := svc.PerformOperation(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Matched)
	assert.NotEmpty(t, result.RunID)
	assert.NotNil(t, store.stored("task-1").ReconfigureRequestTime)
	assert.Nil(t, store.stored("task-2").ReconfigureRequestTime)
	assert.Nil(t, store.stored("task-3").ReconfigureRequestTime)
}

func TestPerformOperation_Unsupported(t *testing.T) {
	svc, _, _ := setupOperations()

	_, err := svc.PerformOperation(context.Background(), model.TaskOperationRequest{
		Operation: model.TaskOperation{Type: "CLEANUP_SENSITIVE_LOG_ENTRIES"},
	})

	assert.ErrorIs(t, err, service.ErrUnsupportedOperation)
}

type blockingReassigner struct{}

func (blockingReassigner) Reassign(ctx context.Context, _ *model.Task) (model.AutoAssignmentResult, error) {
	<-ctx.Done()
	return model.AutoAssignmentResult{}, ctx.Err()
}
