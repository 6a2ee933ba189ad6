package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskmanagement/internal/model"
	"taskmanagement/internal/repository"
	"taskmanagement/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initiateRequest(caseID string) model.InitiateTaskRequest {
	created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return model.InitiateTaskRequest{
		Name:                   "Review the appeal",
		Type:                   "reviewTheAppeal",
		Created:                created,
		DueDate:                created.Add(72 * time.Hour),
		Jurisdiction:           "IA",
		Region:                 "1",
		Location:               "765324",
		CaseID:                 caseID,
		SecurityClassification: model.ClassificationPublic,
		WorkType:               "routine_work",
		AdditionalProperties:   map[string]string{"key1": "value1"},
		Roles: []model.TaskRole{
			{RoleName: "tribunal-caseworker", Read: true, Own: true, AutoAssignable: true},
		},
	}
}

func setupTaskService(tasks ...*model.Task) (*service.TaskService, *memoryTasks, *fakeRoles, *fakeWorkflow) {
	store := newMemoryTasks(tasks...)
	roles := newFakeRoles()
	workflow := newFakeWorkflow()
	return service.NewTaskService(store, service.NewAutoAssignment(roles, workflow, nil), nil), store, roles, workflow
}

func TestInitiate_AssignsAndIndexes(t *testing.T) {
	// Arrange
	svc, store, roles, _ := setupTaskService()
	roles.byCase["100"] = []model.RoleAssignment{caseworker("actor-1", "100")}

	// Act
	task, err := svc.Initiate(context.Background(), "task-1", initiateRequest("100"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.StateAssigned, task.State)
	assert.Equal(t, "actor-1", task.AssigneeID())
	assert.True(t, task.Indexed)

	stored := store.stored("task-1")
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, service.ActionInitiate, stored.LastUpdatedAction)
	assert.Equal(t, "value1", stored.Properties()["key1"])
	assert.Equal(t, stored.DueDateTime, stored.PriorityDate)
	require.Len(t, stored.TaskRoles, 1)
}

func TestInitiate_IncompleteTaskIsNotIndexed(t *testing.T) {
	// Arrange
	svc, store, _, _ := setupTaskService()
	req := initiateRequest("100")
	req.Location = ""

	// Act
	task, err := svc.Initiate(context.Background(), "task-1", req)

	// Assert
	require.NoError(t, err)
	assert.False(t, task.Indexed)
	assert.Equal(t, model.StateUnassigned, store.stored("task-1").State)
}

func TestInitiate_AtMostOnce(t *testing.T) {
	// Arrange
	svc, _, _, _ := setupTaskService()
	var wg sync.WaitGroup
	errs := make([]error, 2)

	// Act
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Initiate(context.Background(), "task-1", initiateRequest("100"))
		}(i)
	}
	wg.Wait()

	// Assert
	succeeded, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, repository.ErrTaskAlreadyExists):
			conflicts++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)
}

func TestConfigure_LockedTaskFailsFast(t *testing.T) {
	// Arrange
	svc, store, roles, workflow := setupTaskService(activeTask("task-1", "100", model.StateUnassigned))
	store.locked["task-1"] = true

	// Act
	task, err := svc.Configure(context.Background(), "task-1")

	// Assert
	assert.Nil(t, task)
	assert.ErrorIs(t, err, repository.ErrTaskLocked)
	assert.True(t, repository.IsConflict(err))
	assert.Equal(t, 0, roles.caseCalls)
	assert.Empty(t, workflow.updates)
}

func TestConfigure_TerminalTaskIsRejected(t *testing.T) {
	svc, _, _, _ := setupTaskService(activeTask("task-1", "100", model.StateCompleted))

	_, err := svc.Configure(context.Background(), "task-1")

	assert.ErrorIs(t, err, service.ErrTaskTerminated)
}

func TestConfigure_UpdatesWorkflowAndStore(t *testing.T) {
	// Arrange
	svc, store, roles, workflow := setupTaskService(activeTask("task-1", "100", model.StateUnassigned))
	roles.byCase["100"] = []model.RoleAssignment{caseworker("actor-7", "100")}
	workflow.setState("task-1", "UNASSIGNED")

	// Act
	task, err := svc.Configure(context.Background(), "task-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.StateAssigned, task.State)
	assert.Equal(t, []string{"task-1=actor-7"}, workflow.assigned)

	stored := store.stored("task-1")
	assert.Equal(t, "actor-7", stored.AssigneeID())
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, service.ActionConfigure, stored.LastUpdatedAction)
}

func TestConfigure_NotFound(t *testing.T) {
	svc, _, _, _ := setupTaskService()

	_, err := svc.Configure(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestDeleteCaseTasks(t *testing.T) {
	// Arrange
	svc, store, _, _ := setupTaskService(
		activeTask("task-1", "100", model.StateAssigned),
		activeTask("task-2", "100", model.StateCompleted),
		activeTask("task-3", "200", model.StateAssigned),
	)

	// Act
	deleted, err := svc.DeleteCaseTasks(context.Background(), "100")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Nil(t, store.stored("task-1"))
	assert.NotNil(t, store.stored("task-3"))
}

func TestDeleteCaseTasks_RequiresCaseID(t *testing.T) {
	svc, _, _, _ := setupTaskService()

	_, err := svc.DeleteCaseTasks(context.Background(), "")

	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}
