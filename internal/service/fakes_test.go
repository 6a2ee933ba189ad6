package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskmanagement/internal/client/camunda"
	"taskmanagement/internal/model"
	"taskmanagement/internal/query"
	"taskmanagement/internal/repository"
	"taskmanagement/internal/signature"
)

// memoryTasks is an in-memory task store with the same conflict semantics as
// the gorm repository. Writes apply immediately; Transaction does not roll back.
type memoryTasks struct {
	mu     sync.Mutex
	tasks  map[string]*model.Task
	locked map[string]bool

	saveVersionedCalls  map[string]int
	beforeSaveVersioned func(taskID string, call int)
}

var _ repository.TaskRepositoryInterface = (*memoryTasks)(nil)

func newMemoryTasks(tasks ...*model.Task) *memoryTasks {
	m := &memoryTasks{
		tasks:              make(map[string]*model.Task),
		locked:             make(map[string]bool),
		saveVersionedCalls: make(map[string]int),
	}
	for _, t := range tasks {
		m.tasks[t.TaskID] = clone(t)
	}
	return m
}

func clone(t *model.Task) *model.Task {
	c := *t
	if t.Assignee != nil {
		a := *t.Assignee
		c.Assignee = &a
	}
	c.TaskRoles = append([]model.TaskRole(nil), t.TaskRoles...)
	return &c
}

func (m *memoryTasks) stored(id string) *model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		return clone(t)
	}
	return nil
}

func (m *memoryTasks) Transaction(_ context.Context, fn func(tx repository.TaskRepositoryInterface) error) error {
	return fn(m)
}

func (m *memoryTasks) InsertAndLock(_ context.Context, taskID string, created, dueDate, priorityDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[taskID]; ok {
		return repository.ErrTaskAlreadyExists
	}
	m.tasks[taskID] = &model.Task{
		TaskID: taskID, State: model.StateUnconfigured,
		Created: created, DueDateTime: dueDate, PriorityDate: priorityDate,
	}
	return nil
}

func (m *memoryTasks) GetByID(_ context.Context, taskID string) (*model.Task, error) {
	if t := m.stored(taskID); t != nil {
		return t, nil
	}
	return nil, repository.ErrTaskNotFound
}

func (m *memoryTasks) GetByIDForUpdate(ctx context.Context, taskID string) (*model.Task, error) {
	m.mu.Lock()
	locked := m.locked[taskID]
	m.mu.Unlock()
	if locked {
		return nil, repository.ErrTaskLocked
	}
	return m.GetByID(ctx, taskID)
}

func (m *memoryTasks) GetByIDs(_ context.Context, taskIDs []string) ([]model.Task, error) {
	out := make([]model.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		if t := m.stored(id); t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memoryTasks) Save(_ context.Context, task *model.Task) error {
	if task.Indexed && !task.Indexable() {
		return repository.ErrTaskNotIndexable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task.Version++
	m.tasks[task.TaskID] = clone(task)
	return nil
}

func (m *memoryTasks) SaveVersioned(_ context.Context, task *model.Task) error {
	m.mu.Lock()
	m.saveVersionedCalls[task.TaskID]++
	call := m.saveVersionedCalls[task.TaskID]
	hook := m.beforeSaveVersioned
	m.mu.Unlock()

	if hook != nil {
		hook(task.TaskID, call)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.tasks[task.TaskID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	if current.Version != task.Version {
		return repository.ErrOptimisticLock
	}
	task.Version++
	m.tasks[task.TaskID] = clone(task)
	return nil
}

// bumpVersion simulates a write committed by someone else.
func (m *memoryTasks) bumpVersion(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[taskID].Version++
}

func (m *memoryTasks) MarkToReconfigure(_ context.Context, caseIDs []string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cases := make(map[string]bool, len(caseIDs))
	for _, c := range caseIDs {
		cases[c] = true
	}
	var n int64
	for _, t := range m.tasks {
		if cases[t.CaseID] && t.State.Active() && t.ReconfigureRequestTime == nil {
			ts := at
			t.ReconfigureRequestTime = &ts
			t.Version++
			n++
		}
	}
	return n, nil
}

func (m *memoryTasks) FindIDsToReconfigure(_ context.Context, after time.Time) ([]string, error) {
	return m.selectIDs(func(t *model.Task) bool {
		return t.ReconfigureRequestTime != nil && t.ReconfigureRequestTime.After(after)
	}), nil
}

func (m *memoryTasks) FindIDsPendingReconfigurationBefore(_ context.Context, before time.Time) ([]string, error) {
	return m.selectIDs(func(t *model.Task) bool {
		return t.ReconfigureRequestTime != nil && t.ReconfigureRequestTime.Before(before)
	}), nil
}

func (m *memoryTasks) DeleteByCaseID(_ context.Context, caseID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tasks {
		if t.CaseID == caseID {
			delete(m.tasks, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryTasks) selectIDs(match func(t *model.Task) bool) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, t := range m.tasks {
		if t.State.Active() && match(t) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// memorySearch evaluates searches over a memoryTasks store using the stored
// signature semantics: indexed, both signature overlaps, then the column predicates.
type memorySearch struct {
	tasks *memoryTasks

	calls          int
	lastRoleSigs   []string
	lastExcludeIDs []string
}

var _ repository.SearchRepositoryInterface = (*memorySearch)(nil)

func (s *memorySearch) SearchTaskIDs(_ context.Context, firstResult, maxResults int, fs, rs, excl []string, req *model.SearchRequest) ([]string, error) {
	matched := s.match(fs, rs, excl, req)
	ids := make([]string, 0, len(matched))
	for _, t := range matched {
		ids = append(ids, t.TaskID)
	}
	if firstResult >= len(ids) {
		return []string{}, nil
	}
	end := firstResult + maxResults
	if end > len(ids) {
		end = len(ids)
	}
	return ids[firstResult:end], nil
}

func (s *memorySearch) SearchTaskCount(_ context.Context, fs, rs, excl []string, req *model.SearchRequest) (int64, error) {
	return int64(len(s.match(fs, rs, excl, req))), nil
}

func (s *memorySearch) match(fs, rs, excl []string, req *model.SearchRequest) []*model.Task {
	s.calls++
	s.lastRoleSigs = rs
	s.lastExcludeIDs = excl

	states := query.EffectiveStates(req)
	var out []*model.Task
	s.tasks.mu.Lock()
	for _, stored := range s.tasks.tasks {
		t := clone(stored)
		if !t.Indexed ||
			!overlaps(signature.FilterSignatures(t), fs) ||
			!overlaps(signature.RoleSignatures(t), rs) ||
			!contains(states, string(t.State)) ||
			contains(excl, t.CaseID) {
			continue
		}
		if req.AvailableTasksOnly() {
			if t.Assignee != nil {
				continue
			}
		} else if len(req.Users) > 0 && !contains(req.Users, t.AssigneeID()) {
			continue
		}
		if len(req.CaseIDs) > 0 && !contains(req.CaseIDs, t.CaseID) {
			continue
		}
		if len(req.TaskTypes) > 0 && !contains(req.TaskTypes, t.TaskType) {
			continue
		}
		out = append(out, t)
	}
	s.tasks.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MajorPriority != b.MajorPriority {
			return a.MajorPriority < b.MajorPriority
		}
		if !a.PriorityDate.Equal(b.PriorityDate) {
			return a.PriorityDate.Before(b.PriorityDate)
		}
		if a.MinorPriority != b.MinorPriority {
			return a.MinorPriority < b.MinorPriority
		}
		return a.TaskID < b.TaskID
	})
	return out
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// fakeRoles serves role assignments per case and per actor.
type fakeRoles struct {
	mu        sync.Mutex
	byCase    map[string][]model.RoleAssignment
	byActor   map[string][]model.RoleAssignment
	caseErr   map[string]error
	actorErr  error
	caseCalls int
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		byCase:  make(map[string][]model.RoleAssignment),
		byActor: make(map[string][]model.RoleAssignment),
		caseErr: make(map[string]error),
	}
}

func (f *fakeRoles) QueryRoleAssignmentsForCase(_ context.Context, caseID string) ([]model.RoleAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.caseCalls++
	if err := f.caseErr[caseID]; err != nil {
		return nil, err
	}
	return f.byCase[caseID], nil
}

func (f *fakeRoles) GetRoleAssignmentsForActor(_ context.Context, actorID string) ([]model.RoleAssignment, error) {
	if f.actorErr != nil {
		return nil, f.actorErr
	}
	return f.byActor[actorID], nil
}

// fakeWorkflow keeps task variables in memory and records the calls made.
type fakeWorkflow struct {
	mu       sync.Mutex
	vars     map[string]map[string]camunda.Variable
	updates  []string
	assigned []string
	err      error
}

func newFakeWorkflow() *fakeWorkflow {
	return &fakeWorkflow{vars: make(map[string]map[string]camunda.Variable)}
}

func (f *fakeWorkflow) setState(taskID, state string) {
	f.vars[taskID] = map[string]camunda.Variable{camunda.VariableTaskState: camunda.StringVariable(state)}
}

func (f *fakeWorkflow) GetTaskVariables(_ context.Context, taskID string) (map[string]camunda.Variable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.vars[taskID], nil
}

func (f *fakeWorkflow) AddLocalVariables(_ context.Context, taskID string, vars camunda.Variables) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vars[taskID] == nil {
		f.vars[taskID] = make(map[string]camunda.Variable)
	}
	for name, v := range vars.Map() {
		f.vars[taskID][name] = v
	}
	f.updates = append(f.updates, taskID)
	return nil
}

func (f *fakeWorkflow) AssignTask(_ context.Context, taskID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, taskID+"="+userID)
	return nil
}

func caseworker(actorID, caseID string) model.RoleAssignment {
	return model.RoleAssignment{
		ActorID:        actorID,
		RoleName:       "tribunal-caseworker",
		RoleType:       "CASE",
		Classification: model.ClassificationPublic,
		GrantType:      model.GrantTypeSpecific,
		Attributes:     map[string]string{model.AttributeCaseID: caseID},
	}
}

func activeTask(id, caseID string, state model.TaskState) *model.Task {
	return &model.Task{
		TaskID:                 id,
		TaskType:               "reviewTheAppeal",
		State:                  state,
		Jurisdiction:           "IA",
		Region:                 "1",
		Location:               "765324",
		CaseID:                 caseID,
		SecurityClassification: model.ClassificationPublic,
		MajorPriority:          5000,
		MinorPriority:          500,
		PriorityDate:           time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		Indexed:                true,
		TaskRoles: []model.TaskRole{
			{RoleName: "tribunal-caseworker", Read: true, Own: true, Execute: true, AutoAssignable: true},
		},
	}
}
