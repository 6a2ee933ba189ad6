package service

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"taskmanagement/internal/client/camunda"
	"taskmanagement/internal/client/roleassignment"
	"taskmanagement/internal/logging"
	"taskmanagement/internal/metrics"
	"taskmanagement/internal/model"
)

// Paths label where an auto-assignment decision was applied.
const (
	PathInitiation      = "initiation"
	PathConfiguration   = "configuration"
	PathReconfiguration = "reconfiguration"
)

// Decide picks the assignee of a task from the case role assignments, in the
// order the Role Assignment Service returned them. The first entry wins; there
// is no further ranking. Entries without an actor and EXCLUDED grants are skipped.
func Decide(assignments []model.RoleAssignment) model.AutoAssignmentResult {
	for _, ra := range assignments {
		if ra.ActorID == "" || ra.GrantType == model.GrantTypeExcluded {
			continue
		}
		return model.AutoAssignmentResult{State: model.StateAssigned, Assignee: ra.ActorID}
	}
	return model.AutoAssignmentResult{State: model.StateUnassigned}
}

// Apply writes a decision onto the task.
func Apply(task *model.Task, result model.AutoAssignmentResult) {
	task.State = result.State
	if result.Assigned() {
		assignee := result.Assignee
		task.Assignee = &assignee
		task.AutoAssigned = true
		return
	}
	task.Assignee = nil
	task.AutoAssigned = false
}

// AutoAssignment resolves and applies auto-assignment decisions.
// Failures of the Role Assignment Service are returned unchanged in kind and never retried here.
type AutoAssignment struct {
	roles    roleassignment.Interface
	workflow camunda.Interface
	log      *logrus.Entry
}

func NewAutoAssignment(roles roleassignment.Interface, workflow camunda.Interface, log *logrus.Entry) *AutoAssignment {
	if log == nil {
		log = logging.Nop()
	}
	return &AutoAssignment{roles: roles, workflow: workflow, log: log.WithField("component", "auto-assignment")}
}

// Resolve queries the case role assignments and decides the task's assignee.
func (a *AutoAssignment) Resolve(ctx context.Context, task *model.Task) (model.AutoAssignmentResult, error) {
	assignments, err := a.roles.QueryRoleAssignmentsForCase(ctx, task.CaseID)
	if err != nil {
		return model.AutoAssignmentResult{}, errors.Wrapf(err, "query role assignments for case %s", task.CaseID)
	}
	return Decide(assignments), nil
}

// ApplyToWorkflow mirrors a decision into the workflow engine. The task state
// variable is written only when it differs from the current one, and the
// explicit assignment call is made only on a transition into ASSIGNED, so
// applying the same decision twice has no further side effects.
func (a *AutoAssignment) ApplyToWorkflow(ctx context.Context, taskID string, result model.AutoAssignmentResult) error {
	vars, err := a.workflow.GetTaskVariables(ctx, taskID)
	if err != nil {
		return errors.Wrapf(err, "read workflow variables of task %s", taskID)
	}
	current, _ := camunda.StringValue(vars, camunda.VariableTaskState)
	if current == string(result.State) {
		a.log.WithField("task_id", taskID).Debug("workflow task state already up to date")
		return nil
	}

	if err := a.workflow.AddLocalVariables(ctx, taskID, camunda.TaskStateUpdate(string(result.State))); err != nil {
		return errors.Wrapf(err, "update workflow state of task %s", taskID)
	}
	if result.Assigned() {
		if err := a.workflow.AssignTask(ctx, taskID, result.Assignee); err != nil {
			return errors.Wrapf(err, "assign workflow task %s", taskID)
		}
	}
	return nil
}

// Reassign resolves the task's assignee and applies it to the persisted task only.
func (a *AutoAssignment) Reassign(ctx context.Context, task *model.Task) (model.AutoAssignmentResult, error) {
	result, err := a.Resolve(ctx, task)
	if err != nil {
		return result, err
	}
	Apply(task, result)
	metrics.RecordAutoAssignment(PathReconfiguration, string(result.State))
	a.log.WithFields(logrus.Fields{
		"task_id":  task.TaskID,
		"state":    result.State,
		"assignee": result.Assignee,
	}).Debug("task reassigned")
	return result, nil
}
