package service

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"taskmanagement/internal/logging"
	"taskmanagement/internal/metrics"
	"taskmanagement/internal/model"
	"taskmanagement/internal/repository"
)

// Last updated actions recorded on the task.
const (
	ActionInitiate    = "Initiate"
	ActionConfigure   = "Configure"
	ActionReconfigure = "Reconfigure"
)

// TaskService runs the single-task lifecycle operations.
type TaskService struct {
	tasks    repository.TaskRepositoryInterface
	assigner *AutoAssignment
	now      func() time.Time
	log      *logrus.Entry
}

func NewTaskService(tasks repository.TaskRepositoryInterface, assigner *AutoAssignment, log *logrus.Entry) *TaskService {
	if log == nil {
		log = logging.Nop()
	}
	return &TaskService{tasks: tasks, assigner: assigner, now: time.Now, log: log.WithField("component", "task")}
}

// Initiate creates a task. The explicit insert makes a second initiation of the
// same id fail with repository.ErrTaskAlreadyExists instead of overwriting it.
func (s *TaskService) Initiate(ctx context.Context, taskID string, req model.InitiateTaskRequest) (*model.Task, error) {
	task := req.NewTask(taskID)

	err := s.tasks.Transaction(ctx, func(tx repository.TaskRepositoryInterface) error {
		if err := tx.InsertAndLock(ctx, taskID, task.Created, task.DueDateTime, task.PriorityDate); err != nil {
			return err
		}

		result, err := s.assigner.Resolve(ctx, task)
		if err != nil {
			return err
		}
		Apply(task, result)
		s.touch(task, ActionInitiate)
		task.Indexed = task.Indexable()

		if err := tx.Save(ctx, task); err != nil {
			return err
		}
		metrics.RecordAutoAssignment(PathInitiation, string(result.State))
		return nil
	})
	if err != nil {
		s.recordConflict(err)
		return nil, errors.Wrapf(err, "initiate task %s", taskID)
	}

	s.log.WithFields(logrus.Fields{
		"task_id": taskID,
		"state":   task.State,
		"indexed": task.Indexed,
	}).Info("task initiated")
	return task, nil
}

// Configure re-resolves the assignee of a task under its row lock and mirrors the
// decision into the workflow engine. A concurrent configuration of the same task
// fails at once with repository.ErrTaskLocked.
func (s *TaskService) Configure(ctx context.Context, taskID string) (*model.Task, error) {
	var task *model.Task

	err := s.tasks.Transaction(ctx, func(tx repository.TaskRepositoryInterface) error {
		var err error
		task, err = tx.GetByIDForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if isTerminal(task.State) {
			return errors.Wrapf(ErrTaskTerminated, "state %s", task.State)
		}

		result, err := s.assigner.Resolve(ctx, task)
		if err != nil {
			return err
		}
		if err := s.assigner.ApplyToWorkflow(ctx, taskID, result); err != nil {
			return err
		}
		Apply(task, result)
		s.touch(task, ActionConfigure)
		task.Indexed = task.Indexable()

		if err := tx.Save(ctx, task); err != nil {
			return err
		}
		metrics.RecordAutoAssignment(PathConfiguration, string(result.State))
		return nil
	})
	if err != nil {
		s.recordConflict(err)
		return nil, errors.Wrapf(err, "configure task %s", taskID)
	}

	s.log.WithFields(logrus.Fields{
		"task_id":  taskID,
		"state":    task.State,
		"assignee": task.AssigneeID(),
	}).Info("task configured")
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, errors.Wrapf(err, "get task %s", taskID)
	}
	return task, nil
}

// DeleteCaseTasks removes every task of a case. It is the only physical delete.
func (s *TaskService) DeleteCaseTasks(ctx context.Context, caseID string) (int64, error) {
	if caseID == "" {
		verr := &ValidationError{}
		verr.add("case_id", "is required")
		return 0, verr
	}
	deleted, err := s.tasks.DeleteByCaseID(ctx, caseID)
	if err != nil {
		return 0, errors.Wrapf(err, "delete tasks of case %s", caseID)
	}
	s.log.WithFields(logrus.Fields{"case_id": caseID, "deleted": deleted}).Info("case tasks deleted")
	return deleted, nil
}

func (s *TaskService) touch(task *model.Task, action string) {
	now := s.now()
	task.LastUpdatedTimestamp = &now
	task.LastUpdatedAction = action
}

func (s *TaskService) recordConflict(err error) {
	switch {
	case errors.Is(err, repository.ErrTaskAlreadyExists):
		metrics.RecordConflict("already_exists")
	case errors.Is(err, repository.ErrTaskLocked):
		metrics.RecordConflict("locked")
	}
}

func isTerminal(state model.TaskState) bool {
	switch state {
	case model.StateCompleted, model.StateCancelled, model.StateTerminated:
		return true
	}
	return false
}
