package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskmanagement/internal/logging"
	"taskmanagement/internal/metrics"
	"taskmanagement/internal/model"
	"taskmanagement/internal/repository"
	"taskmanagement/internal/retry"
)

// Reassigner re-resolves the assignee of a persisted task in place.
type Reassigner interface {
	Reassign(ctx context.Context, task *model.Task) (model.AutoAssignmentResult, error)
}

// OperationResult summarises a task operation run.
type OperationResult struct {
	RunID     string              `json:"run_id"`
	Type      model.OperationType `json:"type"`
	Matched   int64               `json:"matched"`
	Succeeded int                 `json:"succeeded"`
	Failed    []string            `json:"failed_task_ids,omitempty"`
}

// ConflictPolicy retries a unit of work only when it lost an optimistic lock.
func ConflictPolicy(maxAttempts int, baseDelay, maxDelay time.Duration) retry.Policy {
	return retry.Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		Retryable: func(err error) bool {
			return errors.Is(err, repository.ErrOptimisticLock)
		},
	}
}

// TaskOperationService runs batch operations over tasks. Reconfiguration
// commits every task in its own transaction, so a failing task never undoes
// the tasks committed before it.
type TaskOperationService struct {
	tasks    repository.TaskRepositoryInterface
	assigner Reassigner
	policy   retry.Policy
	now      func() time.Time
	log      *logrus.Entry
}

func NewTaskOperationService(
	tasks repository.TaskRepositoryInterface,
	assigner Reassigner,
	policy retry.Policy,
	log *logrus.Entry,
) *TaskOperationService {
	if log == nil {
		log = logging.Nop()
	}
	return &TaskOperationService{
		tasks:    tasks,
		assigner: assigner,
		policy:   policy,
		now:      time.Now,
		log:      log.WithField("component", "task-operation"),
	}
}

func (s *TaskOperationService) PerformOperation(ctx context.Context, req model.TaskOperationRequest) (*OperationResult, error) {
	runID := req.Operation.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := s.log.WithFields(logrus.Fields{"run_id": runID, "operation": req.Operation.Type})

	switch req.Operation.Type {
	case model.OperationMarkToReconfigure:
		return s.markToReconfigure(ctx, runID, req, log)
	case model.OperationExecuteReconfigure:
		return s.executeReconfigure(ctx, runID, req, log)
	default:
		return nil, errors.Wrapf(ErrUnsupportedOperation, "%q", req.Operation.Type)
	}
}

func (s *TaskOperationService) markToReconfigure(ctx context.Context, runID string, req model.TaskOperationRequest, log *logrus.Entry) (*OperationResult, error) {
	caseIDs := req.CaseIDs()
	if len(caseIDs) == 0 {
		verr := &ValidationError{}
		verr.add("task_filter", "a case_id filter with operator IN is required")
		return nil, verr
	}

	marked, err := s.tasks.MarkToReconfigure(ctx, caseIDs, s.now())
	if err != nil {
		return nil, errors.Wrap(err, "mark tasks to reconfigure")
	}
	log.WithField("marked", marked).Info("tasks marked to reconfigure")
	return &OperationResult{RunID: runID, Type: req.Operation.Type, Matched: marked, Succeeded: int(marked)}, nil
}

func (s *TaskOperationService) executeReconfigure(ctx context.Context, runID string, req model.TaskOperationRequest, log *logrus.Entry) (*OperationResult, error) {
	after, ok, err := req.ReconfigureAfter()
	if err != nil || !ok {
		verr := &ValidationError{}
		verr.add("task_filter", "a reconfigure_request_time filter with operator AFTER and an RFC3339 value is required")
		return nil, verr
	}

	started := s.now()
	runCtx := ctx
	if req.Operation.MaxTimeLimit > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(ctx, started.Add(time.Duration(req.Operation.MaxTimeLimit)*time.Second))
		defer cancel()
	}

	ids, err := s.tasks.FindIDsToReconfigure(ctx, after)
	if err != nil {
		return nil, errors.Wrap(err, "find tasks to reconfigure")
	}
	result := &OperationResult{RunID: runID, Type: req.Operation.Type, Matched: int64(len(ids))}
	log.WithField("tasks", len(ids)).Info("reconfiguration started")

	failed := make(map[string]struct{})
	for i, id := range ids {
		if runCtx.Err() != nil {
			for _, skipped := range ids[i:] {
				failed[skipped] = struct{}{}
			}
			log.WithField("not_reached", len(ids)-i).Warn("reconfiguration time limit reached")
			break
		}

		attempts, err := s.policy.Do(runCtx, func(ctx context.Context, _ int) error {
			return s.reconfigureTask(ctx, id)
		})
		taskLog := log.WithFields(logrus.Fields{"task_id": id, "attempts": attempts})
		if err != nil {
			failed[id] = struct{}{}
			metrics.RecordReconfiguration(metrics.ResultFailed, attempts)
			taskLog.WithError(err).Error("task reconfiguration failed")
			continue
		}
		result.Succeeded++
		metrics.RecordReconfiguration(metrics.ResultSuccess, attempts)
		taskLog.Debug("task reconfigured")
	}

	if window := req.Operation.RetryWindowHours; window > 0 {
		stale, err := s.tasks.FindIDsPendingReconfigurationBefore(ctx, started.Add(-time.Duration(window)*time.Hour))
		if err != nil {
			return nil, errors.Wrap(err, "find stale reconfiguration requests")
		}
		for _, id := range stale {
			failed[id] = struct{}{}
		}
	}

	if len(failed) > 0 {
		result.Failed = sortedKeys(failed)
		log.WithField("failed", len(result.Failed)).Error("reconfiguration finished with failures")
		return result, &ReconfigurationError{RunID: runID, FailedTaskIDs: result.Failed}
	}
	log.WithField("succeeded", result.Succeeded).Info("reconfiguration finished")
	return result, nil
}

// reconfigureTask is one resolve-and-persist cycle. It reads the task afresh so a
// retry after an optimistic lock conflict works on the latest version.
func (s *TaskOperationService) reconfigureTask(ctx context.Context, taskID string) error {
	return s.tasks.Transaction(ctx, func(tx repository.TaskRepositoryInterface) error {
		task, err := tx.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.State.Active() || task.ReconfigureRequestTime == nil {
			return nil
		}

		if _, err := s.assigner.Reassign(ctx, task); err != nil {
			return err
		}
		now := s.now()
		task.ReconfigureRequestTime = nil
		task.LastReconfigurationTime = &now
		task.LastUpdatedTimestamp = &now
		task.LastUpdatedAction = ActionReconfigure

		return tx.SaveVersioned(ctx, task)
	})
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
