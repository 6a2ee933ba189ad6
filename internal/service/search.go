package service

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"taskmanagement/internal/client/roleassignment"
	"taskmanagement/internal/logging"
	"taskmanagement/internal/metrics"
	"taskmanagement/internal/model"
	"taskmanagement/internal/query"
	"taskmanagement/internal/repository"
	"taskmanagement/internal/signature"
)

const MaxPageSize = 500

type SearchService struct {
	store repository.SearchRepositoryInterface
	tasks repository.TaskRepositoryInterface
	roles roleassignment.Interface
	log   *logrus.Entry
}

func NewSearchService(
	search repository.SearchRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
	roles roleassignment.Interface,
	log *logrus.Entry,
) *SearchService {
	if log == nil {
		log = logging.Nop()
	}
	return &SearchService{store: search, tasks: tasks, roles: roles, log: log.WithField("component", "search")}
}

// Validate rejects a malformed request. It never touches the store.
func Validate(firstResult, maxResults int, req *model.SearchRequest) error {
	verr := &ValidationError{}
	if firstResult < 0 {
		verr.add("first_result", "must not be negative")
	}
	if maxResults < 1 || maxResults > MaxPageSize {
		verr.add("max_results", "must be between 1 and %d", MaxPageSize)
	}
	for _, wt := range req.WorkTypes {
		if !model.IsAllowedWorkType(wt) {
			verr.add("work_types", "'%s' is not a valid work type", wt)
		}
	}
	for _, st := range req.CFTTaskStates {
		if !st.Valid() {
			verr.add("cft_task_states", "'%s' is not a valid task state", st)
		}
	}
	switch req.RequestContext {
	case "", model.RequestContextAllWork, model.RequestContextAvailableTasks:
	default:
		verr.add("request_context", "'%s' is not a valid request context", req.RequestContext)
	}
	for _, p := range req.SortingParameters {
		if _, ok := query.SortColumn(p.SortBy); !ok {
			verr.add("sorting_parameters", "'%s' is not a sortable field", p.SortBy)
		}
	}
	return verr.orNil()
}

// Search returns one page of the tasks the actor may see, with the total number of matches.
func (s *SearchService) Search(ctx context.Context, actorID string, firstResult, maxResults int, req *model.SearchRequest) (*model.SearchResult, error) {
	start := time.Now()
	result, err := s.run(ctx, actorID, firstResult, maxResults, req)

	outcome := metrics.ResultSuccess
	if err != nil {
		outcome = metrics.ResultError
	}
	metrics.ObserveSearch(string(req.RequestContext), outcome, time.Since(start))
	return result, err
}

func (s *SearchService) run(ctx context.Context, actorID string, firstResult, maxResults int, req *model.SearchRequest) (*model.SearchResult, error) {
	if err := Validate(firstResult, maxResults, req); err != nil {
		return nil, err
	}

	assignments, err := s.roles.GetRoleAssignmentsForActor(ctx, actorID)
	if err != nil {
		return nil, errors.Wrapf(err, "get role assignments for actor %s", actorID)
	}

	permission := model.PermissionRead
	if req.AvailableTasksOnly() {
		permission = model.PermissionOwn
	}
	roleSignatures := signature.SearchRoleSignatures(assignments, permission)
	if len(roleSignatures) == 0 {
		s.log.WithField("actor_id", actorID).Debug("actor holds no role that can see tasks")
		return emptyResult(), nil
	}
	filterSignatures := signature.SearchFilterSignatures(req)
	excluded := signature.ExcludedCaseIDs(assignments)

	count, err := s.store.SearchTaskCount(ctx, filterSignatures, roleSignatures, excluded, req)
	if err != nil {
		return nil, errors.Wrap(err, "count tasks")
	}
	if count == 0 || int64(firstResult) >= count {
		return &model.SearchResult{TaskIDs: []string{}, Tasks: []model.Task{}, TotalCount: count}, nil
	}

	ids, err := s.store.SearchTaskIDs(ctx, firstResult, maxResults, filterSignatures, roleSignatures, excluded, req)
	if err != nil {
		return nil, errors.Wrap(err, "search task ids")
	}
	tasks, err := s.tasks.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "load tasks")
	}

	s.log.WithFields(logrus.Fields{
		"actor_id": actorID,
		"returned": len(ids),
		"total":    count,
	}).Debug("search completed")
	return &model.SearchResult{TaskIDs: ids, Tasks: tasks, TotalCount: count}, nil
}

func emptyResult() *model.SearchResult {
	return &model.SearchResult{TaskIDs: []string{}, Tasks: []model.Task{}}
}
