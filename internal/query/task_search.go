package query

import (
	"strings"

	"taskmanagement/internal/model"
)

var sortColumns = map[model.SortField]string{
	model.SortByDueDate:         "t.due_date_time",
	model.SortByTaskTitle:       "t.title",
	model.SortByLocationName:    "t.location_name",
	model.SortByCaseCategory:    "t.case_category",
	model.SortByCaseID:          "t.case_id",
	model.SortByCaseName:        "t.case_name",
	model.SortByNextHearingDate: "t.next_hearing_date",
}

// SortColumn maps a sort field to its column.
func SortColumn(field model.SortField) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// TaskSearch translates a search request and the searcher's signatures into
// the task id page query and the matching count query.
type TaskSearch struct {
	FilterSignatures []string
	RoleSignatures   []string
	ExcludeCaseIDs   []string
	Request          *model.SearchRequest
}

func (s TaskSearch) IDsQuery(firstResult, maxResults int) (string, []any) {
	b := s.where(Select("SELECT t.task_id FROM tasks t"))

	for _, p := range s.request().SortingParameters {
		col, ok := SortColumn(p.SortBy)
		if !ok {
			continue
		}
		dir := Asc
		if strings.EqualFold(string(p.SortDirection), string(model.SortDescending)) {
			dir = Desc
		}
		b.OrderBy(col, dir)
	}
	b.OrderBy("t.major_priority", Asc).
		OrderBy("t.priority_date", Asc).
		OrderBy("t.minor_priority", Asc).
		OrderBy("t.task_id", Asc)

	return b.Offset(firstResult).Limit(maxResults).Build()
}

func (s TaskSearch) CountQuery() (string, []any) {
	return s.where(Select("SELECT COUNT(*) FROM tasks t")).Build()
}

// EffectiveStates is the state filter actually applied for a request.
func EffectiveStates(req *model.SearchRequest) []string {
	if req.AvailableTasksOnly() {
		return []string{string(model.StateUnassigned)}
	}
	if len(req.CFTTaskStates) == 0 {
		return []string{string(model.StateAssigned), string(model.StateUnassigned)}
	}
	states := make([]string, len(req.CFTTaskStates))
	for i, st := range req.CFTTaskStates {
		states[i] = string(st)
	}
	return states
}

func (s TaskSearch) where(b *Builder) *Builder {
	req := s.request()

	b.Where("t.indexed").
		Overlaps("t.filter_signatures", s.FilterSignatures).
		Overlaps("t.role_signatures", s.RoleSignatures)

	if req.AvailableTasksOnly() {
		b.IsNull("t.assignee")
	} else {
		b.In("t.assignee", req.Users)
	}

	return b.In("t.state", EffectiveStates(req)).
		In("t.case_id", req.CaseIDs).
		NotIn("t.case_id", s.ExcludeCaseIDs).
		In("t.task_type", req.TaskTypes)
}

func (s TaskSearch) request() *model.SearchRequest {
	if s.Request == nil {
		return &model.SearchRequest{}
	}
	return s.Request
}
