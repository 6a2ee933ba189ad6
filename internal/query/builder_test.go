package query_test

import (
	"testing"

	"taskmanagement/internal/model"
	"taskmanagement/internal/query"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestBuilder_ScalarVersusListOperators(t *testing.T) {
	sql, args := query.Select("SELECT t.task_id FROM tasks t").
		In("t.case_id", []string{"1"}).
		In("t.state", []string{"ASSIGNED", "UNASSIGNED"}).
		NotIn("t.case_id", []string{"9"}).
		NotIn("t.task_type", []string{"a", "b", "c"}).
		In("t.assignee", nil).
		Build()

	assert.Equal(t,
		"SELECT t.task_id FROM tasks t WHERE t.case_id = ? AND t.state IN (?, ?) AND t.case_id <> ? AND t.task_type NOT IN (?, ?, ?)",
		sql)
	assert.Equal(t, []any{"1", "ASSIGNED", "UNASSIGNED", "9", "a", "b", "c"}, args)
}

func TestBuilder_OrderingAndPaging(t *testing.T) {
	sql, args := query.Select("SELECT x FROM y").
		Where("z = ?", 1).
		OrderBy("a", query.Desc).
		OrderBy("b", query.Asc).
		Offset(10).
		Limit(5).
		Build()

	assert.Equal(t, "SELECT x FROM y WHERE z = ? ORDER BY a DESC, b ASC OFFSET ? LIMIT ?", sql)
	assert.Equal(t, []any{1, 10, 5}, args)
}

func TestTaskSearch_DefaultStatesAndFixedTiebreak(t *testing.T) {
	search := query.TaskSearch{
		FilterSignatures: []string{"f1"},
		RoleSignatures:   []string{"r1", "r2"},
		Request:          &model.SearchRequest{},
	}

	sql, args := search.IDsQuery(0, 25)

	assert.Equal(t,
		"SELECT t.task_id FROM tasks t WHERE t.indexed"+
			" AND t.filter_signatures && ?::text[] AND t.role_signatures && ?::text[]"+
			" AND t.state IN (?, ?)"+
			" ORDER BY t.major_priority ASC, t.priority_date ASC, t.minor_priority ASC, t.task_id ASC"+
			" OFFSET ? LIMIT ?",
		sql)
	assert.Equal(t, []any{
		pq.StringArray{"f1"}, pq.StringArray{"r1", "r2"}, "ASSIGNED", "UNASSIGNED", 0, 25,
	}, args)
}

func TestTaskSearch_AvailableTasksIgnoresUsers(t *testing.T) {
	search := query.TaskSearch{
		FilterSignatures: []string{"f"},
		RoleSignatures:   []string{"r"},
		Request: &model.SearchRequest{
			RequestContext: model.RequestContextAvailableTasks,
			Users:          []string{"u1"},
			CFTTaskStates:  []model.TaskState{model.StateAssigned},
		},
	}

	sql, args := search.CountQuery()

	assert.Equal(t,
		"SELECT COUNT(*) FROM tasks t WHERE t.indexed"+
			" AND t.filter_signatures && ?::text[] AND t.role_signatures && ?::text[]"+
			" AND t.assignee IS NULL AND t.state = ?",
		sql)
	assert.NotContains(t, args, "u1")
	assert.Contains(t, args, "UNASSIGNED")
}

func TestTaskSearch_AllFilters(t *testing.T) {
	search := query.TaskSearch{
		FilterSignatures: []string{"f"},
		RoleSignatures:   []string{"r"},
		ExcludeCaseIDs:   []string{"c9", "c8"},
		Request: &model.SearchRequest{
			Users:         []string{"u1"},
			CFTTaskStates: []model.TaskState{model.StateCompleted},
			CaseIDs:       []string{"c1", "c2"},
			TaskTypes:     []string{"reviewAppeal"},
			SortingParameters: []model.SortingParameter{
				{SortBy: model.SortByDueDate, SortDirection: model.SortDescending},
				{SortBy: "unknown", SortDirection: model.SortAscending},
				{SortBy: model.SortByCaseName, SortDirection: model.SortAscending},
			},
		},
	}

	sql, args := search.IDsQuery(50, 25)

	assert.Equal(t,
		"SELECT t.task_id FROM tasks t WHERE t.indexed"+
			" AND t.filter_signatures && ?::text[] AND t.role_signatures && ?::text[]"+
			" AND t.assignee = ? AND t.state = ? AND t.case_id IN (?, ?) AND t.case_id NOT IN (?, ?)"+
			" AND t.task_type = ?"+
			" ORDER BY t.due_date_time DESC, t.case_name ASC,"+
			" t.major_priority ASC, t.priority_date ASC, t.minor_priority ASC, t.task_id ASC"+
			" OFFSET ? LIMIT ?",
		sql)
	assert.Equal(t, []any{
		pq.StringArray{"f"}, pq.StringArray{"r"}, "u1", "COMPLETED", "c1", "c2", "c9", "c8", "reviewAppeal", 50, 25,
	}, args)
}

func TestEffectiveStates(t *testing.T) {
	assert.Equal(t, []string{"ASSIGNED", "UNASSIGNED"}, query.EffectiveStates(&model.SearchRequest{}))
	assert.Equal(t, []string{"UNASSIGNED"}, query.EffectiveStates(&model.SearchRequest{RequestContext: model.RequestContextAvailableTasks}))
	assert.Equal(t, []string{"COMPLETED"}, query.EffectiveStates(&model.SearchRequest{CFTTaskStates: []model.TaskState{model.StateCompleted}}))
}
