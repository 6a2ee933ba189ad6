package model

// RequestContext changes the default filters of a search.
type RequestContext string

const (
	RequestContextAllWork        RequestContext = "ALL_WORK"
	RequestContextAvailableTasks RequestContext = "AVAILABLE_TASKS"
)

type SortField string

const (
	SortByDueDate         SortField = "due_date"
	SortByTaskTitle       SortField = "task_title"
	SortByLocationName    SortField = "location_name"
	SortByCaseCategory    SortField = "case_category"
	SortByCaseID          SortField = "case_id"
	SortByCaseName        SortField = "case_name"
	SortByNextHearingDate SortField = "next_hearing_date"
)

type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

type SortingParameter struct {
	SortBy        SortField `json:"sort_by" binding:"required"`
	SortDirection SortOrder `json:"sort_order" binding:"required,oneof=asc desc"`
}

// SearchRequest is a validated query descriptor. Empty lists mean "no constraint".
type SearchRequest struct {
	Jurisdictions     []string           `json:"jurisdictions"`
	Locations         []string           `json:"locations"`
	CaseIDs           []string           `json:"case_ids"`
	Users             []string           `json:"users"`
	WorkTypes         []string           `json:"work_types" binding:"dive,work_type"`
	TaskTypes         []string           `json:"task_types"`
	RoleCategories    []string           `json:"role_categories"`
	CFTTaskStates     []TaskState        `json:"cft_task_states"`
	RequestContext    RequestContext     `json:"request_context"`
	SortingParameters []SortingParameter `json:"sorting_parameters" binding:"dive"`
}

func (r *SearchRequest) AvailableTasksOnly() bool {
	return r.RequestContext == RequestContextAvailableTasks
}

// AllowedWorkTypes is the closed set of work types a search may filter on.
var AllowedWorkTypes = []string{
	"hearing_work",
	"upper_tribunal",
	"routine_work",
	"decision_making_work",
	"applications",
	"priority",
	"access_requests",
	"error_management",
	"review_case",
	"evidence",
	"follow_up",
	"pre_hearing",
	"post_hearing",
	"intermediate_track_hearing_work",
	"multi_track_hearing_work",
	"intermediate_track_decision_making_work",
	"multi_track_decision_making_work",
	"query_work",
	"welsh_translation_work",
	"bail_work",
}

func IsAllowedWorkType(workType string) bool {
	for _, wt := range AllowedWorkTypes {
		if wt == workType {
			return true
		}
	}
	return false
}

// SearchResult is the page returned by a search.
type SearchResult struct {
	TaskIDs    []string `json:"task_ids"`
	Tasks      []Task   `json:"tasks"`
	TotalCount int64    `json:"total_records"`
}
