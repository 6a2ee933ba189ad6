package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type OperationType string

const (
	OperationMarkToReconfigure  OperationType = "MARK_TO_RECONFIGURE"
	OperationExecuteReconfigure OperationType = "EXECUTE_RECONFIGURE"
)

type FilterOperator string

const (
	OperatorIn    FilterOperator = "IN"
	OperatorAfter FilterOperator = "AFTER"
)

// Filter keys understood by task operations.
const (
	FilterCaseID                 = "case_id"
	FilterReconfigureRequestTime = "reconfigure_request_time"
)

type TaskOperation struct {
	Type             OperationType `json:"type" binding:"required"`
	RunID            string        `json:"run_id"`
	MaxTimeLimit     int64         `json:"max_time_limit"`
	RetryWindowHours int64         `json:"retry_window_hours"`
}

// FilterValue is the value of a task filter. On the wire it is either a list
// of strings (IN) or a single string such as an RFC3339 timestamp (AFTER).
type FilterValue []string

func (v *FilterValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = FilterValue{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("filter value must be a string or a list of strings: %w", err)
	}
	*v = list
	return nil
}

// First returns the single value of a scalar filter.
func (v FilterValue) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// TaskFilter is one condition of a task operation.
type TaskFilter struct {
	Field    string         `json:"field" binding:"required"`
	Value    FilterValue    `json:"value"`
	Operator FilterOperator `json:"operator" binding:"required"`
}

type TaskOperationRequest struct {
	Operation   TaskOperation `json:"operation" binding:"required"`
	TaskFilters []TaskFilter  `json:"task_filter"`
}

// ReconfigureAfter extracts the AFTER filter on reconfigure_request_time.
func (r TaskOperationRequest) ReconfigureAfter() (time.Time, bool, error) {
	for _, f := range r.TaskFilters {
		if f.Field != FilterReconfigureRequestTime || f.Operator != OperatorAfter {
			continue
		}
		ts, err := time.Parse(time.RFC3339, f.Value.First())
		if err != nil {
			return time.Time{}, false, err
		}
		return ts, true, nil
	}
	return time.Time{}, false, nil
}

// CaseIDs collects every value of IN filters on case_id.
func (r TaskOperationRequest) CaseIDs() []string {
	var ids []string
	for _, f := range r.TaskFilters {
		if f.Field == FilterCaseID && f.Operator == OperatorIn {
			ids = append(ids, f.Value...)
		}
	}
	return ids
}

// AutoAssignmentResult is the outcome of resolving who a task belongs to.
type AutoAssignmentResult struct {
	State    TaskState
	Assignee string
}

func (r AutoAssignmentResult) Assigned() bool {
	return r.State == StateAssigned
}
