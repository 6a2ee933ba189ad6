package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// TaskState is the CFT lifecycle state of a task.
type TaskState string

const (
	StateUnconfigured TaskState = "UNCONFIGURED"
	StateUnassigned   TaskState = "UNASSIGNED"
	StateAssigned     TaskState = "ASSIGNED"
	StateConfigured   TaskState = "CONFIGURED"
	StateReferred     TaskState = "REFERRED"
	StateCompleted    TaskState = "COMPLETED"
	StateCancelled    TaskState = "CANCELLED"
	StateTerminated   TaskState = "TERMINATED"
)

var taskStates = map[TaskState]struct{}{
	StateUnconfigured: {}, StateUnassigned: {}, StateAssigned: {}, StateConfigured: {},
	StateReferred: {}, StateCompleted: {}, StateCancelled: {}, StateTerminated: {},
}

// Valid reports whether s is one of the known states.
func (s TaskState) Valid() bool {
	_, ok := taskStates[s]
	return ok
}

// Active states are the ones reconfiguration and auto-assignment act on.
func (s TaskState) Active() bool {
	return s == StateAssigned || s == StateUnassigned
}

// Security classifications, ordered from least to most restricted.
const (
	ClassificationPublic     = "PUBLIC"
	ClassificationPrivate    = "PRIVATE"
	ClassificationRestricted = "RESTRICTED"
)

type Task struct {
	TaskID        string     `gorm:"column:task_id;primaryKey" json:"id"`
	TaskName      string     `gorm:"column:task_name" json:"name"`
	TaskType      string     `gorm:"column:task_type" json:"type"`
	State         TaskState  `gorm:"column:state;not null" json:"task_state"`
	Title         string     `gorm:"column:title" json:"task_title"`
	Description   string     `gorm:"column:description" json:"description,omitempty"`
	Created       time.Time  `gorm:"column:created" json:"created_date"`
	DueDateTime   time.Time  `gorm:"column:due_date_time" json:"due_date"`
	PriorityDate  time.Time  `gorm:"column:priority_date" json:"priority_date"`
	MajorPriority int        `gorm:"column:major_priority;default:5000" json:"major_priority"`
	MinorPriority int        `gorm:"column:minor_priority;default:500" json:"minor_priority"`
	Assignee      *string    `gorm:"column:assignee" json:"assignee,omitempty"`
	AutoAssigned  bool       `gorm:"column:auto_assigned" json:"auto_assigned"`
	NextHearing   *time.Time `gorm:"column:next_hearing_date" json:"next_hearing_date,omitempty"`

	Jurisdiction           string `gorm:"column:jurisdiction" json:"jurisdiction"`
	Region                 string `gorm:"column:region" json:"region"`
	RegionName             string `gorm:"column:region_name" json:"region_name,omitempty"`
	Location               string `gorm:"column:location" json:"location"`
	LocationName           string `gorm:"column:location_name" json:"location_name,omitempty"`
	CaseID                 string `gorm:"column:case_id;index" json:"case_id"`
	CaseTypeID             string `gorm:"column:case_type_id" json:"case_type_id"`
	CaseName               string `gorm:"column:case_name" json:"case_name"`
	CaseCategory           string `gorm:"column:case_category" json:"case_category"`
	SecurityClassification string `gorm:"column:security_classification" json:"security_classification"`
	WorkType               string `gorm:"column:work_type" json:"work_type_id,omitempty"`
	RoleCategory           string `gorm:"column:role_category" json:"role_category,omitempty"`

	Indexed              bool                                  `gorm:"column:indexed;not null;default:false" json:"-"`
	AdditionalProperties datatypes.JSONType[map[string]string] `gorm:"column:additional_properties;type:jsonb" json:"additional_properties,omitempty"`

	ReconfigureRequestTime  *time.Time `gorm:"column:reconfigure_request_time" json:"reconfigure_request_time,omitempty"`
	LastReconfigurationTime *time.Time `gorm:"column:last_reconfiguration_time" json:"last_reconfiguration_time,omitempty"`
	LastUpdatedTimestamp    *time.Time `gorm:"column:last_updated_timestamp" json:"last_updated_timestamp,omitempty"`
	LastUpdatedAction       string     `gorm:"column:last_updated_action" json:"last_updated_action,omitempty"`

	Version int `gorm:"column:version;not null;default:0" json:"-"`

	FilterSignatures pq.StringArray `gorm:"column:filter_signatures;type:text[]" json:"-"`
	RoleSignatures   pq.StringArray `gorm:"column:role_signatures;type:text[]" json:"-"`

	TaskRoles []TaskRole `gorm:"foreignKey:TaskID;references:TaskID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// Indexable reports whether every attribute the signatures depend on is set.
func (t *Task) Indexable() bool {
	return t.Jurisdiction != "" &&
		t.Region != "" &&
		t.Location != "" &&
		t.SecurityClassification != ""
}

// AssigneeID returns the assignee or an empty string.
func (t *Task) AssigneeID() string {
	if t.Assignee == nil {
		return ""
	}
	return *t.Assignee
}

// Properties returns a copy of the additional properties.
func (t *Task) Properties() map[string]string {
	out := make(map[string]string)
	for k, v := range t.AdditionalProperties.Data() {
		out[k] = v
	}
	return out
}

func (t *Task) SetProperties(props map[string]string) {
	t.AdditionalProperties = datatypes.NewJSONType(props)
}
