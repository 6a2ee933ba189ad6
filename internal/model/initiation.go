package model

import "time"

// InitiateTaskRequest carries the attributes a task is created with.
type InitiateTaskRequest struct {
	Name         string     `json:"name" binding:"required"`
	Type         string     `json:"type" binding:"required"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Created      time.Time  `json:"created" binding:"required"`
	DueDate      time.Time  `json:"due_date" binding:"required"`
	PriorityDate *time.Time `json:"priority_date"`
	NextHearing  *time.Time `json:"next_hearing_date"`

	MajorPriority *int `json:"major_priority"`
	MinorPriority *int `json:"minor_priority"`

	Jurisdiction           string `json:"jurisdiction"`
	Region                 string `json:"region"`
	RegionName             string `json:"region_name"`
	Location               string `json:"location"`
	LocationName           string `json:"location_name"`
	CaseID                 string `json:"case_id" binding:"required"`
	CaseTypeID             string `json:"case_type_id"`
	CaseName               string `json:"case_name"`
	CaseCategory           string `json:"case_category"`
	SecurityClassification string `json:"security_classification" binding:"omitempty,oneof=PUBLIC PRIVATE RESTRICTED"`
	WorkType               string `json:"work_type" binding:"omitempty,work_type"`
	RoleCategory           string `json:"role_category"`

	AdditionalProperties map[string]string `json:"additional_properties"`
	Roles                []TaskRole        `json:"roles" binding:"dive"`
}

const (
	defaultMajorPriority = 5000
	defaultMinorPriority = 500
)

// NewTask builds an UNCONFIGURED task from the request. The priority date
// defaults to the due date and priorities to their standard values.
func (r InitiateTaskRequest) NewTask(taskID string) *Task {
	priorityDate := r.DueDate
	if r.PriorityDate != nil {
		priorityDate = *r.PriorityDate
	}
	major, minor := defaultMajorPriority, defaultMinorPriority
	if r.MajorPriority != nil {
		major = *r.MajorPriority
	}
	if r.MinorPriority != nil {
		minor = *r.MinorPriority
	}

	task := &Task{
		TaskID:                 taskID,
		TaskName:               r.Name,
		TaskType:               r.Type,
		State:                  StateUnconfigured,
		Title:                  r.Title,
		Description:            r.Description,
		Created:                r.Created,
		DueDateTime:            r.DueDate,
		PriorityDate:           priorityDate,
		MajorPriority:          major,
		MinorPriority:          minor,
		NextHearing:            r.NextHearing,
		Jurisdiction:           r.Jurisdiction,
		Region:                 r.Region,
		RegionName:             r.RegionName,
		Location:               r.Location,
		LocationName:           r.LocationName,
		CaseID:                 r.CaseID,
		CaseTypeID:             r.CaseTypeID,
		CaseName:               r.CaseName,
		CaseCategory:           r.CaseCategory,
		SecurityClassification: r.SecurityClassification,
		WorkType:               r.WorkType,
		RoleCategory:           r.RoleCategory,
	}
	if task.Title == "" {
		task.Title = r.Name
	}
	if len(r.AdditionalProperties) > 0 {
		task.SetProperties(r.AdditionalProperties)
	}

	roles := make([]TaskRole, len(r.Roles))
	copy(roles, r.Roles)
	for i := range roles {
		roles[i].TaskID = taskID
	}
	task.TaskRoles = roles
	return task
}
