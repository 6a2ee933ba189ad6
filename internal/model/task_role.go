package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TaskRole grants a named role visibility and permissions over a task.
// There is at most one row per (task_id, role_name).
type TaskRole struct {
	TaskRoleID uuid.UUID `gorm:"column:task_role_id;type:uuid;primaryKey" json:"id"`
	TaskID     string    `gorm:"column:task_id;not null;uniqueIndex:uq_task_roles_task_role,priority:1" json:"-"`
	RoleName   string    `gorm:"column:role_name;not null;uniqueIndex:uq_task_roles_task_role,priority:2" json:"role_name" binding:"required"`

	Read           bool `gorm:"column:read_permission" json:"read"`
	Own            bool `gorm:"column:own_permission" json:"own"`
	Execute        bool `gorm:"column:execute_permission" json:"execute"`
	Manage         bool `gorm:"column:manage_permission" json:"manage"`
	Cancel         bool `gorm:"column:cancel_permission" json:"cancel"`
	Refer          bool `gorm:"column:refer_permission" json:"refer"`
	Complete       bool `gorm:"column:complete" json:"complete"`
	CompleteOwn    bool `gorm:"column:complete_own" json:"complete_own"`
	CancelOwn      bool `gorm:"column:cancel_own" json:"cancel_own"`
	Claim          bool `gorm:"column:claim" json:"claim"`
	Unclaim        bool `gorm:"column:unclaim" json:"unclaim"`
	Assign         bool `gorm:"column:assign" json:"assign"`
	Unassign       bool `gorm:"column:unassign" json:"unassign"`
	UnclaimAssign  bool `gorm:"column:unclaim_assign" json:"unclaim_assign"`
	UnassignClaim  bool `gorm:"column:unassign_claim" json:"unassign_claim"`
	UnassignAssign bool `gorm:"column:unassign_assign" json:"unassign_assign"`

	Authorizations     pq.StringArray `gorm:"column:authorizations;type:text[]" json:"authorisations"`
	RoleCategory       string         `gorm:"column:role_category" json:"role_category,omitempty"`
	AssignmentPriority int            `gorm:"column:assignment_priority" json:"assignment_priority"`
	AutoAssignable     bool           `gorm:"column:auto_assignable;not null;default:false" json:"auto_assignable"`
	Created            time.Time      `gorm:"column:created;autoCreateTime" json:"-"`
}

func (TaskRole) TableName() string { return "task_roles" }

// Permission tokens used in role signatures.
const (
	PermissionRead    = "r"
	PermissionOwn     = "o"
	PermissionExecute = "x"
	PermissionManage  = "m"
	PermissionCancel  = "c"
)

// SignaturePermissions returns the permission tokens this grant contributes to
// role signatures. Own is only meaningful together with read.
func (r TaskRole) SignaturePermissions() []string {
	var out []string
	if r.Read {
		out = append(out, PermissionRead)
	}
	if r.Read && r.Own {
		out = append(out, PermissionOwn)
	}
	if r.Execute {
		out = append(out, PermissionExecute)
	}
	if r.Manage {
		out = append(out, PermissionManage)
	}
	if r.Cancel {
		out = append(out, PermissionCancel)
	}
	return out
}
