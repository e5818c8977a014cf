package models

import "time"

// Activity actions, derived from a before/after comparison of a task.
const (
	ActionCreated  = "created"
	ActionAssigned = "assigned"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
)

// ActivityLog is one append-only entry in a task's audit trail. Rows are
// never updated or deleted except when the owning team is hard-deleted.
// UserID mirrors the task's CreatedBy at write time; a deleted user leaves
// it null.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index;not null" json:"task_id"`
	Task      *Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action    string    `gorm:"size:20;not null;index" json:"action"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Note      string    `gorm:"type:text" json:"note"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
