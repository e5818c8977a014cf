package models

import "time"

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatus reports whether status is a known task status.
func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work tracked within a team. Deletion is soft: the row is
// retained forever so its activity trail stays readable. CreatedBy and
// AssignedTo are nullable; a deleted user leaves them orphaned rather than
// cascading.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TeamID      uint       `gorm:"index;not null" json:"team_id"`
	Team        *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedBy   *uint      `gorm:"index" json:"created_by"`
	Creator     *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	AssignedTo  *uint      `gorm:"index" json:"assigned_to"`
	Assignee    *User      `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Status      string     `gorm:"size:32;default:todo;not null" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	IsDeleted   bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedOn   *time.Time `gorm:"column:deleted_at" json:"deleted_at"`
}

func (Task) TableName() string { return "tasks" }
