package models

import "time"

// Team belongs to exactly one company. Deleting a team is a hard delete that
// cascades to its tasks, their activity logs, and its memberships.
type Team struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"index;not null" json:"company_id"`
	Company     *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Team) TableName() string { return "teams" }
