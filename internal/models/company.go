package models

import "time"

// Company is the top-level tenant. The owner has an implicit administrative
// relationship to every team under the company; it is not materialized as a
// TeamMembership row.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Company) TableName() string { return "companies" }
