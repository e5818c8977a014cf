package models

import "time"

// Team roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether role is a known team role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// TeamMembership records a user's role within a team. At most one row exists
// per (team, user) pair; it is the single source of truth for authorization.
type TeamMembership struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"uniqueIndex:idx_team_user;not null" json:"team_id"`
	Team     *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	UserID   uint      `gorm:"uniqueIndex:idx_team_user;not null" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role     string    `gorm:"size:20;default:member;not null" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (TeamMembership) TableName() string { return "team_memberships" }
