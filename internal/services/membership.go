package services

import (
	"errors"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

// MembershipService is the single source of truth for which users belong to
// which teams and with what role. All authorization decisions derive from it.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// IsMember reports whether the user holds any membership in the team.
func (s *MembershipService) IsMember(userID, teamID uint) bool {
	var count int64
	s.db.Model(&models.TeamMembership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count)
	return count > 0
}

// IsAdmin reports whether the user holds an admin membership in the team.
func (s *MembershipService) IsAdmin(userID, teamID uint) bool {
	var count int64
	s.db.Model(&models.TeamMembership{}).
		Where("team_id = ? AND user_id = ? AND role = ?", teamID, userID, models.RoleAdmin).
		Count(&count)
	return count > 0
}

// Get returns the membership for (team, user), or NotFound.
func (s *MembershipService) Get(teamID, userID uint) (*models.TeamMembership, error) {
	var m models.TeamMembership
	if err := s.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("membership not found")
		}
		return nil, err
	}
	return &m, nil
}

// AddOrUpdate upserts a membership. An existing row keeps its JoinedAt and
// only has its role overwritten.
func (s *MembershipService) AddOrUpdate(teamID, userID uint, role string) (*models.TeamMembership, error) {
	return s.AddOrUpdateTx(s.db, teamID, userID, role)
}

// AddOrUpdateTx is AddOrUpdate running on the given handle, so team creation
// can grant the creator's admin membership inside its own transaction.
func (s *MembershipService) AddOrUpdateTx(tx *gorm.DB, teamID, userID uint, role string) (*models.TeamMembership, error) {
	if !models.ValidRole(role) {
		return nil, response.NewBadRequest("invalid role, must be 'admin' or 'member'")
	}

	var m models.TeamMembership
	err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&m).Error
	if err == nil {
		m.Role = role
		if err := tx.Save(&m).Error; err != nil {
			return nil, err
		}
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m = models.TeamMembership{TeamID: teamID, UserID: userID, Role: role}
	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Remove deletes a membership. The owning company's owner can never be
// removed from a team by this path, regardless of who asks.
func (s *MembershipService) Remove(teamID, userID uint) error {
	var team models.Team
	if err := s.db.Preload("Company").First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("team not found")
		}
		return err
	}

	if team.Company != nil && team.Company.OwnerID == userID {
		return response.NewForbidden("cannot remove the company owner from a team")
	}

	result := s.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("membership not found")
	}
	return nil
}

// ChangeRole updates the role of an existing membership.
func (s *MembershipService) ChangeRole(teamID, userID uint, role string) (*models.TeamMembership, error) {
	if !models.ValidRole(role) {
		return nil, response.NewBadRequest("invalid role, must be 'admin' or 'member'")
	}

	m, err := s.Get(teamID, userID)
	if err != nil {
		return nil, err
	}

	m.Role = role
	if err := s.db.Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListByTeam returns all memberships of a team with user info preloaded.
func (s *MembershipService) ListByTeam(teamID uint) ([]models.TeamMembership, error) {
	var members []models.TeamMembership
	if err := s.db.Where("team_id = ?", teamID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
