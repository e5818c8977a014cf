package services

import (
	"errors"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type TeamService struct {
	db          *gorm.DB
	memberships *MembershipService
	authz       *Authorizer
}

func NewTeamService(db *gorm.DB) *TeamService {
	memberships := NewMembershipService(db)
	return &TeamService{
		db:          db,
		memberships: memberships,
		authz:       NewAuthorizer(memberships),
	}
}

type CreateTeamRequest struct {
	CompanyID   uint   `json:"company_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name"`
	Description *string `json:"description"`
}

// Create creates a team and grants the creator an admin membership. Both
// writes share one transaction; the team never exists without its creator's
// membership.
func (s *TeamService) Create(req *CreateTeamRequest, actingUserID uint) (*models.Team, error) {
	var company models.Company
	if err := s.db.First(&company, req.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("company not found")
		}
		return nil, err
	}

	team := models.Team{
		CompanyID:   company.ID,
		Name:        req.Name,
		Description: req.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		_, err := s.memberships.AddOrUpdateTx(tx, team.ID, actingUserID, models.RoleAdmin)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// visibleTeam loads a team if the acting user may see it: they hold a
// membership, or they own the company. Anything else reads as not found.
func (s *TeamService) visibleTeam(id, actingUserID uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.Preload("Company").First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("team not found")
		}
		return nil, err
	}
	if s.memberships.IsMember(actingUserID, team.ID) {
		return &team, nil
	}
	if team.Company != nil && team.Company.OwnerID == actingUserID {
		return &team, nil
	}
	return nil, response.NewNotFound("team not found")
}

// GetByID returns a team visible to the acting user.
func (s *TeamService) GetByID(id, actingUserID uint) (*models.Team, error) {
	return s.visibleTeam(id, actingUserID)
}

// List returns teams the acting user may see, optionally narrowed to one
// company.
func (s *TeamService) List(companyID *uint, actingUserID uint) ([]models.Team, error) {
	query := s.db.Model(&models.Team{}).
		Where("company_id IN (SELECT id FROM companies WHERE owner_id = ?) OR id IN (SELECT team_id FROM team_memberships WHERE user_id = ?)",
			actingUserID, actingUserID)

	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	var teams []models.Team
	if err := query.Order("created_at DESC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update changes a team's name or description. Admin only.
func (s *TeamService) Update(id uint, req *UpdateTeamRequest, actingUserID uint) (*models.Team, error) {
	team, err := s.visibleTeam(id, actingUserID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanAdminister(actingUserID, team.ID) {
		return nil, response.NewForbidden("only team admins can update the team")
	}

	if req.Name != "" {
		team.Name = req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if err := s.db.Save(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// Delete hard-deletes a team and cascades to its tasks, their activity logs
// and its memberships, all in one transaction. Admin only.
func (s *TeamService) Delete(id, actingUserID uint) error {
	team, err := s.visibleTeam(id, actingUserID)
	if err != nil {
		return err
	}
	if !s.authz.CanAdminister(actingUserID, team.ID) {
		return response.NewForbidden("only team admins can delete the team")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return cascadeDeleteTeam(tx, team.ID)
	})
}

// cascadeDeleteTeam removes a team and everything under it. Shared with the
// company cascade.
func cascadeDeleteTeam(tx *gorm.DB, teamID uint) error {
	if err := tx.Where("task_id IN (SELECT id FROM tasks WHERE team_id = ?)", teamID).
		Delete(&models.ActivityLog{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_id = ?", teamID).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMembership{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Team{}, teamID).Error
}

// Members lists a team's memberships, user info included.
func (s *TeamService) Members(teamID, actingUserID uint) ([]models.TeamMembership, error) {
	team, err := s.visibleTeam(teamID, actingUserID)
	if err != nil {
		return nil, err
	}
	return s.memberships.ListByTeam(team.ID)
}

// AddMember upserts a membership for the target user. Admin only; an
// existing membership has its role overwritten and keeps its JoinedAt.
func (s *TeamService) AddMember(teamID, targetUserID uint, role string, actingUserID uint) (*models.TeamMembership, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("team not found")
		}
		return nil, err
	}

	if !s.authz.CanAdminister(actingUserID, team.ID) {
		return nil, response.NewForbidden("only admins can add members")
	}

	var user models.User
	if err := s.db.First(&user, targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	m, err := s.memberships.AddOrUpdate(team.ID, user.ID, role)
	if err != nil {
		return nil, err
	}
	s.db.Preload("User").First(m, m.ID)
	return m, nil
}

// RemoveMember removes the target user's membership. Admin only; removing
// the company owner always fails.
func (s *TeamService) RemoveMember(teamID, targetUserID, actingUserID uint) error {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("team not found")
		}
		return err
	}

	if !s.authz.CanAdminister(actingUserID, team.ID) {
		return response.NewForbidden("only admins can remove members")
	}

	return s.memberships.Remove(team.ID, targetUserID)
}

// ChangeMemberRole updates the target user's role. Admin only.
func (s *TeamService) ChangeMemberRole(teamID, targetUserID uint, role string, actingUserID uint) (*models.TeamMembership, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("team not found")
		}
		return nil, err
	}

	if !s.authz.CanAdminister(actingUserID, team.ID) {
		return nil, response.NewForbidden("only admins can change roles")
	}

	m, err := s.memberships.ChangeRole(team.ID, targetUserID, role)
	if err != nil {
		return nil, err
	}
	s.db.Preload("User").First(m, m.ID)
	return m, nil
}
