package services

import (
	"errors"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create creates a company owned by the acting user.
func (s *CompanyService) Create(req *CreateCompanyRequest, actingUserID uint) (*models.Company, error) {
	company := models.Company{
		Name:    req.Name,
		OwnerID: actingUserID,
	}
	if err := s.db.Create(&company).Error; err != nil {
		return nil, err
	}
	s.db.Preload("Owner").First(&company, company.ID)
	return &company, nil
}

// visibleCompany loads a company the acting user owns or holds a membership
// under, transitively through its teams.
func (s *CompanyService) visibleCompany(id, actingUserID uint) (*models.Company, error) {
	var company models.Company
	err := s.db.Preload("Owner").
		Where("id = ?", id).
		Where("owner_id = ? OR id IN (SELECT teams.company_id FROM teams JOIN team_memberships ON team_memberships.team_id = teams.id WHERE team_memberships.user_id = ?)",
			actingUserID, actingUserID).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("company not found")
		}
		return nil, err
	}
	return &company, nil
}

// GetByID returns a company visible to the acting user.
func (s *CompanyService) GetByID(id, actingUserID uint) (*models.Company, error) {
	return s.visibleCompany(id, actingUserID)
}

// List returns companies the acting user owns or belongs to through a team.
func (s *CompanyService) List(actingUserID uint) ([]models.Company, error) {
	var companies []models.Company
	err := s.db.Preload("Owner").
		Where("owner_id = ? OR id IN (SELECT teams.company_id FROM teams JOIN team_memberships ON team_memberships.team_id = teams.id WHERE team_memberships.user_id = ?)",
			actingUserID, actingUserID).
		Order("created_at DESC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// Update renames a company. Owner only.
func (s *CompanyService) Update(id uint, req *UpdateCompanyRequest, actingUserID uint) (*models.Company, error) {
	company, err := s.visibleCompany(id, actingUserID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != actingUserID {
		return nil, response.NewForbidden("only the owner can update the company")
	}

	company.Name = req.Name
	if err := s.db.Save(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes a company and cascades to all of its teams, their tasks,
// activity logs and memberships, in one transaction. Owner only.
func (s *CompanyService) Delete(id, actingUserID uint) error {
	company, err := s.visibleCompany(id, actingUserID)
	if err != nil {
		return err
	}
	if company.OwnerID != actingUserID {
		return response.NewForbidden("only the owner can delete the company")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var teamIDs []uint
		if err := tx.Model(&models.Team{}).Where("company_id = ?", company.ID).
			Pluck("id", &teamIDs).Error; err != nil {
			return err
		}
		for _, teamID := range teamIDs {
			if err := cascadeDeleteTeam(tx, teamID); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Company{}, company.ID).Error
	})
}
