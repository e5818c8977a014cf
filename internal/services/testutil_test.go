package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Task{},
		&models.ActivityLog{},
		&models.RefreshToken{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     "user",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createCompany(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Company {
	t.Helper()

	company := models.Company{Name: name, OwnerID: ownerID}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("failed to create company %s: %v", name, err)
	}
	return &company
}

// createTeam creates a team through the service so the creator gets the
// admin membership the same way production does.
func createTeam(t *testing.T, db *gorm.DB, companyID, creatorID uint, name string) *models.Team {
	t.Helper()

	team, err := NewTeamService(db).Create(&CreateTeamRequest{
		CompanyID: companyID,
		Name:      name,
	}, creatorID)
	if err != nil {
		t.Fatalf("failed to create team %s: %v", name, err)
	}
	return team
}

func countLogs(t *testing.T, db *gorm.DB, taskID uint, action string) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.ActivityLog{}).
		Where("task_id = ? AND action = ?", taskID, action).
		Count(&count).Error; err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	return count
}
