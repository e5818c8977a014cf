package services

import (
	"testing"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/response"
)

func TestCompanyCreate_SetsOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")

	company, err := NewCompanyService(db).Create(&CreateCompanyRequest{Name: "Acme"}, alice.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if company.OwnerID != alice.ID {
		t.Errorf("OwnerID = %d, expected %d", company.OwnerID, alice.ID)
	}
}

func TestCompanyVisibility(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	mallory := createUser(t, db, "mallory")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")
	if _, err := NewMembershipService(db).AddOrUpdate(team.ID, bob.ID, models.RoleMember); err != nil {
		t.Fatalf("AddOrUpdate() error = %v", err)
	}

	svc := NewCompanyService(db)

	if _, err := svc.GetByID(company.ID, alice.ID); err != nil {
		t.Errorf("owner GetByID() error = %v", err)
	}
	// Team membership grants visibility into the company.
	if _, err := svc.GetByID(company.ID, bob.ID); err != nil {
		t.Errorf("member GetByID() error = %v", err)
	}
	if _, err := svc.GetByID(company.ID, mallory.ID); !response.IsNotFound(err) {
		t.Errorf("outsider GetByID() error = %v, expected NotFound", err)
	}

	companies, err := svc.List(bob.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(companies) != 1 || companies[0].ID != company.ID {
		t.Errorf("member List() = %d companies, expected the joined one", len(companies))
	}

	companies, err = svc.List(mallory.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(companies) != 0 {
		t.Errorf("outsider List() = %d companies, expected 0", len(companies))
	}
}

func TestCompanyUpdate_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")
	if _, err := NewMembershipService(db).AddOrUpdate(team.ID, bob.ID, models.RoleAdmin); err != nil {
		t.Fatalf("AddOrUpdate() error = %v", err)
	}

	svc := NewCompanyService(db)
	// Even a team admin cannot touch the company itself.
	if _, err := svc.Update(company.ID, &UpdateCompanyRequest{Name: "Evil"}, bob.ID); !response.IsForbidden(err) {
		t.Fatalf("Update() by non-owner error = %v, expected Forbidden", err)
	}

	updated, err := svc.Update(company.ID, &UpdateCompanyRequest{Name: "Acme v2"}, alice.ID)
	if err != nil {
		t.Fatalf("Update() by owner error = %v", err)
	}
	if updated.Name != "Acme v2" {
		t.Errorf("Name = %q, expected %q", updated.Name, "Acme v2")
	}
}

func TestCompanyDelete_CascadesAllTeams(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	company := createCompany(t, db, "Acme", alice.ID)
	t1 := createTeam(t, db, company.ID, alice.ID, "One")
	t2 := createTeam(t, db, company.ID, alice.ID, "Two")

	taskSvc := NewTaskService(db)
	if _, err := taskSvc.Create(&CreateTaskRequest{TeamID: t1.ID, Title: "a"}, alice.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := taskSvc.Create(&CreateTaskRequest{TeamID: t2.ID, Title: "b"}, alice.ID); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := NewCompanyService(db).Delete(company.ID, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var companies, teams, tasks, logs int64
	db.Model(&models.Company{}).Count(&companies)
	db.Model(&models.Team{}).Count(&teams)
	db.Model(&models.Task{}).Count(&tasks)
	db.Model(&models.ActivityLog{}).Count(&logs)
	if companies != 0 || teams != 0 || tasks != 0 || logs != 0 {
		t.Errorf("after cascade: companies=%d teams=%d tasks=%d logs=%d, expected all 0",
			companies, teams, tasks, logs)
	}
}

func TestCompanyDelete_NonOwnerForbidden(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)

	if err := NewCompanyService(db).Delete(company.ID, bob.ID); err == nil {
		t.Fatal("Delete() by non-owner should fail")
	}
}
