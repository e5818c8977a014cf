package services

import (
	"testing"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/response"
)

func TestTeamCreate_GrantsCreatorAdminMembership(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)

	team, err := NewTeamService(db).Create(&CreateTeamRequest{CompanyID: company.ID, Name: "Core"}, bob.ID)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	m, err := NewMembershipService(db).Get(team.ID, bob.ID)
	if err != nil {
		t.Fatalf("Get() membership error = %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("creator role = %q, expected %q", m.Role, models.RoleAdmin)
	}
}

func TestTeamCreate_UnknownCompany(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")

	_, err := NewTeamService(db).Create(&CreateTeamRequest{CompanyID: 999, Name: "Core"}, alice.ID)
	if !response.IsNotFound(err) {
		t.Fatalf("Create() error = %v, expected NotFound", err)
	}

	var count int64
	db.Model(&models.Team{}).Count(&count)
	if count != 0 {
		t.Errorf("teams = %d, expected 0", count)
	}
}

func TestTeamGetByID_OwnerSeesWithoutMembership(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, bob.ID, "Core")

	svc := NewTeamService(db)
	if _, err := svc.GetByID(team.ID, alice.ID); err != nil {
		t.Errorf("owner GetByID() error = %v", err)
	}

	memberships := NewMembershipService(db)
	if memberships.IsMember(alice.ID, team.ID) {
		t.Error("ownership should not create a membership row")
	}
}

func TestTeamGetByID_OutsiderGetsNotFound(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	mallory := createUser(t, db, "mallory")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")

	if _, err := NewTeamService(db).GetByID(team.ID, mallory.ID); !response.IsNotFound(err) {
		t.Fatalf("GetByID() by outsider error = %v, expected NotFound", err)
	}
}

func TestTeamList_ScopedToVisibility(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	companyA := createCompany(t, db, "Acme", alice.ID)
	companyB := createCompany(t, db, "Beta", bob.ID)
	mine := createTeam(t, db, companyA.ID, alice.ID, "Core")
	createTeam(t, db, companyB.ID, bob.ID, "Hidden")
	joined := createTeam(t, db, companyB.ID, bob.ID, "Shared")
	if _, err := NewMembershipService(db).AddOrUpdate(joined.ID, alice.ID, models.RoleMember); err != nil {
		t.Fatalf("AddOrUpdate() error = %v", err)
	}

	teams, err := NewTeamService(db).List(nil, alice.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("len(teams) = %d, expected 2", len(teams))
	}
	seen := map[uint]bool{}
	for _, tm := range teams {
		seen[tm.ID] = true
	}
	if !seen[mine.ID] || !seen[joined.ID] {
		t.Errorf("listed teams %v, expected %d and %d", seen, mine.ID, joined.ID)
	}
}

func TestTeamUpdate_AdminOnly(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")
	if _, err := NewMembershipService(db).AddOrUpdate(team.ID, bob.ID, models.RoleMember); err != nil {
		t.Fatalf("AddOrUpdate() error = %v", err)
	}

	svc := NewTeamService(db)
	if _, err := svc.Update(team.ID, &UpdateTeamRequest{Name: "Renamed"}, bob.ID); !response.IsForbidden(err) {
		t.Fatalf("Update() by member error = %v, expected Forbidden", err)
	}

	updated, err := svc.Update(team.ID, &UpdateTeamRequest{Name: "Renamed"}, alice.ID)
	if err != nil {
		t.Fatalf("Update() by admin error = %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Name = %q, expected %q", updated.Name, "Renamed")
	}
}

func TestTeamDelete_CascadesTasksLogsAndMemberships(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")
	keep := createTeam(t, db, company.ID, alice.ID, "Keep")

	svc := NewTeamService(db)
	if _, err := svc.AddMember(team.ID, bob.ID, models.RoleMember, alice.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	taskSvc := NewTaskService(db)
	if _, err := taskSvc.Create(&CreateTaskRequest{TeamID: team.ID, Title: "doomed"}, alice.ID); err != nil {
		t.Fatalf("task Create() error = %v", err)
	}
	survivor, err := taskSvc.Create(&CreateTaskRequest{TeamID: keep.ID, Title: "safe"}, alice.ID)
	if err != nil {
		t.Fatalf("task Create() error = %v", err)
	}

	if err := svc.Delete(team.ID, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var teams, tasks, logs, memberships int64
	db.Model(&models.Team{}).Where("id = ?", team.ID).Count(&teams)
	db.Model(&models.Task{}).Where("team_id = ?", team.ID).Count(&tasks)
	db.Model(&models.ActivityLog{}).
		Where("task_id NOT IN (SELECT id FROM tasks)").Count(&logs)
	db.Model(&models.TeamMembership{}).Where("team_id = ?", team.ID).Count(&memberships)
	if teams != 0 || tasks != 0 || logs != 0 || memberships != 0 {
		t.Errorf("after cascade: teams=%d tasks=%d orphan logs=%d memberships=%d, expected all 0",
			teams, tasks, logs, memberships)
	}

	if got := countLogs(t, db, survivor.ID, models.ActionCreated); got != 1 {
		t.Errorf("other team's logs = %d, expected untouched", got)
	}
}

func TestTeamDelete_MemberForbidden(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")
	if _, err := NewMembershipService(db).AddOrUpdate(team.ID, bob.ID, models.RoleMember); err != nil {
		t.Fatalf("AddOrUpdate() error = %v", err)
	}

	if err := NewTeamService(db).Delete(team.ID, bob.ID); !response.IsForbidden(err) {
		t.Fatalf("Delete() by member error = %v, expected Forbidden", err)
	}
}

func TestAddMember_AdminGateAndUpsert(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")

	svc := NewTeamService(db)
	if _, err := svc.AddMember(team.ID, bob.ID, models.RoleMember, alice.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	if _, err := svc.AddMember(team.ID, carol.ID, models.RoleMember, bob.ID); !response.IsForbidden(err) {
		t.Fatalf("AddMember() by member error = %v, expected Forbidden", err)
	}

	// Adding an existing member again promotes instead of duplicating.
	if _, err := svc.AddMember(team.ID, bob.ID, models.RoleAdmin, alice.ID); err != nil {
		t.Fatalf("repeat AddMember() error = %v", err)
	}
	var count int64
	db.Model(&models.TeamMembership{}).Where("team_id = ? AND user_id = ?", team.ID, bob.ID).Count(&count)
	if count != 1 {
		t.Errorf("membership rows = %d, expected 1", count)
	}
	m, err := NewMembershipService(db).Get(team.ID, bob.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("role = %q, expected %q", m.Role, models.RoleAdmin)
	}
}

func TestAddMember_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")

	if _, err := NewTeamService(db).AddMember(team.ID, 999, models.RoleMember, alice.ID); !response.IsNotFound(err) {
		t.Fatalf("AddMember() error = %v, expected NotFound", err)
	}
}

func TestRemoveMember_AdminGate(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")

	svc := NewTeamService(db)
	if _, err := svc.AddMember(team.ID, bob.ID, models.RoleMember, alice.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if _, err := svc.AddMember(team.ID, carol.ID, models.RoleMember, alice.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	if err := svc.RemoveMember(team.ID, carol.ID, bob.ID); !response.IsForbidden(err) {
		t.Fatalf("RemoveMember() by member error = %v, expected Forbidden", err)
	}

	if err := svc.RemoveMember(team.ID, carol.ID, alice.ID); err != nil {
		t.Fatalf("RemoveMember() by admin error = %v", err)
	}
	if NewMembershipService(db).IsMember(carol.ID, team.ID) {
		t.Error("carol should no longer be a member")
	}
}

func TestChangeMemberRole_AdminGate(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	company := createCompany(t, db, "Acme", alice.ID)
	team := createTeam(t, db, company.ID, alice.ID, "Core")

	svc := NewTeamService(db)
	if _, err := svc.AddMember(team.ID, bob.ID, models.RoleMember, alice.ID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	if _, err := svc.ChangeMemberRole(team.ID, bob.ID, models.RoleAdmin, bob.ID); !response.IsForbidden(err) {
		t.Fatalf("ChangeMemberRole() by member error = %v, expected Forbidden", err)
	}

	m, err := svc.ChangeMemberRole(team.ID, bob.ID, models.RoleAdmin, alice.ID)
	if err != nil {
		t.Fatalf("ChangeMemberRole() by admin error = %v", err)
	}
	if m.Role != models.RoleAdmin {
		t.Errorf("role = %q, expected %q", m.Role, models.RoleAdmin)
	}
}
