package services

import (
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/response"
)

// Authorizer holds the stateless access policies. Every mutation entry point
// calls exactly one policy before touching storage; a denial leaves no state
// change behind.
type Authorizer struct {
	memberships *MembershipService
}

func NewAuthorizer(memberships *MembershipService) *Authorizer {
	return &Authorizer{memberships: memberships}
}

// CanRead allows any team member.
func (a *Authorizer) CanRead(userID, teamID uint) bool {
	return a.memberships.IsMember(userID, teamID)
}

// CanAdminister allows team admins only.
func (a *Authorizer) CanAdminister(userID, teamID uint) bool {
	return a.memberships.IsAdmin(userID, teamID)
}

// CanManageTask decides whether userID may apply patch to task. Admins may
// change any field. A plain member may only submit status and description;
// a patch carrying any other field is rejected in full, nothing is applied.
func (a *Authorizer) CanManageTask(userID uint, task *models.Task, patch *TaskPatch) error {
	if a.memberships.IsAdmin(userID, task.TeamID) {
		return nil
	}
	if !a.memberships.IsMember(userID, task.TeamID) {
		return response.NewForbidden("not a member of this team")
	}
	if !patch.MemberFieldsOnly() {
		return response.NewForbidden("members may only change status and description")
	}
	return nil
}
