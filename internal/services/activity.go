package services

import (
	"fmt"

	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/gorm"
)

// ActivityService derives and appends the immutable audit trail of task
// mutations. Entries are written on the same transaction as the mutation
// they describe; a mutation that does not commit leaves no entry.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// deriveAction classifies a mutation from its before/after snapshots.
// Assignment changes take priority over everything else; the false to true
// transition of IsDeleted wins over plain field updates. A nil before means
// creation.
func deriveAction(before, after *models.Task) string {
	if before == nil {
		return models.ActionCreated
	}
	if !uintPtrEqual(before.AssignedTo, after.AssignedTo) {
		return models.ActionAssigned
	}
	if !before.IsDeleted && after.IsDeleted {
		return models.ActionDeleted
	}
	return models.ActionUpdated
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// record appends exactly one log entry for a committed mutation. The entry
// is attributed to the task's creator, not the authenticated caller; this
// mirrors the system's historical behavior and is relied upon by clients.
func (s *ActivityService) record(tx *gorm.DB, before, after *models.Task) error {
	action := deriveAction(before, after)

	var note string
	switch action {
	case models.ActionCreated:
		note = fmt.Sprintf("Task %q created", after.Title)
	case models.ActionAssigned:
		if after.AssignedTo != nil {
			note = fmt.Sprintf("Assigned to user %d", *after.AssignedTo)
		} else {
			note = "Assignee cleared"
		}
	case models.ActionDeleted:
		note = fmt.Sprintf("Task %q deleted", after.Title)
	default:
		note = "Task updated"
	}

	entry := models.ActivityLog{
		TaskID: after.ID,
		UserID: after.CreatedBy,
		Action: action,
		Note:   note,
	}
	return tx.Create(&entry).Error
}

// List returns the activity trail visible to the acting user: entries of
// tasks in teams where they hold a membership, newest first. Soft-deleted
// tasks remain visible here for audit continuity.
func (s *ActivityService) List(actingUserID uint) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.
		Joins("JOIN tasks ON tasks.id = activity_logs.task_id").
		Joins("JOIN team_memberships ON team_memberships.team_id = tasks.team_id AND team_memberships.user_id = ?", actingUserID).
		Preload("User").
		Order("activity_logs.timestamp DESC, activity_logs.id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// ListByTask returns the trail of a single task, newest first, provided the
// acting user can see the task's team.
func (s *ActivityService) ListByTask(taskID, actingUserID uint) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.
		Joins("JOIN tasks ON tasks.id = activity_logs.task_id").
		Joins("JOIN team_memberships ON team_memberships.team_id = tasks.team_id AND team_memberships.user_id = ?", actingUserID).
		Where("activity_logs.task_id = ?", taskID).
		Preload("User").
		Order("activity_logs.timestamp DESC, activity_logs.id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
