package services

import (
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskService owns task records and sequences every mutation as one
// transaction: load the row under a row-level lock, run the authorization
// gate, snapshot the before state, apply the change, append the activity
// entry, commit. A failure anywhere before commit leaves neither a row
// change nor a log entry.
type TaskService struct {
	db          *gorm.DB
	memberships *MembershipService
	authz       *Authorizer
	activity    *ActivityService
}

func NewTaskService(db *gorm.DB) *TaskService {
	memberships := NewMembershipService(db)
	return &TaskService{
		db:          db,
		memberships: memberships,
		authz:       NewAuthorizer(memberships),
		activity:    NewActivityService(db),
	}
}

type CreateTaskRequest struct {
	TeamID      uint       `json:"team_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskPatch carries a partial update; only non-nil fields are applied.
type TaskPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uint      `json:"assigned_to"`
}

// MemberFieldsOnly reports whether the patch touches nothing beyond status
// and description, the only fields a plain member may change.
func (p *TaskPatch) MemberFieldsOnly() bool {
	return p.Title == nil && p.DueDate == nil && p.AssignedTo == nil
}

type TaskListRequest struct {
	TeamID     *uint  `form:"team"`
	Status     string `form:"status"`
	AssignedTo *uint  `form:"assigned_to"`
	DueDate    string `form:"due_date"` // YYYY-MM-DD
	Search     string `form:"search"`
	OrderBy    string `form:"order_by"` // due_date, created_at
	Order      string `form:"order"`    // asc, desc
}

// Create creates a task in the given team. Only team admins may create
// tasks; the creation and its `created` activity entry share one commit.
func (s *TaskService) Create(req *CreateTaskRequest, actingUserID uint) (*models.Task, error) {
	var team models.Team
	if err := s.db.First(&team, req.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("team not found")
		}
		return nil, err
	}

	if !s.authz.CanAdminister(actingUserID, team.ID) {
		return nil, response.NewForbidden("only team admins can create tasks")
	}

	creator := actingUserID
	task := models.Task{
		TeamID:      team.ID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   &creator,
		Status:      models.StatusTodo,
		DueDate:     req.DueDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return s.activity.record(tx, nil, &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByID returns a task visible to the acting user. Soft-deleted tasks are
// not returned here; their activity trail remains readable.
func (s *TaskService) GetByID(id, actingUserID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.Preload("Creator").Preload("Assignee").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}
	if !s.authz.CanRead(actingUserID, task.TeamID) {
		return nil, response.NewNotFound("task not found")
	}
	return &task, nil
}

// List returns non-deleted tasks of teams the acting user belongs to,
// narrowed by the request's filters.
func (s *TaskService) List(req *TaskListRequest, actingUserID uint) ([]models.Task, error) {
	query := s.db.Model(&models.Task{}).
		Joins("JOIN team_memberships ON team_memberships.team_id = tasks.team_id AND team_memberships.user_id = ?", actingUserID).
		Where("tasks.is_deleted = ?", false).
		Preload("Creator").
		Preload("Assignee")

	if req.TeamID != nil {
		query = query.Where("tasks.team_id = ?", *req.TeamID)
	}
	if req.Status != "" {
		query = query.Where("LOWER(tasks.status) = LOWER(?)", req.Status)
	}
	if req.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *req.AssignedTo)
	}
	if req.DueDate != "" {
		if day, err := time.Parse("2006-01-02", req.DueDate); err == nil {
			query = query.Where("tasks.due_date >= ? AND tasks.due_date < ?", day, day.AddDate(0, 0, 1))
		}
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("tasks.title LIKE ? OR tasks.description LIKE ?", like, like)
	}

	orderBy := "created_at"
	if req.OrderBy == "due_date" {
		orderBy = "due_date"
	}
	order := "DESC"
	if req.Order == "asc" {
		order = "ASC"
	}

	var tasks []models.Task
	if err := query.Order("tasks." + orderBy + " " + order).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial update. Admins may change any field; plain
// members only status and description, and a patch carrying more is
// rejected in full before anything is written. Changing the assignee
// through the patch is validated like an assignment.
func (s *TaskService) Update(id uint, patch *TaskPatch, actingUserID uint) (*models.Task, error) {
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, response.NewBadRequest("invalid status, must be 'todo', 'in_progress' or 'done'")
	}

	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTask(tx, &task, id, false); err != nil {
			return err
		}

		if err := s.authz.CanManageTask(actingUserID, &task, patch); err != nil {
			return err
		}

		if patch.AssignedTo != nil && !s.memberships.IsMember(*patch.AssignedTo, task.TeamID) {
			return response.NewInvalidAssignee("assignee is not a member of the task's team")
		}

		before := task

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description != nil {
			task.Description = *patch.Description
		}
		if patch.Status != nil {
			task.Status = *patch.Status
		}
		if patch.DueDate != nil {
			task.DueDate = patch.DueDate
		}
		if patch.AssignedTo != nil {
			task.AssignedTo = patch.AssignedTo
		}

		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.activity.record(tx, &before, &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Assign sets the task's assignee. Admin only; the target must hold a
// membership in the task's team.
func (s *TaskService) Assign(id, targetUserID, actingUserID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTask(tx, &task, id, false); err != nil {
			return err
		}

		if !s.authz.CanAdminister(actingUserID, task.TeamID) {
			return response.NewForbidden("only team admins can assign tasks")
		}

		var target models.User
		if err := tx.First(&target, targetUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("user not found")
			}
			return err
		}

		if !s.memberships.IsMember(targetUserID, task.TeamID) {
			return response.NewInvalidAssignee("assignee is not a member of the task's team")
		}

		before := task
		task.AssignedTo = &target.ID

		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.activity.record(tx, &before, &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// SoftDelete marks the task deleted. Admin only. Idempotent: deleting an
// already-deleted task writes nothing and emits no second `deleted` entry.
func (s *TaskService) SoftDelete(id, actingUserID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockTask(tx, &task, id, true); err != nil {
			return err
		}

		if !s.authz.CanAdminister(actingUserID, task.TeamID) {
			return response.NewForbidden("only team admins can delete tasks")
		}

		if task.IsDeleted {
			return nil
		}

		before := task
		now := time.Now()
		task.IsDeleted = true
		task.DeletedOn = &now

		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.activity.record(tx, &before, &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// lockTask loads a task under a row-level lock so the snapshot, the write
// and the log append form one atomic unit per task row. includeDeleted
// controls whether soft-deleted rows are visible (the delete path needs
// them for its idempotency check). SQLite serializes writers on its own and
// rejects FOR UPDATE, so the clause is skipped there.
func lockTask(tx *gorm.DB, task *models.Task, id uint, includeDeleted bool) error {
	query := tx
	if tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if err := query.First(task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("task not found")
		}
		return err
	}
	return nil
}
