package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
	"gorm.io/gorm"
)

// ActivityHandler serves the read-only audit trail.
type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{activityService: services.NewActivityService(db)}
}

// List returns activity entries of tasks in teams the acting user belongs
// to, newest first.
func (h *ActivityHandler) List(c *gin.Context) {
	logs, err := h.activityService.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, logs)
}
