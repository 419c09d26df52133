package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/polas15-707-eng/teachassist-app/internal/middleware"
	"github.com/polas15-707-eng/teachassist-app/internal/response"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
)

// OverviewHandler serves the role-scoped dashboard.
type OverviewHandler struct {
	overviewService *service.OverviewService
}

// NewOverviewHandler creates a new OverviewHandler.
func NewOverviewHandler(overviewService *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviewService: overviewService}
}

// Get godoc
// GET /api/v1/overview
// Builds the dashboard for the caller's role. The shape of the payload
// depends on whether the token belongs to an admin, teacher, or student.
func (h *OverviewHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	overview, err := h.overviewService.BuildFor(c.Request.Context(), claims.Role, claims.UserID)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"overview": overview})
}
