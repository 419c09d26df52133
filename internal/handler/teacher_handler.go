package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/polas15-707-eng/teachassist-app/internal/response"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
)

// TeacherHandler exposes teacher directory and admin moderation endpoints.
type TeacherHandler struct {
	teacherService *service.TeacherService
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(teacherService *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// ListActive godoc
// GET /api/v1/teachers
// Returns the approved teachers students can book with.
func (h *TeacherHandler) ListActive(c *gin.Context) {
	teachers, err := h.teacherService.ListActive(c.Request.Context())
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teachers": teachers})
}

// ListAll godoc
// GET /api/v1/admin/teachers
// Returns every teacher regardless of account status.
func (h *TeacherHandler) ListAll(c *gin.Context) {
	teachers, err := h.teacherService.ListAll(c.Request.Context())
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teachers": teachers})
}

// Approve godoc
// POST /api/v1/admin/teachers/:id/approve
// Activates a pending teacher account. Conflicts if already active.
func (h *TeacherHandler) Approve(c *gin.Context) {
	teacherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	teacher, err := h.teacherService.Approve(c.Request.Context(), teacherID)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// Reject godoc
// POST /api/v1/admin/teachers/:id/reject
// Notifies a pending teacher that their application was declined. The
// account stays Pending; only approval changes its status.
func (h *TeacherHandler) Reject(c *gin.Context) {
	teacherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.teacherService.Reject(c.Request.Context(), teacherID); err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
