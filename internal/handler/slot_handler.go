package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/polas15-707-eng/teachassist-app/internal/middleware"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/response"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
	"github.com/polas15-707-eng/teachassist-app/internal/validator"
)

// SlotHandler handles routine slot management and lookup.
type SlotHandler struct {
	slotService *service.SlotService
}

// NewSlotHandler creates a new SlotHandler.
func NewSlotHandler(slotService *service.SlotService) *SlotHandler {
	return &SlotHandler{slotService: slotService}
}

// Create godoc
// POST /api/v1/slots
// Publishes a weekly routine slot for the authenticated teacher.
func (h *SlotHandler) Create(c *gin.Context) {
	teacherID, ok := teacherIDFromClaims(c)
	if !ok {
		return
	}

	var req model.CreateSlotRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	slot, err := h.slotService.AddSlot(c.Request.Context(), teacherID, req.Day, req.StartTime, req.EndTime)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"slot": slot})
}

// Delete godoc
// DELETE /api/v1/slots/:id
// Removes one of the authenticated teacher's slots. Existing bookings that
// reference the slot are unaffected.
func (h *SlotHandler) Delete(c *gin.Context) {
	teacherID, ok := teacherIDFromClaims(c)
	if !ok {
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.slotService.RemoveSlot(c.Request.Context(), teacherID, slotID); err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListMine godoc
// GET /api/v1/slots
// Returns all of the authenticated teacher's slots, available or not.
func (h *SlotHandler) ListMine(c *gin.Context) {
	teacherID, ok := teacherIDFromClaims(c)
	if !ok {
		return
	}

	slots, err := h.slotService.ListSlots(c.Request.Context(), teacherID, false)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

// ListOpen godoc
// GET /api/v1/teachers/:id/slots
// Returns the bookable slots of an active teacher.
func (h *SlotHandler) ListOpen(c *gin.Context) {
	teacherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	slots, err := h.slotService.ListOpenSlots(c.Request.Context(), teacherID)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

// teacherIDFromClaims pulls the teacher profile id out of the JWT. Writes
// the error response itself when the token carries no teacher identity.
func teacherIDFromClaims(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, false
	}
	if claims.TeacherID == nil {
		response.Fail(c, http.StatusForbidden, response.ErrTeacherAccessOnly)
		return uuid.Nil, false
	}
	return *claims.TeacherID, true
}
