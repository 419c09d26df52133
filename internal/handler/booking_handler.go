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

// BookingHandler handles appointment booking endpoints.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create godoc
// POST /api/v1/bookings
// Books a concrete date against one of a teacher's routine slots. The
// booking starts Pending until the teacher decides.
func (h *BookingHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateBookingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	booking, err := h.bookingService.Create(
		c.Request.Context(),
		claims.UserID,
		req.TeacherID,
		req.CourseID,
		req.SlotID,
		req.BookingDate,
		req.Description,
	)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": booking})
}

// Approve godoc
// POST /api/v1/bookings/:id/approve
func (h *BookingHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Reject godoc
// POST /api/v1/bookings/:id/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

// decide resolves a pending booking for the authenticated teacher. A
// booking can be decided at most once; repeats conflict.
func (h *BookingHandler) decide(c *gin.Context, approve bool) {
	teacherID, ok := teacherIDFromClaims(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	booking, err := h.bookingService.Decide(c.Request.Context(), teacherID, bookingID, approve)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// ListForTeacher godoc
// GET /api/v1/bookings/teacher
// Returns every booking addressed to the authenticated teacher.
func (h *BookingHandler) ListForTeacher(c *gin.Context) {
	teacherID, ok := teacherIDFromClaims(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListForTeacher(c.Request.Context(), teacherID)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// ListForStudent godoc
// GET /api/v1/bookings/student
// Returns every booking made by the authenticated student.
func (h *BookingHandler) ListForStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookings, err := h.bookingService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}
