package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/response"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
	"github.com/polas15-707-eng/teachassist-app/internal/validator"
)

// CourseHandler handles course catalog endpoints.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// List godoc
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.GetAll(c.Request.Context())
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// Create godoc
// POST /api/v1/admin/courses
// Adds a course to the catalog. Names are unique case-insensitively.
func (h *CourseHandler) Create(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), req.CourseName)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}
