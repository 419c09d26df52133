package model

import (
	"time"

	"github.com/google/uuid"
)

// Course is a reference entity with a unique display name.
// Courses are created by admins and referenced by bookings.
type Course struct {
	ID         uuid.UUID `json:"id"`
	CourseName string    `json:"course_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCourseRequest is the admin payload for adding a course.
type CreateCourseRequest struct {
	CourseName string `json:"course_name" binding:"required,max=200"`
}
