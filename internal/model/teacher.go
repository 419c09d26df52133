package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus tracks admin approval of a teacher account.
// New teachers start Pending and only an admin can activate them.
type AccountStatus string

const (
	AccountStatusPending AccountStatus = "Pending"
	AccountStatusActive  AccountStatus = "Active"
)

// TeacherProfile is owned 1:1 by a user with the teacher role.
// A Pending teacher is excluded from student-facing listings and
// cannot receive bookings.
type TeacherProfile struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	TeacherCode   string        `json:"teacher_code"`
	AccountStatus AccountStatus `json:"account_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// TeacherWithProfile is a TeacherProfile joined with the owner's
// display name and email.
type TeacherWithProfile struct {
	TeacherProfile
	Name  string `json:"name"`
	Email string `json:"email"`
}
