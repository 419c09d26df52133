package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the booking lifecycle state. Pending is the only initial
// state; Approved and Rejected are terminal.
type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "Pending"
	BookingStatusApproved BookingStatus = "Approved"
	BookingStatusRejected BookingStatus = "Rejected"
)

// Booking is a student's request to meet a teacher for a course at a
// specific date and time. BookingDate is a naive "YYYY-MM-DD" calendar date
// and BookingTime a "HH:MM" wall-clock value copied from the slot's start
// time at creation. There is no live foreign key to the slot, so bookings
// survive slot deletion. Bookings are never deleted, only transitioned.
type Booking struct {
	ID             uuid.UUID     `json:"id"`
	StudentID      uuid.UUID     `json:"student_id"`
	TeacherID      uuid.UUID     `json:"teacher_id"`
	CourseID       uuid.UUID     `json:"course_id"`
	Description    string        `json:"description"`
	BookingDate    string        `json:"booking_date"`
	BookingTime    string        `json:"booking_time"`
	Status         BookingStatus `json:"status"`
	ReminderSentAt *time.Time    `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BookingDetail is a Booking joined with the display names the role-scoped
// lists need, so callers never chase per-record lookups.
type BookingDetail struct {
	Booking
	StudentName string `json:"student_name"`
	TeacherName string `json:"teacher_name"`
	TeacherCode string `json:"teacher_code"`
	CourseName  string `json:"course_name"`

	// Emails feed the notification payload and are never serialized to API
	// responses.
	StudentEmail string `json:"-"`
	TeacherEmail string `json:"-"`
}

// CreateBookingRequest is the student payload for requesting an appointment.
type CreateBookingRequest struct {
	TeacherID   uuid.UUID `json:"teacher_id" binding:"required"`
	CourseID    uuid.UUID `json:"course_id" binding:"required"`
	SlotID      uuid.UUID `json:"slot_id" binding:"required"`
	BookingDate string    `json:"booking_date" binding:"required"`
	Description string    `json:"description" binding:"required,max=500"`
}
