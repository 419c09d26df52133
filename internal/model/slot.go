package model

import (
	"time"

	"github.com/google/uuid"
)

// Weekday is one of the seven recognized day names for a routine slot.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// weekdayOrder fixes the Monday-first listing order for slot queries.
var weekdayOrder = map[Weekday]int{
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
	Saturday:  6,
	Sunday:    7,
}

// ParseWeekday validates a raw day string.
func ParseWeekday(raw string) (Weekday, bool) {
	if _, ok := weekdayOrder[Weekday(raw)]; ok {
		return Weekday(raw), true
	}
	return "", false
}

// Order returns the Monday-first position of the day, 1 through 7.
func (d Weekday) Order() int {
	return weekdayOrder[d]
}

// RoutineSlot is a weekly recurring time window declared by a teacher.
// Times are naive wall-clock values with minute precision, stored as
// zero-padded "HH:MM" strings so that lexical and chronological order agree.
// IsAvailable is a teacher-declared intent flag; bookings never toggle it.
type RoutineSlot struct {
	ID          uuid.UUID `json:"id"`
	TeacherID   uuid.UUID `json:"teacher_id"`
	Day         Weekday   `json:"day"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSlotRequest is the teacher payload for publishing a routine slot.
type CreateSlotRequest struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}
