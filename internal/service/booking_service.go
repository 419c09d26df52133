package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
	"github.com/rs/zerolog"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	maxDescriptionLen = 500
)

// BookingService is the booking workflow engine. It creates bookings
// against the availability calendar, enforces the Pending→Approved/Rejected
// state machine, and raises notification events after each transition.
type BookingService struct {
	bookingRepo repository.BookingRepository
	teacherRepo repository.TeacherRepository
	courseRepo  repository.CourseRepository
	userRepo    repository.UserRepository
	publisher   event.Publisher
	log         zerolog.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	teacherRepo repository.TeacherRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	publisher event.Publisher,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		teacherRepo: teacherRepo,
		courseRepo:  courseRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		log:         log.With().Str("component", "booking_service").Logger(),
	}
}

// Create books a slot for a student. The slot check and insert run as one
// transaction in the store, so concurrent requests for the same slot and
// date yield exactly one Pending booking; the loser gets a conflict.
// The booking time is copied from the slot's start time.
func (s *BookingService) Create(ctx context.Context, studentID, teacherID, courseID, slotID uuid.UUID, date, description string) (*model.Booking, error) {
	description = strings.TrimSpace(description)
	if description == "" || utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, apperr.New(apperr.KindValidation, "description must be 1-500 characters")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperr.Newf(apperr.KindValidation, "invalid booking date %q", date)
	}

	teacher, err := s.teacherRepo.GetWithProfile(ctx, teacherID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "teacher not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "fetch teacher", err)
	}
	if teacher.AccountStatus != model.AccountStatusActive {
		return nil, apperr.New(apperr.KindConflict, "teacher is not accepting bookings")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "course not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "fetch course", err)
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "student not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "fetch student", err)
	}

	booking := &model.Booking{
		ID:          uuid.New(),
		StudentID:   studentID,
		TeacherID:   teacherID,
		CourseID:    courseID,
		Description: description,
		BookingDate: date,
	}

	err = s.bookingRepo.Create(ctx, booking, slotID)
	switch {
	case errors.Is(err, repository.ErrSlotNotFound):
		return nil, apperr.New(apperr.KindNotFound, "slot not found")
	case errors.Is(err, repository.ErrSlotUnavailable):
		return nil, apperr.New(apperr.KindConflict, "slot is not accepting bookings")
	case errors.Is(err, repository.ErrSlotTaken):
		return nil, apperr.New(apperr.KindConflict, "slot already booked for that date")
	case err != nil:
		return nil, apperr.Wrap(apperr.KindTransient, "create booking", err)
	}

	ev := event.NewBookingCreated(event.BookingContext{
		StudentName:  student.Name,
		StudentEmail: student.Email,
		TeacherName:  teacher.Name,
		TeacherEmail: teacher.Email,
		CourseName:   course.CourseName,
		BookingDate:  booking.BookingDate,
		BookingTime:  booking.BookingTime,
		Description:  booking.Description,
	})
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Error().Err(err).Stringer("booking_id", booking.ID).Msg("publish booking_created failed")
	}

	return booking, nil
}

// Decide applies the teacher's approve/reject decision. The status check
// and update run as one transaction, so a booking transitions out of
// Pending exactly once; repeated decisions fail with a conflict.
func (s *BookingService) Decide(ctx context.Context, teacherID, bookingID uuid.UUID, approve bool) (*model.Booking, error) {
	status := model.BookingStatusApproved
	if !approve {
		status = model.BookingStatusRejected
	}

	booking, err := s.bookingRepo.DecideIfPending(ctx, bookingID, teacherID, status)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, apperr.New(apperr.KindNotFound, "booking not found")
	case errors.Is(err, repository.ErrAlreadyDecided):
		return nil, apperr.New(apperr.KindConflict, "booking already decided")
	case err != nil:
		return nil, apperr.Wrap(apperr.KindTransient, "decide booking", err)
	}

	detail, err := s.bookingRepo.GetDetail(ctx, bookingID)
	if err != nil {
		// The transition committed; losing the notification is acceptable,
		// losing the decision is not.
		s.log.Error().Err(err).Stringer("booking_id", bookingID).Msg("fetch booking detail for notification failed")
		return booking, nil
	}

	ev := event.NewBookingDecided(approve, bookingContext(detail))
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Error().Err(err).Stringer("booking_id", bookingID).Msg("publish booking decision failed")
	}

	return booking, nil
}

// ListForTeacher returns all bookings addressed to the teacher, enriched
// with student and course names.
func (s *BookingService) ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.BookingDetail, error) {
	bookings, err := s.bookingRepo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "list teacher bookings", err)
	}
	return bookings, nil
}

// ListForStudent returns all bookings created by the student, enriched with
// teacher and course names.
func (s *BookingService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*model.BookingDetail, error) {
	bookings, err := s.bookingRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "list student bookings", err)
	}
	return bookings, nil
}

// ScanDueReminders claims Approved bookings starting within the lookahead
// window and raises a reminder event for each. Claiming sets a persisted
// marker, so a booking is reminded at most once no matter how often or how
// overlapping the scans run. Returns the number of reminders raised.
func (s *BookingService) ScanDueReminders(ctx context.Context, now time.Time, lookahead time.Duration) (int, error) {
	today := now.Format(dateLayout)
	from := now.Format(clockLayout)
	to := now.Add(lookahead).Format(clockLayout)
	if to < from {
		// Window crosses midnight; clamp to the end of today. Early-morning
		// sessions are picked up by the first scan after midnight.
		to = "23:59"
	}

	claimed, err := s.bookingRepo.ClaimDueReminders(ctx, today, from, to)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindTransient, "claim due reminders", err)
	}

	for _, detail := range claimed {
		ev := event.NewBookingReminder(bookingContext(detail))
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.Error().Err(err).Stringer("booking_id", detail.ID).Msg("publish booking_reminder failed")
		}
	}

	return len(claimed), nil
}

func bookingContext(d *model.BookingDetail) event.BookingContext {
	return event.BookingContext{
		StudentName:  d.StudentName,
		StudentEmail: d.StudentEmail,
		TeacherName:  d.TeacherName,
		TeacherEmail: d.TeacherEmail,
		CourseName:   d.CourseName,
		BookingDate:  d.BookingDate,
		BookingTime:  d.BookingTime,
		Description:  d.Description,
	}
}
