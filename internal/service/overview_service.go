package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
)

// AdminOverview consolidates the metrics for the admin dashboard.
type AdminOverview struct {
	TotalStudents   int                         `json:"total_students"`
	ActiveTeachers  int                         `json:"active_teachers"`
	PendingTeachers int                         `json:"pending_teachers"`
	TotalCourses    int                         `json:"total_courses"`
	BookingCounts   map[model.BookingStatus]int `json:"booking_counts"`
	TotalBookings   int                         `json:"total_bookings"`
}

// TeacherOverview is the teacher dashboard. For a Pending teacher only
// AwaitingApproval is set; no booking data is exposed.
type TeacherOverview struct {
	AwaitingApproval bool                        `json:"awaiting_approval"`
	BookingCounts    map[model.BookingStatus]int `json:"booking_counts,omitempty"`
	TotalBookings    int                         `json:"total_bookings"`
	AvailableSlots   int                         `json:"available_slots"`
}

// StudentOverview partitions a student's bookings. The partitions are
// disjoint and cover every booking the student has.
type StudentOverview struct {
	Upcoming int `json:"upcoming"`
	Pending  int `json:"pending"`
	Past     int `json:"past"`
}

// Overview is the role-tagged dashboard variant. Exactly one of the three
// views is set, matching Role.
type Overview struct {
	Role    model.Role       `json:"role"`
	Admin   *AdminOverview   `json:"admin,omitempty"`
	Teacher *TeacherOverview `json:"teacher,omitempty"`
	Student *StudentOverview `json:"student,omitempty"`
}

// OverviewService builds role-scoped dashboard aggregates. It holds no
// state of its own; everything is read composition.
type OverviewService struct {
	overviewRepo repository.OverviewRepository
	teacherRepo  repository.TeacherRepository
	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

func NewOverviewService(overviewRepo repository.OverviewRepository, teacherRepo repository.TeacherRepository) *OverviewService {
	return &OverviewService{
		overviewRepo: overviewRepo,
		teacherRepo:  teacherRepo,
		now:          time.Now,
	}
}

// BuildFor dispatches on the caller's role. "Today" is captured once here
// and reused for every comparison, so a view is internally consistent even
// when built across a midnight boundary.
func (s *OverviewService) BuildFor(ctx context.Context, role model.Role, userID uuid.UUID) (*Overview, error) {
	today := s.now().Format(dateLayout)

	switch role {
	case model.RoleAdmin:
		admin, err := s.buildAdmin(ctx)
		if err != nil {
			return nil, err
		}
		return &Overview{Role: role, Admin: admin}, nil
	case model.RoleTeacher:
		teacher, err := s.buildTeacher(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &Overview{Role: role, Teacher: teacher}, nil
	case model.RoleStudent:
		student, err := s.buildStudent(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		return &Overview{Role: role, Student: student}, nil
	default:
		return nil, apperr.Newf(apperr.KindValidation, "unrecognized role %q", role)
	}
}

func (s *OverviewService) buildAdmin(ctx context.Context) (*AdminOverview, error) {
	students, active, pending, courses, err := s.overviewRepo.AdminSummaryCounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "admin summary counts", err)
	}

	bookingCounts, err := s.overviewRepo.BookingStatusCounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "booking status counts", err)
	}

	return &AdminOverview{
		TotalStudents:   students,
		ActiveTeachers:  active,
		PendingTeachers: pending,
		TotalCourses:    courses,
		BookingCounts:   bookingCounts,
		TotalBookings:   sumCounts(bookingCounts),
	}, nil
}

func (s *OverviewService) buildTeacher(ctx context.Context, userID uuid.UUID) (*TeacherOverview, error) {
	profile, err := s.teacherRepo.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "teacher profile not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "fetch teacher profile", err)
	}

	if profile.AccountStatus == model.AccountStatusPending {
		return &TeacherOverview{AwaitingApproval: true}, nil
	}

	bookingCounts, err := s.overviewRepo.TeacherBookingStatusCounts(ctx, profile.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "teacher booking counts", err)
	}
	slots, err := s.overviewRepo.TeacherAvailableSlotCount(ctx, profile.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "teacher slot count", err)
	}

	return &TeacherOverview{
		BookingCounts:  bookingCounts,
		TotalBookings:  sumCounts(bookingCounts),
		AvailableSlots: slots,
	}, nil
}

func (s *OverviewService) buildStudent(ctx context.Context, userID uuid.UUID, today string) (*StudentOverview, error) {
	upcoming, pending, past, err := s.overviewRepo.StudentPartitionCounts(ctx, userID, today)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "student partition counts", err)
	}
	return &StudentOverview{Upcoming: upcoming, Pending: pending, Past: past}, nil
}

func sumCounts(counts map[model.BookingStatus]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
