package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
)

// fakeOverviewRepo serves canned aggregates and records the date the
// student partition query was asked for.
type fakeOverviewRepo struct {
	students, activeTeachers, pendingTeachers, courses int
	bookingCounts                                      map[model.BookingStatus]int
	teacherCounts                                      map[model.BookingStatus]int
	availableSlots                                     int
	upcoming, pending, past                            int

	askedToday string
}

func (r *fakeOverviewRepo) AdminSummaryCounts(_ context.Context) (int, int, int, int, error) {
	return r.students, r.activeTeachers, r.pendingTeachers, r.courses, nil
}

func (r *fakeOverviewRepo) BookingStatusCounts(_ context.Context) (map[model.BookingStatus]int, error) {
	return r.bookingCounts, nil
}

func (r *fakeOverviewRepo) TeacherBookingStatusCounts(_ context.Context, _ uuid.UUID) (map[model.BookingStatus]int, error) {
	return r.teacherCounts, nil
}

func (r *fakeOverviewRepo) TeacherAvailableSlotCount(_ context.Context, _ uuid.UUID) (int, error) {
	return r.availableSlots, nil
}

func (r *fakeOverviewRepo) StudentPartitionCounts(_ context.Context, _ uuid.UUID, today string) (int, int, int, error) {
	r.askedToday = today
	return r.upcoming, r.pending, r.past, nil
}

func TestAdminOverview(t *testing.T) {
	repo := &fakeOverviewRepo{
		students:        12,
		activeTeachers:  3,
		pendingTeachers: 2,
		courses:         5,
		bookingCounts: map[model.BookingStatus]int{
			model.BookingStatusPending:  4,
			model.BookingStatusApproved: 7,
			model.BookingStatusRejected: 1,
		},
	}
	svc := NewOverviewService(repo, newFakeTeacherRepo())

	ov, err := svc.BuildFor(context.Background(), model.RoleAdmin, uuid.New())
	if err != nil {
		t.Fatalf("BuildFor: %v", err)
	}

	if ov.Admin == nil || ov.Teacher != nil || ov.Student != nil {
		t.Fatal("admin overview must set exactly the admin view")
	}
	if ov.Admin.TotalStudents != 12 || ov.Admin.ActiveTeachers != 3 || ov.Admin.PendingTeachers != 2 {
		t.Errorf("summary counts = %+v", ov.Admin)
	}
	if ov.Admin.TotalBookings != 12 {
		t.Errorf("total bookings = %d, want 12", ov.Admin.TotalBookings)
	}
}

func TestTeacherOverviewPending(t *testing.T) {
	teachers := newFakeTeacherRepo()
	pending := teachers.add("Bu Ani", "ani@example.com", model.AccountStatusPending)
	repo := &fakeOverviewRepo{
		teacherCounts:  map[model.BookingStatus]int{model.BookingStatusPending: 9},
		availableSlots: 4,
	}
	svc := NewOverviewService(repo, teachers)

	ov, err := svc.BuildFor(context.Background(), model.RoleTeacher, pending.UserID)
	if err != nil {
		t.Fatalf("BuildFor: %v", err)
	}

	// A pending teacher sees only the awaiting-approval flag: no booking
	// data leaks into the view.
	if !ov.Teacher.AwaitingApproval {
		t.Error("AwaitingApproval = false, want true")
	}
	if ov.Teacher.BookingCounts != nil || ov.Teacher.TotalBookings != 0 || ov.Teacher.AvailableSlots != 0 {
		t.Errorf("pending teacher view leaked data: %+v", ov.Teacher)
	}
}

func TestTeacherOverviewActive(t *testing.T) {
	teachers := newFakeTeacherRepo()
	active := teachers.add("Pak Budi", "budi@example.com", model.AccountStatusActive)
	repo := &fakeOverviewRepo{
		teacherCounts: map[model.BookingStatus]int{
			model.BookingStatusPending:  2,
			model.BookingStatusApproved: 5,
		},
		availableSlots: 3,
	}
	svc := NewOverviewService(repo, teachers)

	ov, err := svc.BuildFor(context.Background(), model.RoleTeacher, active.UserID)
	if err != nil {
		t.Fatalf("BuildFor: %v", err)
	}

	if ov.Teacher.AwaitingApproval {
		t.Error("AwaitingApproval = true for an active teacher")
	}
	if ov.Teacher.TotalBookings != 7 {
		t.Errorf("total bookings = %d, want 7", ov.Teacher.TotalBookings)
	}
	if ov.Teacher.AvailableSlots != 3 {
		t.Errorf("available slots = %d, want 3", ov.Teacher.AvailableSlots)
	}
}

func TestStudentOverviewUsesSingleToday(t *testing.T) {
	repo := &fakeOverviewRepo{upcoming: 1, pending: 2, past: 3}
	svc := NewOverviewService(repo, newFakeTeacherRepo())
	svc.now = func() time.Time {
		return time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	}

	ov, err := svc.BuildFor(context.Background(), model.RoleStudent, uuid.New())
	if err != nil {
		t.Fatalf("BuildFor: %v", err)
	}

	if ov.Student.Upcoming != 1 || ov.Student.Pending != 2 || ov.Student.Past != 3 {
		t.Errorf("partitions = %+v", ov.Student)
	}
	if repo.askedToday != "2026-09-07" {
		t.Errorf("today = %s, want 2026-09-07", repo.askedToday)
	}
}

func TestOverviewUnknownRole(t *testing.T) {
	svc := NewOverviewService(&fakeOverviewRepo{}, newFakeTeacherRepo())

	_, err := svc.BuildFor(context.Background(), model.Role("ghost"), uuid.New())
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}
