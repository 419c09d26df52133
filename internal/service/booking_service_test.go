package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/rs/zerolog"
)

type bookingFixture struct {
	svc       *BookingService
	repo      *fakeBookingRepo
	publisher *recordingPublisher
	teacher   *model.TeacherWithProfile
	student   *model.User
	course    *model.Course
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	teachers := newFakeTeacherRepo()
	teacher := teachers.add("Pak Budi", "budi@example.com", model.AccountStatusActive)

	users := newFakeUserRepo()
	student := &model.User{
		ID:    uuid.New(),
		Name:  "Siti",
		Email: "siti@example.com",
		Role:  model.RoleStudent,
	}
	users.users[student.ID] = student

	courses := newFakeCourseRepo()
	course := courses.add("Mathematics")

	repo := newFakeBookingRepo()
	repo.people[student.ID] = [2]string{student.Name, student.Email}
	repo.people[teacher.ID] = [2]string{teacher.Name, teacher.Email}

	publisher := &recordingPublisher{}
	svc := NewBookingService(repo, teachers, courses, users, publisher, zerolog.Nop())

	return &bookingFixture{
		svc:       svc,
		repo:      repo,
		publisher: publisher,
		teacher:   teacher,
		student:   student,
		course:    course,
	}
}

func TestBookingCreate(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	booking, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "Need help with calculus")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if booking.Status != model.BookingStatusPending {
		t.Errorf("status = %s, want Pending", booking.Status)
	}
	if booking.BookingTime != "09:00" {
		t.Errorf("booking time = %s, want slot start 09:00", booking.BookingTime)
	}

	events := fx.publisher.published()
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != event.TypeBookingCreated {
		t.Errorf("event type = %s, want %s", ev.Type, event.TypeBookingCreated)
	}
	if got := ev.Payload[event.KeyRecipientEmail]; got != fx.teacher.Email {
		t.Errorf("recipient = %s, want teacher %s", got, fx.teacher.Email)
	}
}

func TestBookingCreateValidation(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	cases := []struct {
		name        string
		date        string
		description string
	}{
		{"empty description", "2026-09-07", "   "},
		{"overlong description", "2026-09-07", strings.Repeat("x", 501)},
		{"bad date", "07-09-2026", "valid description"},
		{"not a date", "someday", "valid description"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, tc.date, tc.description)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}

	if len(fx.publisher.published()) != 0 {
		t.Error("validation failures must not publish events")
	}
}

// The description bound counts characters, not bytes.
func TestBookingCreateMultibyteDescription(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	if _, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", strings.Repeat("é", 500)); err != nil {
		t.Errorf("500-rune description: %v", err)
	}

	_, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-14", strings.Repeat("é", 501))
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("501-rune description err = %v, want validation error", err)
	}
}

func TestBookingCreateSingleOccupancy(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	if _, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "first"); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Same slot, same date: taken.
	_, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "second")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("same date err = %v, want conflict", err)
	}

	// Same slot, another date: fine.
	if _, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-14", "next week"); err != nil {
		t.Errorf("other date Create: %v", err)
	}
}

func TestBookingCreateConcurrent(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "racing for the spot")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperr.IsKind(err, apperr.KindConflict):
			conflicted++
		default:
			t.Errorf("unexpected err: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
	if conflicted != callers-1 {
		t.Errorf("conflicted = %d, want %d", conflicted, callers-1)
	}
}

func TestBookingCreateRejectedFreesSpot(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	first, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "first")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fx.svc.Decide(ctx, fx.teacher.ID, first.ID, false); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	if _, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "retry"); err != nil {
		t.Errorf("Create after rejection: %v, want success", err)
	}
}

func TestBookingCreateSlotGuards(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	closed := fx.repo.addSlot(fx.teacher.ID, "10:00", false)
	_, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, closed.ID, "2026-09-07", "closed slot")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("unavailable slot err = %v, want conflict", err)
	}

	_, err = fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, uuid.New(), "2026-09-07", "missing slot")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("missing slot err = %v, want not found", err)
	}
}

func TestBookingCreatePendingTeacher(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()

	teachers := fx.svc.teacherRepo.(*fakeTeacherRepo)
	pending := teachers.add("Bu Ani", "ani@example.com", model.AccountStatusPending)
	slot := fx.repo.addSlot(pending.ID, "09:00", true)

	_, err := fx.svc.Create(ctx, fx.student.ID, pending.ID, fx.course.ID, slot.ID, "2026-09-07", "pending teacher")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("pending teacher err = %v, want conflict", err)
	}
}

func TestBookingDecide(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	booking, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "please approve")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	decided, err := fx.svc.Decide(ctx, fx.teacher.ID, booking.ID, true)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != model.BookingStatusApproved {
		t.Errorf("status = %s, want Approved", decided.Status)
	}

	// Second decision conflicts, in either direction.
	if _, err := fx.svc.Decide(ctx, fx.teacher.ID, booking.ID, true); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("repeat approve err = %v, want conflict", err)
	}
	if _, err := fx.svc.Decide(ctx, fx.teacher.ID, booking.ID, false); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("approve-then-reject err = %v, want conflict", err)
	}

	events := fx.publisher.published()
	if len(events) != 2 { // booking_created + booking_approved
		t.Fatalf("published %d events, want 2", len(events))
	}
	ev := events[1]
	if ev.Type != event.TypeBookingApproved {
		t.Errorf("event type = %s, want %s", ev.Type, event.TypeBookingApproved)
	}
	if got := ev.Payload[event.KeyRecipientEmail]; got != fx.student.Email {
		t.Errorf("recipient = %s, want student %s", got, fx.student.Email)
	}
}

func TestBookingDecideWrongTeacher(t *testing.T) {
	fx := newBookingFixture(t)
	slot := fx.repo.addSlot(fx.teacher.ID, "09:00", true)
	ctx := context.Background()

	booking, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, "2026-09-07", "mine")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = fx.svc.Decide(ctx, uuid.New(), booking.ID, true)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("foreign decide err = %v, want not found", err)
	}
}

func TestScanDueReminders(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")

	approve := func(start string) {
		t.Helper()
		slot := fx.repo.addSlot(fx.teacher.ID, start, true)
		b, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, today, "session at "+start)
		if err != nil {
			t.Fatalf("Create %s: %v", start, err)
		}
		if _, err := fx.svc.Decide(ctx, fx.teacher.ID, b.ID, true); err != nil {
			t.Fatalf("Decide %s: %v", start, err)
		}
	}

	approve("08:30") // inside the 90-minute window
	approve("09:30") // exactly at the window edge
	approve("11:00") // beyond the window

	before := len(fx.publisher.published())

	sent, err := fx.svc.ScanDueReminders(ctx, now, 90*time.Minute)
	if err != nil {
		t.Fatalf("ScanDueReminders: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}

	events := fx.publisher.published()[before:]
	for _, ev := range events {
		if ev.Type != event.TypeBookingReminder {
			t.Errorf("event type = %s, want %s", ev.Type, event.TypeBookingReminder)
		}
	}

	// Re-running the same scan sends nothing: the claim is persisted.
	sent, err = fx.svc.ScanDueReminders(ctx, now, 90*time.Minute)
	if err != nil {
		t.Fatalf("second ScanDueReminders: %v", err)
	}
	if sent != 0 {
		t.Errorf("second scan sent = %d, want 0", sent)
	}
}

func TestScanDueRemindersIgnoresPending(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	today := now.Format("2006-01-02")

	slot := fx.repo.addSlot(fx.teacher.ID, "08:30", true)
	if _, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, today, "never approved"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sent, err := fx.svc.ScanDueReminders(ctx, now, 90*time.Minute)
	if err != nil {
		t.Fatalf("ScanDueReminders: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0 for pending bookings", sent)
	}
}

func TestScanDueRemindersMidnightClamp(t *testing.T) {
	fx := newBookingFixture(t)
	ctx := context.Background()
	// 23:30 + 90m crosses midnight; the window clamps to today.
	now := time.Date(2026, 9, 7, 23, 30, 0, 0, time.UTC)
	today := now.Format("2006-01-02")

	slot := fx.repo.addSlot(fx.teacher.ID, "23:45", true)
	b, err := fx.svc.Create(ctx, fx.student.ID, fx.teacher.ID, fx.course.ID, slot.ID, today, "late session")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fx.svc.Decide(ctx, fx.teacher.ID, b.ID, true); err != nil {
		t.Fatalf("Decide: %v", err)
	}

	sent, err := fx.svc.ScanDueReminders(ctx, now, 90*time.Minute)
	if err != nil {
		t.Fatalf("ScanDueReminders: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
}
