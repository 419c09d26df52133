package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
)

// The fakes below implement the repository interfaces with in-memory maps
// and optional function overrides. They return the same sentinel errors the
// real pgx-backed implementations do.

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) published() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Event, len(p.events))
	copy(out, p.events)
	return out
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTeacherRepo struct {
	teachers map[uuid.UUID]*model.TeacherWithProfile
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{teachers: make(map[uuid.UUID]*model.TeacherWithProfile)}
}

func (r *fakeTeacherRepo) add(name, email string, status model.AccountStatus) *model.TeacherWithProfile {
	tw := &model.TeacherWithProfile{
		TeacherProfile: model.TeacherProfile{
			ID:            uuid.New(),
			UserID:        uuid.New(),
			TeacherCode:   "TCH-TEST01",
			AccountStatus: status,
		},
		Name:  name,
		Email: email,
	}
	r.teachers[tw.ID] = tw
	return tw
}

func (r *fakeTeacherRepo) Create(_ context.Context, profile *model.TeacherProfile) error {
	r.teachers[profile.ID] = &model.TeacherWithProfile{TeacherProfile: *profile}
	return nil
}

func (r *fakeTeacherRepo) GetByID(_ context.Context, id uuid.UUID) (*model.TeacherProfile, error) {
	tw, ok := r.teachers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p := tw.TeacherProfile
	return &p, nil
}

func (r *fakeTeacherRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.TeacherProfile, error) {
	for _, tw := range r.teachers {
		if tw.UserID == userID {
			p := tw.TeacherProfile
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTeacherRepo) GetWithProfile(_ context.Context, id uuid.UUID) (*model.TeacherWithProfile, error) {
	tw, ok := r.teachers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return tw, nil
}

func (r *fakeTeacherRepo) ListAll(_ context.Context) ([]*model.TeacherWithProfile, error) {
	out := []*model.TeacherWithProfile{}
	for _, tw := range r.teachers {
		out = append(out, tw)
	}
	return out, nil
}

func (r *fakeTeacherRepo) ListActive(_ context.Context) ([]*model.TeacherWithProfile, error) {
	out := []*model.TeacherWithProfile{}
	for _, tw := range r.teachers {
		if tw.AccountStatus == model.AccountStatusActive {
			out = append(out, tw)
		}
	}
	return out, nil
}

func (r *fakeTeacherRepo) Activate(_ context.Context, id uuid.UUID) (*model.TeacherWithProfile, error) {
	tw, ok := r.teachers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if tw.AccountStatus != model.AccountStatusPending {
		return nil, repository.ErrAlreadyActive
	}
	tw.AccountStatus = model.AccountStatusActive
	return tw, nil
}

type fakeCourseRepo struct {
	courses map[uuid.UUID]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[uuid.UUID]*model.Course)}
}

func (r *fakeCourseRepo) add(name string) *model.Course {
	c := &model.Course{ID: uuid.New(), CourseName: name}
	r.courses[c.ID] = c
	return c
}

func (r *fakeCourseRepo) Create(_ context.Context, course *model.Course) error {
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (r *fakeCourseRepo) GetByName(_ context.Context, name string) (*model.Course, error) {
	for _, c := range r.courses {
		if strings.EqualFold(c.CourseName, name) {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCourseRepo) GetAll(_ context.Context) ([]*model.Course, error) {
	out := []*model.Course{}
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

type fakeSlotRepo struct {
	slots map[uuid.UUID]*model.RoutineSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*model.RoutineSlot)}
}

func (r *fakeSlotRepo) Create(_ context.Context, slot *model.RoutineSlot) error {
	r.slots[slot.ID] = slot
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*model.RoutineSlot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, id, teacherID uuid.UUID) (int64, error) {
	s, ok := r.slots[id]
	if !ok || s.TeacherID != teacherID {
		return 0, nil
	}
	delete(r.slots, id)
	return 1, nil
}

func (r *fakeSlotRepo) ListByTeacher(_ context.Context, teacherID uuid.UUID, onlyAvailable bool) ([]*model.RoutineSlot, error) {
	out := []*model.RoutineSlot{}
	for _, s := range r.slots {
		if s.TeacherID != teacherID {
			continue
		}
		if onlyAvailable && !s.IsAvailable {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// fakeBookingRepo mirrors the transactional guarantees of the pgx
// implementation: single occupancy on create, conditional transition on
// decide, and at-most-once claiming for reminders.
type fakeBookingRepo struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]*model.RoutineSlot
	bookings map[uuid.UUID]*model.Booking

	// Denormalized names used when building details.
	people map[uuid.UUID][2]string // userID or teacherID -> (name, email)
	course string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		slots:    make(map[uuid.UUID]*model.RoutineSlot),
		bookings: make(map[uuid.UUID]*model.Booking),
		people:   make(map[uuid.UUID][2]string),
		course:   "Mathematics",
	}
}

func (r *fakeBookingRepo) addSlot(teacherID uuid.UUID, start string, available bool) *model.RoutineSlot {
	s := &model.RoutineSlot{
		ID:          uuid.New(),
		TeacherID:   teacherID,
		Day:         model.Monday,
		StartTime:   start,
		EndTime:     "23:59",
		IsAvailable: available,
	}
	r.slots[s.ID] = s
	return s
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *model.Booking, slotID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[slotID]
	if !ok || slot.TeacherID != booking.TeacherID {
		return repository.ErrSlotNotFound
	}
	if !slot.IsAvailable {
		return repository.ErrSlotUnavailable
	}
	for _, b := range r.bookings {
		if b.TeacherID == booking.TeacherID &&
			b.BookingDate == booking.BookingDate &&
			b.BookingTime == slot.StartTime &&
			b.Status != model.BookingStatusRejected {
			return repository.ErrSlotTaken
		}
	}

	booking.BookingTime = slot.StartTime
	booking.Status = model.BookingStatusPending
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *fakeBookingRepo) DecideIfPending(_ context.Context, bookingID, teacherID uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[bookingID]
	if !ok || b.TeacherID != teacherID {
		return nil, pgx.ErrNoRows
	}
	if b.Status != model.BookingStatusPending {
		return nil, repository.ErrAlreadyDecided
	}
	b.Status = status
	out := *b
	return &out, nil
}

func (r *fakeBookingRepo) GetDetail(_ context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.detail(b), nil
}

func (r *fakeBookingRepo) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]*model.BookingDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.BookingDetail{}
	for _, b := range r.bookings {
		if b.TeacherID == teacherID {
			out = append(out, r.detail(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*model.BookingDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.BookingDetail{}
	for _, b := range r.bookings {
		if b.StudentID == studentID {
			out = append(out, r.detail(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ClaimDueReminders(_ context.Context, today, from, to string) ([]*model.BookingDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	out := []*model.BookingDetail{}
	for _, b := range r.bookings {
		if b.Status != model.BookingStatusApproved ||
			b.BookingDate != today ||
			b.BookingTime < from || b.BookingTime > to ||
			b.ReminderSentAt != nil {
			continue
		}
		b.ReminderSentAt = &now
		out = append(out, r.detail(b))
	}
	return out, nil
}

func (r *fakeBookingRepo) detail(b *model.Booking) *model.BookingDetail {
	d := &model.BookingDetail{Booking: *b, CourseName: r.course}
	if p, ok := r.people[b.StudentID]; ok {
		d.StudentName, d.StudentEmail = p[0], p[1]
	}
	if p, ok := r.people[b.TeacherID]; ok {
		d.TeacherName, d.TeacherEmail = p[0], p[1]
	}
	return d
}
