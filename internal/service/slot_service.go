package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
)

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// SlotService is the availability calendar: teachers declare, list, and
// remove weekly routine slots.
type SlotService struct {
	slotRepo    repository.SlotRepository
	teacherRepo repository.TeacherRepository
}

func NewSlotService(slotRepo repository.SlotRepository, teacherRepo repository.TeacherRepository) *SlotService {
	return &SlotService{slotRepo: slotRepo, teacherRepo: teacherRepo}
}

// AddSlot declares a new routine slot for the owning teacher. Overlapping
// slots on the same day are allowed; only start < end is enforced.
func (s *SlotService) AddSlot(ctx context.Context, teacherID uuid.UUID, rawDay, rawStart, rawEnd string) (*model.RoutineSlot, error) {
	day, ok := model.ParseWeekday(rawDay)
	if !ok {
		return nil, apperr.Newf(apperr.KindValidation, "unrecognized day %q", rawDay)
	}

	start, ok := normalizeClock(rawStart)
	if !ok {
		return nil, apperr.Newf(apperr.KindValidation, "invalid start time %q", rawStart)
	}
	end, ok := normalizeClock(rawEnd)
	if !ok {
		return nil, apperr.Newf(apperr.KindValidation, "invalid end time %q", rawEnd)
	}
	if start >= end {
		return nil, apperr.New(apperr.KindValidation, "start time must be before end time")
	}

	slot := &model.RoutineSlot{
		ID:          uuid.New(),
		TeacherID:   teacherID,
		Day:         day,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "create slot", err)
	}
	return slot, nil
}

// RemoveSlot deletes a slot owned by the teacher. Deletion is unconditional:
// bookings copy the slot's time at creation and survive removal.
func (s *SlotService) RemoveSlot(ctx context.Context, teacherID, slotID uuid.UUID) error {
	deleted, err := s.slotRepo.Delete(ctx, slotID, teacherID)
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "delete slot", err)
	}
	if deleted == 0 {
		return apperr.New(apperr.KindNotFound, "slot not found")
	}
	return nil
}

// ListSlots returns the teacher's own slots, Monday-first.
func (s *SlotService) ListSlots(ctx context.Context, teacherID uuid.UUID, onlyAvailable bool) ([]*model.RoutineSlot, error) {
	slots, err := s.slotRepo.ListByTeacher(ctx, teacherID, onlyAvailable)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "list slots", err)
	}
	return slots, nil
}

// ListOpenSlots returns the bookable slots of an Active teacher, for the
// student booking form. Pending teachers are reported as not found.
func (s *SlotService) ListOpenSlots(ctx context.Context, teacherID uuid.UUID) ([]*model.RoutineSlot, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "teacher not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "fetch teacher", err)
	}
	if teacher.AccountStatus != model.AccountStatusActive {
		return nil, apperr.New(apperr.KindNotFound, "teacher not found")
	}
	return s.ListSlots(ctx, teacherID, true)
}

// normalizeClock validates a wall-clock value and zero-pads the hour so that
// lexical comparison of stored times matches chronological order.
func normalizeClock(raw string) (string, bool) {
	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", hour, m[2]), true
}
