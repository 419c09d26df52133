package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
	"github.com/rs/zerolog"
)

// TeacherService is the admin-facing teacher directory: listing accounts and
// deciding pending applications.
type TeacherService struct {
	teacherRepo repository.TeacherRepository
	publisher   event.Publisher
	log         zerolog.Logger
}

func NewTeacherService(teacherRepo repository.TeacherRepository, publisher event.Publisher, log zerolog.Logger) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		publisher:   publisher,
		log:         log.With().Str("component", "teacher_service").Logger(),
	}
}

// ListAll returns every teacher with profile data, for the admin view.
func (s *TeacherService) ListAll(ctx context.Context) ([]*model.TeacherWithProfile, error) {
	teachers, err := s.teacherRepo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "list teachers", err)
	}
	return teachers, nil
}

// ListActive returns only Active teachers. This is the student-facing
// listing: Pending teachers never appear here.
func (s *TeacherService) ListActive(ctx context.Context) ([]*model.TeacherWithProfile, error) {
	teachers, err := s.teacherRepo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "list active teachers", err)
	}
	return teachers, nil
}

// Approve transitions a Pending teacher to Active and notifies them. The
// transition is conditional in the store, so a repeated approval fails with
// a conflict instead of firing a second notification.
func (s *TeacherService) Approve(ctx context.Context, teacherID uuid.UUID) (*model.TeacherWithProfile, error) {
	tw, err := s.teacherRepo.Activate(ctx, teacherID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "teacher not found")
	}
	if errors.Is(err, repository.ErrAlreadyActive) {
		return nil, apperr.New(apperr.KindConflict, "teacher account already active")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "activate teacher", err)
	}

	ev := event.NewTeacherApproved(tw.Email, tw.Name)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("teacher", tw.Email).Msg("publish teacher_approved failed")
	}

	return tw, nil
}

// Reject notifies a Pending teacher that their application was declined.
// There is no persisted Rejected account state: rejection is an out-of-band
// administrative action and the account simply stays Pending.
func (s *TeacherService) Reject(ctx context.Context, teacherID uuid.UUID) error {
	tw, err := s.teacherRepo.GetWithProfile(ctx, teacherID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.New(apperr.KindNotFound, "teacher not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindTransient, "fetch teacher", err)
	}
	if tw.AccountStatus != model.AccountStatusPending {
		return apperr.New(apperr.KindConflict, "only pending teachers can be rejected")
	}

	ev := event.NewTeacherRejected(tw.Email, tw.Name)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("teacher", tw.Email).Msg("publish teacher_rejected failed")
	}
	return nil
}
