package service

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
	"github.com/rs/zerolog"
)

// Account is a user joined with, for teachers, their profile.
type Account struct {
	User    *model.User           `json:"user"`
	Teacher *model.TeacherProfile `json:"teacher,omitempty"`
}

// AccountService handles registration, login, and profile reads.
type AccountService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	teacherRepo repository.TeacherRepository
	auth        *AuthService
	publisher   event.Publisher
	log         zerolog.Logger
}

func NewAccountService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	teacherRepo repository.TeacherRepository,
	auth *AuthService,
	publisher event.Publisher,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		cfg:         cfg,
		userRepo:    userRepo,
		teacherRepo: teacherRepo,
		auth:        auth,
		publisher:   publisher,
		log:         log.With().Str("component", "account_service").Logger(),
	}
}

// Register creates a new student or teacher account. Teacher accounts start
// Pending and raise a registration event so the admin can review them.
func (s *AccountService) Register(ctx context.Context, name, email, password, rawRole string) (*Account, error) {
	role, ok := model.ParseRole(rawRole)
	if !ok || role == model.RoleAdmin {
		return nil, apperr.New(apperr.KindValidation, "role must be teacher or student")
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return nil, apperr.New(apperr.KindValidation, "name must be 1-100 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperr.New(apperr.KindConflict, "email already registered")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindTransient, "check email", err)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "hash password", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "create user", err)
	}

	account := &Account{User: user}

	if role == model.RoleTeacher {
		profile := &model.TeacherProfile{
			ID:            uuid.New(),
			UserID:        user.ID,
			TeacherCode:   newTeacherCode(),
			AccountStatus: model.AccountStatusPending,
		}
		if err := s.teacherRepo.Create(ctx, profile); err != nil {
			return nil, apperr.Wrap(apperr.KindTransient, "create teacher profile", err)
		}
		account.Teacher = profile

		ev := event.NewTeacherRegistered(s.cfg.AdminEmail, user.Name, user.Email)
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.Error().Err(err).Str("teacher", user.Email).Msg("publish teacher_registered failed")
		}
	}

	return account, nil
}

// Login verifies credentials and issues a token. A Pending teacher can still
// log in; gating happens at the command and view level.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", apperr.New(apperr.KindUnauthorized, "invalid email or password")
	}
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindTransient, "fetch user", err)
	}
	if err := s.auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, "", apperr.New(apperr.KindUnauthorized, "invalid email or password")
	}

	account := &Account{User: user}

	var teacherID *uuid.UUID
	if user.Role == model.RoleTeacher {
		profile, err := s.teacherRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, "", apperr.Wrap(apperr.KindTransient, "fetch teacher profile", err)
		}
		account.Teacher = profile
		teacherID = &profile.ID
	}

	token, err := s.auth.GenerateToken(ctx, user, teacherID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindTransient, "issue token", err)
	}

	return account, token, nil
}

// Logout invalidates the user's active session.
func (s *AccountService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.auth.ClearSession(ctx, userID); err != nil {
		return apperr.Wrap(apperr.KindTransient, "clear session", err)
	}
	return nil
}

// Me returns the caller's account, including the teacher profile when present.
func (s *AccountService) Me(ctx context.Context, userID uuid.UUID) (*Account, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "fetch user", err)
	}

	account := &Account{User: user}
	if user.Role == model.RoleTeacher {
		profile, err := s.teacherRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.KindTransient, "fetch teacher profile", err)
		}
		account.Teacher = profile
	}
	return account, nil
}

// validatePassword enforces the registration password policy: 6-128 chars
// with at least one uppercase letter, one lowercase letter, and one digit.
func validatePassword(password string) error {
	if len(password) < 6 || len(password) > 128 {
		return apperr.New(apperr.KindValidation, "password must be 6-128 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apperr.New(apperr.KindValidation, "password must contain an uppercase letter, a lowercase letter, and a digit")
	}
	return nil
}

// newTeacherCode derives a short human-facing code like "TCH-4F2A91".
func newTeacherCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "TCH-" + raw[:6]
}
