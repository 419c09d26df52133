package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
)

// ErrAlreadyActive is returned when activating a teacher that is not Pending.
var ErrAlreadyActive = errors.New("teacher account already active")

type TeacherRepository interface {
	Create(ctx context.Context, profile *model.TeacherProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TeacherProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.TeacherProfile, error)
	// GetWithProfile returns the teacher joined with the owner's name and email.
	GetWithProfile(ctx context.Context, id uuid.UUID) (*model.TeacherWithProfile, error)
	ListAll(ctx context.Context) ([]*model.TeacherWithProfile, error)
	ListActive(ctx context.Context) ([]*model.TeacherWithProfile, error)
	// Activate flips a Pending teacher to Active. Returns ErrAlreadyActive if
	// the teacher exists but is not Pending, pgx.ErrNoRows if it does not exist.
	Activate(ctx context.Context, id uuid.UUID) (*model.TeacherWithProfile, error)
}

type teacherRepository struct {
	db *pgxpool.Pool
}

func NewTeacherRepository(db *pgxpool.Pool) TeacherRepository {
	return &teacherRepository{db: db}
}

const teacherWithProfileColumns = `
	t.id, t.user_id, t.teacher_code, t.account_status, t.created_at, t.updated_at,
	u.name, u.email
`

func (r *teacherRepository) Create(ctx context.Context, profile *model.TeacherProfile) error {
	query := `
		INSERT INTO teachers (id, user_id, teacher_code, account_status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		profile.ID, profile.UserID, profile.TeacherCode, profile.AccountStatus,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *teacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TeacherProfile, error) {
	query := `
		SELECT id, user_id, teacher_code, account_status, created_at, updated_at
		FROM teachers WHERE id = $1
	`
	t := &model.TeacherProfile{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.TeacherCode, &t.AccountStatus, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.TeacherProfile, error) {
	query := `
		SELECT id, user_id, teacher_code, account_status, created_at, updated_at
		FROM teachers WHERE user_id = $1
	`
	t := &model.TeacherProfile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&t.ID, &t.UserID, &t.TeacherCode, &t.AccountStatus, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *teacherRepository) GetWithProfile(ctx context.Context, id uuid.UUID) (*model.TeacherWithProfile, error) {
	query := `
		SELECT ` + teacherWithProfileColumns + `
		FROM teachers t JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`
	return scanTeacherWithProfile(r.db.QueryRow(ctx, query, id))
}

func (r *teacherRepository) ListAll(ctx context.Context) ([]*model.TeacherWithProfile, error) {
	query := `
		SELECT ` + teacherWithProfileColumns + `
		FROM teachers t JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at ASC
	`
	return r.list(ctx, query)
}

func (r *teacherRepository) ListActive(ctx context.Context) ([]*model.TeacherWithProfile, error) {
	query := `
		SELECT ` + teacherWithProfileColumns + `
		FROM teachers t JOIN users u ON u.id = t.user_id
		WHERE t.account_status = $1
		ORDER BY u.name ASC
	`
	return r.list(ctx, query, model.AccountStatusActive)
}

func (r *teacherRepository) Activate(ctx context.Context, id uuid.UUID) (*model.TeacherWithProfile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status model.AccountStatus
	err = tx.QueryRow(ctx,
		`SELECT account_status FROM teachers WHERE id = $1 FOR UPDATE`, id,
	).Scan(&status)
	if err != nil {
		return nil, err
	}
	if status != model.AccountStatusPending {
		return nil, ErrAlreadyActive
	}

	query := `
		UPDATE teachers t
		SET account_status = $1, updated_at = CURRENT_TIMESTAMP
		FROM users u
		WHERE t.id = $2 AND u.id = t.user_id
		RETURNING ` + teacherWithProfileColumns
	tw, err := scanTeacherWithProfile(tx.QueryRow(ctx, query, model.AccountStatusActive, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tw, nil
}

func (r *teacherRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.TeacherWithProfile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teachers := []*model.TeacherWithProfile{}
	for rows.Next() {
		tw, err := scanTeacherWithProfile(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, tw)
	}
	return teachers, rows.Err()
}

func scanTeacherWithProfile(row pgx.Row) (*model.TeacherWithProfile, error) {
	tw := &model.TeacherWithProfile{}
	err := row.Scan(
		&tw.ID, &tw.UserID, &tw.TeacherCode, &tw.AccountStatus, &tw.CreatedAt, &tw.UpdatedAt,
		&tw.Name, &tw.Email,
	)
	if err != nil {
		return nil, err
	}
	return tw, nil
}
