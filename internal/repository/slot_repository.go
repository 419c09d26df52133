package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
)

// weekdayOrderSQL sorts slot rows Monday-first; day is stored as text.
const weekdayOrderSQL = `array_position(
	ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day
)`

type SlotRepository interface {
	Create(ctx context.Context, slot *model.RoutineSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RoutineSlot, error)
	// Delete removes a slot owned by teacherID. Returns the number of rows
	// deleted so callers can distinguish "not yours" from success.
	Delete(ctx context.Context, id, teacherID uuid.UUID) (int64, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, onlyAvailable bool) ([]*model.RoutineSlot, error)
}

type slotRepository struct {
	db *pgxpool.Pool
}

func NewSlotRepository(db *pgxpool.Pool) SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) Create(ctx context.Context, slot *model.RoutineSlot) error {
	query := `
		INSERT INTO routine_slots (id, teacher_id, day, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		slot.ID, slot.TeacherID, slot.Day, slot.StartTime, slot.EndTime, slot.IsAvailable,
	).Scan(&slot.CreatedAt)
}

func (r *slotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RoutineSlot, error) {
	query := `
		SELECT id, teacher_id, day, start_time, end_time, is_available, created_at
		FROM routine_slots WHERE id = $1
	`
	s := &model.RoutineSlot{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.TeacherID, &s.Day, &s.StartTime, &s.EndTime, &s.IsAvailable, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *slotRepository) Delete(ctx context.Context, id, teacherID uuid.UUID) (int64, error) {
	query := `DELETE FROM routine_slots WHERE id = $1 AND teacher_id = $2`
	tag, err := r.db.Exec(ctx, query, id, teacherID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *slotRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, onlyAvailable bool) ([]*model.RoutineSlot, error) {
	query := `
		SELECT id, teacher_id, day, start_time, end_time, is_available, created_at
		FROM routine_slots
		WHERE teacher_id = $1
	`
	if onlyAvailable {
		query += ` AND is_available = TRUE`
	}
	query += ` ORDER BY ` + weekdayOrderSQL + `, start_time ASC`

	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []*model.RoutineSlot{}
	for rows.Next() {
		s := &model.RoutineSlot{}
		if err := rows.Scan(
			&s.ID, &s.TeacherID, &s.Day, &s.StartTime, &s.EndTime, &s.IsAvailable, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
