package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
)

// Booking workflow errors. Services map these to the application error
// taxonomy; fakes in tests return the same sentinels.
var (
	ErrSlotNotFound    = errors.New("slot not found for teacher")
	ErrSlotUnavailable = errors.New("slot is not accepting bookings")
	ErrSlotTaken       = errors.New("slot already booked for that date")
	ErrAlreadyDecided  = errors.New("booking already decided")
)

type BookingRepository interface {
	// Create inserts a Pending booking against the given slot as one
	// transaction: the slot row is locked, its availability and ownership
	// re-checked, and single occupancy per (teacher, date, time) enforced.
	// Two concurrent calls against the same slot and date cannot both
	// succeed.
	Create(ctx context.Context, booking *model.Booking, slotID uuid.UUID) error
	// DecideIfPending transitions a Pending booking owned by teacherID to
	// the given terminal status. Returns ErrAlreadyDecided when the booking
	// exists but has left Pending, pgx.ErrNoRows when it does not exist or
	// belongs to another teacher.
	DecideIfPending(ctx context.Context, bookingID, teacherID uuid.UUID, status model.BookingStatus) (*model.Booking, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.BookingDetail, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.BookingDetail, error)
	// ClaimDueReminders atomically marks and returns Approved bookings on
	// `today` whose time falls in [from, to] and that have not been
	// reminded yet. Repeated overlapping scans cannot return the same
	// booking twice.
	ClaimDueReminders(ctx context.Context, today, from, to string) ([]*model.BookingDetail, error)
}

type bookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking, slotID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the slot row so concurrent bookings and slot removal serialize
	// behind this transaction. The availability decision is always made on
	// a just-fetched snapshot.
	var (
		ownerID     uuid.UUID
		startTime   string
		isAvailable bool
	)
	err = tx.QueryRow(ctx,
		`SELECT teacher_id, start_time, is_available FROM routine_slots WHERE id = $1 FOR UPDATE`,
		slotID,
	).Scan(&ownerID, &startTime, &isAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSlotNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != booking.TeacherID {
		return ErrSlotNotFound
	}
	if !isAvailable {
		return ErrSlotUnavailable
	}

	booking.BookingTime = startTime
	booking.Status = model.BookingStatusPending

	// Single occupancy: one live (non-rejected) booking per teacher, date
	// and time. A partial unique index backs this check for callers racing
	// on different connections.
	var occupied bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE teacher_id = $1 AND booking_date = $2 AND booking_time = $3 AND status <> $4
		)`,
		booking.TeacherID, booking.BookingDate, booking.BookingTime, model.BookingStatusRejected,
	).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied {
		return ErrSlotTaken
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (id, student_id, teacher_id, course_id, description, booking_date, booking_time, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		booking.ID, booking.StudentID, booking.TeacherID, booking.CourseID,
		booking.Description, booking.BookingDate, booking.BookingTime, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotTaken
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) DecideIfPending(ctx context.Context, bookingID, teacherID uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current model.BookingStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM bookings WHERE id = $1 AND teacher_id = $2 FOR UPDATE`,
		bookingID, teacherID,
	).Scan(&current)
	if err != nil {
		return nil, err
	}
	if current != model.BookingStatusPending {
		return nil, ErrAlreadyDecided
	}

	b := &model.Booking{}
	err = tx.QueryRow(ctx,
		`UPDATE bookings
		 SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING id, student_id, teacher_id, course_id, description,
		           booking_date::text, booking_time, status, reminder_sent_at, created_at, updated_at`,
		status, bookingID,
	).Scan(
		&b.ID, &b.StudentID, &b.TeacherID, &b.CourseID, &b.Description,
		&b.BookingDate, &b.BookingTime, &b.Status, &b.ReminderSentAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

const bookingDetailSelect = `
	SELECT b.id, b.student_id, b.teacher_id, b.course_id, b.description,
	       b.booking_date::text, b.booking_time, b.status, b.reminder_sent_at,
	       b.created_at, b.updated_at,
	       su.name, tu.name, t.teacher_code, c.course_name,
	       su.email, tu.email
	FROM bookings b
	JOIN users su ON su.id = b.student_id
	JOIN teachers t ON t.id = b.teacher_id
	JOIN users tu ON tu.id = t.user_id
	JOIN courses c ON c.id = b.course_id
`

func (r *bookingRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.BookingDetail, error) {
	return scanBookingDetail(r.db.QueryRow(ctx, bookingDetailSelect+` WHERE b.id = $1`, id))
}

func (r *bookingRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.BookingDetail, error) {
	query := bookingDetailSelect + ` WHERE b.teacher_id = $1 ORDER BY b.booking_date DESC, b.booking_time DESC`
	return r.list(ctx, query, teacherID)
}

func (r *bookingRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.BookingDetail, error) {
	query := bookingDetailSelect + ` WHERE b.student_id = $1 ORDER BY b.booking_date DESC, b.booking_time DESC`
	return r.list(ctx, query, studentID)
}

func (r *bookingRepository) ClaimDueReminders(ctx context.Context, today, from, to string) ([]*model.BookingDetail, error) {
	// The UPDATE both selects and marks in one statement, so overlapping
	// scan windows can never deliver a second reminder for the same booking.
	query := `
		WITH claimed AS (
			UPDATE bookings
			SET reminder_sent_at = CURRENT_TIMESTAMP
			WHERE status = $1
			  AND booking_date = $2
			  AND booking_time >= $3 AND booking_time <= $4
			  AND reminder_sent_at IS NULL
			RETURNING *
		)
		SELECT b.id, b.student_id, b.teacher_id, b.course_id, b.description,
		       b.booking_date::text, b.booking_time, b.status, b.reminder_sent_at,
		       b.created_at, b.updated_at,
		       su.name, tu.name, t.teacher_code, c.course_name,
		       su.email, tu.email
		FROM claimed b
		JOIN users su ON su.id = b.student_id
		JOIN teachers t ON t.id = b.teacher_id
		JOIN users tu ON tu.id = t.user_id
		JOIN courses c ON c.id = b.course_id
		ORDER BY b.booking_time ASC
	`
	return r.listQuery(ctx, query, model.BookingStatusApproved, today, from, to)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.BookingDetail, error) {
	return r.listQuery(ctx, query, args...)
}

func (r *bookingRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*model.BookingDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []*model.BookingDetail{}
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, d)
	}
	return bookings, rows.Err()
}

func scanBookingDetail(row pgx.Row) (*model.BookingDetail, error) {
	d := &model.BookingDetail{}
	err := row.Scan(
		&d.ID, &d.StudentID, &d.TeacherID, &d.CourseID, &d.Description,
		&d.BookingDate, &d.BookingTime, &d.Status, &d.ReminderSentAt,
		&d.CreatedAt, &d.UpdatedAt,
		&d.StudentName, &d.TeacherName, &d.TeacherCode, &d.CourseName,
		&d.StudentEmail, &d.TeacherEmail,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}
