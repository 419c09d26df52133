package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
)

// OverviewRepository aggregates dashboard counts. Every method is a fixed
// number of queries regardless of record counts.
type OverviewRepository interface {
	AdminSummaryCounts(ctx context.Context) (students, activeTeachers, pendingTeachers, courses int, err error)
	BookingStatusCounts(ctx context.Context) (map[model.BookingStatus]int, error)
	TeacherBookingStatusCounts(ctx context.Context, teacherID uuid.UUID) (map[model.BookingStatus]int, error)
	TeacherAvailableSlotCount(ctx context.Context, teacherID uuid.UUID) (int, error)
	// StudentPartitionCounts partitions a student's bookings into upcoming
	// (Approved, today or later), pending, and past (Approved, before
	// today) against the caller-supplied date.
	StudentPartitionCounts(ctx context.Context, studentID uuid.UUID, today string) (upcoming, pending, past int, err error)
}

type overviewRepository struct {
	db *pgxpool.Pool
}

func NewOverviewRepository(db *pgxpool.Pool) OverviewRepository {
	return &overviewRepository{db: db}
}

func (r *overviewRepository) AdminSummaryCounts(ctx context.Context) (students, activeTeachers, pendingTeachers, courses int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM teachers WHERE account_status = 'Active'),
			(SELECT COUNT(*) FROM teachers WHERE account_status = 'Pending'),
			(SELECT COUNT(*) FROM courses)`,
	).Scan(&students, &activeTeachers, &pendingTeachers, &courses)
	return
}

func (r *overviewRepository) BookingStatusCounts(ctx context.Context) (map[model.BookingStatus]int, error) {
	return r.statusCounts(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
}

func (r *overviewRepository) TeacherBookingStatusCounts(ctx context.Context, teacherID uuid.UUID) (map[model.BookingStatus]int, error) {
	return r.statusCounts(ctx,
		`SELECT status, COUNT(*) FROM bookings WHERE teacher_id = $1 GROUP BY status`, teacherID)
}

func (r *overviewRepository) TeacherAvailableSlotCount(ctx context.Context, teacherID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM routine_slots WHERE teacher_id = $1 AND is_available = TRUE`,
		teacherID,
	).Scan(&count)
	return count, err
}

func (r *overviewRepository) StudentPartitionCounts(ctx context.Context, studentID uuid.UUID, today string) (upcoming, pending, past int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE status = $2 AND booking_date >= $3),
			COUNT(*) FILTER (WHERE status = $4),
			COUNT(*) FILTER (WHERE status = $2 AND booking_date < $3)
		FROM bookings WHERE student_id = $1`,
		studentID, model.BookingStatusApproved, today, model.BookingStatusPending,
	).Scan(&upcoming, &pending, &past)
	return
}

func (r *overviewRepository) statusCounts(ctx context.Context, query string, args ...interface{}) (map[model.BookingStatus]int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.BookingStatus]int)
	for rows.Next() {
		var status model.BookingStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
