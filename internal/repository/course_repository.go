package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	GetByName(ctx context.Context, name string) (*model.Course, error)
	GetAll(ctx context.Context) ([]*model.Course, error)
}

type courseRepository struct {
	db *pgxpool.Pool
}

func NewCourseRepository(db *pgxpool.Pool) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (id, course_name)
		VALUES ($1, $2)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, course.ID, course.CourseName).Scan(&course.CreatedAt)
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	query := `SELECT id, course_name, created_at FROM courses WHERE id = $1`
	c := &model.Course{}
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.CourseName, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courseRepository) GetByName(ctx context.Context, name string) (*model.Course, error) {
	query := `SELECT id, course_name, created_at FROM courses WHERE lower(course_name) = lower($1)`
	c := &model.Course{}
	err := r.db.QueryRow(ctx, query, name).Scan(&c.ID, &c.CourseName, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courseRepository) GetAll(ctx context.Context) ([]*model.Course, error) {
	query := `SELECT id, course_name, created_at FROM courses ORDER BY course_name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []*model.Course{}
	for rows.Next() {
		c := &model.Course{}
		if err := rows.Scan(&c.ID, &c.CourseName, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
