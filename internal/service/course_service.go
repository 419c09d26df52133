package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/apperr"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
)

// CourseService manages the course reference list.
type CourseService struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo}
}

// GetAll lists courses ordered by name.
func (s *CourseService) GetAll(ctx context.Context) ([]*model.Course, error) {
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "list courses", err)
	}
	return courses, nil
}

// Create adds a course with a unique display name.
func (s *CourseService) Create(ctx context.Context, name string) (*model.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, apperr.New(apperr.KindValidation, "course name must be 1-200 characters")
	}

	if existing, err := s.courseRepo.GetByName(ctx, name); err == nil && existing != nil {
		return nil, apperr.New(apperr.KindConflict, "course name already exists")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindTransient, "check course name", err)
	}

	course := &model.Course{
		ID:         uuid.New(),
		CourseName: name,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, apperr.Wrap(apperr.KindTransient, "create course", err)
	}
	return course, nil
}
