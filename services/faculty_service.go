package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
)

// CreateFacultyInput carries a validated create request
type CreateFacultyInput struct {
	Name       string
	Subject    string
	Email      string
	Institute  models.Institute
	Department string
}

// UpdateFacultyInput carries a partial update; nil fields are left unchanged
type UpdateFacultyInput struct {
	Name       *string
	Subject    *string
	Email      *string
	Institute  *models.Institute
	Department *string
}

// FacultyService handles faculty business logic
type FacultyService struct {
	faculty repositories.FacultyRepository
	logger  *zap.Logger
}

// NewFacultyService creates a new FacultyService instance
func NewFacultyService(faculty repositories.FacultyRepository, logger *zap.Logger) *FacultyService {
	return &FacultyService{
		faculty: faculty,
		logger:  logger,
	}
}

// Create stores a new faculty member
func (s *FacultyService) Create(ctx context.Context, in CreateFacultyInput) (*models.Faculty, error) {
	f := models.NewFaculty(
		strings.TrimSpace(in.Name),
		strings.TrimSpace(in.Subject),
		strings.TrimSpace(in.Email),
		in.Institute,
		strings.TrimSpace(in.Department),
	)

	if err := s.faculty.Create(ctx, f); err != nil {
		return nil, s.translate(err, "Failed to create faculty")
	}

	s.logger.Info("faculty created",
		zap.String("faculty_id", f.ID.String()),
		zap.String("institute", string(f.Institute)),
	)
	return f, nil
}

// List returns every faculty member. An empty store is reported as ErrNoFaculty.
func (s *FacultyService) List(ctx context.Context) ([]*models.Faculty, error) {
	list, err := s.faculty.List(ctx)
	if err != nil {
		return nil, s.translate(err, "Failed to retrieve faculty list")
	}
	if len(list) == 0 {
		return nil, ErrNoFaculty
	}
	return list, nil
}

// ListByInstitute returns the faculty of one institute. Unknown institute
// names simply match nothing.
func (s *FacultyService) ListByInstitute(ctx context.Context, institute string) ([]*models.Faculty, error) {
	list, err := s.faculty.ListByInstitute(ctx, models.Institute(institute))
	if err != nil {
		return nil, s.translate(err, "Failed to retrieve faculty")
	}
	if len(list) == 0 {
		return nil, NewNoFacultyForInstituteError(institute)
	}
	return list, nil
}

// Get returns a single faculty member
func (s *FacultyService) Get(ctx context.Context, id uuid.UUID) (*models.Faculty, error) {
	f, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "Failed to retrieve faculty")
	}
	return f, nil
}

// Update applies a partial update and returns the stored record
func (s *FacultyService) Update(ctx context.Context, id uuid.UUID, in UpdateFacultyInput) (*models.Faculty, error) {
	f, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "Failed to update faculty")
	}

	if in.Name != nil {
		f.Name = strings.TrimSpace(*in.Name)
	}
	if in.Subject != nil {
		f.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Email != nil {
		f.Email = strings.TrimSpace(*in.Email)
	}
	if in.Institute != nil {
		f.Institute = *in.Institute
	}
	if in.Department != nil {
		f.Department = strings.TrimSpace(*in.Department)
	}
	f.UpdatedAt = time.Now().UTC()

	if err := s.faculty.Update(ctx, f); err != nil {
		return nil, s.translate(err, "Failed to update faculty")
	}
	return f, nil
}

// Delete removes a faculty member
func (s *FacultyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.faculty.Delete(ctx, id); err != nil {
		return s.translate(err, "Failed to delete faculty")
	}
	s.logger.Info("faculty deleted", zap.String("faculty_id", id.String()))
	return nil
}

func (s *FacultyService) translate(err error, operation string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrFacultyNotFound
	}
	if dup, ok := repositories.IsDuplicate(err); ok {
		return NewDuplicateError(dup.Field, err)
	}

	s.logger.Error(strings.ToLower(operation), zap.Error(err))
	return WrapInternal(operation, err)
}
