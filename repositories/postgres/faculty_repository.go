package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
)

const facultyColumns = `id, name, subject, email, institute, department, created_at, updated_at`

// FacultyRepository implements the repositories.FacultyRepository interface
type FacultyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFacultyRepository creates a new faculty repository
func NewFacultyRepository(db *DB, logger *zap.Logger) repositories.FacultyRepository {
	return &FacultyRepository{
		db:     db,
		logger: logger,
	}
}

func scanFaculty(row rowScanner) (*models.Faculty, error) {
	f := &models.Faculty{}
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Subject,
		&f.Email,
		&f.Institute,
		&f.Department,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

// Create creates a new faculty member
func (r *FacultyRepository) Create(ctx context.Context, f *models.Faculty) error {
	query := `
		INSERT INTO faculty (` + facultyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		f.ID,
		f.Name,
		f.Subject,
		f.Email,
		f.Institute,
		f.Department,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "faculty", "create faculty")
	}

	r.logger.Debug("faculty created", zap.String("id", f.ID.String()), zap.String("institute", string(f.Institute)))
	return nil
}

// GetByID retrieves a faculty member by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Faculty, error) {
	query := `SELECT ` + facultyColumns + ` FROM faculty WHERE id = $1`

	f, err := scanFaculty(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "faculty", "get faculty")
	}
	return f, nil
}

// List retrieves all faculty members
func (r *FacultyRepository) List(ctx context.Context) ([]*models.Faculty, error) {
	return r.query(ctx, `SELECT `+facultyColumns+` FROM faculty ORDER BY created_at DESC`)
}

// ListByInstitute retrieves faculty members of one institute
func (r *FacultyRepository) ListByInstitute(ctx context.Context, institute models.Institute) ([]*models.Faculty, error) {
	return r.query(ctx,
		`SELECT `+facultyColumns+` FROM faculty WHERE institute = $1 ORDER BY created_at DESC`,
		institute)
}

func (r *FacultyRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Faculty, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query faculty: %w", err)
	}
	defer rows.Close()

	var list []*models.Faculty
	for rows.Next() {
		f, err := scanFaculty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan faculty: %w", err)
		}
		list = append(list, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}

	return list, nil
}

// Update updates a faculty member
func (r *FacultyRepository) Update(ctx context.Context, f *models.Faculty) error {
	query := `
		UPDATE faculty
		SET name = $2,
		    subject = $3,
		    email = $4,
		    institute = $5,
		    department = $6,
		    updated_at = $7
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		f.ID,
		f.Name,
		f.Subject,
		f.Email,
		f.Institute,
		f.Department,
		f.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "faculty", "update faculty")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("faculty updated", zap.String("id", f.ID.String()))
	return nil
}

// Delete deletes a faculty member
func (r *FacultyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete faculty: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("faculty deleted", zap.String("id", id.String()))
	return nil
}
