package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
)

const adminColumns = `id, name, email, password_hash, role, created_at, updated_at`

// AdminRepository implements the repositories.AdminRepository interface
type AdminRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *DB, logger *zap.Logger) repositories.AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdmin(row rowScanner) (*models.Admin, error) {
	admin := &models.Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	return admin, err
}

// Create creates a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		admin.ID,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "admins", "create admin")
	}

	r.logger.Debug("admin created", zap.String("id", admin.ID.String()), zap.String("email", admin.Email))
	return nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	admin, err := scanAdmin(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "admins", "get admin")
	}
	return admin, nil
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	admin, err := scanAdmin(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "admins", "get admin by email")
	}
	return admin, nil
}

// List retrieves all admins, newest first
func (r *AdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at DESC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	var admins []*models.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, admin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin rows: %w", err)
	}

	return admins, nil
}

// LockByID row-locks a single admin for the rest of the surrounding transaction
func (r *AdminRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	if _, ok := GetTransactionFromContext(ctx); !ok {
		return nil, fmt.Errorf("lock admin requires a transaction")
	}

	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1 FOR UPDATE`
	admin, err := scanAdmin(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "admins", "lock admin")
	}
	return admin, nil
}

// Update updates an admin. An empty PasswordHash keeps the stored hash.
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	query := `
		UPDATE admins
		SET name = $2,
		    email = $3,
		    role = $4,
		    password_hash = COALESCE(NULLIF($5, ''), password_hash),
		    updated_at = $6
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		admin.ID,
		admin.Name,
		admin.Email,
		admin.Role,
		admin.PasswordHash,
		admin.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "admins", "update admin")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("admin updated", zap.String("id", admin.ID.String()))
	return nil
}

// Delete deletes an admin
func (r *AdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("admin deleted", zap.String("id", id.String()))
	return nil
}

// LockForDeletion locks every superadmin row in id order, then the target row.
// Taking the superadmin locks first and in a fixed order keeps concurrent
// callers from deadlocking; a caller that waited observes the rows that
// survived the other transaction.
func (r *AdminRepository) LockForDeletion(ctx context.Context, id uuid.UUID) (*models.Admin, int, error) {
	if _, ok := GetTransactionFromContext(ctx); !ok {
		return nil, 0, fmt.Errorf("lock for deletion requires a transaction")
	}
	executor := GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx,
		`SELECT id FROM admins WHERE role = $1 ORDER BY id FOR UPDATE`, models.RoleSuperadmin)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to lock superadmins: %w", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("error iterating superadmin rows: %w", err)
	}
	rows.Close()

	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1 FOR UPDATE`
	target, err := scanAdmin(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, 0, translateError(err, "admins", "lock admin")
	}

	return target, count, nil
}
