package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/allamaprabhu/management-api/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if function succeeds, rolls back on error.
	// Repository calls made with the ctx passed to fn run inside the transaction.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// AdminRepository handles admin account data operations
type AdminRepository interface {
	// Create creates a new admin
	Create(ctx context.Context, admin *models.Admin) error

	// GetByID retrieves an admin by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)

	// GetByEmail retrieves an admin by email, including the password hash
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)

	// List retrieves all admins, newest first
	List(ctx context.Context) ([]*models.Admin, error)

	// LockByID row-locks one admin for the rest of the surrounding
	// transaction and returns it. Must be called inside InTransaction.
	LockByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)

	// Update updates name, email, role and optionally the password hash
	Update(ctx context.Context, admin *models.Admin) error

	// Delete deletes an admin
	Delete(ctx context.Context, id uuid.UUID) error

	// LockForDeletion row-locks the target admin and every superadmin for the
	// rest of the surrounding transaction and returns the target together with
	// the current superadmin count. Must be called inside InTransaction.
	LockForDeletion(ctx context.Context, id uuid.UUID) (*models.Admin, int, error)
}

// FacultyRepository handles faculty data operations
type FacultyRepository interface {
	// Create creates a new faculty member
	Create(ctx context.Context, faculty *models.Faculty) error

	// GetByID retrieves a faculty member by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Faculty, error)

	// List retrieves all faculty members
	List(ctx context.Context) ([]*models.Faculty, error)

	// ListByInstitute retrieves faculty members of one institute
	ListByInstitute(ctx context.Context, institute models.Institute) ([]*models.Faculty, error)

	// Update updates a faculty member
	Update(ctx context.Context, faculty *models.Faculty) error

	// Delete deletes a faculty member
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRepository handles audit log data operations
type AuditRepository interface {
	// Insert inserts a new audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// List retrieves audit logs, newest first, with pagination
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Admins    AdminRepository
	Faculty   FacultyRepository
	AuditLogs AuditRepository
}
