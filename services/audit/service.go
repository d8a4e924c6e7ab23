package audit

import (
	"context"
	"fmt"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
)

const (
	// DefaultPageSize is used when List is called without a positive limit
	DefaultPageSize = 50
	// MaxPageSize caps a single List page
	MaxPageSize = 200
)

// AuditService records administrative actions.
// Entries are written synchronously with the caller's ctx, so an entry
// recorded inside a transaction commits or rolls back with it.
type AuditService struct {
	auditRepo repositories.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repositories.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record persists an audit entry and mirrors it to the structured log.
// The chi request id in ctx is attached when the entry carries none.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) error {
	if entry.RequestID == "" {
		entry.WithRequest(chimw.GetReqID(ctx))
	}

	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	s.logger.Info("audit",
		zap.String("action", string(entry.Action)),
		zap.String("actor_id", entry.ActorID.String()),
		zap.String("actor_name", entry.ActorName),
		zap.String("target_id", entry.TargetID.String()),
		zap.String("target_name", entry.TargetName),
		zap.String("request_id", entry.RequestID),
		zap.Time("timestamp", entry.Timestamp),
	)

	return nil
}

// List returns audit entries, newest first. limit is clamped to
// [1, MaxPageSize] and a negative offset is treated as zero.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	logs, err := s.auditRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

// Convenience methods for logging common events

// LogAdminCreated records the creation of target by actor
func (s *AuditService) LogAdminCreated(ctx context.Context, actor *auth.Principal, target *models.Admin) error {
	entry := models.NewAuditLog(actor.ID, actor.Name, models.AuditActionAdminCreated).
		WithTarget(target.ID, target.Name).
		WithDetails(map[string]interface{}{
			"email": target.Email,
			"role":  target.Role,
		})
	return s.Record(ctx, entry)
}

// LogAdminUpdated records an update of target; changes names the fields that were set
func (s *AuditService) LogAdminUpdated(ctx context.Context, actor *auth.Principal, target *models.Admin, changes []string) error {
	entry := models.NewAuditLog(actor.ID, actor.Name, models.AuditActionAdminUpdated).
		WithTarget(target.ID, target.Name).
		WithDetails(map[string]interface{}{
			"fields": changes,
			"role":   target.Role,
		})
	return s.Record(ctx, entry)
}

// LogAdminDeleted records the deletion of target by actor
func (s *AuditService) LogAdminDeleted(ctx context.Context, actor *auth.Principal, target *models.Admin) error {
	entry := models.NewAuditLog(actor.ID, actor.Name, models.AuditActionAdminDeleted).
		WithTarget(target.ID, target.Name).
		WithDetails(map[string]interface{}{
			"email": target.Email,
			"role":  target.Role,
		})
	return s.Record(ctx, entry)
}
