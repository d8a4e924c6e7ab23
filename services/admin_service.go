package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/internal/policy"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
	"github.com/allamaprabhu/management-api/services/audit"
)

// CreateAdminInput carries a validated create request
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// UpdateAdminInput carries a partial update; nil fields are left unchanged
type UpdateAdminInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

// AdminService handles admin account business logic
type AdminService struct {
	admins repositories.AdminRepository
	txMgr  repositories.TransactionManager
	audit  *audit.AuditService
	logger *zap.Logger
}

// NewAdminService creates a new AdminService instance
func NewAdminService(
	admins repositories.AdminRepository,
	txMgr repositories.TransactionManager,
	auditService *audit.AuditService,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		admins: admins,
		txMgr:  txMgr,
		audit:  auditService,
		logger: logger,
	}
}

// Create stores a new admin with a bcrypt-hashed password and records the action
func (s *AdminService) Create(ctx context.Context, actor *auth.Principal, in CreateAdminInput) (*models.Admin, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, WrapInternal("Failed to create admin", err)
	}

	admin := models.NewAdmin(strings.TrimSpace(in.Name), strings.TrimSpace(in.Email), hash, in.Role)

	err = WithTransaction(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) error {
		if err := s.admins.Create(ctx, admin); err != nil {
			return err
		}
		return s.audit.LogAdminCreated(ctx, actor, admin)
	})
	if err != nil {
		return nil, s.translate(err, "Failed to create admin")
	}

	s.logger.Info("admin created",
		zap.String("admin_id", admin.ID.String()),
		zap.String("role", admin.Role.String()),
		zap.String("actor_id", actor.ID.String()),
	)

	return admin, nil
}

// List returns every admin. An empty store is reported as ErrNoAdmins.
func (s *AdminService) List(ctx context.Context) ([]*models.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, WrapInternal("Failed to retrieve admin list", err)
	}
	if len(admins) == 0 {
		return nil, ErrNoAdmins
	}
	return admins, nil
}

// Get returns a single admin
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "Failed to retrieve admin")
	}
	return admin, nil
}

// Update applies a partial update. The target row is always locked before it
// is read back; a role change also locks the superadmin rows so the last one
// can never be demoted.
func (s *AdminService) Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, in UpdateAdminInput) (*models.Admin, error) {
	var hash string
	if in.Password != nil {
		h, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, WrapInternal("Failed to update admin", err)
		}
		hash = h
	}

	updated, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*models.Admin, error) {
		target, count, err := s.loadForUpdate(ctx, id, in.Role)
		if err != nil {
			return nil, err
		}

		if in.Role != nil {
			if decision := policy.CanChangeRole(*target, *in.Role, count); !decision.Allowed {
				return nil, decisionError(decision)
			}
		}

		changes := applyAdminUpdate(target, in)
		target.PasswordHash = hash
		target.UpdatedAt = time.Now().UTC()
		if hash != "" {
			changes = append(changes, "password")
		}

		if err := s.admins.Update(ctx, target); err != nil {
			return nil, err
		}
		if err := s.audit.LogAdminUpdated(ctx, actor, target, changes); err != nil {
			return nil, err
		}
		return target, nil
	})
	if err != nil {
		return nil, s.translate(err, "Failed to update admin")
	}

	return updated, nil
}

// loadForUpdate returns the locked target and, when the update touches the
// role, the superadmin count with the superadmin rows locked.
func (s *AdminService) loadForUpdate(ctx context.Context, id uuid.UUID, role *models.Role) (*models.Admin, int, error) {
	if role == nil {
		admin, err := s.admins.LockByID(ctx, id)
		return admin, 0, err
	}
	return s.admins.LockForDeletion(ctx, id)
}

// Delete removes target on behalf of actor. The target and all superadmin
// rows are locked before the policy runs, so concurrent deletions serialize
// and the superadmin count can never reach zero.
func (s *AdminService) Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error {
	var deleted *models.Admin

	err := WithTransaction(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) error {
		target, count, err := s.admins.LockForDeletion(ctx, id)
		if err != nil {
			return err
		}

		if decision := policy.CanDelete(*actor, *target, count); !decision.Allowed {
			return decisionError(decision)
		}

		if err := s.admins.Delete(ctx, target.ID); err != nil {
			return err
		}
		if err := s.audit.LogAdminDeleted(ctx, actor, target); err != nil {
			return err
		}

		deleted = target
		return nil
	})
	if err != nil {
		return s.translate(err, "Failed to delete admin")
	}

	s.logger.Info("admin deleted",
		zap.String("actor_id", actor.ID.String()),
		zap.String("actor_name", actor.Name),
		zap.String("target_id", deleted.ID.String()),
		zap.String("target_name", deleted.Name),
	)

	return nil
}

// ListAudit returns a page of the admin audit trail, newest first
func (s *AdminService) ListAudit(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	logs, err := s.audit.List(ctx, limit, offset)
	if err != nil {
		return nil, WrapInternal("Failed to retrieve audit log", err)
	}
	return logs, nil
}

// translate maps repository errors onto admin domain errors
func (s *AdminService) translate(err error, operation string) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAdminNotFound
	}
	if dup, ok := repositories.IsDuplicate(err); ok {
		return NewDuplicateError(dup.Field, err)
	}

	s.logger.Error(strings.ToLower(operation), zap.Error(err))
	return WrapInternal(operation, err)
}

func applyAdminUpdate(admin *models.Admin, in UpdateAdminInput) []string {
	var changes []string
	if in.Name != nil {
		admin.Name = strings.TrimSpace(*in.Name)
		changes = append(changes, "name")
	}
	if in.Email != nil {
		admin.Email = strings.TrimSpace(*in.Email)
		changes = append(changes, "email")
	}
	if in.Role != nil {
		admin.Role = *in.Role
		changes = append(changes, "role")
	}
	return changes
}

func decisionError(d policy.Decision) error {
	switch d.Rule {
	case policy.RuleSelfDeletion:
		return ErrSelfDeletion
	case policy.RuleLastSuperadmin:
		return ErrLastSuperadmin
	case policy.RuleLastSuperadminDemotion:
		return ErrLastSuperadminDemotion
	default:
		return ErrAccessDenied
	}
}
