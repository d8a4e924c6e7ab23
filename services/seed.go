package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/config"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/repositories"
)

// SeedSuperadmin creates the bootstrap superadmin described by cfg unless an
// admin with that email already exists. The boolean reports whether a new
// account was created.
func (s *AdminService) SeedSuperadmin(ctx context.Context, cfg config.SeedConfig) (*models.Admin, bool, error) {
	email := strings.TrimSpace(cfg.Email)

	existing, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("superadmin already exists", zap.String("email", email))
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, WrapInternal("Failed to seed superadmin", err)
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return nil, false, WrapInternal("Failed to seed superadmin", err)
	}

	admin := models.NewAdmin(cfg.Name, email, hash, models.RoleSuperadmin)
	if err := s.admins.Create(ctx, admin); err != nil {
		// Lost a race with a concurrent seed
		if _, ok := repositories.IsDuplicate(err); ok {
			existing, getErr := s.admins.GetByEmail(ctx, email)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, WrapInternal("Failed to seed superadmin", err)
	}

	s.logger.Info("superadmin created",
		zap.String("admin_id", admin.ID.String()),
		zap.String("email", email),
	)

	return admin, true, nil
}
