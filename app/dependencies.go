package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/config"
	"github.com/allamaprabhu/management-api/handlers"
	"github.com/allamaprabhu/management-api/middleware"
	"github.com/allamaprabhu/management-api/repositories"
	"github.com/allamaprabhu/management-api/repositories/postgres"
	"github.com/allamaprabhu/management-api/services"
	"github.com/allamaprabhu/management-api/services/audit"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Admins    repositories.AdminRepository
	Faculty   repositories.FacultyRepository
	AuditLogs repositories.AuditRepository
	TxManager repositories.TransactionManager

	// Services
	TokenCodec     *auth.TokenCodec
	AuthService    *services.AuthService
	AdminService   *services.AdminService
	FacultyService *services.FacultyService
	AuditService   *audit.AuditService

	// HTTP
	AuthMiddleware *middleware.AuthMiddleware
	AdminHandler   *handlers.AdminHandler
	FacultyHandler *handlers.FacultyHandler
	HealthHandler  *handlers.HealthHandler
	LogLocation    *time.Location
}

// NewDependencies connects to PostgreSQL and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := newDependencies(cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesFromDB wires dependencies around an existing pool
func NewDependenciesFromDB(cfg *config.Config, db *postgres.DB, logger *zap.Logger) (*Dependencies, error) {
	return newDependencies(cfg, postgres.NewRepositoryFactoryFromDB(db, logger), logger)
}

func newDependencies(cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := deps.initHTTP(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return deps, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Admins = repos.Admins
	d.Faculty = repos.Faculty
	d.AuditLogs = repos.AuditLogs
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices(cfg *config.Config) error {
	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}
	d.TokenCodec = codec

	d.AuditService = audit.NewAuditService(d.AuditLogs, d.Logger)
	d.AuthService = services.NewAuthService(d.Admins, codec, d.Logger)
	d.AdminService = services.NewAdminService(d.Admins, d.TxManager, d.AuditService, d.Logger)
	d.FacultyService = services.NewFacultyService(d.Faculty, d.Logger)
	return nil
}

func (d *Dependencies) initHTTP(cfg *config.Config) error {
	loc, err := time.LoadLocation(cfg.Observability.LogTimezone)
	if err != nil {
		return fmt.Errorf("log timezone: %w", err)
	}
	d.LogLocation = loc

	d.AuthMiddleware = middleware.NewAuthMiddleware(d.AuthService, d.Logger)
	d.AdminHandler = handlers.NewAdminHandler(d.AuthService, d.AdminService, d.Logger)
	d.FacultyHandler = handlers.NewFacultyHandler(d.FacultyService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB, d.Logger)
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
