package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/utils"
)

// readinessTimeout bounds a single database check
const readinessTimeout = 5 * time.Second

// ConnectionState reports whether the database is reachable
type ConnectionState interface {
	PingContext(ctx context.Context) error
}

// RootResponse is the body of GET /
type RootResponse struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Database string            `json:"database"`
	Services map[string]string `json:"services"`
}

// RootErrorResponse is the body of GET / when the database is unreachable
type RootErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db     ConnectionState
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db ConnectionState, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// HandleRoot handles GET /
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if err := h.checkDatabase(r.Context()); err != nil {
		h.logger.Warn("database not connected", zap.Error(err))
		_ = utils.WriteJSON(w, http.StatusInternalServerError, RootErrorResponse{
			Error:   "Database Connection Failed",
			Message: "Database is not connected",
		})
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, RootResponse{
		Status:   "online",
		Message:  "Shree Allamaprabhu Foundation - Management API System",
		Database: "connected",
		Services: map[string]string{
			"authentication": "active",
			"cors":           "enabled",
			"api":            "ready",
		},
	})
}

// HandleHealth handles GET /healthz
// Liveness check - always returns 200 if the process is serving
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, "Service is healthy", HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	status := "healthy"
	httpStatus := http.StatusOK
	message := "Service is ready"

	if err := h.checkDatabase(r.Context()); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		message = "Service is not ready"
	} else {
		checks["database"] = "healthy"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteEnvelope(w, httpStatus, message, response, nil); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	if h.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	return h.db.PingContext(ctx)
}
