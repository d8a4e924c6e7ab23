package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/middleware"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/services"
	"github.com/allamaprabhu/management-api/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Valid email is required"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// CreateAdminRequest represents a request to create an admin
type CreateAdminRequest struct {
	Name     string `json:"name" validate:"notblank" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Valid email is required"`
	Password string `json:"password" validate:"min=6" msg:"Password must be at least 6 characters"`
	Role     string `json:"role" validate:"notblank,oneof=superadmin admin moderator" msg:"Invalid role;notblank=Role is required"`
}

// UpdateAdminRequest represents a partial admin update
type UpdateAdminRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitnil,notblank" msg:"Name is required"`
	Email    *string `json:"email,omitempty" validate:"omitnil,email" msg:"Valid email is required"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6" msg:"Password must be at least 6 characters"`
	Role     *string `json:"role,omitempty" validate:"omitnil,oneof=superadmin admin moderator" msg:"Invalid role"`
}

// AdminSummary is the admin view returned on login
type AdminSummary struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// LoginResponse is the data of a successful login
type LoginResponse struct {
	Token string       `json:"token"`
	Admin AdminSummary `json:"admin"`
}

// AdminListResponse is the data of an admin listing
type AdminListResponse struct {
	Admins []*models.Admin `json:"admins"`
	Count  int             `json:"count"`
}

// AuditListResponse is the data of an audit log listing
type AuditListResponse struct {
	Entries []*models.AuditLog `json:"entries"`
	Count   int                `json:"count"`
}

// LoginService authenticates credentials
type LoginService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
}

// AdminService defines the admin operations the handler needs
type AdminService interface {
	Create(ctx context.Context, actor *auth.Principal, in services.CreateAdminInput) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	Update(ctx context.Context, actor *auth.Principal, id uuid.UUID, in services.UpdateAdminInput) (*models.Admin, error)
	Delete(ctx context.Context, actor *auth.Principal, id uuid.UUID) error
	ListAudit(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}

// AdminHandler handles admin-related HTTP requests
type AdminHandler struct {
	auth   LoginService
	admins AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(authService LoginService, adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		auth:   authService,
		admins: adminService,
		logger: logger,
	}
}

// HandleLogin handles POST /api/admin/login
func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Login successful", LoginResponse{
		Token: result.Token,
		Admin: AdminSummary{
			ID:    result.Admin.ID,
			Name:  result.Admin.Name,
			Email: result.Admin.Email,
			Role:  result.Admin.Role,
		},
	})
}

// HandleCreateAdmin handles POST /api/admin
func (h *AdminHandler) HandleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateAdminRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	admin, err := h.admins.Create(r.Context(), actor, services.CreateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, "Admin created successfully", admin)
}

// HandleListAdmins handles GET /api/admin
func (h *AdminHandler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.admins.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Admin list retrieved successfully", AdminListResponse{
		Admins: admins,
		Count:  len(admins),
	})
}

// HandleGetAdmin handles GET /api/admin/{id}
func (h *AdminHandler) HandleGetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	admin, err := h.admins.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Admin retrieved successfully", admin)
}

// HandleUpdateAdmin handles PUT /api/admin/{id}
func (h *AdminHandler) HandleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	trimPtr(req.Email)
	trimPtr(req.Role)

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	in := services.UpdateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		in.Role = &role
	}

	admin, err := h.admins.Update(r.Context(), actor, id, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Admin updated successfully", admin)
}

// HandleDeleteAdmin handles DELETE /api/admin/{id}
func (h *AdminHandler) HandleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requirePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := h.adminID(w, r)
	if !ok {
		return
	}

	if err := h.admins.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Admin deleted successfully", nil)
}

// HandleListAudit handles GET /api/admin/audit?limit=&offset=
func (h *AdminHandler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid limit", err.Error())
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid offset", err.Error())
		return
	}

	entries, err := h.admins.ListAudit(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}

	_ = utils.WriteOK(w, "Audit log retrieved successfully", AuditListResponse{
		Entries: entries,
		Count:   len(entries),
	})
}

func (h *AdminHandler) requirePrincipal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		h.logger.Error("principal not found in context",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
		HandleServiceError(w, services.ErrUnauthenticated, h.logger)
		return nil, false
	}
	return principal, true
}

func (h *AdminHandler) adminID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, services.ErrInvalidAdminID, h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// queryInt reads an optional integer query parameter; absent means 0
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
