package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/services"
	"github.com/allamaprabhu/management-api/utils"
)

// CreateFacultyRequest represents a request to create a faculty member
type CreateFacultyRequest struct {
	Name       string `json:"name" validate:"notblank" msg:"Name is required"`
	Subject    string `json:"subject" validate:"notblank" msg:"Subject is required"`
	Email      string `json:"email" validate:"required,email" msg:"Valid email is required"`
	Institute  string `json:"institute" validate:"notblank,oneof=institute1 institute2 institute3" msg:"Invalid institute;notblank=Institute is required"`
	Department string `json:"department" validate:"notblank" msg:"Department is required"`
}

// UpdateFacultyRequest represents a partial faculty update
type UpdateFacultyRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitnil,notblank" msg:"Name is required"`
	Subject    *string `json:"subject,omitempty" validate:"omitnil,notblank" msg:"Subject is required"`
	Email      *string `json:"email,omitempty" validate:"omitnil,email" msg:"Valid email is required"`
	Institute  *string `json:"institute,omitempty" validate:"omitnil,oneof=institute1 institute2 institute3" msg:"Invalid institute"`
	Department *string `json:"department,omitempty" validate:"omitnil,notblank" msg:"Department is required"`
}

// FacultyListResponse is the data of a faculty listing
type FacultyListResponse struct {
	Faculty []*models.Faculty `json:"faculty"`
	Count   int               `json:"count"`
}

// FacultyService defines the faculty operations the handler needs
type FacultyService interface {
	Create(ctx context.Context, in services.CreateFacultyInput) (*models.Faculty, error)
	List(ctx context.Context) ([]*models.Faculty, error)
	ListByInstitute(ctx context.Context, institute string) ([]*models.Faculty, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Faculty, error)
	Update(ctx context.Context, id uuid.UUID, in services.UpdateFacultyInput) (*models.Faculty, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// FacultyHandler handles faculty HTTP requests
type FacultyHandler struct {
	service FacultyService
	logger  *zap.Logger
}

// NewFacultyHandler creates a new FacultyHandler
func NewFacultyHandler(service FacultyService, logger *zap.Logger) *FacultyHandler {
	return &FacultyHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCreateFaculty handles POST /api/faculty
func (h *FacultyHandler) HandleCreateFaculty(w http.ResponseWriter, r *http.Request) {
	var req CreateFacultyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Institute = strings.TrimSpace(req.Institute)

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	f, err := h.service.Create(r.Context(), services.CreateFacultyInput{
		Name:       req.Name,
		Subject:    req.Subject,
		Email:      req.Email,
		Institute:  models.Institute(req.Institute),
		Department: req.Department,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, "Faculty created successfully", f)
}

// HandleListFaculty handles GET /api/faculty
func (h *FacultyHandler) HandleListFaculty(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Faculty list retrieved successfully", FacultyListResponse{
		Faculty: list,
		Count:   len(list),
	})
}

// HandleListByInstitute handles GET /api/faculty/institute/{name}
func (h *FacultyHandler) HandleListByInstitute(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		_ = utils.WriteBadRequest(w, "Validation failed", []utils.FieldError{
			{Field: "name", Message: "Institute name is required"},
		})
		return
	}

	list, err := h.service.ListByInstitute(r.Context(), name)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Faculty retrieved for "+name, FacultyListResponse{
		Faculty: list,
		Count:   len(list),
	})
}

// HandleGetFaculty handles GET /api/faculty/{id}
func (h *FacultyHandler) HandleGetFaculty(w http.ResponseWriter, r *http.Request) {
	id, ok := h.facultyID(w, r)
	if !ok {
		return
	}

	f, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Faculty retrieved successfully", f)
}

// HandleUpdateFaculty handles PUT /api/faculty/{id}
func (h *FacultyHandler) HandleUpdateFaculty(w http.ResponseWriter, r *http.Request) {
	id, ok := h.facultyID(w, r)
	if !ok {
		return
	}

	var req UpdateFacultyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	trimPtr(req.Email)
	trimPtr(req.Institute)

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	in := services.UpdateFacultyInput{
		Name:       req.Name,
		Subject:    req.Subject,
		Email:      req.Email,
		Department: req.Department,
	}
	if req.Institute != nil {
		inst := models.Institute(*req.Institute)
		in.Institute = &inst
	}

	f, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Faculty updated successfully", f)
}

// HandleDeleteFaculty handles DELETE /api/faculty/{id}
func (h *FacultyHandler) HandleDeleteFaculty(w http.ResponseWriter, r *http.Request) {
	id, ok := h.facultyID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, "Faculty deleted successfully", nil)
}

func (h *FacultyHandler) facultyID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, services.ErrInvalidFacultyID, h.logger)
		return uuid.Nil, false
	}
	return id, true
}
