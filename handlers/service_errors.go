package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/services"
	"github.com/allamaprabhu/management-api/utils"
)

// HandleServiceError maps domain errors to HTTP responses.
// It is the only place where service errors become envelopes.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var domainErr *services.DomainError
	if !errors.As(err, &domainErr) {
		// Unknown error type - log and return internal error
		logger.Error("unhandled error type", zap.Error(err))
		if err := utils.WriteInternalServerError(w, "An unexpected error occurred", err.Error()); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
		return
	}

	var writeErr error
	switch domainErr.Type {
	case services.ErrorTypeNotFound:
		writeErr = utils.WriteError(w, http.StatusNotFound, domainErr.Message, domainErr.Details)

	case services.ErrorTypeValidation:
		writeErr = utils.WriteBadRequest(w, domainErr.Message, domainErr.Details)

	case services.ErrorTypeUnauthorized:
		writeErr = utils.WriteUnauthorized(w, domainErr.Message, domainErr.Details)

	case services.ErrorTypeForbidden:
		writeErr = utils.WriteForbidden(w, domainErr.Message, domainErr.Details)

	case services.ErrorTypeConflict:
		writeErr = utils.WriteConflict(w, domainErr.Message, domainErr.Details)

	default:
		// Internal failures carry the cause text in details
		logger.Error("internal server error", zap.Error(err))
		details := domainErr.Details
		if details == nil && domainErr.Err != nil {
			details = domainErr.Err.Error()
		}
		writeErr = utils.WriteInternalServerError(w, domainErr.Message, details)
	}

	if writeErr != nil {
		logger.Error("failed to write error response",
			zap.String("type", string(domainErr.Type)),
			zap.Error(writeErr))
	}

	logger.Debug("handled service error",
		zap.String("type", string(domainErr.Type)),
		zap.String("message", domainErr.Message),
		zap.Any("details", domainErr.Details))
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		if err := utils.WriteBadRequest(w, "Validation failed", utils.GetValidationFields(err)); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	// Body could not be decoded
	if err := utils.WriteBadRequest(w, services.ErrInvalidBody.Message, err.Error()); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
