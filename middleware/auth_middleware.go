package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/allamaprabhu/management-api/auth"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/services"
	"github.com/allamaprabhu/management-api/utils"
)

// PrincipalResolver turns a bearer token into the admin it belongs to
type PrincipalResolver interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// AuthMiddleware provides authentication and role gate middleware
type AuthMiddleware struct {
	resolver PrincipalResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver PrincipalResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		principal, err := m.resolver.Authenticate(ctx, extractBearerToken(r))
		if err != nil {
			m.logger.Warn("authentication failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			m.writeAuthError(w, err)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("admin_id", principal.ID.String()),
			zap.String("role", principal.Role.String()))

		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
	})
}

// RequireRole is a middleware that admits only principals holding one of roles.
// It must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			principal := GetPrincipal(ctx)
			if principal == nil {
				m.logger.Error("principal not found in context",
					zap.String("request_id", requestID))
				m.writeAuthError(w, services.ErrUnauthenticated)
				return
			}

			if err := auth.Authorize(principal, roles...); err != nil {
				var denied *auth.AccessDeniedError
				details := ""
				if errors.As(err, &denied) {
					details = "Requires one of the following roles: " + denied.AllowedList()
				}
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("admin_id", principal.ID.String()),
					zap.String("role", principal.Role.String()))
				_ = utils.WriteForbidden(w, services.ErrAccessDenied.Message, details)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError renders an authentication failure. Anything that is not an
// unauthorized domain error is reported as a 500 with the cause in details.
func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, err error) {
	var domainErr *services.DomainError
	if errors.As(err, &domainErr) && domainErr.Type == services.ErrorTypeUnauthorized {
		_ = utils.WriteUnauthorized(w, domainErr.Message, domainErr.Details)
		return
	}

	message := "Authentication failed"
	details := err.Error()
	if domainErr != nil {
		message = domainErr.Message
		if domainErr.Err != nil {
			details = domainErr.Err.Error()
		}
	}
	_ = utils.WriteInternalServerError(w, message, details)
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Check if it starts with "Bearer "
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
