package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/allamaprabhu/management-api/app"
	"github.com/allamaprabhu/management-api/middleware"
	"github.com/allamaprabhu/management-api/models"
	"github.com/allamaprabhu/management-api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	// Forwarding headers are client controlled unless a proxy rewrites them
	if deps.Config.Server.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(deps.Logger, deps.LogLocation))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// Status and health endpoints
	r.Get("/", deps.HealthHandler.HandleRoot)
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	authMW := deps.AuthMiddleware

	r.Route("/api/admin", func(r chi.Router) {
		r.With(middleware.RateLimit(deps.Config.Auth.LoginRateLimit)).
			Post("/login", deps.AdminHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)

			// Reads are open to admins; every mutation needs a superadmin
			r.With(authMW.RequireRole(models.RoleAdmin, models.RoleSuperadmin)).
				Get("/", deps.AdminHandler.HandleListAdmins)
			r.With(authMW.RequireRole(models.RoleAdmin, models.RoleSuperadmin)).
				Get("/{id}", deps.AdminHandler.HandleGetAdmin)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireRole(models.RoleSuperadmin))
				r.Post("/", deps.AdminHandler.HandleCreateAdmin)
				r.Get("/audit", deps.AdminHandler.HandleListAudit)
				r.Put("/{id}", deps.AdminHandler.HandleUpdateAdmin)
				r.Delete("/{id}", deps.AdminHandler.HandleDeleteAdmin)
			})
		})
	})

	r.Route("/api/faculty", func(r chi.Router) {
		r.Use(authMW.RequireAuth)
		r.Use(authMW.RequireRole(models.Roles...))

		r.Post("/", deps.FacultyHandler.HandleCreateFaculty)
		r.Get("/", deps.FacultyHandler.HandleListFaculty)
		r.Get("/institute/{name}", deps.FacultyHandler.HandleListByInstitute)
		r.Get("/{id}", deps.FacultyHandler.HandleGetFaculty)
		r.Put("/{id}", deps.FacultyHandler.HandleUpdateFaculty)
		r.Delete("/{id}", deps.FacultyHandler.HandleDeleteFaculty)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}
