package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/worldpop/worldpop-api/app"
	"github.com/worldpop/worldpop-api/models"
)

// SetupRoutes configures all application routes and middleware. The access
// policy of every route is declared here and nowhere else: public routes skip
// the auth chain entirely, everything else mounts RequireAuth, and admin
// routes additionally mount RequireRole(ADMIN).
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Cookie"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.Liveness)
	r.Get("/readyz", deps.HealthHandler.Readiness)

	// Public auth endpoints
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", deps.AuthHandler.Login)
		r.Post("/register", deps.AuthHandler.Register)
		r.Post("/logout", deps.AuthHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/me", deps.AuthHandler.Me)
		})
	})

	// Country catalogue (authenticated; mutations admin-only)
	r.Route("/api/countries", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)

		r.Get("/", deps.CountryHandler.List)
		r.Get("/search", deps.CountryHandler.Search)
		r.Get("/top", deps.CountryHandler.Top)
		r.Get("/continent/{continent}", deps.CountryHandler.ByContinent)
		r.Get("/{countryCode}", deps.CountryHandler.Get)
		r.Get("/{countryCode}/history", deps.CountryHandler.History)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireRole(models.RoleAdmin))
			r.Post("/", deps.CountryHandler.Create)
			r.Put("/{countryCode}", deps.CountryHandler.Update)
			r.Delete("/{countryCode}", deps.CountryHandler.Delete)
		})
	})

	// Statistics
	r.Route("/api/stats", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.Get("/", deps.StatsHandler.Overview)
		r.Get("/continents", deps.StatsHandler.Continents)
		r.Get("/total", deps.StatsHandler.Total)
	})

	// News proxy
	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.Get("/api/news", deps.NewsHandler.Search)
	})

	// User administration
	r.Route("/api/users", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		r.Use(deps.AuthMiddleware.RequireRole(models.RoleAdmin))
		r.Get("/", deps.UserHandler.List)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
