package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docdigest/internal/handlers"
	"docdigest/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ReviewService service.ReviewService
	HealthChecker handlers.HealthChecker
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.HealthChecker))
		r.Method(http.MethodPost, "/review/run", handlers.NewReviewHandler(deps.ReviewService))
		r.Method(http.MethodGet, "/review/runs", handlers.NewRunsHandler(deps.ReviewService))
	})

	return r
}
