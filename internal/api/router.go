package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Holdings-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	datasetService *service.DatasetService,
	dashboardService *service.DashboardService,
	sourceConfigService *service.SourceConfigService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Dashboard aggregations
		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(datasetService, dashboardService)
			r.Get("/clients", dashboardHandler.Clients)
			r.Get("/holdings", dashboardHandler.Holdings)
			r.Get("/kpis", dashboardHandler.Kpis)
			r.Get("/required-growth", dashboardHandler.RequiredGrowth)
			r.Get("/at-risk", dashboardHandler.AtRisk)
			r.Get("/sectors", dashboardHandler.Sectors)
			r.Get("/top-holdings", dashboardHandler.TopHoldings)
		})

		// Data source management
		r.Route("/source", func(r chi.Router) {
			sourceHandler := handlers.NewSourceHandler(sourceConfigService, datasetService)
			r.Get("/config", sourceHandler.GetConfig)
			r.Get("/snapshots", sourceHandler.Snapshots)

			// Mutations require the internal API key
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Put("/config", sourceHandler.PutConfig)
				r.Post("/refresh", sourceHandler.Refresh)
			})
		})
	})

	return r
}
