package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type services struct {
	Leads       *usecase.LeadUseCase
	Deals       *usecase.DealUseCase
	Connections *usecase.ConnectionUseCase
	Tasks       *usecase.TaskUseCase
	Focus       *usecase.FocusScheduler
	Pipeline    *usecase.PipelineEngine
	Dashboard   *usecase.DashboardUseCase
}

func newRouter(svc services, health *handlers.HealthHandler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.OwnerHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner)

		handlers.NewLeadHandler(svc.Leads, svc.Deals, svc.Pipeline, logger).Register(r)
		handlers.NewDealHandler(svc.Deals, svc.Pipeline, logger).Register(r)
		handlers.NewConnectionHandler(svc.Connections, svc.Pipeline, logger).Register(r)
		handlers.NewTaskHandler(svc.Tasks, svc.Focus, logger).Register(r)
		handlers.NewDashboardHandler(svc.Dashboard, logger).Register(r)
	})

	return r
}
