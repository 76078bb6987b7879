package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authAPI "wheel_predictor/internal/api/auth"
	healthAPI "wheel_predictor/internal/api/health"
	"wheel_predictor/internal/api/middleware"
	pollerAPI "wheel_predictor/internal/api/poller"
	wheelAPI "wheel_predictor/internal/api/wheel"
	"wheel_predictor/internal/service"
)

type routerDeps struct {
	wheel    *wheelAPI.Handler
	auth     *authAPI.Handler
	poller   *pollerAPI.Handler
	health   *healthAPI.Handler
	authServ service.AuthService
	registry *prometheus.Registry
}

func newRouter(deps routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	requireOperator := middleware.RequireOperator(deps.authServ)

	// Auth endpoints
	r.Post("/auth/login", deps.auth.Login)

	// Wheel endpoints
	r.Route("/wheel", func(rr chi.Router) {
		rr.Get("/analysis", deps.wheel.Analysis)
		rr.Post("/outcomes", deps.wheel.Ingest)
		rr.Post("/outcomes/batch", deps.wheel.Batch)
		rr.Get("/snapshot", deps.wheel.Snapshot)

		rr.With(requireOperator).Put("/snapshot", deps.wheel.Restore)
		rr.With(requireOperator).Delete("/state", deps.wheel.Reset)
	})

	// Poller endpoints
	r.Route("/poller", func(rr chi.Router) {
		rr.Get("/status", deps.poller.Status)

		rr.With(requireOperator).Post("/start", deps.poller.Start)
		rr.With(requireOperator).Post("/stop", deps.poller.Stop)
	})

	r.Get("/health", deps.health.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	return r
}
