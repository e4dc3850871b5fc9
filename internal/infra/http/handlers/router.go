package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	Leads         *LeadHandler
	Notifications *NotificationHandler
	Logs          *LogHandler
	Health        *HealthHandler
	CORSOrigins   []string
	AccessLog     bool

	// TrustProxyHeaders rewrites RemoteAddr from True-Client-IP, X-Real-IP or
	// X-Forwarded-For before the rate limiter and activity log see it.
	TrustProxyHeaders bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			middleware.HeaderUserID,
			middleware.HeaderUserName,
			middleware.HeaderUserEmail,
			middleware.HeaderUserRole,
		},
	}))

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity)
		r.Use(middleware.RequestMeta)

		r.Route("/leads", cfg.Leads.Routes)
		r.Route("/notifications", cfg.Notifications.Routes)
		r.Route("/logs", cfg.Logs.Routes)
		r.Post("/activity", cfg.Logs.Record)
	})

	return r
}
