package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Huddle/internal/grouping"
	"github.com/MikeSquared-Agency/Huddle/internal/hermes"
	"github.com/MikeSquared-Agency/Huddle/internal/store"
)

func NewRouter(s store.Store, svc *grouping.Service, h hermes.Client, adminToken string, rateLimit int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	sections := NewSectionsHandler(s, svc, h, logger)
	students := NewStudentsHandler(s, svc, h)
	groups := NewGroupsHandler(svc)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TeacherIDMiddleware)

		r.Get("/sections", sections.List)
		r.Post("/sections", sections.Create)
		r.Get("/sections/{id}", sections.Dashboard)
		r.Delete("/sections/{id}", sections.Delete)
		r.Post("/sections/{id}/clear", sections.Clear)

		r.Get("/sections/{id}/students", students.List)
		r.Post("/sections/{id}/students", students.Create)
		r.Delete("/sections/{id}/students", students.Delete)
		r.Post("/sections/{id}/students/{student_id}/move", students.Move)

		r.Post("/sections/{id}/generate", groups.Generate)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

// NewMetricsRouter serves health and metrics. A nil gatherer exposes
// prometheus.DefaultGatherer.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
