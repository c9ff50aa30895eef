package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dedupe/pkg/platform/middleware"
)

// NewRouter assembles the middleware chain and mounts all endpoints,
// including the Prometheus scrape target.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))

	h.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
