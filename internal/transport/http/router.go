package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter assembles the caller surface: session lifecycle, provisioning,
// availability, health and metrics.
func NewRouter(sessions SessionCoordinator, provisioning Provisioner, registry *prometheus.Registry, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Post("/sessions/entry", HandleEnter(sessions))
	r.Post("/sessions/exit", HandleExit(sessions))

	r.Get("/zones/{zoneID}/availability", HandleZoneAvailability(provisioning))

	r.Route("/admin", func(r chi.Router) {
		r.Post("/sites", HandleCreateSite(provisioning))
		r.Get("/sites", HandleListSites(provisioning))
		r.Post("/sites/{siteID}/zones", HandleCreateZone(provisioning))
		r.Get("/sites/{siteID}/zones", HandleListZones(provisioning))
	})

	return RequestLogger(r, logger)
}
