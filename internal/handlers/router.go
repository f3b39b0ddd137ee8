package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes collects the handlers served by the API.
type Routes struct {
	Sessions *SessionHandler
	Events   *EventsHandler
	Health   *HealthHandler
	// Metrics adds /metrics when set.
	Metrics bool
}

// NewMux registers every route on a fresh ServeMux.
func NewMux(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()
	rt.Sessions.Register(mux)
	if rt.Events != nil {
		mux.Handle("GET /v1/events/sessions/{id}", rt.Events)
	}
	mux.Handle("GET /health", rt.Health)
	if rt.Metrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	return mux
}
