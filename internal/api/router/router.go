// Package router assembles the HTTP surface of the service.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinicalflow/clinicalflow/internal/consultations"
	"github.com/clinicalflow/clinicalflow/internal/encounter"
	"github.com/clinicalflow/clinicalflow/internal/patients"
)

// Config holds router configuration
type Config struct {
	PatientsHandler      *patients.Handler
	EncounterHandler     *encounter.Handler
	ConsultationsHandler *consultations.Handler
	MetricsHandler       http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.PatientsHandler != nil {
		cfg.PatientsHandler.Routes(r)
	}
	if cfg.EncounterHandler != nil {
		cfg.EncounterHandler.Routes(r)
	}
	if cfg.ConsultationsHandler != nil {
		cfg.ConsultationsHandler.Routes(r)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
