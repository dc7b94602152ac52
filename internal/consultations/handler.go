package consultations

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicalflow/clinicalflow/pkg/logging"
)

// Handler serves read access to persisted consultations.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/patients/{patientID}/consultations", h.ListByPatient)
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "consultation history is not enabled", http.StatusServiceUnavailable)
		return
	}

	patientID := chi.URLParam(r, "patientID")
	consultations, err := h.store.ListByPatient(r.Context(), patientID)
	if err != nil {
		h.logger.Error("failed to list consultations", "patient_id", patientID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if consultations == nil {
		consultations = []Consultation{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"consultations": consultations,
		"count":         len(consultations),
	})
}
