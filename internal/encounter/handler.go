package encounter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicalflow/clinicalflow/internal/observability/metrics"
	"github.com/clinicalflow/clinicalflow/internal/patients"
	"github.com/clinicalflow/clinicalflow/pkg/logging"
)

// ConsultationSaver persists compiled visit summaries. Implemented by the
// consultations store; nil disables persistence.
type ConsultationSaver interface {
	Save(ctx context.Context, summary VisitSummary) error
}

// Handler serves the encounter HTTP surface.
type Handler struct {
	patients    patients.Repository
	sessions    *SessionManager
	synthesizer *Synthesizer
	compiler    *Compiler
	summarizer  *Summarizer
	cache       *EncounterCache
	saver       ConsultationSaver
	logger      *logging.Logger
	metrics     *metrics.EncounterMetrics
}

func NewHandler(repo patients.Repository, summarizer *Summarizer, cache *EncounterCache, saver ConsultationSaver, logger *logging.Logger, m *metrics.EncounterMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		patients:    repo,
		sessions:    NewSessionManager(),
		synthesizer: NewSynthesizer(),
		compiler:    NewCompiler(),
		summarizer:  summarizer,
		cache:       cache,
		saver:       saver,
		logger:      logger,
		metrics:     m,
	}
}

// Routes mounts the encounter endpoints on r under /encounters.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/encounters/{patientID}", func(r chi.Router) {
		r.Post("/messages", h.PostMessage)
		r.Post("/context/{widget}", h.ReportContext)
		r.Post("/end", h.EndVisit)
		r.Post("/clear", h.ClearSession)
		r.Post("/save", h.SaveEncounter)
		r.Get("/saved", h.ListSaved)
	})
}

type MessageRequest struct {
	Text string `json:"text"`
}

type MessageResponse struct {
	Reply       string   `json:"reply"`
	Components  UIPlan   `json:"components"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// PostMessage runs one turn of the encounter: synthesize a UI plan for the
// input, record both sides in the transcript, and return the plan.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	patient, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session := h.sessions.Get(patient.ID)
	plan := h.synthesizer.Synthesize(req.Text, patient, h.hintsFrom(session))
	reply := PlanNarrative(plan)
	now := time.Now()

	session.Append(Entry{Role: RoleUser, Content: req.Text, Timestamp: now})
	session.Append(Entry{Role: RoleAssistant, Content: reply, Components: plan, Timestamp: now})

	h.observePlan(req.Text, plan)

	resp := MessageResponse{
		Reply:       reply,
		Components:  plan,
		Suggestions: SuggestionsFor(DetectScenario(req.Text)),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ReportContext stores a widget's payload in the session aggregator. The
// payload is kept untyped; decoding happens at compile time.
func (h *Handler) ReportContext(w http.ResponseWriter, r *http.Request) {
	patient, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}
	widget := strings.TrimSpace(chi.URLParam(r, "widget"))
	if widget == "" {
		http.Error(w, "missing widget", http.StatusBadRequest)
		return
	}

	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.sessions.Get(patient.ID).Context().Report(widget, payload)
	h.metrics.ObserveReport(widget)
	w.WriteHeader(http.StatusNoContent)
}

// EndVisit compiles the session into a visit record, generates the summary,
// and persists a consultation row when a store is configured. The session is
// left intact so the summary can be regenerated.
func (h *Handler) EndVisit(w http.ResponseWriter, r *http.Request) {
	patient, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}

	session := h.sessions.Get(patient.ID)
	record := h.compiler.Compile(patient, session)
	summary := h.summarizer.Summarize(r.Context(), record)

	if h.saver != nil {
		if err := h.saver.Save(r.Context(), summary); err != nil {
			h.logger.Error("failed to persist consultation", "patient_id", patient.ID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	patient, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}
	h.sessions.Get(patient.ID).Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SaveEncounter(w http.ResponseWriter, r *http.Request) {
	patient, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}
	if h.cache == nil {
		http.Error(w, "saved encounters are not enabled", http.StatusServiceUnavailable)
		return
	}

	saved, err := h.cache.Save(r.Context(), patient.ID, patient.Name, h.sessions.Get(patient.ID))
	if err != nil {
		h.logger.Error("failed to save encounter", "patient_id", patient.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	patient, ok := h.lookupPatient(w, r)
	if !ok {
		return
	}
	if h.cache == nil {
		http.Error(w, "saved encounters are not enabled", http.StatusServiceUnavailable)
		return
	}

	saved, err := h.cache.List(r.Context(), patient.ID)
	if err != nil {
		h.logger.Error("failed to list saved encounters", "patient_id", patient.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"encounters": saved, "count": len(saved)})
}

func (h *Handler) lookupPatient(w http.ResponseWriter, r *http.Request) (*patients.Patient, bool) {
	patientID := chi.URLParam(r, "patientID")
	patient, err := h.patients.GetByID(r.Context(), patientID)
	if err != nil {
		if errors.Is(err, patients.ErrPatientNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("failed to load patient", "patient_id", patientID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	return patient, true
}

// hintsFrom pulls previously reported context values that shape later plans.
func (h *Handler) hintsFrom(session *Session) Hints {
	ctx := session.Context().Snapshot()
	hints := Hints{
		BodyPart:  coerceString(firstPresent(ctx, string(WidgetBodyMapAbdomen), string(WidgetBodyMap))),
		Diagnosis: coerceString(ctx["diagnosis"]),
		Procedure: coerceString(ctx["procedure"]),
	}
	if m, ok := ctx[string(WidgetScoreCalculator)].(map[string]any); ok {
		if n, ok := coerceInt(m["score"]); ok {
			hints.AlvaradoScore = n
		}
	}
	if m, ok := ctx[string(WidgetReferralLetterCard)].(map[string]any); ok {
		if d := coerceString(m["diagnosis"]); d != "" {
			hints.Diagnosis = d
		}
	}
	if m, ok := ctx[string(WidgetConsentSummaryCard)].(map[string]any); ok {
		if p := coerceString(m["procedure"]); p != "" {
			hints.Procedure = p
		}
	}
	return hints
}

func (h *Handler) observePlan(text string, plan UIPlan) {
	switch {
	case IsWelcomeInput(text):
		h.metrics.ObservePlan("welcome")
	case len(plan) == 0:
		h.metrics.ObservePlan("empty")
	default:
		h.metrics.ObservePlan("keyword")
	}
	for _, d := range plan {
		h.metrics.ObserveDirective(string(d.Type))
	}
}
