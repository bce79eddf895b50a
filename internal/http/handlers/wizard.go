package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wellvitas/booking-platform/internal/observability/metrics"
	"github.com/wellvitas/booking-platform/internal/wizard"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

// WizardHandler exposes the booking wizard over HTTP. Each visitor gets a
// session-scoped engine; the engine's draft store carries state across
// process restarts, so the in-memory session map is just a cache.
type WizardHandler struct {
	mu        sync.Mutex
	engines   map[string]*wizard.Engine
	store     wizard.DraftStore
	submitter wizard.Submitter
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	opts      []wizard.Option
}

// NewWizardHandler creates the wizard session handler.
func NewWizardHandler(store wizard.DraftStore, submitter wizard.Submitter, m *metrics.BookingMetrics, logger *logging.Logger, opts ...wizard.Option) *WizardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WizardHandler{
		engines:   make(map[string]*wizard.Engine),
		store:     store,
		submitter: submitter,
		metrics:   m,
		logger:    logger,
		opts:      opts,
	}
}

// Routes mounts the wizard endpoints on a fresh sub-router.
func (h *WizardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetState)
		r.Post("/actions", h.ApplyAction)
		r.Post("/submit", h.Submit)
		r.Post("/reset", h.Reset)
		r.Get("/slots", h.Slots)
		r.Get("/calendar.ics", h.Calendar)
		r.Get("/whatsapp", h.WhatsApp)
	})
	return r
}

type sessionResponse struct {
	SessionID string       `json:"sessionId"`
	State     wizard.State `json:"state"`
}

// CreateSession handles POST /api/wizard/sessions requests
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	engine := wizard.NewEngine(id, h.store, h.submitter, h.opts...)
	state := engine.Mount(r.Context())

	h.mu.Lock()
	h.engines[id] = engine
	h.mu.Unlock()

	h.logger.Info("wizard session created", "session", id)
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, State: state})
}

// engineFor returns the session's engine, lazily rebuilding it from the
// draft store after a restart. Session IDs must be UUIDs we issued.
// The engine is mounted before it is published in the map: a concurrent
// request must never reach an engine whose draft is still loading, or
// its action would be overwritten by the rehydration.
func (h *WizardHandler) engineFor(r *http.Request) (*wizard.Engine, string, bool) {
	id := chi.URLParam(r, "sessionID")
	if _, err := uuid.Parse(id); err != nil {
		return nil, id, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	engine, ok := h.engines[id]
	if !ok {
		engine = wizard.NewEngine(id, h.store, h.submitter, h.opts...)
		engine.Mount(r.Context())
		h.engines[id] = engine
	}
	return engine, id, true
}

// GetState handles GET /api/wizard/sessions/{sessionID} requests
func (h *WizardHandler) GetState(w http.ResponseWriter, r *http.Request) {
	engine, id, ok := h.engineFor(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: engine.State()})
}

type actionRequest struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ApplyAction handles POST /api/wizard/sessions/{sessionID}/actions requests
func (h *WizardHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	engine, id, ok := h.engineFor(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	action, err := decodeAction(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := engine.Apply(r.Context(), action)
	h.metrics.ObserveWizardAction(req.Type)
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

func decodeAction(req actionRequest) (wizard.Action, error) {
	str := func() (string, error) {
		var v string
		if err := json.Unmarshal(req.Value, &v); err != nil {
			return "", fmt.Errorf("action %q needs a string value", req.Type)
		}
		return v, nil
	}

	switch req.Type {
	case "set_name":
		v, err := str()
		return wizard.SetName{Value: v}, err
	case "set_email":
		v, err := str()
		return wizard.SetEmail{Value: v}, err
	case "set_phone":
		v, err := str()
		return wizard.SetPhone{Value: v}, err
	case "set_preferred_contact":
		v, err := str()
		return wizard.SetPreferredContact{Value: wizard.PreferredContact(v)}, err
	case "toggle_therapy":
		v, err := str()
		return wizard.ToggleTherapy{Value: v}, err
	case "toggle_condition":
		v, err := str()
		return wizard.ToggleCondition{Value: v}, err
	case "set_notes":
		v, err := str()
		return wizard.SetNotes{Value: v}, err
	case "set_taster_date":
		v, err := str()
		return wizard.SetTasterDate{Value: v}, err
	case "set_taster_time":
		v, err := str()
		return wizard.SetTasterTime{Value: v}, err
	case "set_package":
		v, err := str()
		return wizard.SetPackage{Value: wizard.Package(v)}, err
	case "set_payment":
		v, err := str()
		return wizard.SetPayment{Value: wizard.Payment(v)}, err
	case "set_website":
		v, err := str()
		return wizard.SetWebsite{Value: v}, err
	case "set_consent":
		var v bool
		if err := json.Unmarshal(req.Value, &v); err != nil {
			return nil, fmt.Errorf("action %q needs a boolean value", req.Type)
		}
		return wizard.SetConsent{Value: v}, nil
	case "next":
		return wizard.Next{}, nil
	case "back":
		return wizard.Back{}, nil
	case "reset":
		return wizard.Reset{}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", req.Type)
	}
}

// Submit handles POST /api/wizard/sessions/{sessionID}/submit requests
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	engine, id, ok := h.engineFor(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	// The booking endpoint counts submission outcomes, so only the
	// wizard-level action is observed here.
	h.metrics.ObserveWizardAction("submit")
	state := engine.Submit(r.Context(), r.UserAgent())
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: state})
}

// Reset handles POST /api/wizard/sessions/{sessionID}/reset requests
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	engine, id, ok := h.engineFor(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, State: engine.Reset(r.Context())})
}

type slotsResponse struct {
	Slots []string `json:"slots"`
}

// Slots handles GET /api/wizard/sessions/{sessionID}/slots requests
func (h *WizardHandler) Slots(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := h.engineFor(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, slotsResponse{Slots: engine.Slots()})
}

// Calendar handles GET /api/wizard/sessions/{sessionID}/calendar.ics requests
func (h *WizardHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := h.engineFor(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	doc, err := engine.Calendar()
	if err != nil {
		if errors.Is(err, wizard.ErrNoSlotChosen) {
			http.Error(w, "no taster slot chosen", http.StatusConflict)
			return
		}
		h.logger.Error("failed to render calendar", "error", err)
		http.Error(w, "failed to render calendar", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="wellvitas-taster.ics"`)
	w.Write([]byte(doc))
}

type whatsAppResponse struct {
	Link string `json:"link"`
	Text string `json:"text"`
}

// WhatsApp handles GET /api/wizard/sessions/{sessionID}/whatsapp requests
func (h *WizardHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := h.engineFor(r)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	state := engine.State()
	writeJSON(w, http.StatusOK, whatsAppResponse{
		Link: state.WhatsAppLink(),
		Text: state.MessageText(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
