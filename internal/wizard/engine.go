package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/wellvitas/booking-platform/pkg/logging"
)

// DraftStore persists the in-progress draft between visits. A nil snapshot
// from Load means no draft exists.
type DraftStore interface {
	Save(ctx context.Context, sessionID string, snap Snapshot) error
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// Result is the submission endpoint's verdict.
type Result struct {
	Accepted bool
	Errors   []string
}

// Submitter delivers a payload to the submission endpoint. A returned
// error means transport failure; endpoint-reported rejection comes back in
// the Result.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (Result, error)
}

// Fallback messages when the endpoint gives us nothing better.
const (
	msgSubmitFailed = "Submission failed. Please try again."
	msgNetworkError = "Network error. Please try again."
)

// Engine drives one visitor's wizard: it owns the state, applies reducer
// actions, persists the draft after every mutation and performs the
// submission handshake. Draft persistence is best-effort by policy: store
// errors are logged and swallowed, never surfaced to the visitor.
type Engine struct {
	mu        sync.Mutex
	sessionID string
	state     State
	store     DraftStore
	submitter Submitter
	clock     func() time.Time
	logger    *logging.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock, used by availability tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with empty default state. Call Mount to
// rehydrate a previously persisted draft.
func NewEngine(sessionID string, store DraftStore, submitter Submitter, opts ...Option) *Engine {
	e := &Engine{
		sessionID: sessionID,
		state:     NewState(),
		store:     store,
		submitter: submitter,
		clock:     time.Now,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mount seeds the state from a persisted draft when one exists. Store
// failures and malformed drafts degrade silently to the empty state.
func (e *Engine) Mount(ctx context.Context) State {
	snap, err := e.store.Load(ctx, e.sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.logger.Debug("draft load failed, starting empty", "session", e.sessionID, "error", err)
		return e.state
	}
	if snap != nil {
		e.state = Restore(*snap)
	}
	return e.state
}

// State returns the current wizard state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Apply runs one reducer action and persists the resulting draft. Reset
// deletes the persisted draft instead.
func (e *Engine) Apply(ctx context.Context, a Action) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Reduce(e.state, a, e.clock())
	if _, isReset := a.(Reset); isReset {
		e.discardDraft(ctx)
	} else {
		e.persistDraft(ctx)
	}
	return e.state
}

// Submit re-runs the review gate and delivers the payload. Only valid from
// the review step; a submit already in flight is rejected by the guard.
// On acceptance the wizard reaches its terminal submitted state and the
// persisted draft is discarded. Rejection and transport failure both leave
// the wizard on review with the errors surfaced.
func (e *Engine) Submit(ctx context.Context, clientDescriptor string) State {
	e.mu.Lock()
	if e.state.Submitting || e.state.Submitted || e.state.Step != StepReview {
		state := e.state
		e.mu.Unlock()
		return state
	}
	if errs := ValidateStep(e.state, StepReview); len(errs) > 0 {
		e.state.Errors = errs
		state := e.state
		e.mu.Unlock()
		return state
	}
	e.state.Errors = nil
	e.state.Submitting = true
	payload := e.state.BuildPayload(e.clock(), clientDescriptor)
	e.mu.Unlock()

	res, err := e.submitter.Submit(ctx, payload)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Submitting = false
	switch {
	case err != nil:
		e.logger.Warn("booking submission transport failure", "session", e.sessionID, "error", err)
		e.state.Errors = []string{msgNetworkError}
	case !res.Accepted:
		if len(res.Errors) > 0 {
			e.state.Errors = append([]string(nil), res.Errors...)
		} else {
			e.state.Errors = []string{msgSubmitFailed}
		}
	default:
		e.state.Submitted = true
		e.state.Errors = nil
		e.discardDraft(ctx)
	}
	return e.state
}

// Reset discards the persisted draft and reinitializes the wizard.
func (e *Engine) Reset(ctx context.Context) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = NewState()
	e.discardDraft(ctx)
	return e.state
}

// Slots returns the availability list for the currently chosen date.
func (e *Engine) Slots() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return AvailableSlots(e.state.Taster.Date, e.clock())
}

// Calendar renders the chosen taster slot as an iCalendar document.
func (e *Engine) Calendar() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.CalendarEvent(e.clock())
}

// Draft store failures are swallowed on purpose: losing a draft must never
// break the wizard.
func (e *Engine) persistDraft(ctx context.Context) {
	if err := e.store.Save(ctx, e.sessionID, e.state.Snapshot()); err != nil {
		e.logger.Debug("draft save failed, continuing without persistence",
			"session", e.sessionID, "error", err)
	}
}

func (e *Engine) discardDraft(ctx context.Context) {
	if err := e.store.Delete(ctx, e.sessionID); err != nil {
		e.logger.Debug("draft delete failed", "session", e.sessionID, "error", err)
	}
}
