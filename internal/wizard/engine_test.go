package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubStore struct {
	mu      sync.Mutex
	drafts  map[string]Snapshot
	saveErr error
	loadErr error
	saves   int
	deletes int
}

func newStubStore() *stubStore {
	return &stubStore{drafts: map[string]Snapshot{}}
}

func (s *stubStore) Save(_ context.Context, sessionID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.drafts[sessionID] = snap
	return nil
}

func (s *stubStore) Load(_ context.Context, sessionID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	snap, ok := s.drafts[sessionID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *stubStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.drafts, sessionID)
	return nil
}

type stubSubmitter struct {
	mu      sync.Mutex
	result  Result
	err     error
	calls   int
	payload Payload
	block   chan struct{} // when set, Submit waits until closed
}

func (s *stubSubmitter) Submit(_ context.Context, payload Payload) (Result, error) {
	s.mu.Lock()
	s.calls++
	s.payload = payload
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return s.result, s.err
}

func testEngine(t *testing.T, store *stubStore, sub *stubSubmitter, clock string) *Engine {
	t.Helper()
	now := localClock(t, "2026-03-02", clock)
	return NewEngine("sess-1", store, sub,
		WithClock(func() time.Time { return now }))
}

func walkToReview(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	for _, a := range []Action{
		SetName{"Jane Doe"},
		SetEmail{"jane@x.com"},
		SetPhone{"+44 7379 005-856"},
		ToggleTherapy{"Physiotherapy"},
		Next{}, // screening
		Next{}, // taster
		SetTasterDate{"2026-03-03"},
		SetTasterTime{"11:00"},
		Next{}, // programme
		SetPackage{"8"},
		SetPayment{"plan"},
		Next{}, // review
	} {
		e.Apply(ctx, a)
	}
	if got := e.State(); got.Step != StepReview || got.Errors != nil {
		t.Fatalf("walk did not reach review cleanly: step %d errors %v", got.Step, got.Errors)
	}
}

func TestEngineFullJourney(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	sub := &stubSubmitter{result: Result{Accepted: true}}
	e := testEngine(t, store, sub, "12:00")

	walkToReview(t, e)
	if got := e.State(); got.Programme.Package.Price() != 320 {
		t.Fatalf("expected £320 for 8 sessions, got %d", got.Programme.Package.Price())
	}

	// Consent gate fires on review before anything leaves the process.
	got := e.Submit(ctx, "wellvitas-web/1.0")
	if sub.calls != 0 {
		t.Fatal("submitter called without consent")
	}
	if len(got.Errors) != 1 || got.Errors[0] != msgConsent {
		t.Fatalf("expected consent error, got %v", got.Errors)
	}

	e.Apply(ctx, SetConsent{true})
	got = e.Submit(ctx, "wellvitas-web/1.0")
	if !got.Submitted || got.Submitting || got.Errors != nil {
		t.Fatalf("expected terminal submitted state, got %+v", got)
	}
	if sub.payload.Enquiry.Phone != "+447379005856" {
		t.Fatalf("payload phone not normalized: %q", sub.payload.Enquiry.Phone)
	}
	if sub.payload.Meta.SubmittedAt == "" || sub.payload.Meta.ClientDescriptor != "wellvitas-web/1.0" {
		t.Fatalf("payload meta incomplete: %+v", sub.payload.Meta)
	}
	if snap, _ := store.Load(ctx, "sess-1"); snap != nil {
		t.Fatal("draft survived a successful submission")
	}
}

func TestEngineSubmitOnlyFromReview(t *testing.T) {
	ctx := context.Background()
	sub := &stubSubmitter{result: Result{Accepted: true}}
	e := testEngine(t, newStubStore(), sub, "12:00")
	e.Apply(ctx, SetConsent{true})

	got := e.Submit(ctx, "c")
	if sub.calls != 0 || got.Submitted {
		t.Fatalf("submitted from step %d", got.Step)
	}
}

func TestEngineSubmitRejectionVerbatim(t *testing.T) {
	ctx := context.Background()
	sub := &stubSubmitter{result: Result{Errors: []string{"Duplicate booking for this email."}}}
	e := testEngine(t, newStubStore(), sub, "12:00")
	walkToReview(t, e)
	e.Apply(ctx, SetConsent{true})

	got := e.Submit(ctx, "c")
	if got.Submitted || got.Submitting {
		t.Fatalf("rejected submission marked submitted: %+v", got)
	}
	if len(got.Errors) != 1 || got.Errors[0] != "Duplicate booking for this email." {
		t.Fatalf("endpoint errors not surfaced verbatim: %v", got.Errors)
	}
}

func TestEngineSubmitRejectionWithoutDetail(t *testing.T) {
	ctx := context.Background()
	sub := &stubSubmitter{result: Result{}}
	e := testEngine(t, newStubStore(), sub, "12:00")
	walkToReview(t, e)
	e.Apply(ctx, SetConsent{true})

	got := e.Submit(ctx, "c")
	if len(got.Errors) != 1 || got.Errors[0] != msgSubmitFailed {
		t.Fatalf("expected fallback message, got %v", got.Errors)
	}
}

func TestEngineSubmitTransportFailure(t *testing.T) {
	ctx := context.Background()
	sub := &stubSubmitter{err: errors.New("connection refused")}
	e := testEngine(t, newStubStore(), sub, "12:00")
	walkToReview(t, e)
	e.Apply(ctx, SetConsent{true})

	got := e.Submit(ctx, "c")
	if got.Submitted || got.Submitting {
		t.Fatalf("transport failure marked submitted: %+v", got)
	}
	if len(got.Errors) != 1 || got.Errors[0] != msgNetworkError {
		t.Fatalf("expected network error message, got %v", got.Errors)
	}

	// The visitor can retry once the endpoint recovers.
	sub.mu.Lock()
	sub.err = nil
	sub.result = Result{Accepted: true}
	sub.mu.Unlock()
	if got := e.Submit(ctx, "c"); !got.Submitted {
		t.Fatalf("retry after transport failure did not succeed: %+v", got)
	}
}

func TestEngineDoubleSubmitGuard(t *testing.T) {
	ctx := context.Background()
	sub := &stubSubmitter{result: Result{Accepted: true}, block: make(chan struct{})}
	e := testEngine(t, newStubStore(), sub, "12:00")
	walkToReview(t, e)
	e.Apply(ctx, SetConsent{true})

	done := make(chan State, 1)
	go func() { done <- e.Submit(ctx, "c") }()

	// Wait for the first submit to pass the guard and reach the stub.
	deadline := time.After(2 * time.Second)
	for {
		sub.mu.Lock()
		calls := sub.calls
		sub.mu.Unlock()
		if calls == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first submit never reached the submitter")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	second := e.Submit(ctx, "c")
	if !second.Submitting {
		t.Fatal("guard did not report the in-flight submission")
	}
	sub.mu.Lock()
	if sub.calls != 1 {
		t.Fatalf("second submit reached the endpoint, calls=%d", sub.calls)
	}
	sub.mu.Unlock()

	close(sub.block)
	first := <-done
	if !first.Submitted {
		t.Fatalf("first submit did not complete: %+v", first)
	}

	// Terminal state: further submits are no-ops.
	if got := e.Submit(ctx, "c"); !got.Submitted {
		t.Fatalf("post-terminal submit disturbed the state: %+v", got)
	}
	sub.mu.Lock()
	if sub.calls != 1 {
		t.Fatalf("terminal state still reached the endpoint, calls=%d", sub.calls)
	}
	sub.mu.Unlock()
}

func TestEngineMountRehydratesDraft(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	sub := &stubSubmitter{}

	e := testEngine(t, store, sub, "12:00")
	e.Apply(ctx, SetName{"Jane Doe"})
	e.Apply(ctx, SetEmail{"jane@x.com"})
	e.Apply(ctx, SetPhone{"07000 000000"})
	e.Apply(ctx, Next{})

	fresh := testEngine(t, store, sub, "12:00")
	got := fresh.Mount(ctx)
	if got.Step != StepScreening || got.Enquiry.Name != "Jane Doe" {
		t.Fatalf("draft not rehydrated: %+v", got)
	}
}

func TestEngineMountDegradesOnStoreFailure(t *testing.T) {
	store := newStubStore()
	store.loadErr = errors.New("redis down")
	e := testEngine(t, store, &stubSubmitter{}, "12:00")
	got := e.Mount(context.Background())
	if got.Step != StepEnquiry || got.Enquiry.Name != "" {
		t.Fatalf("expected empty state on load failure, got %+v", got)
	}
}

func TestEngineSaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.saveErr = errors.New("disk full")
	e := testEngine(t, store, &stubSubmitter{}, "12:00")
	got := e.Apply(ctx, SetName{"Jane Doe"})
	if got.Enquiry.Name != "Jane Doe" {
		t.Fatal("state mutation lost on save failure")
	}
}

func TestEngineResetDiscardsDraft(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	e := testEngine(t, store, &stubSubmitter{}, "12:00")
	e.Apply(ctx, SetName{"Jane Doe"})

	got := e.Reset(ctx)
	if got.Enquiry.Name != "" || got.Step != StepEnquiry {
		t.Fatalf("reset left residue: %+v", got)
	}
	if snap, _ := store.Load(ctx, "sess-1"); snap != nil {
		t.Fatal("draft survived reset")
	}

	// Resetting again is harmless.
	if got := e.Reset(ctx); got.Step != StepEnquiry {
		t.Fatalf("second reset misbehaved: %+v", got)
	}
}

func TestEngineApplyResetActionDeletesDraft(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	e := testEngine(t, store, &stubSubmitter{}, "12:00")
	e.Apply(ctx, SetName{"Jane Doe"})
	e.Apply(ctx, Reset{})
	if snap, _ := store.Load(ctx, "sess-1"); snap != nil {
		t.Fatal("Reset action persisted instead of deleting")
	}
}

func TestEngineSlotsFollowChosenDate(t *testing.T) {
	ctx := context.Background()
	e := testEngine(t, newStubStore(), &stubSubmitter{}, "17:00")
	e.Apply(ctx, SetTasterDate{"2026-03-02"})
	got := e.Slots()
	if len(got) != 1 || got[0] != "18:30" {
		t.Fatalf("unexpected slots for today at 17:00: %v", got)
	}
}
