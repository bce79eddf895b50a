package draft

import (
	"context"
	"sync"
	"time"

	"github.com/wellvitas/booking-platform/internal/wizard"
)

// MemoryStore keeps drafts in process memory. Suitable for local
// development and tests; drafts vanish on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]memoryEntry
	ttl    time.Duration
	clock  func() time.Time
}

type memoryEntry struct {
	snap      wizard.Snapshot
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl means drafts
// never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]memoryEntry),
		ttl:    ttl,
		clock:  time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, snap wizard.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{snap: snap}
	if s.ttl > 0 {
		entry.expiresAt = s.clock().Add(s.ttl)
	}
	s.drafts[sessionID] = entry
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*wizard.Snapshot, error) {
	s.mu.RLock()
	entry, ok := s.drafts[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && s.clock().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.drafts, sessionID)
		s.mu.Unlock()
		return nil, nil
	}
	snap := entry.snap
	return &snap, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}

var _ wizard.DraftStore = (*MemoryStore)(nil)
