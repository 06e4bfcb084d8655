package draftstore

import (
	"context"
	"sync"
	"time"

	"webstarter-backend/internal/intake"
)

// MemoryStore is the in-process DraftStore used in tests and when no
// Redis is configured. Drafts do not survive a restart.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]intake.Draft
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]intake.Draft),
		now:    time.Now,
	}
}

// NewMemoryStoreAt pins the store's clock, for expiry tests.
func NewMemoryStoreAt(now func() time.Time) *MemoryStore {
	store := NewMemoryStore()
	store.now = now
	return store
}

func (s *MemoryStore) Save(_ context.Context, key string, draft intake.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = draft
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (*intake.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[key]
	if !ok {
		return nil, nil
	}

	if draft.Expired(s.now()) {
		delete(s.drafts, key)
		return nil, nil
	}

	copied := draft
	return &copied, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}
