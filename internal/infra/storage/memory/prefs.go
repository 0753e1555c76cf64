package memory

import (
	"context"
	"sync"

	"weekstay/internal/app/prefs"
)

// PrefsStore keeps schedule drafts in memory.
type PrefsStore struct {
	mu    sync.RWMutex
	items map[string]prefs.ScheduleDraft
}

func NewPrefsStore() *PrefsStore {
	return &PrefsStore{items: make(map[string]prefs.ScheduleDraft)}
}

func (s *PrefsStore) Load(ctx context.Context, key string) (prefs.ScheduleDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.items[key]
	if !ok {
		return prefs.ScheduleDraft{}, prefs.ErrNotFound
	}
	return draft, nil
}

func (s *PrefsStore) Save(ctx context.Context, key string, draft prefs.ScheduleDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = draft
	return nil
}

var _ prefs.Store = (*PrefsStore)(nil)
