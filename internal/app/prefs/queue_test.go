package prefs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu     sync.Mutex
	saves  map[string][]ScheduleDraft
	failOn map[string]error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saves: make(map[string][]ScheduleDraft), failOn: make(map[string]error)}
}

func (s *recordingStore) Load(ctx context.Context, key string) (ScheduleDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drafts, ok := s.saves[key]
	if !ok || len(drafts) == 0 {
		return ScheduleDraft{}, ErrNotFound
	}
	return drafts[len(drafts)-1], nil
}

func (s *recordingStore) Save(ctx context.Context, key string, draft ScheduleDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[key]; err != nil {
		return err
	}
	s.saves[key] = append(s.saves[key], draft)
	return nil
}

func (s *recordingStore) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves[key])
}

func TestQueueCoalescesWrites(t *testing.T) {
	store := newRecordingStore()
	q := NewQueue(store, time.Hour, nil)
	defer q.Close(context.Background())

	key := DraftKey("guest-1", "lst-1")
	for i := 1; i <= 5; i++ {
		q.Enqueue(key, ScheduleDraft{ListingID: "lst-1", Days: []int{1, i}})
	}

	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, 1, store.count(key), "burst of toggles collapses to one write")

	draft, err := store.Load(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, draft.Days)
}

func TestQueueRequeuesFailedWrites(t *testing.T) {
	store := newRecordingStore()
	q := NewQueue(store, time.Hour, nil)
	defer q.Close(context.Background())

	key := DraftKey("guest-1", "lst-1")
	store.failOn[key] = errors.New("redis down")

	q.Enqueue(key, ScheduleDraft{ListingID: "lst-1", Days: []int{2, 3}})
	assert.Error(t, q.Flush(context.Background()))
	assert.Equal(t, 0, store.count(key))

	store.mu.Lock()
	delete(store.failOn, key)
	store.mu.Unlock()

	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, 1, store.count(key))
}

func TestQueueCloseFlushes(t *testing.T) {
	store := newRecordingStore()
	q := NewQueue(store, time.Hour, nil)

	key := DraftKey("guest-2", "lst-9")
	q.Enqueue(key, ScheduleDraft{ListingID: "lst-9", Days: []int{4, 5, 6}})

	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, 1, store.count(key))
}

func TestQueueCloseTwice(t *testing.T) {
	store := newRecordingStore()
	q := NewQueue(store, time.Hour, nil)

	require.NoError(t, q.Close(context.Background()))
	assert.NotPanics(t, func() {
		assert.NoError(t, q.Close(context.Background()))
	})
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "guest-1:lst-1", DraftKey("guest-1", "lst-1"))
}
