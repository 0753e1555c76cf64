package prefs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Queue debounces draft writes: every toggle enqueues, only the latest draft
// per key reaches the store, and flushing happens on a timer and on Close.
// This replaces ad-hoc persistence timers living in UI components.
type Queue struct {
	store    Store
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	pending map[string]ScheduleDraft

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewQueue starts the flush loop. interval <= 0 defaults to two seconds.
func NewQueue(store Store, interval time.Duration, logger *slog.Logger) *Queue {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	q := &Queue{
		store:    store,
		logger:   logger,
		interval: interval,
		pending:  make(map[string]ScheduleDraft),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go q.run()
	return q
}

// Enqueue records a draft write, coalescing with any pending write for the
// same key.
func (q *Queue) Enqueue(key string, draft ScheduleDraft) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[key] = draft
}

// Flush writes every pending draft. Failed writes are re-queued unless a
// newer draft arrived for the key in the meantime.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	batch := q.pending
	q.pending = make(map[string]ScheduleDraft)
	q.mu.Unlock()

	var firstErr error
	for key, draft := range batch {
		if err := q.store.Save(ctx, key, draft); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if q.logger != nil {
				q.logger.Warn("draft flush failed", "key", key, "error", err)
			}
			q.mu.Lock()
			if _, newer := q.pending[key]; !newer {
				q.pending[key] = draft
			}
			q.mu.Unlock()
		}
	}
	return firstErr
}

// Close stops the timer loop and performs a final flush. Safe to call more
// than once; shutdown paths overlap during signal handling.
func (q *Queue) Close(ctx context.Context) error {
	q.stopOnce.Do(func() { close(q.stop) })
	<-q.done
	return q.Flush(ctx)
}

func (q *Queue) run() {
	defer close(q.done)
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()
	for {
		select {
		case <-q.stop:
			return
		case <-ticker.C:
			_ = q.Flush(context.Background())
		}
	}
}
