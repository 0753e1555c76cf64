package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"weekstay/internal/app/prefs"
)

// PrefsStore keeps schedule drafts in redis with a sliding TTL. Drafts are
// convenience state, so losing them on expiry is acceptable.
type PrefsStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPrefsStore(rdb *redis.Client, ttl time.Duration) *PrefsStore {
	return &PrefsStore{rdb: rdb, ttl: ttl}
}

func (s *PrefsStore) Load(ctx context.Context, key string) (prefs.ScheduleDraft, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return prefs.ScheduleDraft{}, prefs.ErrNotFound
		}
		return prefs.ScheduleDraft{}, err
	}
	var draft prefs.ScheduleDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return prefs.ScheduleDraft{}, err
	}
	return draft, nil
}

func (s *PrefsStore) Save(ctx context.Context, key string, draft prefs.ScheduleDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(key), data, s.ttl).Err()
}

func (s *PrefsStore) key(key string) string {
	return "prefs:draft:" + key
}

var _ prefs.Store = (*PrefsStore)(nil)
