package prefs

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("prefs: draft not found")

// ScheduleDraft is a guest's in-progress day selection for one listing, kept
// so a returning guest finds the picker where they left it.
type ScheduleDraft struct {
	ListingID string    `json:"listing_id"`
	Days      []int     `json:"days"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists drafts keyed by guest+listing. Implementations live in
// infra (redis in production, memory for tests and demos).
type Store interface {
	Load(ctx context.Context, key string) (ScheduleDraft, error)
	Save(ctx context.Context, key string, draft ScheduleDraft) error
}

// DraftKey builds the canonical store key.
func DraftKey(guestID, listingID string) string {
	return guestID + ":" + listingID
}
