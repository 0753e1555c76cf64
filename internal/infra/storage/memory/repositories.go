package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainavailability "weekstay/internal/domain/availability"
	domainlistings "weekstay/internal/domain/listings"
	domainreservation "weekstay/internal/domain/reservation"
)

// ListingRepository is an in-memory implementation for demos and tests.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

// ByID returns a listing or listings.ErrNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return listing, nil
}

// Save stores/updates a listing entry.
func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.Version++
	r.items[listing.ID] = listing
	return nil
}

// CalendarRepository keeps availability calendars in memory.
type CalendarRepository struct {
	mu        sync.Mutex
	calendars map[domainlistings.ListingID]*domainavailability.Calendar
}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{
		calendars: make(map[domainlistings.ListingID]*domainavailability.Calendar),
	}
}

// Calendar retrieves a listing's calendar, lazily creating an empty one.
func (r *CalendarRepository) Calendar(ctx context.Context, id domainlistings.ListingID) (*domainavailability.Calendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cal, ok := r.calendars[id]; ok {
		return cal, nil
	}
	cal := domainavailability.NewCalendar(id, nil)
	r.calendars[id] = cal
	return cal, nil
}

// Save persists a calendar snapshot.
func (r *CalendarRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	calendar.Version++
	r.calendars[calendar.ListingID] = calendar
	return nil
}

// ReservationRepository stores reservations in memory.
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[domainreservation.ReservationID]*domainreservation.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		items: make(map[domainreservation.ReservationID]*domainreservation.Reservation),
	}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, domainreservation.ErrNotFound
	}
	return res, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.Version++
	r.items[res.ID] = res
	return nil
}

func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(guestID)
	matches := make([]*domainreservation.Reservation, 0)
	for _, res := range r.items {
		if res.GuestID == id {
			matches = append(matches, res)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}
