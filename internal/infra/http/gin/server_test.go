package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekstay/internal/app/commands"
	calendarapp "weekstay/internal/app/handlers/calendar"
	reservationapp "weekstay/internal/app/handlers/reservations"
	"weekstay/internal/app/handlers/schedulepreview"
	"weekstay/internal/app/middleware"
	appoutbox "weekstay/internal/app/outbox"
	"weekstay/internal/app/prefs"
	"weekstay/internal/app/queries"
	domainlistings "weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/domain/schedule"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/config"
	"weekstay/internal/infra/obs"
	"weekstay/internal/infra/storage/memory"
)

type testEnv struct {
	handler http.Handler
	queue   *prefs.Queue
	store   prefs.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	listingsRepo := memory.NewListingRepository()
	factory := memory.Factory{
		ListingsRepo:     listingsRepo,
		CalendarsRepo:    memory.NewCalendarRepository(),
		ReservationsRepo: memory.NewReservationRepository(),
		PricingSvc:       domainpricing.Engine{Config: domainpricing.DefaultConfig("USD")},
	}

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:    "lst-1",
		Host:  "host-1",
		Title: "Corner flat",
		Rates: domainpricing.RateCard{
			Tiers:           domainpricing.TierTable{4: money.Must(17500, "USD")},
			StartingNightly: money.Must(20000, "USD"),
		},
		MinNights: 2,
		MaxNights: 7,
		AvailableDays: schedule.NewSelection(
			schedule.Monday, schedule.Tuesday, schedule.Wednesday,
			schedule.Thursday, schedule.Friday),
		Now: time.Now().UTC(),
	})
	require.NoError(t, err)
	listing.ClearEvents()
	require.NoError(t, listingsRepo.Save(context.Background(), listing))

	box := memory.NewOutbox()
	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, calendarapp.ToggleSlotCommand{}.Key(), &calendarapp.ToggleSlotHandler{
		UoWFactory: factory, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}})
	commands.RegisterHandler(commandBus, reservationapp.SubmitCommand{}.Key(), &reservationapp.SubmitHandler{
		UoWFactory: factory, Outbox: box, Encoder: appoutbox.JSONEventEncoder{}})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, schedulepreview.PreviewQuery{}.Key(), &schedulepreview.PreviewHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, calendarapp.GetWeekQuery{}.Key(), &calendarapp.GetWeekHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reservationapp.GetQuery{}.Key(), &reservationapp.GetHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reservationapp.ListByGuestQuery{}.Key(), &reservationapp.ListByGuestHandler{UoWFactory: factory})

	chained := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(memory.NewIdempotencyStore(), nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	queriesChained := middleware.ChainQueries(queryBus)

	draftStore := memory.NewPrefsStore()
	queue := prefs.NewQueue(draftStore, time.Hour, nil)
	t.Cleanup(func() { _ = queue.Close(context.Background()) })

	server := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Schedule:    ScheduleHandler{Queries: queriesChained},
		Calendar:    CalendarHandler{Commands: chained, Queries: queriesChained},
		Reservation: ReservationHandler{Commands: chained, Queries: queriesChained},
		Draft:       DraftHandler{Store: draftStore, Queue: queue},
	})
	return &testEnv{handler: server.Handler, queue: queue, store: draftStore}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestPreviewEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/lst-1/schedule/preview?days=1,2,3,4", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Schedule struct {
			Valid      bool   `json:"valid"`
			CheckInDay string `json:"check_in_day"`
		} `json:"schedule"`
		Quote *struct {
			TotalPriceCents int64 `json:"total_price_cents"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Schedule.Valid)
	assert.Equal(t, "monday", body.Schedule.CheckInDay)
	require.NotNil(t, body.Quote)
	assert.Equal(t, int64(70000), body.Quote.TotalPriceCents)
}

func TestPreviewEndpointBadDays(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/listings/lst-1/schedule/preview?days=mon,2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitEndpointViolations(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/reservations", map[string]any{
		"listing_id":   "lst-1",
		"guest_id":     "guest-1",
		"days":         []int{1, 3},
		"move_in_date": time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02"),
		"span_weeks":   1,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Violations []struct {
			Code string `json:"code"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Violations)
}

func TestSubmitAndFetchReservation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/reservations", map[string]any{
		"listing_id":   "lst-1",
		"guest_id":     "guest-1",
		"days":         []int{1, 2, 3, 4},
		"move_in_date": time.Now().UTC().AddDate(0, 0, 21).Format("2006-01-02"),
		"span_weeks":   12,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ReservationID string `json:"reservation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ReservationID)

	got := env.do(t, http.MethodGet, "/api/v1/reservations/"+created.ReservationID, nil)
	require.Equal(t, http.StatusOK, got.Code)

	missing := env.do(t, http.MethodGet, "/api/v1/reservations/rsv-404", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	list := env.do(t, http.MethodGet, "/api/v1/guests/guest-1/reservations", nil)
	require.Equal(t, http.StatusOK, list.Code)

	var listed struct {
		Reservations []struct {
			ID      string `json:"id"`
			GuestID string `json:"guest_id"`
		} `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listed))
	require.Len(t, listed.Reservations, 1)
	assert.Equal(t, created.ReservationID, listed.Reservations[0].ID)
	assert.Equal(t, "guest-1", listed.Reservations[0].GuestID)

	empty := env.do(t, http.MethodGet, "/api/v1/guests/guest-none/reservations", nil)
	require.Equal(t, http.StatusOK, empty.Code)
	var emptyBody struct {
		Reservations []json.RawMessage `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(empty.Body.Bytes(), &emptyBody))
	assert.Empty(t, emptyBody.Reservations)
}

func TestCalendarEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/listings/lst-1/calendar/slots", map[string]any{
		"date": "2026-09-14",
		"slot": 0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	week := env.do(t, http.MethodGet, "/api/v1/listings/lst-1/calendar?week_start=2026-09-14", nil)
	require.Equal(t, http.StatusOK, week.Code)

	var body struct {
		Summary struct {
			BlockedSlots int `json:"blocked_slots"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(week.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Summary.BlockedSlots)
}

func TestDraftEndpoints(t *testing.T) {
	env := newTestEnv(t)

	missing := env.do(t, http.MethodGet, "/api/v1/guests/guest-1/schedule-draft?listing_id=lst-1", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	put := env.do(t, http.MethodPut, "/api/v1/guests/guest-1/schedule-draft", map[string]any{
		"listing_id": "lst-1",
		"days":       []int{1, 2, 3},
	})
	require.Equal(t, http.StatusAccepted, put.Code)

	// Writes sit in the queue until a flush.
	require.NoError(t, env.queue.Flush(context.Background()))

	got := env.do(t, http.MethodGet, "/api/v1/guests/guest-1/schedule-draft?listing_id=lst-1", nil)
	require.Equal(t, http.StatusOK, got.Code)

	var draft prefs.ScheduleDraft
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &draft))
	assert.Equal(t, []int{1, 2, 3}, draft.Days)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/livez", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/readyz", nil).Code)
}
