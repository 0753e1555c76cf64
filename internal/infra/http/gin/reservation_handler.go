package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/dto"
	reservationapp "weekstay/internal/app/handlers/reservations"
	"weekstay/internal/app/queries"
	domainlistings "weekstay/internal/domain/listings"
	domainreservation "weekstay/internal/domain/reservation"
)

// ReservationHandler wires reservation submission and lookup to HTTP.
type ReservationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type submitRequest struct {
	ListingID  string `json:"listing_id" binding:"required"`
	GuestID    string `json:"guest_id" binding:"required"`
	Days       []int  `json:"days" binding:"required"`
	MoveInDate string `json:"move_in_date" binding:"required"`
	SpanWeeks  int    `json:"span_weeks"`
}

// Submit creates a pending reservation. Rule violations come back as 422
// with the violation list; the guest fixes the request and retries.
func (h ReservationHandler) Submit(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reservation handler unavailable"})
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	moveIn, err := parseMoveIn(req.MoveInDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "move_in_date must be YYYY-MM-DD"})
		return
	}
	cmd := reservationapp.SubmitCommand{
		CommandID:       uuid.NewString(),
		ListingID:       req.ListingID,
		GuestID:         req.GuestID,
		Days:            req.Days,
		MoveInDate:      moveIn.UTC(),
		SpanWeeks:       req.SpanWeeks,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[reservationapp.SubmitCommand, *reservationapp.SubmitResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result != nil && len(result.Violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReservationHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reservation handler unavailable"})
		return
	}
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reservation id is required"})
		return
	}
	query := reservationapp.GetQuery{ReservationID: id}
	result, err := queries.Ask[reservationapp.GetQuery, dto.Reservation](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainreservation.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListByGuest returns the guest's reservations, newest first.
func (h ReservationHandler) ListByGuest(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reservation handler unavailable"})
		return
	}
	guestID := c.Param("id")
	if guestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest id is required"})
		return
	}
	query := reservationapp.ListByGuestQuery{GuestID: guestID}
	result, err := queries.Ask[reservationapp.ListByGuestQuery, []dto.Reservation](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": result})
}

var _ ReservationHTTP = ReservationHandler{}

// parseMoveIn keeps request parsing lenient for clients sending RFC3339.
func parseMoveIn(raw string) (time.Time, error) {
	if t, err := dto.ParseDate(raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
