package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"weekstay/internal/app/handlers/schedulepreview"
	"weekstay/internal/app/queries"
	domainlistings "weekstay/internal/domain/listings"
)

// ScheduleHandler wires the day-selection preview to HTTP.
type ScheduleHandler struct {
	Queries queries.Bus
}

// Preview quotes a tentative day selection. Days arrive as a comma-separated
// list of weekday indexes, e.g. ?days=1,2,3.
func (h ScheduleHandler) Preview(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "schedule handler unavailable"})
		return
	}
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	days, err := parseDays(c.Query("days"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query := schedulepreview.PreviewQuery{
		ListingID: listingID,
		Days:      days,
	}
	result, err := queries.Ask[schedulepreview.PreviewQuery, schedulepreview.PreviewResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ScheduleHTTP = ScheduleHandler{}

func parseDays(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.New("days must be weekday indexes")
		}
		out = append(out, n)
	}
	return out, nil
}
