package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"weekstay/internal/app/commands"
	"weekstay/internal/app/dto"
	calendarapp "weekstay/internal/app/handlers/calendar"
	"weekstay/internal/app/queries"
)

// CalendarHandler wires host calendar reads and toggles to HTTP.
type CalendarHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Week returns the slot grid for one week. week_start defaults to today.
func (h CalendarHandler) Week(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar handler unavailable"})
		return
	}
	listingID := c.Param("id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	var weekStart time.Time
	if raw := c.Query("week_start"); raw != "" {
		parsed, err := dto.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be YYYY-MM-DD"})
			return
		}
		weekStart = parsed
	}
	query := calendarapp.GetWeekQuery{ListingID: listingID, WeekStart: weekStart}
	result, err := queries.Ask[calendarapp.GetWeekQuery, dto.CalendarWeek](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type toggleSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Slot int    `json:"slot"`
}

func (h CalendarHandler) ToggleSlot(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar handler unavailable"})
		return
	}
	listingID := c.Param("id")
	var req toggleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	cmd := calendarapp.ToggleSlotCommand{
		ListingID: listingID,
		Date:      date,
		Slot:      req.Slot,
	}
	result, err := commands.Dispatch[calendarapp.ToggleSlotCommand, calendarapp.ToggleSlotResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type toggleFullDayRequest struct {
	Date string `json:"date" binding:"required"`
}

func (h CalendarHandler) ToggleFullDay(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar handler unavailable"})
		return
	}
	listingID := c.Param("id")
	var req toggleFullDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	cmd := calendarapp.ToggleFullDayCommand{ListingID: listingID, Date: date}
	result, err := commands.Dispatch[calendarapp.ToggleFullDayCommand, calendarapp.ToggleFullDayResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CalendarHTTP = CalendarHandler{}
