package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"weekstay/internal/app/prefs"
)

// DraftHandler exposes the guest's saved day selection. Reads go straight to
// the store; writes go through the coalescing queue so a toggle burst ends
// up as one store write.
type DraftHandler struct {
	Store prefs.Store
	Queue *prefs.Queue
}

func (h DraftHandler) Get(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "draft handler unavailable"})
		return
	}
	guestID := c.Param("id")
	listingID := c.Query("listing_id")
	if guestID == "" || listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest id and listing_id are required"})
		return
	}
	draft, err := h.Store.Load(c.Request.Context(), prefs.DraftKey(guestID, listingID))
	if err != nil {
		if errors.Is(err, prefs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}

type putDraftRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	Days      []int  `json:"days"`
}

func (h DraftHandler) Put(c *gin.Context) {
	if h.Queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "draft handler unavailable"})
		return
	}
	guestID := c.Param("id")
	if guestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest id is required"})
		return
	}
	var req putDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft := prefs.ScheduleDraft{
		ListingID: req.ListingID,
		Days:      req.Days,
		UpdatedAt: time.Now().UTC(),
	}
	h.Queue.Enqueue(prefs.DraftKey(guestID, req.ListingID), draft)
	c.JSON(http.StatusAccepted, draft)
}

var _ DraftHTTP = DraftHandler{}
