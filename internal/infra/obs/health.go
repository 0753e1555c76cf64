package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers serves the health endpoints. Liveness only proves the process
// answers HTTP; readiness additionally runs Ready, which the entrypoint wires
// to the active storage backend (a mongo ping in mongo mode, a no-op for the
// in-memory stores).
type HealthHandlers struct {
	Ready func() error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
