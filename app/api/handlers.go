package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/diynews/backend/app/pipeline"
)

// SyncTrigger starts a run and exposes its status. The handlers carry no
// pipeline logic of their own.
type SyncTrigger interface {
	Start() error
	Status() *pipeline.Status
}

type Handler struct {
	runner  SyncTrigger
	version string
}

func NewHandler(runner SyncTrigger, version string) *Handler {
	return &Handler{
		runner:  runner,
		version: version,
	}
}

// StartSync triggers a background sync run. Returns 202 when the run was
// started and 409 when one is already in flight.
func (h *Handler) StartSync(c *gin.Context) {
	if err := h.runner.Start(); err != nil {
		if errors.Is(err, pipeline.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "A sync is already in progress.",
				"status":  h.runner.Status().Snapshot(),
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Sync started.",
		"status":  h.runner.Status().Snapshot(),
	})
}

// GetStatus returns a snapshot of the current run status.
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  h.runner.Status().Snapshot(),
	})
}

// GetHealth is the liveness probe.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API server is running.",
		"version":   h.version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
