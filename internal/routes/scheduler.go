package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Loop control surface. Admin only.

func (api *API) schedulerStatus(c *gin.Context) {
	status := api.Loop.Status()
	c.JSON(http.StatusOK, gin.H{
		"running":   status.Running,
		"cadence":   status.Cadence.String(),
		"last_tick": status.LastTick,
	})
}

type schedulerStartRequest struct {
	Cadence string `json:"cadence"`
}

func (api *API) schedulerStart(c *gin.Context) {
	var req schedulerStartRequest
	// Body is optional; an empty body means the default cadence.
	c.ShouldBindJSON(&req)

	var cadence time.Duration
	if req.Cadence != "" {
		var err error
		cadence, err = time.ParseDuration(req.Cadence)
		if err != nil || cadence <= 0 || cadence > time.Minute {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	// The loop outlives this request.
	api.Loop.Start(context.Background(), cadence)
	c.JSON(http.StatusOK, gin.H{"message": "Scheduler started"})
}

func (api *API) schedulerStop(c *gin.Context) {
	api.Loop.Stop()
	c.JSON(http.StatusOK, gin.H{"message": "Scheduler stopped"})
}
