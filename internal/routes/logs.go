package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"door-command-control/internal/storage"
)

// listLogs returns the most recent audit entries, newest first. Filters:
// device_id, user_id, action, status, limit.
func (api *API) listLogs(c *gin.Context) {
	filter := storage.LogFilter{
		DeviceID: c.Query("device_id"),
	}

	if v := c.Query("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.UserID = userID
	}
	if v := c.Query("action"); v != "" {
		action := storage.LogAction(v)
		if !action.Valid() {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.Action = action
	}
	if v := c.Query("status"); v != "" {
		status := storage.LogStatus(v)
		if !status.Valid() {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.Status = status
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.Limit = limit
	}

	entries, err := api.Store.ListLogs(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logs retrieved successfully",
		"data":    entries,
	})
}
