package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"door-command-control/internal/storage"
)

type registerDeviceRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

func (api *API) registerDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	device, err := api.Devices.Register(c.Request.Context(), req.DeviceID, req.Name, req.Location)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Device registered successfully",
		"data":    device,
	})
}

func (api *API) listDevices(c *gin.Context) {
	devices, err := api.Devices.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Devices retrieved successfully",
		"data":    devices,
	})
}

func (api *API) getDevice(c *gin.Context) {
	device, err := api.Devices.Get(c.Request.Context(), c.Param("deviceID"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Device retrieved successfully",
		"data":    device,
	})
}

type manualCommandRequest struct {
	DeviceID  string     `json:"device_id" binding:"required"`
	Command   string     `json:"command" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// sendManualCommand enqueues a command directly, bypassing reconciliation.
// Admin and faculty callers only.
func (api *API) sendManualCommand(c *gin.Context) {
	var req manualCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	userID, _ := CallerID(c)

	var expiresAt time.Time
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	command, err := api.Commands.Enqueue(c.Request.Context(), req.DeviceID, storage.Action(req.Command), expiresAt, &userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Device command sent successfully",
		"data":    command,
	})
}

func (api *API) listCommands(c *gin.Context) {
	includeExecuted := c.Query("include_executed") == "true"
	commands, err := api.Commands.List(c.Request.Context(), c.Param("deviceID"), includeExecuted)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commands retrieved successfully",
		"data":    commands,
	})
}

type heartbeatRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	Status   string `json:"status"`
}

// heartbeat is the device-facing delivery endpoint: report status, collect
// at most one unexpired command.
func (api *API) heartbeat(c *gin.Context) {
	var req heartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := api.Devices.Heartbeat(c.Request.Context(), req.DeviceID, storage.DeviceStatus(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Heartbeat received",
		"data": gin.H{
			"command":    result.Action,
			"expires_at": result.ExpiresAt,
		},
	})
}
