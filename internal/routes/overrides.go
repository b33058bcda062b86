package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"door-command-control/internal/storage"
)

type createOverrideRequest struct {
	DeviceID  string    `json:"device_id" binding:"required"`
	Action    string    `json:"action" binding:"required"`
	TriggerAt time.Time `json:"trigger_at" binding:"required"`
}

func (api *API) createOverride(c *gin.Context) {
	var req createOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	userID, _ := CallerID(c)
	role, _ := CallerRole(c)

	override, err := api.Overrides.Create(c.Request.Context(), req.DeviceID, userID, role, storage.Action(req.Action), req.TriggerAt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Override created successfully",
		"data":    override,
	})
}

func (api *API) deleteOverride(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("overrideID"), 10, 64)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	userID, _ := CallerID(c)
	role, _ := CallerRole(c)

	if err := api.Overrides.Delete(c.Request.Context(), id, userID, role); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Override deleted successfully",
	})
}

func (api *API) listOverrides(c *gin.Context) {
	overrides, err := api.Overrides.ListActive(c.Request.Context(), storage.OverrideFilter{})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All active overrides retrieved successfully",
		"data":    overrides,
	})
}

func (api *API) listMyOverrides(c *gin.Context) {
	userID, _ := CallerID(c)
	overrides, err := api.Overrides.ListActive(c.Request.Context(), storage.OverrideFilter{UserID: userID})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User overrides retrieved successfully",
		"data":    overrides,
	})
}

func (api *API) listDeviceOverrides(c *gin.Context) {
	overrides, err := api.Overrides.ListActive(c.Request.Context(), storage.OverrideFilter{DeviceID: c.Param("deviceID")})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Device overrides retrieved successfully",
		"data":    overrides,
	})
}
