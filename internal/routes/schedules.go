package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"door-command-control/internal/engine"
)

type createScheduleRequest struct {
	DeviceID  string `json:"device_id" binding:"required"`
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
}

func (api *API) createSchedule(c *gin.Context) {
	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	schedule, err := api.Schedules.Create(c.Request.Context(), req.DeviceID, *req.DayOfWeek, req.OpenTime, req.CloseTime)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Schedule created successfully",
		"data":    schedule,
	})
}

func scheduleIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("scheduleID"), 10, 64)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return 0, false
	}
	return id, true
}

func (api *API) getSchedule(c *gin.Context) {
	id, ok := scheduleIDParam(c)
	if !ok {
		return
	}

	schedule, err := api.Schedules.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Schedule retrieved successfully",
		"data":    schedule,
	})
}

type updateScheduleRequest struct {
	DayOfWeek *int    `json:"day_of_week"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
}

func (api *API) updateSchedule(c *gin.Context) {
	id, ok := scheduleIDParam(c)
	if !ok {
		return
	}

	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	schedule, err := api.Schedules.Update(c.Request.Context(), id, engine.ScheduleUpdate{
		DayOfWeek: req.DayOfWeek,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Schedule updated successfully",
		"data":    schedule,
	})
}

func (api *API) deleteSchedule(c *gin.Context) {
	id, ok := scheduleIDParam(c)
	if !ok {
		return
	}

	if err := api.Schedules.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Schedule deleted successfully",
	})
}

func (api *API) listSchedules(c *gin.Context) {
	schedules, err := api.Schedules.List(c.Request.Context(), "")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Schedules retrieved successfully",
		"data":    schedules,
	})
}

func (api *API) listDeviceSchedules(c *gin.Context) {
	schedules, err := api.Schedules.List(c.Request.Context(), c.Param("deviceID"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Device schedules retrieved successfully",
		"data":    schedules,
	})
}
