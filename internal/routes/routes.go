package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"door-command-control/internal/auth"
	"door-command-control/internal/config"
	"door-command-control/internal/engine"
	"door-command-control/internal/storage"
)

// API bundles the services the HTTP layer fronts. The handlers are thin
// glue: parse, call the engine, map errors.
type API struct {
	Users     *auth.Users
	Devices   *engine.Devices
	Schedules *engine.Schedules
	Overrides *engine.Overrides
	Commands  *engine.Commands
	Loop      *engine.Loop
	Store     storage.Provider
}

func RegisterRoutes(r *gin.Engine, api *API, cfg *config.Config) {
	r.Use(RequestID())
	r.Use(securityHeaders)
	r.Use(ErrorHandler())

	Health(r.Group("/"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", api.register)
		authGroup.POST("/login", api.login)
	}

	devices := r.Group("/api/devices", AuthRequired())
	{
		devices.POST("", RequireRole(storage.RoleAdmin), api.registerDevice)
		devices.GET("", api.listDevices)
		devices.GET("/:deviceID", api.getDevice)
		devices.POST("/command", api.sendManualCommand)
		devices.GET("/:deviceID/commands", RequireRole(storage.RoleAdmin), api.listCommands)
	}

	schedules := r.Group("/api/schedules", AuthRequired())
	{
		schedules.POST("", RequireRole(storage.RoleAdmin), api.createSchedule)
		schedules.GET("", api.listSchedules)
		schedules.GET("/:scheduleID", api.getSchedule)
		schedules.PUT("/:scheduleID", RequireRole(storage.RoleAdmin), api.updateSchedule)
		schedules.DELETE("/:scheduleID", RequireRole(storage.RoleAdmin), api.deleteSchedule)
		schedules.GET("/device/:deviceID", api.listDeviceSchedules)
	}

	overrides := r.Group("/api/overrides", AuthRequired())
	{
		overrides.POST("", api.createOverride)
		overrides.GET("", api.listOverrides)
		overrides.GET("/my", api.listMyOverrides)
		overrides.DELETE("/:overrideID", api.deleteOverride)
		overrides.GET("/device/:deviceID", api.listDeviceOverrides)
	}

	logs := r.Group("/api/logs", AuthRequired(), RequireRole(storage.RoleAdmin))
	{
		logs.GET("", api.listLogs)
	}

	scheduler := r.Group("/api/scheduler", AuthRequired(), RequireRole(storage.RoleAdmin))
	{
		scheduler.GET("/status", api.schedulerStatus)
		scheduler.POST("/start", api.schedulerStart)
		scheduler.POST("/stop", api.schedulerStop)
	}

	// Device communication endpoint. Unauthenticated: lock hardware polls in
	// with nothing but its device_id, optionally fenced by network.
	deviceComm := r.Group("/api/device-comm")
	if cfg.AllowedNetworks != "" {
		deviceComm.Use(IPAccessControl(ParseAllowedNetworks(cfg.AllowedNetworks)))
	}
	deviceComm.POST("/heartbeat", api.heartbeat)
}
