package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"door-command-control/internal/auth"
	"door-command-control/internal/config"
	"door-command-control/internal/engine"
	"door-command-control/internal/metrics"
	"door-command-control/internal/routes"
	"door-command-control/internal/storage"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the door command control server",
	Run: func(cmd *cobra.Command, args []string) {
		ServerMain(context.Background(), provider)
	},
}

// Initialize logger
func initLogger(cfg *config.Config) *slog.Logger {
	// Determine level from config and set it on the handler options.
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		println("Invalid log level in config, defaulting to INFO")
	}
	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	slog.Debug("Logger initialized", "level", level.String())
	return logger
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) {
	if config.Cfg == nil {
		panic("Config not initialized.")
	}

	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	metrics.Register()

	schedules := engine.NewSchedules(storageProvider)
	commands := engine.NewCommands(storageProvider)
	overrides := engine.NewOverrides(storageProvider)
	devices := engine.NewDevices(storageProvider, commands)
	loop := engine.NewLoop(storageProvider, schedules, commands,
		config.Cfg.Scheduler.CommandTTL, config.Cfg.Scheduler.OverrideGrace)

	if config.Cfg.Scheduler.Autostart {
		loop.Start(ctx, config.Cfg.Scheduler.Cadence)
		defer loop.Stop()
	}

	api := &routes.API{
		Users:     auth.NewUsers(storageProvider),
		Devices:   devices,
		Schedules: schedules,
		Overrides: overrides,
		Commands:  commands,
		Loop:      loop,
		Store:     storageProvider,
	}

	server := gin.Default()
	routes.RegisterRoutes(server, api, config.Cfg)

	slog.Info("Starting HTTP server", "listen", config.Cfg.Listen)
	if err := server.Run(config.Cfg.Listen); err != nil {
		slog.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
