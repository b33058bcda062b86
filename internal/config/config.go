package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

type SchedulerConfig struct {
	// Reconciliation cadence. Must not exceed one minute, the granularity
	// of schedule open/close times.
	Cadence time.Duration `mapstructure:"cadence"`
	// Validity window for commands created by schedule and override firing.
	CommandTTL time.Duration `mapstructure:"command_ttl"`
	// How far past trigger_at an unfired override may linger before the
	// cleanup pass removes it.
	OverrideGrace time.Duration `mapstructure:"override_grace"`
	// Start the reconciliation loop automatically with the server.
	Autostart bool `mapstructure:"autostart"`
}

type Config struct {
	// Secret key for signing auth tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// Auth token TTL in hours.
	TokenTTL uint   `mapstructure:"token_ttl"`
	LogLevel string `mapstructure:"log_level"`

	// Listen address for the HTTP API, e.g. ":5000".
	Listen string `mapstructure:"listen"`

	// Comma separated list of CIDR networks allowed to reach the device
	// heartbeat endpoint. Empty means allow all.
	AllowedNetworks string `mapstructure:"allowed_networks"`

	Scheduler SchedulerConfig `mapstructure:"scheduler"`

	Storage Storage `mapstructure:"storage"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from environment variables and an optional
// config file in the instance folder.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if cfg.Scheduler.Cadence <= 0 || cfg.Scheduler.Cadence > time.Minute {
		slog.Warn("Scheduler cadence must be within (0, 1m], resetting to 1m", "cadence", cfg.Scheduler.Cadence)
		cfg.Scheduler.Cadence = time.Minute
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	return &cfg, nil
}
