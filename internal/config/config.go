package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Config carries the engine's tuning knobs and wiring settings. Everything
// here is overridable from the environment; the .env file is a local-dev
// convenience only.
type Config struct {
	ProjectID     string `mapstructure:"GOOGLE_CLOUD_PROJECT"`
	DatabaseID    string `mapstructure:"FIRESTORE_DATABASE_ID"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	CORSOrigin    string `mapstructure:"CORS_ALLOWED_ORIGIN"`
	AppEnv        string `mapstructure:"APP_ENV"`
	PublicRead    bool   `mapstructure:"PUBLIC_READ"`
	RefreshCron   string `mapstructure:"NJS_REFRESH_CRON"`
	SnapshotTTL   int    `mapstructure:"NJS_SNAPSHOT_TTL_SECONDS"`
	Timezone      string `mapstructure:"NJS_TIMEZONE"`
	WeekStart     string `mapstructure:"NJS_WEEK_START"` // "sunday" or "monday"
	DayDisplayCap int    `mapstructure:"NJS_DAY_DISPLAY_CAP"`

	// ClusterPrecision is the number of decimal places coordinates are
	// rounded to before grouping map markers. 4 decimals is roughly 11m;
	// it is a tunable, not a precision guarantee.
	ClusterPrecision int `mapstructure:"NJS_CLUSTER_PRECISION"`

	// Animation timing, in milliseconds. SlideMs is shared between manual
	// month navigation and driven highlight navigation so both feel the same.
	SlideMs   int `mapstructure:"NJS_SLIDE_MS"`
	PulseMs   int `mapstructure:"NJS_PULSE_MS"`
	HoldMs    int `mapstructure:"NJS_HOLD_MS"`
	StaggerMs int `mapstructure:"NJS_STAGGER_MS"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	viper.AutomaticEnv()
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Unmarshal only sees keys viper knows about; keys without defaults
	// must be bound explicitly or env-only deployments lose them.
	for _, key := range []string{
		"GOOGLE_CLOUD_PROJECT", "FIRESTORE_DATABASE_ID", "REDIS_ADDR",
		"CORS_ALLOWED_ORIGIN", "APP_ENV", "PUBLIC_READ", "NJS_REFRESH_CRON",
	} {
		_ = viper.BindEnv(key)
	}

	viper.SetDefault("NJS_SNAPSHOT_TTL_SECONDS", 30)
	viper.SetDefault("NJS_TIMEZONE", "America/New_York")
	viper.SetDefault("NJS_WEEK_START", "sunday")
	viper.SetDefault("NJS_DAY_DISPLAY_CAP", 2)
	viper.SetDefault("NJS_CLUSTER_PRECISION", 4)
	viper.SetDefault("NJS_SLIDE_MS", 350)
	viper.SetDefault("NJS_PULSE_MS", 600)
	viper.SetDefault("NJS_HOLD_MS", 900)
	viper.SetDefault("NJS_STAGGER_MS", 50)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("no config file found, using environment variables")
		} else {
			// A missing .env shows up as a plain fs error on some platforms.
			slog.Info("config file not read", "reason", err.Error())
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured display timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("invalid timezone, falling back to UTC", "timezone", c.Timezone)
		return time.UTC
	}
	return loc
}

// WeekStartDay maps the configured week start onto time.Weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

// Slide returns the month-slide animation duration.
func (c *Config) Slide() time.Duration { return time.Duration(c.SlideMs) * time.Millisecond }

// Pulse returns the arrival pulse duration.
func (c *Config) Pulse() time.Duration { return time.Duration(c.PulseMs) * time.Millisecond }

// Hold returns how long the pulse flag is held after selection.
func (c *Config) Hold() time.Duration { return time.Duration(c.HoldMs) * time.Millisecond }

// Stagger returns the short delay between arrival and the confirm phase.
func (c *Config) Stagger() time.Duration { return time.Duration(c.StaggerMs) * time.Millisecond }
