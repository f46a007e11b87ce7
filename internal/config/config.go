// Package config reads the server configuration from the environment. A .env file
// in the working directory is loaded by main before Load is called.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"

	"github.com/Pranavsangichetty/portfolio/internal/analytics"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Environment variable names.
const (
	EnvPort                 = "PORT"
	EnvSeedFile             = "SEED_FILE"
	EnvPublicDir            = "PUBLIC_DIR"
	EnvMaxUploadSize        = "MAX_UPLOAD_SIZE"
	EnvSessionTTL           = "SESSION_TTL"
	EnvSessionSweepInterval = "SESSION_SWEEP_INTERVAL"
	EnvSessionMax           = "SESSION_MAX"
	EnvSessionUploadQuota   = "SESSION_UPLOAD_QUOTA"
	EnvSecureCookies        = "SECURE_COOKIES"
	EnvStrictCategories     = "STRICT_CATEGORIES"
	EnvAnalyticsDSN         = "ANALYTICS_DSN"
	EnvAnalyticsRetention   = "ANALYTICS_RETENTION"
	EnvStatsEnabled         = "STATS_ENABLED"
	EnvShutdownTimeout      = "SHUTDOWN_TIMEOUT"
	EnvLogLevel             = "LOG_LEVEL"
	EnvLogFormat            = "LOG_FORMAT"
)

// Config is the complete server configuration.
type Config struct {
	Port             string
	SeedFile         string
	PublicDir        string
	MaxUploadSize    string
	SessionTTL       time.Duration
	SweepInterval    time.Duration
	MaxSessions      int
	UploadQuota      string
	SecureCookies    bool
	StrictCategories bool
	AnalyticsDSN     string
	Retention        time.Duration
	StatsEnabled     bool
	ShutdownTimeout  time.Duration
	LogLevel         slog.Level
	LogFormat        string

	maxUploadSizeVal int64
	uploadQuotaVal   int64
}

// Load builds the configuration from defaults and environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// MaxUploadSizeBytes is MaxUploadSize in bytes; valid after Finalize.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// UploadQuotaBytes is UploadQuota in bytes; valid after Finalize.
func (c *Config) UploadQuotaBytes() int64 {
	return c.uploadQuotaVal
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) loadDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.SeedFile == "" {
		c.SeedFile = "seed.toml"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "32MB"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 2 * time.Hour
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 5 * time.Minute
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = 1000
	}
	if c.UploadQuota == "" {
		c.UploadQuota = "64MB"
	}
	if c.AnalyticsDSN == "" {
		c.AnalyticsDSN = analytics.MemoryDSN
	}
	if c.Retention == 0 {
		c.Retention = 365 * 24 * time.Hour
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.LogFormat == "" {
		c.LogFormat = LogFormatText
	}
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		c.Port = v
	}
	if v := os.Getenv(EnvSeedFile); v != "" {
		c.SeedFile = v
	}
	if v := os.Getenv(EnvPublicDir); v != "" {
		c.PublicDir = v
	}
	if v := os.Getenv(EnvMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvAnalyticsDSN); v != "" {
		c.AnalyticsDSN = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
	}
	if v := os.Getenv(EnvSessionUploadQuota); v != "" {
		c.UploadQuota = v
	}
	if v := os.Getenv(EnvSessionMax); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSessionMax, err)
		}
		c.MaxSessions = n
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{EnvSessionTTL, &c.SessionTTL},
		{EnvSessionSweepInterval, &c.SweepInterval},
		{EnvAnalyticsRetention, &c.Retention},
		{EnvShutdownTimeout, &c.ShutdownTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.env, err)
		}
		*d.dst = parsed
	}

	flags := []struct {
		env string
		dst *bool
	}{
		{EnvSecureCookies, &c.SecureCookies},
		{EnvStrictCategories, &c.StrictCategories},
		{EnvStatsEnabled, &c.StatsEnabled},
	}
	for _, f := range flags {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.env, err)
		}
		*f.dst = parsed
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max upload size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}
	c.maxUploadSizeVal = size

	quota, err := units.FromHumanSize(c.UploadQuota)
	if err != nil {
		return fmt.Errorf("invalid session upload quota: %w", err)
	}
	if quota < size {
		return fmt.Errorf("session upload quota %s is below max upload size %s", c.UploadQuota, c.MaxUploadSize)
	}
	c.uploadQuotaVal = quota

	if c.MaxSessions <= 0 {
		return fmt.Errorf("session max must be positive")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("session sweep interval must be positive")
	}
	if c.Retention <= 0 {
		return fmt.Errorf("analytics retention must be positive")
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format %q (must be text or json)", c.LogFormat)
	}
	return nil
}
