// SPDX-License-Identifier: MIT

// Package config loads runtime configuration from the environment with
// precedence ENV > defaults. Values are read once at startup and treated as
// immutable for the lifetime of the process.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default user agents rotated across upstream calls when YTA_USER_AGENTS is unset.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
}

// AppConfig holds the complete runtime configuration of the daemon.
type AppConfig struct {
	ListenAddr     string
	MetricsEnabled bool
	MetricsAddr    string

	LogLevel   string
	LogService string

	// MaxDuration is the default duration gate for extract-audio and
	// stream-url requests; clients may lower it per request.
	MaxDuration     time.Duration
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration

	// WorkDir holds materialized audio artifacts between download and
	// delivery. The janitor prunes it on a retention schedule.
	WorkDir         string
	Retention       time.Duration
	CleanupInterval time.Duration

	YTDLPPath  string
	FFmpegPath string

	AllowedOrigins   []string
	RateLimitEnabled bool
	RateLimitRPM     int
	RateLimitBurst   int
	TracingService   string

	UserAgents []string
}

// FromEnv builds an AppConfig from environment variables and defaults.
func FromEnv() AppConfig {
	cfg := AppConfig{
		ListenAddr:     ParseString("YTA_LISTEN", ":8080"),
		MetricsEnabled: ParseBool("YTA_METRICS_ENABLED", true),
		MetricsAddr:    ParseString("YTA_METRICS_ADDR", ":9090"),

		LogLevel:   ParseString("YTA_LOG_LEVEL", "info"),
		LogService: ParseString("YTA_LOG_SERVICE", "ytaudio"),

		MaxDuration:     time.Duration(ParseInt("YTA_MAX_DURATION", 600)) * time.Second,
		ProbeTimeout:    ParseDuration("YTA_PROBE_TIMEOUT", 30*time.Second),
		DownloadTimeout: ParseDuration("YTA_DOWNLOAD_TIMEOUT", 10*time.Minute),

		WorkDir:         ParseString("YTA_WORK_DIR", filepath.Join(os.TempDir(), "ytaudio")),
		Retention:       ParseDuration("YTA_RETENTION", time.Hour),
		CleanupInterval: ParseDuration("YTA_CLEANUP_INTERVAL", 10*time.Minute),

		YTDLPPath:  ParseString("YTA_YTDLP_PATH", "yt-dlp"),
		FFmpegPath: ParseString("YTA_FFMPEG_PATH", "ffmpeg"),

		AllowedOrigins:   SplitCSV(ParseString("YTA_ALLOWED_ORIGINS", "")),
		RateLimitEnabled: ParseBool("YTA_RATE_LIMIT_ENABLED", true),
		RateLimitRPM:     ParseInt("YTA_RATE_LIMIT_RPM", 60),
		RateLimitBurst:   ParseInt("YTA_RATE_LIMIT_BURST", 10),
		TracingService:   ParseString("YTA_TRACING_SERVICE", ""),

		UserAgents: defaultUserAgents,
	}

	if raw := ParseString("YTA_USER_AGENTS", ""); raw != "" {
		if agents := SplitCSV(raw); len(agents) > 0 {
			cfg.UserAgents = agents
		}
	}

	return cfg
}

// Validate performs startup sanity checks on the configuration.
func (c AppConfig) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.MaxDuration <= 0 {
		return fmt.Errorf("max duration must be positive, got %s", c.MaxDuration)
	}
	if c.Retention <= 0 {
		return fmt.Errorf("retention must be positive, got %s", c.Retention)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive, got %s", c.CleanupInterval)
	}
	if len(c.UserAgents) == 0 {
		return fmt.Errorf("user agent pool must not be empty")
	}
	return nil
}
