// SPDX-License-Identifier: MIT

// Package middleware provides the canonical HTTP ingress middleware stack.
package middleware

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// StackConfig configures the canonical HTTP ingress middleware stack.
type StackConfig struct {
	// CORS
	AllowedOrigins []string

	// Observability
	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool

	// Rate limiting
	RateLimitEnabled bool
	RateLimitRPM     int
	RateLimitBurst   int
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r. Order matters:
// recovery outermost, correlation before anything that logs, rate limiting
// innermost.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(SecurityHeaders)
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.TracingService != "" {
		r.Use(Tracing(cfg.TracingService))
	}
	if cfg.EnableLogging {
		r.Use(Logging)
	}
	if cfg.RateLimitEnabled {
		rpm := cfg.RateLimitRPM
		if rpm <= 0 {
			rpm = 60
		}
		r.Use(RateLimit(RateLimitConfig{
			RequestLimit: rpm + cfg.RateLimitBurst,
			WindowSize:   time.Minute,
		}))
	}
}
