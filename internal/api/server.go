// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the ytaudio service.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/ytaudio/internal/api/middleware"
	"github.com/ManuGH/ytaudio/internal/audio"
	"github.com/ManuGH/ytaudio/internal/config"
	"github.com/ManuGH/ytaudio/internal/health"
)

// Pipeline is the decision pipeline consumed by the handlers. Implemented by
// audio.Pipeline; narrowed to an interface so handler tests can stub it.
type Pipeline interface {
	Info(ctx context.Context, url string) (audio.VideoInfo, error)
	Extract(ctx context.Context, url string, maxSeconds int) (audio.Materialized, error)
	StreamURL(ctx context.Context, url string, maxSeconds int) (audio.StreamDescriptor, error)
	Proxy(ctx context.Context, url string) (*audio.Stream, error)
}

// Server wires the pipeline and health manager into the HTTP router.
type Server struct {
	cfg           config.AppConfig
	pipeline      Pipeline
	healthManager *health.Manager
}

// New creates a Server.
func New(cfg config.AppConfig, pipeline Pipeline, hm *health.Manager) *Server {
	return &Server{
		cfg:           cfg,
		pipeline:      pipeline,
		healthManager: hm,
	}
}

// Handler builds the router with the canonical middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,

		EnableMetrics:  true,
		TracingService: s.cfg.TracingService,
		EnableLogging:  true,

		RateLimitEnabled: s.cfg.RateLimitEnabled,
		RateLimitRPM:     s.cfg.RateLimitRPM,
		RateLimitBurst:   s.cfg.RateLimitBurst,
	})

	r.Get("/", s.handleRoot)
	r.Get("/api/health", s.healthManager.ServeHealth)
	r.Get("/readyz", s.healthManager.ServeReady)

	r.Route("/api/youtube", func(r chi.Router) {
		r.Get("/info", s.handleInfo)
		r.Get("/extract-audio", s.handleExtractAudio)
		r.Get("/stream-url", s.handleStreamURL)
		r.Get("/proxy-audio", s.handleProxyAudio)
	})

	return r
}
