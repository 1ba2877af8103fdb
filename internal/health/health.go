// SPDX-License-Identifier: MIT

// Package health provides liveness and readiness checks for deployments.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os/exec"
	"time"

	"github.com/ManuGH/ytaudio/internal/log"
)

// Status represents the overall health/readiness status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a component check.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReadinessResponse is the readiness probe payload.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker defines the interface for readiness checks.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager runs registered checkers and serves the probe endpoints.
type Manager struct {
	version  string
	checkers []Checker
}

// NewManager creates a health check manager.
func NewManager(version string) *Manager {
	return &Manager{version: version}
}

// RegisterChecker adds a readiness checker.
func (m *Manager) RegisterChecker(c Checker) {
	m.checkers = append(m.checkers, c)
}

// Ready evaluates all checkers. Degraded components keep the service ready;
// unhealthy ones do not.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Version:   m.version,
		Timestamp: time.Now(),
	}
	if len(m.checkers) == 0 {
		return resp
	}

	resp.Checks = make(map[string]CheckResult)
	for _, checker := range m.checkers {
		result := checker.Check(ctx)
		resp.Checks[checker.Name()] = result
		switch result.Status {
		case StatusUnhealthy:
			resp.Ready = false
			resp.Status = StatusUnhealthy
		case StatusDegraded:
			if resp.Status == StatusHealthy {
				resp.Status = StatusDegraded
			}
		}
	}
	return resp
}

// ServeHealth handles the liveness probe. Always 200 while the process runs.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "API is healthy",
	})
}

// ServeReady handles the readiness probe.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "readiness")
	resp := m.Ready(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str("event", "readiness.encode_error").Msg("failed to encode readiness response")
	}
}

// BinaryChecker verifies that a required executable can be resolved.
type BinaryChecker struct {
	name     string
	path     string
	optional bool
}

// NewBinaryChecker creates a checker for an executable. Optional binaries
// degrade readiness instead of failing it.
func NewBinaryChecker(name, path string, optional bool) *BinaryChecker {
	return &BinaryChecker{name: name, path: path, optional: optional}
}

func (c *BinaryChecker) Name() string {
	return c.name
}

func (c *BinaryChecker) Check(ctx context.Context) CheckResult {
	if _, err := exec.LookPath(c.path); err != nil {
		if c.optional {
			return CheckResult{
				Status:  StatusDegraded,
				Message: "optional binary not found, feature disabled",
				Error:   err.Error(),
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "binary resolved",
	}
}
