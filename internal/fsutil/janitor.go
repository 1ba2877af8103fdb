// SPDX-License-Identifier: MIT

package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ManuGH/ytaudio/internal/log"
)

// Janitor prunes aged artifacts from the work directory on a fixed schedule.
// Materialized files are handed to the response layer and never deleted
// inline, so without the sweep the work directory grows without bound.
type Janitor struct {
	dir       string
	retention time.Duration
	interval  time.Duration
}

// NewJanitor creates a Janitor for dir, deleting files older than retention
// every interval.
func NewJanitor(dir string, retention, interval time.Duration) *Janitor {
	return &Janitor{dir: dir, retention: retention, interval: interval}
}

// Run sweeps until ctx is cancelled. It performs one sweep immediately.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep deletes artifacts older than the retention window and returns the
// number of files removed.
func (j *Janitor) Sweep(ctx context.Context) int {
	logger := log.WithComponentFromContext(ctx, "janitor")
	cutoff := time.Now().Add(-j.retention)

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("dir", j.dir).Msg("failed to read work directory")
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("failed to remove aged artifact")
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info().
			Str("event", "janitor.swept").
			Str("dir", j.dir).
			Int("removed", removed).
			Msg("aged artifacts removed")
	}
	return removed
}
