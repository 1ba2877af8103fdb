// SPDX-License-Identifier: MIT

// Package transcoder reports whether an ffmpeg binary is usable on this host.
// The extractor delegates the actual transcoding to yt-dlp's post-processor;
// this package only decides whether MP3 output can be requested at all.
package transcoder

import (
	"os/exec"
	"sync"

	"github.com/ManuGH/ytaudio/internal/log"
)

// Prober answers whether a transcoding tool is present.
type Prober struct {
	path string

	mu        sync.Mutex
	probed    bool
	available bool
}

// New creates a Prober for the given ffmpeg path (resolved via PATH when
// relative).
func New(path string) *Prober {
	if path == "" {
		path = "ffmpeg"
	}
	return &Prober{path: path}
}

// Available reports whether the transcoding tool can be resolved. The lookup
// result is cached after the first call; binaries do not appear mid-flight
// often enough to justify re-probing per request.
func (p *Prober) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.probed {
		return p.available
	}
	p.probed = true
	_, err := exec.LookPath(p.path)
	p.available = err == nil
	logger := log.WithComponent("transcoder")
	logger.Info().
		Str("event", "transcoder.probed").
		Str("path", p.path).
		Bool("available", p.available).
		Msg("transcoder availability determined")
	return p.available
}
