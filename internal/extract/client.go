// SPDX-License-Identifier: MIT

// Package extract wraps the yt-dlp binary as the video extraction capability.
// It is the only place that spawns the extractor process or interprets its
// output; the rest of the service sees normalized records and classified
// errors.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ManuGH/ytaudio/internal/log"
)

// Options configures a Client.
type Options struct {
	// BinaryPath is the yt-dlp executable, resolved via PATH when relative.
	BinaryPath string
	// UserAgents is the read-only pool rotated across upstream calls.
	UserAgents []string
	// ProbeTimeout bounds metadata-only invocations.
	ProbeTimeout time.Duration
	// DownloadTimeout bounds download invocations.
	DownloadTimeout time.Duration
}

// Client invokes yt-dlp. It is safe for concurrent use; each call spawns an
// independent process bound to the caller's context.
type Client struct {
	bin             string
	userAgents      []string
	probeTimeout    time.Duration
	downloadTimeout time.Duration
}

// New creates a Client with defaults applied for unset options.
func New(opts Options) *Client {
	c := &Client{
		bin:             opts.BinaryPath,
		userAgents:      opts.UserAgents,
		probeTimeout:    opts.ProbeTimeout,
		downloadTimeout: opts.DownloadTimeout,
	}
	if c.bin == "" {
		c.bin = "yt-dlp"
	}
	if c.probeTimeout <= 0 {
		c.probeTimeout = 30 * time.Second
	}
	if c.downloadTimeout <= 0 {
		c.downloadTimeout = 10 * time.Minute
	}
	return c
}

// Probe resolves url with downloading disabled. A nil return means the video
// is reachable; failures are classified (ErrRateLimited, ErrUnavailable).
func (c *Client) Probe(ctx context.Context, url string) error {
	_, err := c.resolve(ctx, url, nil)
	return err
}

// Metadata resolves url and returns the normalized info record including the
// raw format list.
func (c *Client) Metadata(ctx context.Context, url string) (Info, error) {
	return c.resolve(ctx, url, nil)
}

// Formats resolves url with a best-audio format hint and returns the format
// list. The URLs inside are ephemeral.
func (c *Client) Formats(ctx context.Context, url string) ([]Format, error) {
	info, err := c.resolve(ctx, url, []string{"-f", "bestaudio/best"})
	if err != nil {
		return nil, err
	}
	return info.Formats, nil
}

// Download fetches the best audio for url into outputTemplate, a path ending
// in ".%(ext)s". With transcodeToMP3 the extractor post-processes to MP3 at
// 192K; otherwise it keeps the best native format, preferring m4a.
func (c *Client) Download(ctx context.Context, url, outputTemplate string, transcodeToMP3 bool) error {
	args := []string{
		"--no-warnings",
		"--quiet",
		"--user-agent", pickUserAgent(c.userAgents),
		"-o", outputTemplate,
	}
	if transcodeToMP3 {
		args = append(args, "-f", "bestaudio/best", "-x", "--audio-format", "mp3", "--audio-quality", "192K")
	} else {
		args = append(args, "-f", "bestaudio[ext=m4a]/bestaudio/best")
	}
	args = append(args, url)

	ctx, cancel := context.WithTimeout(ctx, c.downloadTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger := log.WithComponentFromContext(ctx, "extract")
	start := time.Now()
	err := cmd.Run()
	if err != nil {
		detail := tail(stderr.String())
		logger.Error().
			Str("event", "download.failed").
			Str("url", url).
			Str("stderr", detail).
			Dur("elapsed", time.Since(start)).
			Msg("yt-dlp download failed")
		return fmt.Errorf("download %s: %w: %s", url, classify(detail), detail)
	}

	logger.Debug().
		Str("event", "download.completed").
		Str("url", url).
		Dur("elapsed", time.Since(start)).
		Msg("yt-dlp download completed")
	return nil
}

// resolve runs a metadata-only yt-dlp invocation (-J, no download) with the
// given extra format hints and parses the JSON document it prints.
func (c *Client) resolve(ctx context.Context, url string, extraArgs []string) (Info, error) {
	args := []string{
		"-J",
		"--no-warnings",
		"--skip-download",
		"--user-agent", pickUserAgent(c.userAgents),
	}
	args = append(args, extraArgs...)
	args = append(args, url)

	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := tail(stderr.String())
		logger := log.WithComponentFromContext(ctx, "extract")
		logger.Warn().
			Str("event", "resolve.failed").
			Str("url", url).
			Str("stderr", detail).
			Msg("yt-dlp resolution failed")
		return Info{}, fmt.Errorf("resolve %s: %w: %s", url, classify(detail), detail)
	}

	var raw rawInfo
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return Info{}, fmt.Errorf("resolve %s: %w: malformed extractor output: %v", url, ErrUnavailable, err)
	}
	return raw.toInfo(), nil
}

// tail returns the last non-empty line of s, the part of yt-dlp stderr that
// carries the actual error message.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
