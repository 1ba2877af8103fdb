// SPDX-License-Identifier: MIT

// Package audio implements the request-to-response decision pipeline: URL
// validation, metadata fetch, the duration gate, audio materialization with
// stream-descriptor fallback, and the upstream byte-stream proxy.
package audio

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ManuGH/ytaudio/internal/extract"
	"github.com/ManuGH/ytaudio/internal/log"
)

// Extractor is the extraction capability: given a URL, produce metadata and a
// ranked list of media formats, or fail. Implemented by extract.Client.
type Extractor interface {
	Probe(ctx context.Context, url string) error
	Metadata(ctx context.Context, url string) (extract.Info, error)
	Formats(ctx context.Context, url string) ([]extract.Format, error)
	Download(ctx context.Context, url, outputTemplate string, transcodeToMP3 bool) error
}

// Transcoder is the optional transcoding capability probe. Implemented by
// transcoder.Prober.
type Transcoder interface {
	Available() bool
}

// Config holds pipeline construction options.
type Config struct {
	// WorkDir receives materialized audio artifacts.
	WorkDir string
	// HTTPClient performs upstream streaming reads for the proxy. Defaults
	// to http.DefaultClient.
	HTTPClient *http.Client
}

// Pipeline sequences validation, fetch, gating and production for the four
// entry operations. It holds no per-request state; one instance serves all
// requests concurrently.
type Pipeline struct {
	extractor  Extractor
	transcoder Transcoder
	httpClient *http.Client
	workDir    string
}

// New creates a Pipeline.
func New(ex Extractor, tc Transcoder, cfg Config) *Pipeline {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Pipeline{
		extractor:  ex,
		transcoder: tc,
		httpClient: client,
		workDir:    cfg.WorkDir,
	}
}

// Info validates url and returns its metadata record.
func (p *Pipeline) Info(ctx context.Context, url string) (VideoInfo, error) {
	if err := p.Validate(ctx, url); err != nil {
		return VideoInfo{}, err
	}
	return p.fetchInfo(ctx, url)
}

// Extract validates url, enforces the duration gate and materializes audio.
// The result carries either a file artifact or a stream descriptor fallback.
// The materializer is never invoked for gated videos.
func (p *Pipeline) Extract(ctx context.Context, url string, maxSeconds int) (Materialized, error) {
	if err := p.Validate(ctx, url); err != nil {
		return Materialized{}, err
	}
	info, err := p.fetchInfo(ctx, url)
	if err != nil {
		return Materialized{}, err
	}
	if info.DurationSeconds > maxSeconds {
		logger := log.WithComponentFromContext(ctx, "pipeline")
		logger.Warn().
			Str("event", "extract.gated").
			Int("duration", info.DurationSeconds).
			Int("max_duration", maxSeconds).
			Msg("video exceeds maximum duration")
		return Materialized{}, fmt.Errorf("%w: %ds > %ds", ErrDurationExceeded, info.DurationSeconds, maxSeconds)
	}
	return p.materialize(ctx, url)
}

// StreamURL validates url, enforces the duration gate and returns a stream
// descriptor for the best audio format.
func (p *Pipeline) StreamURL(ctx context.Context, url string, maxSeconds int) (StreamDescriptor, error) {
	if err := p.Validate(ctx, url); err != nil {
		return StreamDescriptor{}, err
	}
	info, err := p.fetchInfo(ctx, url)
	if err != nil {
		return StreamDescriptor{}, err
	}
	if info.DurationSeconds > maxSeconds {
		return StreamDescriptor{}, fmt.Errorf("%w: %ds > %ds", ErrDurationExceeded, info.DurationSeconds, maxSeconds)
	}
	format, err := p.selectBestAudio(ctx, url)
	if err != nil {
		return StreamDescriptor{}, err
	}
	return StreamDescriptor{
		Title:           info.Title,
		StreamURL:       format.URL,
		Thumbnail:       info.ThumbnailURL,
		DurationSeconds: info.DurationSeconds,
		Format:          format.Ext,
		SourceURL:       url,
		Kind:            "stream",
		Note:            expiryNote,
	}, nil
}

// fetchInfo maps one extraction call into a VideoInfo with display defaults
// for missing fields.
func (p *Pipeline) fetchInfo(ctx context.Context, url string) (VideoInfo, error) {
	raw, err := p.extractor.Metadata(ctx, url)
	if err != nil {
		if errors.Is(err, extract.ErrRateLimited) {
			return VideoInfo{}, err
		}
		logger := log.WithComponentFromContext(ctx, "pipeline")
		logger.Error().
			Err(err).
			Str("event", "info.fetch_failed").
			Str("url", url).
			Msg("failed to fetch video information")
		return VideoInfo{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	info := VideoInfo{
		Title:           raw.Title,
		Author:          raw.Uploader,
		DurationSeconds: raw.Duration,
		ThumbnailURL:    raw.Thumbnail,
		VideoID:         raw.ID,
		SourceURL:       url,
	}
	if info.Title == "" {
		info.Title = "Unknown title"
	}
	if info.Author == "" {
		info.Author = "Unknown uploader"
	}
	return info, nil
}
