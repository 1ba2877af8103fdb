// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/ytaudio/internal/extract"
	"github.com/ManuGH/ytaudio/internal/fsutil"
	"github.com/ManuGH/ytaudio/internal/log"
	"github.com/ManuGH/ytaudio/internal/metrics"
)

// materialize downloads (and, when a transcoder is present, converts to MP3)
// the best audio for url. When no artifact can be produced it falls back to a
// stream descriptor; only if that fallback also fails is the operation a hard
// failure.
func (p *Pipeline) materialize(ctx context.Context, url string) (Materialized, error) {
	logger := log.WithComponentFromContext(ctx, "materializer")
	start := time.Now()

	transcode := p.transcoder.Available()
	if !transcode {
		logger.Warn().
			Str("event", "materialize.no_transcoder").
			Msg("transcoder not available, requesting native audio format")
	}

	// Best-effort title for the human-friendly filename; an unnamed file is
	// acceptable.
	title := ""
	if raw, err := p.extractor.Metadata(ctx, url); err == nil {
		title = raw.Title
	} else {
		logger.Warn().Err(err).
			Str("event", "materialize.title_unavailable").
			Msg("could not fetch video title")
	}

	fileID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if err := os.MkdirAll(p.workDir, 0o750); err != nil {
		return Materialized{}, fmt.Errorf("%w: create work dir: %v", ErrExtractionFailed, err)
	}
	prefix := "audio_" + fileID
	template := filepath.Join(p.workDir, prefix+".%(ext)s")

	dlErr := p.extractor.Download(ctx, url, template, transcode)
	if dlErr != nil {
		logger.Error().Err(dlErr).
			Str("event", "materialize.download_failed").
			Str("url", url).
			Msg("download failed, will attempt stream fallback")
	}

	// The produced extension is whatever the extractor wrote; it may differ
	// from the requested target when transcoding silently did not happen.
	path := findByPrefix(p.workDir, prefix)
	if path == "" {
		logger.Warn().
			Str("event", "materialize.fallback").
			Str("url", url).
			Msg("no artifact produced, falling back to stream descriptor")
		metrics.ExtractionFallbacks.Inc()
		desc, err := p.streamFallback(ctx, url, title)
		if err != nil {
			// Rate limiting stays distinguishable so the API can answer 429
			// instead of a generic extraction failure.
			if errors.Is(err, extract.ErrRateLimited) {
				return Materialized{}, err
			}
			if errors.Is(dlErr, extract.ErrRateLimited) {
				return Materialized{}, dlErr
			}
			return Materialized{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		return Materialized{Stream: &desc}, nil
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	path = p.renameToTitle(ctx, path, title, fileID, ext)

	metrics.ObserveExtraction(time.Since(start))
	logger.Info().
		Str("event", "materialize.completed").
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Msg("audio materialized")

	return Materialized{File: &FileArtifact{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: ContentTypeFor(ext),
	}}, nil
}

// streamFallback wraps a fresh best-audio format as a stream descriptor.
func (p *Pipeline) streamFallback(ctx context.Context, url, title string) (StreamDescriptor, error) {
	raw, err := p.extractor.Metadata(ctx, url)
	if err != nil {
		return StreamDescriptor{}, err
	}
	format, err := pickBestAudio(ctx, raw.Formats)
	if err != nil {
		return StreamDescriptor{}, err
	}
	if title == "" {
		title = raw.Title
	}
	return StreamDescriptor{
		Title:           title,
		StreamURL:       format.URL,
		Thumbnail:       raw.Thumbnail,
		DurationSeconds: raw.Duration,
		Format:          format.Ext,
		SourceURL:       url,
		Kind:            "stream",
		Note:            expiryNote,
	}, nil
}

// renameToTitle gives the artifact a sanitized title-derived name. The rename
// is skipped when the target already exists and failure keeps the original
// path; both are non-fatal.
func (p *Pipeline) renameToTitle(ctx context.Context, path, title, fileID, ext string) string {
	safe := fsutil.SanitizeTitle(title)
	if safe == "" {
		return path
	}
	target := filepath.Join(p.workDir, fmt.Sprintf("%s_%s.%s", safe, fileID, ext))
	if _, err := os.Stat(target); err == nil {
		return path
	}
	if err := os.Rename(path, target); err != nil {
		logger := log.WithComponentFromContext(ctx, "materializer")
		logger.Warn().
			Err(err).
			Str("event", "materialize.rename_failed").
			Str("path", path).
			Msg("failed to rename artifact, keeping original name")
		return path
	}
	return target
}

// findByPrefix returns the first file in dir whose name starts with prefix,
// or "" when none exists.
func findByPrefix(dir, prefix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}
