// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ManuGH/ytaudio/internal/extract"
	"github.com/ManuGH/ytaudio/internal/log"
	"github.com/ManuGH/ytaudio/internal/metrics"
)

// proxyChunkSize is the fixed relay buffer; the proxy never holds more than
// one chunk in memory.
const proxyChunkSize = 8 * 1024

// Proxy validates url, resolves a fresh best-audio format (ephemeral URLs
// from earlier calls may already have expired) and opens a streaming read
// against it. The caller relays the body and must close it.
func (p *Pipeline) Proxy(ctx context.Context, url string) (*Stream, error) {
	if err := p.Validate(ctx, url); err != nil {
		return nil, err
	}

	raw, err := p.extractor.Metadata(ctx, url)
	if err != nil {
		if errors.Is(err, extract.ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNoAudioFormat, err)
	}
	format, err := pickBestAudio(ctx, raw.Formats)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, format.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudioFormat, err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudioFormat, err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: upstream status %d", ErrNoAudioFormat, resp.StatusCode)
	}

	title := raw.Title
	if title == "" {
		title = "audio"
	}
	return &Stream{
		Title:       title,
		Ext:         format.Ext,
		ContentType: ContentTypeFor(format.Ext),
		Body:        resp.Body,
	}, nil
}

// Relay copies the stream to w in fixed-size chunks, flushing after each
// write when w supports it. On an upstream read error it stops immediately:
// no further bytes, no retry, no fabricated content. Headers are already
// committed at that point, so the client sees a truncated body. Client
// cancellation surfaces as a write error and stops the upstream read loop.
func (s *Stream) Relay(ctx context.Context, w io.Writer) int64 {
	logger := log.WithComponentFromContext(ctx, "proxy")
	flusher, _ := w.(http.Flusher)

	buf := make([]byte, proxyChunkSize)
	var written int64
	for {
		n, readErr := s.Body.Read(buf)
		if n > 0 {
			wn, writeErr := w.Write(buf[:n])
			written += int64(wn)
			metrics.ProxyBytes.Add(float64(wn))
			if writeErr != nil {
				logger.Warn().
					Err(writeErr).
					Str("event", "proxy.client_gone").
					Int64("bytes", written).
					Msg("client write failed, abandoning upstream read")
				return written
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				metrics.ProxyUpstreamErrors.Inc()
				logger.Error().
					Err(readErr).
					Str("event", "proxy.upstream_error").
					Int64("bytes", written).
					Msg("upstream read failed mid-stream, terminating output")
			}
			return written
		}
	}
}
