// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ManuGH/ytaudio/internal/log"
	"github.com/ManuGH/ytaudio/internal/metrics"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "ytaudio API is running",
	})
}

// handleInfo returns the metadata record for a video.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	logger := log.WithComponentFromContext(r.Context(), "api")

	info, err := s.pipeline.Info(r.Context(), url)
	metrics.IncRequest("info", err)
	if err != nil {
		writePipelineError(w, r, err, 0)
		return
	}

	logger.Info().
		Str("event", "info.fetched").
		Str("title", info.Title).
		Str("video_id", info.VideoID).
		Msg("video info retrieved")
	writeJSON(w, http.StatusOK, info)
}

// handleExtractAudio materializes audio as a file attachment, or answers
// with a stream descriptor when the materializer fell back.
func (s *Server) handleExtractAudio(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	logger := log.WithComponentFromContext(r.Context(), "api")

	maxSeconds, ok := s.maxDuration(w, r)
	if !ok {
		return
	}

	result, err := s.pipeline.Extract(r.Context(), url, maxSeconds)
	metrics.IncRequest("extract", err)
	if err != nil {
		writePipelineError(w, r, err, maxSeconds)
		return
	}

	if result.Stream != nil {
		logger.Info().
			Str("event", "extract.fallback").
			Str("title", result.Stream.Title).
			Msg("materialization fell back to stream descriptor")
		writeJSON(w, http.StatusOK, result.Stream)
		return
	}

	logger.Info().
		Str("event", "extract.served").
		Str("file", result.File.Name).
		Str("content_type", result.File.ContentType).
		Msg("serving materialized audio file")

	w.Header().Set("Content-Type", result.File.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.File.Name))
	http.ServeFile(w, r, result.File.Path)
}

// handleStreamURL returns a stream descriptor for the best audio format.
func (s *Server) handleStreamURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	logger := log.WithComponentFromContext(r.Context(), "api")

	maxSeconds, ok := s.maxDuration(w, r)
	if !ok {
		return
	}

	desc, err := s.pipeline.StreamURL(r.Context(), url, maxSeconds)
	metrics.IncRequest("stream_url", err)
	if err != nil {
		writePipelineError(w, r, err, maxSeconds)
		return
	}

	logger.Info().
		Str("event", "stream_url.resolved").
		Str("title", desc.Title).
		Str("format", desc.Format).
		Msg("stream url resolved")
	writeJSON(w, http.StatusOK, desc)
}

// handleProxyAudio relays upstream audio bytes to the client. Once headers
// are committed, upstream failures truncate the body; they cannot be turned
// into an error status anymore.
func (s *Server) handleProxyAudio(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	logger := log.WithComponentFromContext(r.Context(), "api")

	stream, err := s.pipeline.Proxy(r.Context(), url)
	metrics.IncRequest("proxy", err)
	if err != nil {
		writePipelineError(w, r, err, 0)
		return
	}
	defer stream.Body.Close()

	logger.Info().
		Str("event", "proxy.started").
		Str("title", stream.Title).
		Str("format", stream.Ext).
		Msg("proxying audio stream")

	w.Header().Set("Content-Type", stream.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", stream.Title+"."+stream.Ext))
	w.Header().Set("Accept-Ranges", "bytes")

	written := stream.Relay(r.Context(), w)
	logger.Info().
		Str("event", "proxy.finished").
		Int64("bytes", written).
		Msg("proxy stream finished")
}

// maxDuration parses the optional max_duration query parameter, falling back
// to the configured default. A malformed or non-positive value is a 400.
func (s *Server) maxDuration(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("max_duration")
	if raw == "" {
		return int(s.cfg.MaxDuration.Seconds()), true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		writeDetail(w, http.StatusBadRequest, "max_duration must be a positive integer")
		return 0, false
	}
	return v, true
}
