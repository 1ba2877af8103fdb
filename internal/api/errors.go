// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ManuGH/ytaudio/internal/audio"
	"github.com/ManuGH/ytaudio/internal/extract"
	"github.com/ManuGH/ytaudio/internal/log"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error payload in the {"detail": ...} shape.
func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

// writePipelineError classifies a pipeline failure into a status code and a
// user-safe message. Internal error detail never reaches the client.
func writePipelineError(w http.ResponseWriter, r *http.Request, err error, maxSeconds int) {
	switch {
	case errors.Is(err, audio.ErrEmptyURL):
		writeDetail(w, http.StatusBadRequest, "YouTube URL cannot be empty")
	case errors.Is(err, audio.ErrInvalidURL):
		writeDetail(w, http.StatusBadRequest, "Invalid YouTube URL")
	case errors.Is(err, audio.ErrDurationExceeded):
		writeDetail(w, http.StatusBadRequest,
			fmt.Sprintf("Video is too long. Maximum allowed duration is %d seconds.", maxSeconds))
	case errors.Is(err, audio.ErrFetchFailed):
		writeDetail(w, http.StatusNotFound, "Failed to fetch video information")
	case errors.Is(err, extract.ErrRateLimited):
		writeDetail(w, http.StatusTooManyRequests,
			"YouTube has detected too many requests. Please try again later or a different video.")
	case errors.Is(err, audio.ErrNoAudioFormat):
		writeDetail(w, http.StatusInternalServerError, "Failed to get streaming URL")
	case errors.Is(err, audio.ErrExtractionFailed):
		writeDetail(w, http.StatusInternalServerError, "Failed to extract audio")
	default:
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str("event", "api.unclassified_error").
			Str("path", r.URL.Path).
			Msg("unclassified pipeline error")
		writeDetail(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.")
	}
}
