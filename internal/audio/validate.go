// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ManuGH/ytaudio/internal/extract"
	"github.com/ManuGH/ytaudio/internal/log"
)

// youtubePattern accepts an optional scheme, optional www., a youtube.com or
// youtu.be host (dot optional before "be") and any non-empty remainder.
var youtubePattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.?be)/.+$`)

// Validate rejects empty input and non-YouTube-shaped URLs without touching
// the network, then probes the extraction capability for the rest. An
// unreachable or region-blocked video is reported as invalid input; only
// upstream rate limiting is surfaced distinctly.
func (p *Pipeline) Validate(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrEmptyURL
	}
	logger := log.WithComponentFromContext(ctx, "validator")
	if !youtubePattern.MatchString(url) {
		logger.Warn().
			Str("event", "validate.pattern_mismatch").
			Str("url", url).
			Msg("url does not match youtube pattern")
		return ErrInvalidURL
	}
	if err := p.extractor.Probe(ctx, url); err != nil {
		if errors.Is(err, extract.ErrRateLimited) {
			return err
		}
		logger.Warn().
			Err(err).
			Str("event", "validate.probe_failed").
			Str("url", url).
			Msg("upstream probe failed")
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return nil
}
