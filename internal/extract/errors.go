// SPDX-License-Identifier: MIT

package extract

import (
	"errors"
	"strings"
)

var (
	// ErrRateLimited signals that the upstream platform rejected the request
	// with bot-detection or throttling. Surfaced to clients as 429.
	ErrRateLimited = errors.New("upstream: rate limited or bot detection triggered")

	// ErrUnavailable covers every other resolution failure: private, deleted,
	// region-blocked or malformed videos, and transport errors.
	ErrUnavailable = errors.New("upstream: video not resolvable")
)

// Bot-detection signatures emitted by yt-dlp on stderr. The classification
// happens once here so callers never string-match on error text.
var rateLimitSignatures = []string{
	"sign in to confirm you're not a bot",
	"http error 429",
	"too many requests",
}

// classify maps raw yt-dlp stderr output to a structured error condition.
func classify(stderr string) error {
	s := strings.ToLower(stderr)
	for _, sig := range rateLimitSignatures {
		if strings.Contains(s, sig) {
			return ErrRateLimited
		}
	}
	return ErrUnavailable
}
