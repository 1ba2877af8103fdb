// SPDX-License-Identifier: MIT

package audio

import "errors"

var (
	// ErrEmptyURL rejects empty or whitespace-only input before any other
	// processing.
	ErrEmptyURL = errors.New("youtube url cannot be empty")

	// ErrInvalidURL covers input failing the URL pattern as well as videos
	// the upstream probe could not resolve. The two are indistinguishable to
	// callers; both are input errors from the API's point of view.
	ErrInvalidURL = errors.New("invalid youtube url")

	// ErrFetchFailed signals that video metadata could not be retrieved for
	// an otherwise valid URL.
	ErrFetchFailed = errors.New("failed to fetch video information")

	// ErrDurationExceeded is the policy gate: the video is longer than the
	// per-request maximum and is never materialized.
	ErrDurationExceeded = errors.New("video exceeds maximum allowed duration")

	// ErrNoAudioFormat signals that the upstream format list carried no
	// format with an audio track.
	ErrNoAudioFormat = errors.New("no suitable audio format found")

	// ErrExtractionFailed signals that materialization produced no artifact
	// and the stream-descriptor fallback failed as well.
	ErrExtractionFailed = errors.New("failed to extract audio")
)
