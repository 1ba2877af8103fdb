// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ManuGH/ytaudio/internal/extract"
	"github.com/ManuGH/ytaudio/internal/log"
)

// selectBestAudio requests a fresh format list and picks the best audio
// format: audio-only variants first, any audio-carrying variant as fallback,
// ranked by bitrate descending. The sort is stable so ties keep original list
// order; first-seen wins.
func (p *Pipeline) selectBestAudio(ctx context.Context, url string) (extract.Format, error) {
	formats, err := p.extractor.Formats(ctx, url)
	if err != nil {
		if errors.Is(err, extract.ErrRateLimited) {
			return extract.Format{}, err
		}
		return extract.Format{}, fmt.Errorf("%w: %v", ErrNoAudioFormat, err)
	}
	return pickBestAudio(ctx, formats)
}

// pickBestAudio applies the selection rule to an already-fetched format list.
func pickBestAudio(ctx context.Context, formats []extract.Format) (extract.Format, error) {
	var candidates []extract.Format
	for _, f := range formats {
		if f.HasAudio && !f.HasVideo {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		logger := log.WithComponentFromContext(ctx, "selector")
		logger.Warn().
			Str("event", "select.no_audio_only").
			Msg("no audio-only formats, falling back to any format with audio")
		for _, f := range formats {
			if f.HasAudio {
				candidates = append(candidates, f)
			}
		}
	}
	if len(candidates) == 0 {
		return extract.Format{}, ErrNoAudioFormat
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Bitrate > candidates[j].Bitrate
	})
	return candidates[0], nil
}
