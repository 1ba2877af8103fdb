// SPDX-License-Identifier: MIT

package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawInfoToInfo(t *testing.T) {
	payload := `{
		"id": "abc123",
		"title": "Test Video",
		"uploader": "Test Channel",
		"duration": 212.4,
		"thumbnail": "https://example.com/thumb.jpg",
		"formats": [
			{"format_id": "140", "url": "https://cdn/a", "ext": "m4a", "acodec": "mp4a.40.2", "vcodec": "none", "tbr": 129.5},
			{"format_id": "137", "url": "https://cdn/v", "ext": "mp4", "acodec": "none", "vcodec": "avc1", "tbr": 4400},
			{"format_id": "18", "url": "https://cdn/av", "ext": "mp4", "acodec": "mp4a.40.2", "vcodec": "avc1", "tbr": 500},
			{"format_id": "sb0", "url": "https://cdn/sb", "ext": "mhtml", "acodec": "", "vcodec": ""}
		]
	}`

	var raw rawInfo
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	info := raw.toInfo()
	assert.Equal(t, "abc123", info.ID)
	assert.Equal(t, "Test Video", info.Title)
	assert.Equal(t, "Test Channel", info.Uploader)
	assert.Equal(t, 212, info.Duration)
	assert.Equal(t, "https://example.com/thumb.jpg", info.Thumbnail)

	require.Len(t, info.Formats, 4)
	assert.True(t, info.Formats[0].HasAudio)
	assert.False(t, info.Formats[0].HasVideo)
	assert.InDelta(t, 129.5, info.Formats[0].Bitrate, 0.001)

	assert.False(t, info.Formats[1].HasAudio)
	assert.True(t, info.Formats[1].HasVideo)

	assert.True(t, info.Formats[2].HasAudio)
	assert.True(t, info.Formats[2].HasVideo)

	// Empty codec strings mean no track, same as "none".
	assert.False(t, info.Formats[3].HasAudio)
	assert.False(t, info.Formats[3].HasVideo)
}

func TestNewDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, "yt-dlp", c.bin)
	assert.Greater(t, int64(c.probeTimeout), int64(0))
	assert.Greater(t, int64(c.downloadTimeout), int64(0))
}
