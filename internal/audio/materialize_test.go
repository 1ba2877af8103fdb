// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/ytaudio/internal/extract"
)

func writeFile(path string) error {
	return os.WriteFile(path, []byte("audio-bytes"), 0o600)
}

func TestExtractProducesFileArtifact(t *testing.T) {
	ex := &fakeExtractor{
		info: extract.Info{ID: "abc123", Title: "My Song", Duration: 100},
		onDownload: func(tpl string) error {
			return writeArtifact(tpl, "mp3")
		},
	}
	p := newTestPipeline(t, ex, true)

	result, err := p.Extract(context.Background(), validURL, 600)
	require.NoError(t, err)
	require.NotNil(t, result.File)
	assert.Nil(t, result.Stream)

	assert.True(t, strings.HasPrefix(result.File.Name, "My_Song_"), "got %q", result.File.Name)
	assert.True(t, strings.HasSuffix(result.File.Name, ".mp3"))
	assert.Equal(t, "audio/mpeg", result.File.ContentType)
	assert.FileExists(t, result.File.Path)
	assert.Equal(t, 1, ex.downloadCalls)
}

func TestExtractWithoutTranscoderKeepsNativeFormat(t *testing.T) {
	ex := &fakeExtractor{
		info: extract.Info{ID: "abc123", Title: "Native", Duration: 100},
		onDownload: func(tpl string) error {
			return writeArtifact(tpl, "m4a")
		},
	}
	p := newTestPipeline(t, ex, false)

	result, err := p.Extract(context.Background(), validURL, 600)
	require.NoError(t, err)
	require.NotNil(t, result.File)
	assert.True(t, strings.HasSuffix(result.File.Name, ".m4a"))
	assert.Equal(t, "audio/mp4", result.File.ContentType)
}

func TestExtractUnsanitizableTitleKeepsGeneratedName(t *testing.T) {
	ex := &fakeExtractor{
		info: extract.Info{ID: "abc123", Title: "???", Duration: 100},
		onDownload: func(tpl string) error {
			return writeArtifact(tpl, "mp3")
		},
	}
	p := newTestPipeline(t, ex, true)

	result, err := p.Extract(context.Background(), validURL, 600)
	require.NoError(t, err)
	require.NotNil(t, result.File)
	assert.True(t, strings.HasPrefix(result.File.Name, "audio_"), "got %q", result.File.Name)
}

func TestExtractFallsBackToStreamDescriptor(t *testing.T) {
	ex := &fakeExtractor{
		info: extract.Info{
			ID:        "abc123",
			Title:     "Fallback",
			Duration:  100,
			Thumbnail: "th",
			Formats: []extract.Format{
				{URL: "https://cdn/a", Ext: "m4a", HasAudio: true, Bitrate: 128},
			},
		},
		downloadErr: errors.New("postprocessing failed"),
	}
	p := newTestPipeline(t, ex, true)

	result, err := p.Extract(context.Background(), validURL, 600)
	require.NoError(t, err)
	require.NotNil(t, result.Stream)
	assert.Nil(t, result.File)

	assert.Equal(t, "Fallback", result.Stream.Title)
	assert.Equal(t, "https://cdn/a", result.Stream.StreamURL)
	assert.Equal(t, "stream", result.Stream.Kind)
	assert.Equal(t, "m4a", result.Stream.Format)
}

func TestExtractRateLimitedDownloadStaysDistinguishable(t *testing.T) {
	ex := &fakeExtractor{
		info:        extract.Info{ID: "abc123", Title: "Throttled", Duration: 100},
		downloadErr: fmt.Errorf("download: %w: bot detection", extract.ErrRateLimited),
	}
	p := newTestPipeline(t, ex, true)

	_, err := p.Extract(context.Background(), validURL, 600)
	assert.ErrorIs(t, err, extract.ErrRateLimited)
	assert.NotErrorIs(t, err, ErrExtractionFailed)
}

func TestMaterializeFallbackRateLimitedPassesThrough(t *testing.T) {
	ex := &fakeExtractor{
		metadataErr: extract.ErrRateLimited,
		downloadErr: errors.New("download failed"),
	}
	p := newTestPipeline(t, ex, true)

	_, err := p.materialize(context.Background(), validURL)
	assert.ErrorIs(t, err, extract.ErrRateLimited)
	assert.NotErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractHardFailureWhenFallbackHasNoAudio(t *testing.T) {
	ex := &fakeExtractor{
		info:        extract.Info{ID: "abc123", Title: "Broken", Duration: 100},
		downloadErr: errors.New("download failed"),
	}
	p := newTestPipeline(t, ex, true)

	_, err := p.Extract(context.Background(), validURL, 600)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractArtifactStaysInWorkDir(t *testing.T) {
	workDir := t.TempDir()
	ex := &fakeExtractor{
		info: extract.Info{ID: "abc123", Title: "Scoped", Duration: 100},
		onDownload: func(tpl string) error {
			return writeArtifact(tpl, "mp3")
		},
	}
	p := New(ex, fakeTranscoder{available: true}, Config{WorkDir: workDir})

	result, err := p.Extract(context.Background(), validURL, 600)
	require.NoError(t, err)
	require.NotNil(t, result.File)
	assert.Equal(t, workDir, filepath.Dir(result.File.Path))
}
