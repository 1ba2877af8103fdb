// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/ytaudio/internal/extract"
)

const validURL = "https://www.youtube.com/watch?v=abc123"

// fakeExtractor counts calls so tests can assert which upstream operations a
// code path performs.
type fakeExtractor struct {
	mu            sync.Mutex
	probeCalls    int
	metadataCalls int
	formatsCalls  int
	downloadCalls int

	probeErr    error
	info        extract.Info
	metadataErr error
	formats     []extract.Format
	formatsErr  error
	downloadErr error
	onDownload  func(outputTemplate string) error
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	return f.probeErr
}

func (f *fakeExtractor) Metadata(ctx context.Context, url string) (extract.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadataCalls++
	return f.info, f.metadataErr
}

func (f *fakeExtractor) Formats(ctx context.Context, url string) ([]extract.Format, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formatsCalls++
	return f.formats, f.formatsErr
}

func (f *fakeExtractor) Download(ctx context.Context, url, outputTemplate string, transcodeToMP3 bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadCalls++
	if f.onDownload != nil {
		return f.onDownload(outputTemplate)
	}
	return f.downloadErr
}

func (f *fakeExtractor) upstreamCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probeCalls + f.metadataCalls + f.formatsCalls + f.downloadCalls
}

type fakeTranscoder struct{ available bool }

func (f fakeTranscoder) Available() bool { return f.available }

func newTestPipeline(t *testing.T, ex *fakeExtractor, transcode bool) *Pipeline {
	t.Helper()
	return New(ex, fakeTranscoder{available: transcode}, Config{WorkDir: t.TempDir()})
}

func TestValidateAcceptsYouTubeShapes(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch?v=abc123",
		"http://youtube.com/watch?v=abc123",
		"youtube.com/watch?v=abc123",
		"https://youtu.be/abc123",
		"https://www.youtu.be/abc123",
		"youtube.com/shorts/abc123",
	}
	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			p := newTestPipeline(t, &fakeExtractor{}, true)
			assert.NoError(t, p.Validate(context.Background(), url))
		})
	}
}

func TestValidateEmptyURL(t *testing.T) {
	ex := &fakeExtractor{}
	p := newTestPipeline(t, ex, true)

	for _, url := range []string{"", "   ", "\t\n"} {
		err := p.Validate(context.Background(), url)
		assert.ErrorIs(t, err, ErrEmptyURL)
	}
	assert.Equal(t, 0, ex.upstreamCalls(), "empty input must never reach upstream")
}

func TestValidatePatternMismatchShortCircuits(t *testing.T) {
	ex := &fakeExtractor{}
	p := newTestPipeline(t, ex, true)

	urls := []string{
		"https://vimeo.com/12345",
		"https://example.com/watch?v=abc",
		"https://youtube.com",
		"not a url at all",
	}
	for _, url := range urls {
		err := p.Validate(context.Background(), url)
		assert.ErrorIs(t, err, ErrInvalidURL, url)
	}
	assert.Equal(t, 0, ex.upstreamCalls(), "pattern rejection must never reach upstream")
}

func TestValidateProbeFailure(t *testing.T) {
	ex := &fakeExtractor{probeErr: extract.ErrUnavailable}
	p := newTestPipeline(t, ex, true)

	err := p.Validate(context.Background(), validURL)
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, 1, ex.probeCalls)
}

func TestValidateProbeRateLimitedPassesThrough(t *testing.T) {
	ex := &fakeExtractor{probeErr: extract.ErrRateLimited}
	p := newTestPipeline(t, ex, true)

	err := p.Validate(context.Background(), validURL)
	assert.ErrorIs(t, err, extract.ErrRateLimited)
	assert.NotErrorIs(t, err, ErrInvalidURL)
}

func TestInfoMapsMetadata(t *testing.T) {
	ex := &fakeExtractor{info: extract.Info{
		ID:        "abc123",
		Title:     "T",
		Uploader:  "U",
		Duration:  42,
		Thumbnail: "th",
	}}
	p := newTestPipeline(t, ex, true)

	info, err := p.Info(context.Background(), validURL)
	require.NoError(t, err)
	assert.Equal(t, VideoInfo{
		Title:           "T",
		Author:          "U",
		DurationSeconds: 42,
		ThumbnailURL:    "th",
		VideoID:         "abc123",
		SourceURL:       validURL,
	}, info)
}

func TestInfoAppliesDisplayDefaults(t *testing.T) {
	ex := &fakeExtractor{info: extract.Info{ID: "abc123", Duration: 10}}
	p := newTestPipeline(t, ex, true)

	info, err := p.Info(context.Background(), validURL)
	require.NoError(t, err)
	assert.Equal(t, "Unknown title", info.Title)
	assert.Equal(t, "Unknown uploader", info.Author)
}

func TestInfoFetchFailure(t *testing.T) {
	ex := &fakeExtractor{metadataErr: errors.New("boom")}
	p := newTestPipeline(t, ex, true)

	_, err := p.Info(context.Background(), validURL)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestInfoFetchRateLimitedPassesThrough(t *testing.T) {
	ex := &fakeExtractor{metadataErr: extract.ErrRateLimited}
	p := newTestPipeline(t, ex, true)

	_, err := p.Info(context.Background(), validURL)
	assert.ErrorIs(t, err, extract.ErrRateLimited)
	assert.NotErrorIs(t, err, ErrFetchFailed)
}

func TestExtractDurationGate(t *testing.T) {
	ex := &fakeExtractor{info: extract.Info{ID: "abc123", Title: "Long", Duration: 601}}
	p := newTestPipeline(t, ex, true)

	_, err := p.Extract(context.Background(), validURL, 600)
	assert.ErrorIs(t, err, ErrDurationExceeded)
	assert.Contains(t, err.Error(), "601s > 600s")
	assert.Equal(t, 0, ex.downloadCalls, "gated videos must never be materialized")
}

func TestExtractAtGateBoundary(t *testing.T) {
	ex := &fakeExtractor{
		info: extract.Info{ID: "abc123", Title: "Exact", Duration: 600},
		onDownload: func(tpl string) error {
			return writeArtifact(tpl, "mp3")
		},
	}
	p := newTestPipeline(t, ex, true)

	result, err := p.Extract(context.Background(), validURL, 600)
	require.NoError(t, err, "duration equal to the maximum is allowed")
	require.NotNil(t, result.File)
}

func TestStreamURLBuildsDescriptor(t *testing.T) {
	ex := &fakeExtractor{
		info: extract.Info{ID: "abc123", Title: "T", Uploader: "U", Duration: 42, Thumbnail: "th"},
		formats: []extract.Format{
			{URL: "https://cdn/a", Ext: "m4a", HasAudio: true, Bitrate: 128},
		},
	}
	p := newTestPipeline(t, ex, true)

	desc, err := p.StreamURL(context.Background(), validURL, 600)
	require.NoError(t, err)
	assert.Equal(t, "T", desc.Title)
	assert.Equal(t, "https://cdn/a", desc.StreamURL)
	assert.Equal(t, "th", desc.Thumbnail)
	assert.Equal(t, 42, desc.DurationSeconds)
	assert.Equal(t, "m4a", desc.Format)
	assert.Equal(t, validURL, desc.SourceURL)
	assert.Equal(t, "stream", desc.Kind)
	assert.Contains(t, desc.Note, "temporary streaming URL")
}

func TestStreamURLDurationGate(t *testing.T) {
	ex := &fakeExtractor{info: extract.Info{ID: "abc123", Duration: 700}}
	p := newTestPipeline(t, ex, true)

	_, err := p.StreamURL(context.Background(), validURL, 600)
	assert.ErrorIs(t, err, ErrDurationExceeded)
	assert.Equal(t, 0, ex.formatsCalls, "gated videos must not resolve formats")
}

// writeArtifact simulates the extractor writing its output file for the given
// template, substituting ext for the %(ext)s placeholder.
func writeArtifact(outputTemplate, ext string) error {
	path := strings.Replace(outputTemplate, "%(ext)s", ext, 1)
	return writeFile(path)
}
