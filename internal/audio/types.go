// SPDX-License-Identifier: MIT

package audio

import "io"

// expiryNote is returned with every stream descriptor; the URL inside is
// issued by the upstream platform and expires without notice.
const expiryNote = "This is a temporary streaming URL that may expire. For long-term storage, download the audio."

// VideoInfo is the normalized per-request metadata record.
type VideoInfo struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	DurationSeconds int    `json:"length_seconds"`
	ThumbnailURL    string `json:"thumbnail_url"`
	VideoID         string `json:"youtube_id"`
	SourceURL       string `json:"youtube_url"`
}

// StreamDescriptor points the client at an ephemeral upstream URL instead of
// serving bytes directly. Output-only; never round-tripped.
type StreamDescriptor struct {
	Title           string `json:"title"`
	StreamURL       string `json:"stream_url"`
	Thumbnail       string `json:"thumbnail"`
	DurationSeconds int    `json:"duration"`
	Format          string `json:"format"`
	SourceURL       string `json:"youtube_url"`
	Kind            string `json:"type"`
	Note            string `json:"note"`
}

// FileArtifact is a materialized audio file on local storage, owned by the
// work directory's retention sweep after the response is sent.
type FileArtifact struct {
	Path        string
	Name        string
	ContentType string
}

// Materialized is the outcome of audio materialization. Exactly one of File
// or Stream is non-nil.
type Materialized struct {
	File   *FileArtifact
	Stream *StreamDescriptor
}

// Stream is an open byte stream proxied from a freshly resolved upstream
// format URL. The caller owns Body and must close it.
type Stream struct {
	Title       string
	Ext         string
	ContentType string
	Body        io.ReadCloser
}

// contentTypes maps produced file extensions to response content types.
var contentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"ogg":  "audio/ogg",
	"wav":  "audio/wav",
	"webm": "audio/webm",
}

// ContentTypeFor returns the content type for a produced audio extension,
// defaulting to application/octet-stream for unknown extensions.
func ContentTypeFor(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
