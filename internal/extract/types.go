// SPDX-License-Identifier: MIT

package extract

// Info is the normalized metadata record produced by one extraction call.
// Fields missing upstream carry their zero value; callers apply display
// defaults.
type Info struct {
	ID        string
	Title     string
	Uploader  string
	Duration  int
	Thumbnail string
	Formats   []Format
}

// Format describes one media variant from the upstream format list. URL is
// ephemeral and expires server-side within minutes; it must never be cached
// beyond the current request.
type Format struct {
	URL      string
	Ext      string
	HasAudio bool
	HasVideo bool
	Bitrate  float64
}

// rawInfo mirrors the yt-dlp -J output fields this service consumes.
type rawInfo struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Uploader  string      `json:"uploader"`
	Duration  float64     `json:"duration"`
	Thumbnail string      `json:"thumbnail"`
	Formats   []rawFormat `json:"formats"`
}

type rawFormat struct {
	FormatID string  `json:"format_id"`
	URL      string  `json:"url"`
	Ext      string  `json:"ext"`
	ACodec   string  `json:"acodec"`
	VCodec   string  `json:"vcodec"`
	TBR      float64 `json:"tbr"`
}

func (r rawInfo) toInfo() Info {
	info := Info{
		ID:        r.ID,
		Title:     r.Title,
		Uploader:  r.Uploader,
		Duration:  int(r.Duration),
		Thumbnail: r.Thumbnail,
	}
	for _, f := range r.Formats {
		info.Formats = append(info.Formats, Format{
			URL:      f.URL,
			Ext:      f.Ext,
			HasAudio: f.ACodec != "" && f.ACodec != "none",
			HasVideo: f.VCodec != "" && f.VCodec != "none",
			Bitrate:  f.TBR,
		})
	}
	return info
}
