package model

// CodecNone is yt-dlp's sentinel for an absent track. Format selection and
// the client's merge prompt both branch on it.
const CodecNone = "none"

// VideoInfo is the reduced projection of yt-dlp's metadata document sent to
// the browser. JSON field names mirror the tool's own so the UI can render
// the format table the way `yt-dlp -F` prints it.
type VideoInfo struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Uploader   string      `json:"uploader"`
	Duration   int64       `json:"duration"`
	ViewCount  int64       `json:"view_count"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Formats    []Format    `json:"formats"`
}

// Thumbnail is one preview image offered by the source video.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Format describes one encoding variant offered by the source video.
// FormatID is opaque and tool-defined; size and bitrate are pre-rendered
// labels so the UI table never shows blank or NaN cells.
type Format struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	FPS        string `json:"fps"`
	VCodec     string `json:"vcodec"`
	ACodec     string `json:"acodec"`
	Filesize   string `json:"filesize"`
	Bitrate    string `json:"tbr"`
	Note       string `json:"format_note"`
	Protocol   string `json:"protocol"`
	Label      string `json:"format"`
}

// NeedsAudioMerge reports whether the format carries video but no audio
// track. The UI must then offer an explicit choice between "merge with best
// audio" and "video only" instead of picking one silently.
func (f Format) NeedsAudioMerge() bool {
	return f.VCodec != CodecNone && f.ACodec == CodecNone
}
