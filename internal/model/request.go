package model

// DownloadRequest carries the inputs for one download or progress
// invocation. Selector is a resolved yt-dlp format selector expression;
// ClientAddr is the requesting peer's network origin, kept for logging only.
type DownloadRequest struct {
	URL        string
	Selector   string
	ClientAddr string
}
