package platform

import (
	"regexp"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/model"
)

// ProgressClassifier extracts a progress event from one line of the external
// tool's diagnostic output. Implementations return false for lines that
// carry no progress information; such lines are ignored by the stream.
//
// The matching pattern lives behind this interface so it can be swapped if
// the tool's diagnostic format changes, without touching the session logic.
type ProgressClassifier interface {
	Classify(line string) (model.ProgressEvent, bool)
}

// yt-dlp download progress, e.g.
//   [download]  43.2% of 10.00MiB at 1.20MiB/s ETA 00:05
var downloadProgressRe = regexp.MustCompile(`(\d+\.\d+)% of .*? at\s+(\S+)\s+ETA\s+(\S+)`)

// DownloadLineClassifier matches yt-dlp's human-readable download progress
// lines: a percentage, a transfer rate, and an ETA.
type DownloadLineClassifier struct{}

// Classify implements ProgressClassifier.
func (DownloadLineClassifier) Classify(line string) (model.ProgressEvent, bool) {
	m := downloadProgressRe.FindStringSubmatch(line)
	if m == nil {
		return model.ProgressEvent{}, false
	}
	return model.ProgressEvent{Percent: m[1], Speed: m[2], ETA: m[3]}, true
}
