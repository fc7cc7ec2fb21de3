package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/model"
)

// ExcerptLimit caps the raw-output excerpt attached to malformed-output
// errors so error responses stay bounded.
const ExcerptLimit = 800

// UnknownLabel replaces missing numeric fields in the UI projection.
const UnknownLabel = "Unknown"

// Invoker runs the external tool in metadata-only mode and projects its
// JSON document down to the UI-facing model.
type Invoker struct {
	cfg config.Config
	log zerolog.Logger
}

// NewInvoker creates a metadata invoker for the configured tool.
func NewInvoker(cfg config.Config, log zerolog.Logger) *Invoker {
	return &Invoker{cfg: cfg, log: log}
}

// rawInfo matches the subset of the tool's metadata document we keep.
// Everything else is dropped during projection.
type rawInfo struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Uploader   string            `json:"uploader"`
	Duration   float64           `json:"duration"`
	ViewCount  int64             `json:"view_count"`
	Thumbnails []model.Thumbnail `json:"thumbnails"`
	Formats    []rawFormat       `json:"formats"`
}

type rawFormat struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize"`
	TBR        float64 `json:"tbr"`
	FormatNote string  `json:"format_note"`
	Protocol   string  `json:"protocol"`
	Format     string  `json:"format"`
}

// FetchMetadata asks the tool for the video's metadata document and returns
// the reduced projection. The full stdout/stderr streams are accumulated in
// memory; metadata payloads are small and have a natural termination point.
func (inv *Invoker) FetchMetadata(ctx context.Context, url string) (*model.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, inv.cfg.BinPath, MetadataArgs(inv.cfg, url)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		details := strings.TrimSpace(stderr.String())
		if details == "" {
			details = strings.TrimSpace(stdout.String())
		}
		if details == "" {
			details = err.Error()
		}
		inv.log.Error().Str("url", url).Str("details", details).Msg("metadata extraction failed")
		return nil, &ExtractionError{Details: details}
	}

	var raw rawInfo
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil || raw.ID == "" {
		return nil, &MalformedOutputError{Excerpt: excerpt(stdout.Bytes())}
	}

	info := &model.VideoInfo{
		ID:         raw.ID,
		Title:      raw.Title,
		Uploader:   raw.Uploader,
		Duration:   int64(raw.Duration),
		ViewCount:  raw.ViewCount,
		Thumbnails: raw.Thumbnails,
		Formats:    make([]model.Format, 0, len(raw.Formats)),
	}
	for _, f := range raw.Formats {
		info.Formats = append(info.Formats, projectFormat(f))
	}

	inv.log.Debug().Str("id", info.ID).Int("formats", len(info.Formats)).Msg("metadata fetched")
	return info, nil
}

// projectFormat maps one tool format entry onto the UI projection. Ordering
// is preserved; formats are not re-sorted.
func projectFormat(f rawFormat) model.Format {
	return model.Format{
		FormatID:   f.FormatID,
		Ext:        f.Ext,
		Resolution: resolutionLabel(f),
		FPS:        fpsLabel(f.FPS),
		VCodec:     f.VCodec,
		ACodec:     f.ACodec,
		Filesize:   sizeLabel(f.Filesize),
		Bitrate:    bitrateLabel(f.TBR),
		Note:       f.FormatNote,
		Protocol:   f.Protocol,
		Label:      f.Format,
	}
}

func resolutionLabel(f rawFormat) string {
	if f.Resolution != "" {
		return f.Resolution
	}
	if f.Width > 0 || f.Height > 0 {
		return fmt.Sprintf("%dx%d", f.Width, f.Height)
	}
	return ""
}

func fpsLabel(fps float64) string {
	if fps <= 0 {
		return ""
	}
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

// sizeLabel converts a byte count to a rounded megabyte label at two
// decimal places, or the Unknown label when the tool reported no size.
func sizeLabel(bytes int64) string {
	if bytes <= 0 {
		return UnknownLabel
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

func bitrateLabel(tbr float64) string {
	if tbr <= 0 {
		return ""
	}
	return strconv.FormatFloat(tbr, 'f', -1, 64) + "k"
}

func excerpt(out []byte) string {
	if len(out) > ExcerptLimit {
		out = out[:ExcerptLimit]
	}
	return string(out)
}
