package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/download"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/model"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/platform"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/ytdlp"
)

type infoRequest struct {
	URL string `json:"url"`
}

// handleInfo fetches the metadata projection for a URL. The URL arrives in
// a JSON body; short-form links are normalized before the tool sees them.
func (s *Server) handleInfo(c *gin.Context) {
	var req infoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing URL"})
		return
	}

	url, err := platform.NormalizeURL(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing URL"})
		return
	}

	info, err := s.fetcher.FetchMetadata(c.Request.Context(), url)
	if err != nil {
		s.renderMetadataError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) renderMetadataError(c *gin.Context, err error) {
	var malErr *ytdlp.MalformedOutputError
	var exErr *ytdlp.ExtractionError
	switch {
	case errors.As(err, &malErr):
		s.log.Error().Str("excerpt", malErr.Excerpt).Msg("unparseable tool output")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to parse yt-dlp output",
			"raw":   malErr.Excerpt,
		})
	case errors.As(err, &exErr):
		s.log.Error().Str("details", exErr.Details).Msg("metadata extraction failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "yt-dlp error",
			"details": exErr.Details,
		})
	default:
		s.log.Error().Err(err).Msg("metadata fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "yt-dlp error",
			"details": err.Error(),
		})
	}
}

// handleProgress runs a watch-only download invocation and relays its
// progress frames as server-sent events. The stream always closes with one
// terminal frame carrying the exit code; the client going away kills the
// invocation through the request context.
func (s *Server) handleProgress(c *gin.Context) {
	req, ok := s.downloadRequest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	for ev := range s.progress.Events(c.Request.Context(), req) {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
	}
}

// handleDownload runs a transfer session tied to the request context and
// delivers the muxed result as an attachment, either piped straight from
// the tool's stdout or staged through the scratch directory.
func (s *Server) handleDownload(c *gin.Context) {
	req, ok := s.downloadRequest(c)
	if !ok {
		return
	}

	sess := download.NewSession(s.cfg, s.log)
	defer sess.Close()

	if s.cfg.Mode == config.ModeStage {
		s.sendStaged(c, sess, req)
		return
	}
	s.sendStreamed(c, sess, req)
}

// downloadRequest validates and normalizes the url/format query parameters
// shared by /progress and /download. On a missing URL it writes the 400 and
// reports false.
func (s *Server) downloadRequest(c *gin.Context) (model.DownloadRequest, bool) {
	url, err := platform.NormalizeURL(c.Query("url"))
	if err != nil {
		c.String(http.StatusBadRequest, "Missing URL")
		return model.DownloadRequest{}, false
	}
	return model.DownloadRequest{
		URL:        url,
		Selector:   ytdlp.ResolveFormat(c.Query("format")),
		ClientAddr: c.ClientIP(),
	}, true
}

func (s *Server) sendStreamed(c *gin.Context, sess *download.Session, req model.DownloadRequest) {
	// Attachment headers go out before the first chunk; once bytes have
	// been committed the status line is already on the wire.
	name := platform.SanitizeFilename(strconv.FormatInt(time.Now().UnixMilli(), 10)) + ".mp4"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "video/mp4")

	err := sess.Stream(c.Request.Context(), req, c.Writer)
	if err == nil {
		return
	}
	if c.Request.Context().Err() != nil {
		// Client is gone; there is nobody to report to.
		return
	}

	var trErr *ytdlp.TransferError
	if errors.As(err, &trErr) && !trErr.Started {
		c.Writer.Header().Del("Content-Disposition")
		c.Writer.Header().Del("Content-Type")
		c.String(http.StatusInternalServerError, "Download failed")
		return
	}

	// Bytes already reached the client; the truncated body is the only
	// possible failure signal now.
	s.log.Error().Err(err).Str("url", req.URL).Msg("download failed mid-transfer")
	c.Abort()
}

func (s *Server) sendStaged(c *gin.Context, sess *download.Session, req model.DownloadRequest) {
	path, err := sess.Stage(c.Request.Context(), req)
	if err != nil {
		if c.Request.Context().Err() != nil {
			return
		}
		s.log.Error().Err(err).Str("url", req.URL).Msg("staged download failed")
		c.String(http.StatusInternalServerError, "Download failed")
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
