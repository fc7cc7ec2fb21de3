package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/model"
)

// MetadataFetcher produces the reduced metadata projection for a URL.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, url string) (*model.VideoInfo, error)
}

// ProgressSource produces the event channel for a progress invocation.
type ProgressSource interface {
	Events(ctx context.Context, req model.DownloadRequest) <-chan model.ProgressEvent
}

// Server hosts the API endpoints and the static front-end.
type Server struct {
	cfg      config.Config
	log      zerolog.Logger
	fetcher  MetadataFetcher
	progress ProgressSource
	engine   *gin.Engine
	srv      *http.Server
}

// New wires the routes and returns a server ready to Start.
func New(cfg config.Config, log zerolog.Logger, fetcher MetadataFetcher, progress ProgressSource) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		cfg:      cfg,
		log:      log,
		fetcher:  fetcher,
		progress: progress,
		engine:   engine,
		srv:      &http.Server{Addr: cfg.Addr(), Handler: engine},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.POST("/info", s.handleInfo)
	s.engine.GET("/progress", s.handleProgress)
	s.engine.GET("/download", s.handleDownload)

	// Everything else falls through to the static front-end; the file
	// server resolves "/" to index.html on its own.
	s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.cfg.StaticDir))))
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.cfg.Addr()).Str("mode", string(s.cfg.Mode)).Msg("server listening")
	return s.srv.ListenAndServe()
}

// Stop shuts the listener down, letting in-flight requests drain until ctx
// expires.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
