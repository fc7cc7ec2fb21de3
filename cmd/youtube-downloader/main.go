package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/download"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/platform"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/server"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/ytdlp"
)

func main() {
	// .env is optional; the environment wins either way.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := platform.EnsureDir(cfg.ScratchDir); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ScratchDir).Msg("scratch directory unavailable")
	}

	invoker := ytdlp.NewInvoker(cfg, log)
	progress := download.NewProgressStream(cfg, log)

	srv := server.New(cfg, log, invoker, progress)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
