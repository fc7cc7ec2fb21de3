package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// DownloadMode selects the output strategy for /download
type DownloadMode string

const (
	// ModeStream pipes the tool's stdout straight into the HTTP response
	ModeStream DownloadMode = "stream"

	// ModeStage lets the tool write a scratch file that is served after exit
	ModeStage DownloadMode = "stage"
)

// Environment keys
const (
	EnvPort            = "PORT"
	EnvBinPath         = "YTDLP_PATH"
	EnvScratchDir      = "SCRATCH_DIR"
	EnvStaticDir       = "STATIC_DIR"
	EnvCookieFile      = "COOKIE_FILE"
	EnvForceIPv4       = "FORCE_IPV4"
	EnvNoCheckCerts    = "NO_CHECK_CERTS"
	EnvExtractorClient = "EXTRACTOR_CLIENT"
	EnvDownloadMode    = "DOWNLOAD_MODE"
)

// Default values
const (
	DefaultPort       = 3000
	DefaultBinPath    = "yt-dlp"
	DefaultScratchDir = "downloads"
	DefaultStaticDir  = "static"
	DefaultMode       = ModeStream
)

var (
	ErrInvalidPort    = errors.New("port must be between 1 and 65535")
	ErrMissingBinPath = errors.New("external tool binary path must be set")
	ErrInvalidMode    = errors.New("download mode must be \"stream\" or \"stage\"")
)

// Config holds everything the components need to run the external tool:
// binary path, scratch directory, stability flags, and the HTTP listener
// settings. It is passed explicitly at construction so tests can substitute
// a fake tool invocation.
type Config struct {
	Port       int
	BinPath    string
	ScratchDir string
	StaticDir  string
	Mode       DownloadMode

	// Stability flags, applied to every tool invocation when set.
	CookieFile      string
	ForceIPv4       bool
	NoCheckCerts    bool
	ExtractorClient string
}

// Default returns a configuration with sensible defaults.
func Default() Config {
	return Config{
		Port:       DefaultPort,
		BinPath:    DefaultBinPath,
		ScratchDir: DefaultScratchDir,
		StaticDir:  DefaultStaticDir,
		Mode:       DefaultMode,
	}
}

// FromEnv builds a configuration from the process environment on top of the
// defaults. Unset variables keep their default; malformed numeric or boolean
// values surface as errors rather than being silently ignored.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvPort, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv(EnvBinPath); v != "" {
		cfg.BinPath = v
	}
	if v := os.Getenv(EnvScratchDir); v != "" {
		cfg.ScratchDir = v
	}
	if v := os.Getenv(EnvStaticDir); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv(EnvCookieFile); v != "" {
		cfg.CookieFile = v
	}
	if v := os.Getenv(EnvExtractorClient); v != "" {
		cfg.ExtractorClient = v
	}
	if v := os.Getenv(EnvDownloadMode); v != "" {
		cfg.Mode = DownloadMode(v)
	}

	var err error
	if cfg.ForceIPv4, err = envBool(EnvForceIPv4); err != nil {
		return cfg, err
	}
	if cfg.NoCheckCerts, err = envBool(EnvNoCheckCerts); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.BinPath == "" {
		return ErrMissingBinPath
	}
	if c.Mode != ModeStream && c.Mode != ModeStage {
		return ErrInvalidMode
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func envBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
