package ytdlp

import (
	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
)

// StdoutTarget is the output destination meaning "stream to stdout".
const StdoutTarget = "-"

// MetadataArgs builds the argument list for a metadata-only invocation: one
// JSON document for the given URL, playlist expansion disabled.
func MetadataArgs(cfg config.Config, url string) []string {
	args := []string{"-j", "--no-playlist"}
	args = append(args, stabilityFlags(cfg)...)
	return append(args, url)
}

// DownloadArgs builds the argument list for a download invocation. output is
// either StdoutTarget or a concrete file path in the scratch directory.
func DownloadArgs(cfg config.Config, selector, output, url string) []string {
	args := []string{
		"-f", selector,
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--newline",
		"-o", output,
	}
	args = append(args, stabilityFlags(cfg)...)
	return append(args, url)
}

// stabilityFlags renders the optional environment-tuning flags. Each one
// exists because some extraction environments need it; all default to off.
func stabilityFlags(cfg config.Config) []string {
	var args []string
	if cfg.ForceIPv4 {
		args = append(args, "--force-ipv4")
	}
	if cfg.NoCheckCerts {
		args = append(args, "--no-check-certificates")
	}
	if cfg.CookieFile != "" {
		args = append(args, "--cookies", cfg.CookieFile)
	}
	if cfg.ExtractorClient != "" {
		args = append(args, "--extractor-args", "youtube:player_client="+cfg.ExtractorClient)
	}
	return args
}
