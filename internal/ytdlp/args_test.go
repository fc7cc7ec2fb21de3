package ytdlp

import (
	"reflect"
	"testing"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
)

const testURL = "https://www.youtube.com/watch?v=abc123"

func TestMetadataArgs(t *testing.T) {
	got := MetadataArgs(config.Default(), testURL)
	expected := []string{"-j", "--no-playlist", testURL}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("MetadataArgs = %v, expected %v", got, expected)
	}
}

func TestMetadataArgs_StabilityFlags(t *testing.T) {
	cfg := config.Default()
	cfg.ForceIPv4 = true
	cfg.NoCheckCerts = true
	cfg.CookieFile = "/etc/cookies.txt"
	cfg.ExtractorClient = "android"

	got := MetadataArgs(cfg, testURL)
	expected := []string{
		"-j", "--no-playlist",
		"--force-ipv4",
		"--no-check-certificates",
		"--cookies", "/etc/cookies.txt",
		"--extractor-args", "youtube:player_client=android",
		testURL,
	}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("MetadataArgs = %v, expected %v", got, expected)
	}
}

func TestDownloadArgs(t *testing.T) {
	got := DownloadArgs(config.Default(), "137+bestaudio/best", StdoutTarget, testURL)
	expected := []string{
		"-f", "137+bestaudio/best",
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--newline",
		"-o", "-",
		testURL,
	}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("DownloadArgs = %v, expected %v", got, expected)
	}
}

func TestDownloadArgs_FilePath(t *testing.T) {
	got := DownloadArgs(config.Default(), "best", "/tmp/scratch/170-abc.mp4", testURL)

	var output string
	for i, a := range got {
		if a == "-o" && i+1 < len(got) {
			output = got[i+1]
		}
	}
	if output != "/tmp/scratch/170-abc.mp4" {
		t.Errorf("DownloadArgs output destination = %q, expected the staged path", output)
	}
}
