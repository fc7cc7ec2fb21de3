package download

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/model"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/ytdlp"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// fakeTool writes an executable shell script standing in for the external
// binary and returns a config pointing at it.
func fakeTool(t *testing.T, script string) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("writing fake tool: %v", err)
	}
	cfg := config.Default()
	cfg.BinPath = path
	cfg.ScratchDir = t.TempDir()
	return cfg
}

// stageScript writes its payload to the path given after the -o flag, with
// an optional extension swap to simulate the tool picking its own container.
const stageScript = `out=""
prev=""
for a in "$@"; do
	if [ "$prev" = "-o" ]; then out="$a"; fi
	prev="$a"
done
`

func testRequest() model.DownloadRequest {
	return model.DownloadRequest{URL: testURL, Selector: "best", ClientAddr: "127.0.0.1"}
}

func scratchEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading scratch dir: %v", err)
	}
	return entries
}

func TestStream(t *testing.T) {
	cfg := fakeTool(t, `printf 'muxed video bytes'`)
	sess := NewSession(cfg, zerolog.Nop())
	defer sess.Close()

	var sink bytes.Buffer
	if err := sess.Stream(context.Background(), testRequest(), &sink); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	if sink.String() != "muxed video bytes" {
		t.Errorf("sink = %q, expected the tool's stdout verbatim", sink.String())
	}
	if got := sess.BytesWritten(); got != int64(len("muxed video bytes")) {
		t.Errorf("BytesWritten = %d, expected %d", got, len("muxed video bytes"))
	}
	if sess.State() != model.SessionCompleted {
		t.Errorf("state = %v, expected Completed", sess.State())
	}
}

func TestStream_FailureBeforeOutput(t *testing.T) {
	cfg := fakeTool(t, `echo "ERROR: no formats" >&2; exit 1`)
	sess := NewSession(cfg, zerolog.Nop())
	defer sess.Close()

	var sink bytes.Buffer
	err := sess.Stream(context.Background(), testRequest(), &sink)

	var trErr *ytdlp.TransferError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransferError, got %T: %v", err, err)
	}
	if trErr.Started {
		t.Error("Started = true, but no bytes reached the sink")
	}
	if trErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, expected 1", trErr.ExitCode)
	}
	if !strings.Contains(trErr.Stderr, "ERROR: no formats") {
		t.Errorf("Stderr = %q, expected the captured diagnostics", trErr.Stderr)
	}
	if sess.State() != model.SessionFailed {
		t.Errorf("state = %v, expected Failed", sess.State())
	}
}

func TestStream_FailureMidTransfer(t *testing.T) {
	cfg := fakeTool(t, `printf 'partial'; echo "ERROR: connection reset" >&2; exit 1`)
	sess := NewSession(cfg, zerolog.Nop())
	defer sess.Close()

	var sink bytes.Buffer
	err := sess.Stream(context.Background(), testRequest(), &sink)

	var trErr *ytdlp.TransferError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransferError, got %T: %v", err, err)
	}
	if !trErr.Started {
		t.Error("Started = false, but bytes had already reached the sink")
	}
	if sess.BytesWritten() != int64(len("partial")) {
		t.Errorf("BytesWritten = %d, expected %d", sess.BytesWritten(), len("partial"))
	}
}

func TestStream_Cancel(t *testing.T) {
	cfg := fakeTool(t, `sleep 30`)
	sess := NewSession(cfg, zerolog.Nop())
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	var sink bytes.Buffer
	err := sess.Stream(ctx, testRequest(), &sink)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancel took %v, the process was not killed promptly", elapsed)
	}
	if sess.State() != model.SessionCancelled {
		t.Errorf("state = %v, expected Cancelled", sess.State())
	}

	// Teardown after a cancelled stream must not panic on the dead process.
	sess.Close()
	sess.Close()
}

func TestStage(t *testing.T) {
	cfg := fakeTool(t, stageScript+`printf 'staged bytes' > "$out"`)
	sess := NewSession(cfg, zerolog.Nop())

	path, err := sess.Stage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading staged file: %v", err)
	}
	if string(data) != "staged bytes" {
		t.Errorf("staged content = %q", data)
	}
	if filepath.Ext(path) != ".mp4" {
		t.Errorf("staged path %q, expected the determined .mp4 name", path)
	}
	if sess.State() != model.SessionCompleted {
		t.Errorf("state = %v, expected Completed", sess.State())
	}

	sess.Close()
	if entries := scratchEntries(t, cfg.ScratchDir); len(entries) != 0 {
		t.Errorf("scratch dir still holds %d entries after Close", len(entries))
	}
}

func TestStage_ToolPicksOwnExtension(t *testing.T) {
	// The remux step may rename the output; lookup falls back to a prefix
	// scan over the scratch directory.
	cfg := fakeTool(t, stageScript+`printf 'webm bytes' > "${out%.mp4}.webm"`)
	sess := NewSession(cfg, zerolog.Nop())
	defer sess.Close()

	path, err := sess.Stage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if filepath.Ext(path) != ".webm" {
		t.Errorf("staged path %q, expected the tool's own extension", path)
	}
}

func TestStage_NoOutput(t *testing.T) {
	cfg := fakeTool(t, `exit 0`)
	sess := NewSession(cfg, zerolog.Nop())
	defer sess.Close()

	_, err := sess.Stage(context.Background(), testRequest())

	var missErr *ytdlp.ResourceMissingError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected ResourceMissingError, got %T: %v", err, err)
	}
	if sess.State() != model.SessionFailed {
		t.Errorf("state = %v, expected Failed", sess.State())
	}
}

func TestStage_ToolFailure(t *testing.T) {
	cfg := fakeTool(t, stageScript+`printf 'partial' > "$out.part"; echo "ERROR: throttled" >&2; exit 2`)
	sess := NewSession(cfg, zerolog.Nop())

	_, err := sess.Stage(context.Background(), testRequest())

	var trErr *ytdlp.TransferError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TransferError, got %T: %v", err, err)
	}
	if trErr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, expected 2", trErr.ExitCode)
	}
	if !strings.Contains(trErr.Stderr, "ERROR: throttled") {
		t.Errorf("Stderr = %q, expected the captured diagnostics", trErr.Stderr)
	}

	// Partial artifacts must not survive teardown.
	sess.Close()
	if entries := scratchEntries(t, cfg.ScratchDir); len(entries) != 0 {
		t.Errorf("scratch dir still holds %d entries after Close", len(entries))
	}
}

func TestStage_Cancel(t *testing.T) {
	cfg := fakeTool(t, stageScript+`printf 'partial' > "$out.part"; sleep 30`)
	sess := NewSession(cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := sess.Stage(ctx, testRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sess.State() != model.SessionCancelled {
		t.Errorf("state = %v, expected Cancelled", sess.State())
	}

	sess.Close()
	if entries := scratchEntries(t, cfg.ScratchDir); len(entries) != 0 {
		t.Errorf("scratch dir still holds %d entries after Close", len(entries))
	}
}

func TestTailBuffer(t *testing.T) {
	tail := newTailBuffer(8)
	for _, chunk := range []string{"aaaa", "bbbb", "cccc"} {
		if _, err := tail.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if got := tail.String(); got != "bbbbcccc" {
		t.Errorf("tail = %q, expected only the most recent bytes", got)
	}
}
