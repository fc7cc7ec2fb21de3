package download

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/model"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/platform"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/ytdlp"
)

// Session owns the live process and pipe state for one in-flight download:
// the external process handle, the output sink, and the cancellation wiring.
// Exactly one external process is associated with a session, and every exit
// path funnels through one teardown that kills the process and removes
// staged scratch output. Sessions are not shared across requests.
type Session struct {
	cfg config.Config
	log zerolog.Logger

	mu      sync.Mutex
	state   model.SessionState
	cmd     *exec.Cmd
	cleanup func()
	written int64

	teardownOnce sync.Once
}

// NewSession creates a session in the Starting state.
func NewSession(cfg config.Config, log zerolog.Logger) *Session {
	return &Session{cfg: cfg, log: log, state: model.SessionStarting}
}

// State returns the session's current lifecycle state.
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BytesWritten returns how many output bytes reached the sink.
func (s *Session) BytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Stream launches the tool writing the muxed result to its stdout and pipes
// it chunk by chunk into w as bytes arrive; nothing is buffered beyond the
// pipe itself, so backpressure from w slows the tool down rather than
// growing memory. Cancelling ctx (the client going away) hard-kills the
// process even before any output has been produced.
func (s *Session) Stream(ctx context.Context, req model.DownloadRequest, w io.Writer) error {
	args := ytdlp.DownloadArgs(s.cfg, req.Selector, ytdlp.StdoutTarget, req.URL)
	cmd := exec.CommandContext(ctx, s.cfg.BinPath, args...)
	tail := newTailBuffer(tailLimit)
	cmd.Stderr = tail

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.setState(model.SessionFailed)
		return err
	}

	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	if err := cmd.Start(); err != nil {
		s.setState(model.SessionFailed)
		return &ytdlp.TransferError{ExitCode: -1, Stderr: err.Error()}
	}
	s.setState(model.SessionStreaming)
	s.log.Debug().
		Str("url", req.URL).
		Str("format", req.Selector).
		Str("client", req.ClientAddr).
		Msg("streaming download started")

	n, copyErr := io.Copy(w, stdout)
	s.mu.Lock()
	s.written = n
	s.mu.Unlock()

	waitErr := cmd.Wait()

	switch {
	case ctx.Err() != nil:
		s.setState(model.SessionCancelled)
		s.log.Info().Str("url", req.URL).Msg("client left, download cancelled")
		return ctx.Err()
	case waitErr != nil:
		s.setState(model.SessionFailed)
		return &ytdlp.TransferError{ExitCode: exitCode(waitErr), Started: n > 0, Stderr: tail.String()}
	case copyErr != nil:
		s.setState(model.SessionFailed)
		return &ytdlp.TransferError{ExitCode: 0, Started: n > 0, Stderr: copyErr.Error()}
	}

	s.setState(model.SessionCompleted)
	s.log.Info().
		Str("url", req.URL).
		Str("written", humanize.Bytes(uint64(n))).
		Msg("streaming download completed")
	return nil
}

// Stage launches the tool writing to a uniquely named file in the scratch
// directory and returns the produced file's path after a clean exit. The
// output path is fully determined up front; a prefix scan covers the case
// where the tool still picks its own extension during the remux step. All
// of the session's scratch artifacts are removed by Close, whether or not
// the caller managed to send the file.
func (s *Session) Stage(ctx context.Context, req model.DownloadRequest) (string, error) {
	if err := platform.EnsureDir(s.cfg.ScratchDir); err != nil {
		s.setState(model.SessionFailed)
		return "", err
	}

	name := platform.StagedName()
	prefix := platform.StagedPrefix(name)
	dest := filepath.Join(s.cfg.ScratchDir, name)

	s.mu.Lock()
	s.cleanup = func() {
		if err := platform.RemoveByPrefix(s.cfg.ScratchDir, prefix); err != nil {
			s.log.Warn().Err(err).Str("prefix", prefix).Msg("scratch cleanup incomplete")
		}
	}
	s.mu.Unlock()

	args := ytdlp.DownloadArgs(s.cfg, req.Selector, dest, req.URL)
	cmd := exec.CommandContext(ctx, s.cfg.BinPath, args...)
	tail := newTailBuffer(tailLimit)
	cmd.Stderr = tail

	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	if err := cmd.Start(); err != nil {
		s.setState(model.SessionFailed)
		return "", &ytdlp.TransferError{ExitCode: -1, Stderr: err.Error()}
	}
	s.setState(model.SessionStreaming)
	s.log.Debug().
		Str("url", req.URL).
		Str("format", req.Selector).
		Str("dest", dest).
		Msg("staged download started")

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			s.setState(model.SessionCancelled)
			return "", ctx.Err()
		}
		s.setState(model.SessionFailed)
		return "", &ytdlp.TransferError{ExitCode: exitCode(err), Stderr: tail.String()}
	}

	if _, err := os.Stat(dest); err == nil {
		s.setState(model.SessionCompleted)
		return dest, nil
	}
	found, err := platform.FindByPrefix(s.cfg.ScratchDir, prefix)
	if err != nil {
		s.setState(model.SessionFailed)
		return "", &ytdlp.ResourceMissingError{Prefix: prefix}
	}

	s.setState(model.SessionCompleted)
	return found, nil
}

// Close tears the session down exactly once from any state: the external
// process is killed if still running (killing an already-exited process is
// not an error and is ignored) and staged scratch output is removed. Safe
// to call multiple times.
func (s *Session) Close() {
	s.teardownOnce.Do(func() {
		s.mu.Lock()
		cmd := s.cmd
		cleanup := s.cleanup
		if !s.state.IsTerminal() {
			s.state = model.SessionCancelled
		}
		s.mu.Unlock()

		if cmd != nil && cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		if cleanup != nil {
			cleanup()
		}
	})
}

func (s *Session) setState(state model.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
