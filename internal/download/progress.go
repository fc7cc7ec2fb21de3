package download

import (
	"bufio"
	"context"
	"io"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/vamsi-krishna2580/youtube-downloader/internal/config"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/model"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/platform"
	"github.com/vamsi-krishna2580/youtube-downloader/internal/ytdlp"
)

// ProgressStream drives an independent download invocation solely to watch
// its diagnostic output. It never shares a process with a transfer session;
// in the combined-usage pattern the video is fetched twice.
type ProgressStream struct {
	cfg        config.Config
	log        zerolog.Logger
	classifier platform.ProgressClassifier
}

// NewProgressStream creates a progress stream using the default yt-dlp
// download line classifier.
func NewProgressStream(cfg config.Config, log zerolog.Logger) *ProgressStream {
	return &ProgressStream{cfg: cfg, log: log, classifier: platform.DownloadLineClassifier{}}
}

// SetClassifier swaps the line-matching strategy.
func (p *ProgressStream) SetClassifier(c platform.ProgressClassifier) {
	p.classifier = c
}

// Events launches the invocation and returns a channel of progress events.
// Every matched diagnostic line is emitted immediately, unmatched lines are
// ignored, and the channel delivers exactly one terminal event carrying the
// exit code before closing. Cancelling ctx hard-kills the process; the
// terminal event is still delivered, so callers must drain the channel
// until it closes.
func (p *ProgressStream) Events(ctx context.Context, req model.DownloadRequest) <-chan model.ProgressEvent {
	out := make(chan model.ProgressEvent)
	go p.run(ctx, req, out)
	return out
}

func (p *ProgressStream) run(ctx context.Context, req model.DownloadRequest, out chan<- model.ProgressEvent) {
	defer close(out)

	args := ytdlp.DownloadArgs(p.cfg, req.Selector, ytdlp.StdoutTarget, req.URL)
	cmd := exec.CommandContext(ctx, p.cfg.BinPath, args...)
	cmd.Stdout = io.Discard

	stderr, err := cmd.StderrPipe()
	if err != nil {
		out <- model.TerminalEvent(-1)
		return
	}
	if err := cmd.Start(); err != nil {
		p.log.Error().Err(err).Str("url", req.URL).Msg("progress invocation failed to start")
		out <- model.TerminalEvent(-1)
		return
	}
	p.log.Debug().Str("url", req.URL).Str("format", req.Selector).Msg("progress invocation started")

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		ev, ok := p.classifier.Classify(scanner.Text())
		if !ok {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			// Client is gone; stop emitting but keep draining so the
			// process can exit and deliver its terminal event.
		}
	}

	code := 0
	if err := cmd.Wait(); err != nil {
		code = exitCode(err)
	}
	out <- model.TerminalEvent(code)
	p.log.Debug().Str("url", req.URL).Int("code", code).Msg("progress invocation finished")
}
