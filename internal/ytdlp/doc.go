package ytdlp

// Package ytdlp wraps the external yt-dlp binary: command-line construction,
// format selector resolution, the metadata invocation with its projection
// into the UI-facing model, and the typed error taxonomy shared with the
// download sessions.
