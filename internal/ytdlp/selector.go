package ytdlp

import "strings"

// DefaultSelector prefers a pre-defined muxed mp4/m4a pairing and falls back
// to the tool's generic "best" heuristic.
const DefaultSelector = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best"

// audioFallback is appended to bare video-only selectors so single video
// tracks get paired with the best audio stream during the remux step.
const audioFallback = "+bestaudio/best"

// ResolveFormat translates the requested format selector into the concrete
// expression handed to the tool. Composite expressions, audio-only requests
// and the pre-muxed "best" pass through unchanged; a bare single-track
// selector gets the best-audio fallback pairing appended.
func ResolveFormat(selector string) string {
	sel := strings.TrimSpace(selector)
	if sel == "" {
		return DefaultSelector
	}
	if strings.ContainsAny(sel, "+/") {
		return sel
	}
	if sel == "best" || strings.HasPrefix(sel, "bestaudio") {
		return sel
	}
	return sel + audioFallback
}
