package platform

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// URL templates and path markers
const (
	WatchURLTemplate = "https://www.youtube.com/watch?v="
	ShortsPathPrefix = "/shorts/"
	ShortFormHost    = "youtu.be"
)

// ErrMissingURL is returned when a request carries no URL at all.
var ErrMissingURL = errors.New("missing URL")

// filenameDisallowed matches every character outside the filename allow-list:
// letters, digits, space, dot, underscore, hyphen, percent and parentheses.
var filenameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9 ._%()-]`)

// NormalizeURL rewrites known short-form video URLs (youtu.be links and
// /shorts/ paths) into the canonical long-form watch URL. The external
// tool's extraction behavior is inconsistent across URL shapes for some
// sources, so everything else passes through unchanged.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrMissingURL
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed, nil
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == ShortFormHost || host == "www."+ShortFormHost:
		if id := firstPathSegment(u.Path); id != "" {
			return WatchURLTemplate + id, nil
		}
	case strings.HasSuffix(host, "youtube.com") && strings.HasPrefix(u.Path, ShortsPathPrefix):
		if id := firstPathSegment(strings.TrimPrefix(u.Path, ShortsPathPrefix)); id != "" {
			return WatchURLTemplate + id, nil
		}
	}

	return trimmed, nil
}

func firstPathSegment(path string) string {
	path = strings.Trim(path, "/")
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		path = path[:idx]
	}
	return path
}

// SanitizeFilename strips every character outside the allow-list and trims
// edge whitespace, making the result safe as a filesystem path component and
// as an HTTP header token. Idempotent.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(filenameDisallowed.ReplaceAllString(name, ""))
}
