package ytdlp

import "fmt"

// ExtractionError means the tool ran and exited non-zero during a metadata
// fetch. Details carries the captured diagnostic text.
type ExtractionError struct {
	Details string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("yt-dlp error: %s", e.Details)
}

// MalformedOutputError means the tool exited 0 but its output was not the
// expected JSON document. Excerpt is capped so error responses stay bounded.
type MalformedOutputError struct {
	Excerpt string
}

func (e *MalformedOutputError) Error() string {
	return "failed to parse yt-dlp output"
}

// TransferError means the tool exited non-zero during a download. Started
// records whether any output bytes had been committed to the client before
// the failure, which decides between a clean error status and an abrupt
// stream termination.
type TransferError struct {
	ExitCode int
	Started  bool
	Stderr   string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("yt-dlp exited with code %d: %s", e.ExitCode, e.Stderr)
}

// ResourceMissingError means a staged download reported success but its
// output file could not be located in the scratch directory.
type ResourceMissingError struct {
	Prefix string
}

func (e *ResourceMissingError) Error() string {
	return fmt.Sprintf("staged output with prefix %q not found", e.Prefix)
}
