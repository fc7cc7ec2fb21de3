package model

// SessionState represents the lifecycle of a transfer session
type SessionState string

const (
	// SessionStarting means the external process is being launched
	SessionStarting SessionState = "Starting"

	// SessionStreaming means the process is running and output is flowing
	SessionStreaming SessionState = "Streaming"

	// SessionCompleted means the process exited cleanly and all output was delivered
	SessionCompleted SessionState = "Completed"

	// SessionFailed means the process exited non-zero or could not be started
	SessionFailed SessionState = "Failed"

	// SessionCancelled means the client went away before the process finished
	SessionCancelled SessionState = "Cancelled"
)

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsTerminal reports whether the session has reached a final state
func (s SessionState) IsTerminal() bool {
	return s == SessionCompleted || s == SessionFailed || s == SessionCancelled
}
