package model

// ProgressEvent is one frame on the progress event stream. Mid-transfer
// events carry percent/speed/eta labels parsed from the tool's diagnostic
// output; the terminal event carries Done plus the process exit code. Code
// is a pointer so a successful exit still serializes as "code":0.
type ProgressEvent struct {
	Percent string `json:"percent,omitempty"`
	Speed   string `json:"speed,omitempty"`
	ETA     string `json:"eta,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Code    *int   `json:"code,omitempty"`
}

// TerminalEvent builds the single closing event for a progress stream.
func TerminalEvent(exitCode int) ProgressEvent {
	return ProgressEvent{Done: true, Code: &exitCode}
}

// IsTerminal reports whether the event closes its stream.
func (e ProgressEvent) IsTerminal() bool {
	return e.Done
}
