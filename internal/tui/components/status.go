package components

import (
	"leetstats/internal/tui/styles"
)

// StatusLine shows the lookup status message with a retry hint
type StatusLine struct {
	message  string
	retryKey string
}

// NewStatusLine creates a status line; retryKey is shown in the hint
func NewStatusLine(retryKey string) StatusLine {
	return StatusLine{retryKey: retryKey}
}

// SetMessage replaces the message; empty hides the line
func (s *StatusLine) SetMessage(msg string) {
	s.message = msg
}

// Message returns the current message
func (s StatusLine) Message() string {
	return s.message
}

// View renders the status line
func (s StatusLine) View() string {
	if s.message == "" {
		return ""
	}
	out := styles.ErrorStyle.Render("⚠ " + s.message)
	if s.retryKey != "" {
		out += "  " + styles.HelpStyle.Render("("+s.retryKey+" to retry)")
	}
	return out
}
