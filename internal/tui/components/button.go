package components

import (
	"leetstats/internal/tui/styles"
)

// ButtonState represents button states
type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonActive
	ButtonLoading
)

// Button is the search trigger
type Button struct {
	label string
	state ButtonState
}

// NewButton creates a new button
func NewButton(label string) Button {
	return Button{
		label: label,
		state: ButtonNormal,
	}
}

// SetState sets the button state
func (b *Button) SetState(state ButtonState) {
	b.state = state
}

// State returns the current state
func (b Button) State() ButtonState {
	return b.state
}

// View renders the button
func (b Button) View() string {
	switch b.state {
	case ButtonActive:
		return styles.ButtonActiveStyle.Render("[ " + b.label + " ]")
	case ButtonLoading:
		return styles.ButtonActiveStyle.Render("[ ⟳ " + b.label + "... ]")
	default:
		return styles.ButtonStyle.Render("[ " + b.label + " ]")
	}
}
