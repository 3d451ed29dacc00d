package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"leetstats/internal/tui/focus"
)

// KeyMap defines all key bindings for the TUI
type KeyMap struct {
	// Actions
	Submit     key.Binding
	Retry      key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Cancel     key.Binding
	FocusInput key.Binding

	// Focus navigation
	NextFocus key.Binding
	PrevFocus key.Binding
}

// ShouldHandleKey returns true if the key is a shortcut in the given focus mode.
// In input mode letters belong to the username field.
func (k KeyMap) ShouldHandleKey(mode focus.Mode, msg tea.KeyMsg) bool {
	if mode == focus.ModeInput {
		return key.Matches(msg, k.Cancel) ||
			key.Matches(msg, k.Submit) ||
			key.Matches(msg, k.NextFocus) ||
			key.Matches(msg, k.PrevFocus) ||
			key.Matches(msg, k.ForceQuit)
	}
	return true
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "retry"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave field"),
		),
		FocusInput: key.NewBinding(
			key.WithKeys("i", "/"),
			key.WithHelp("i", "edit username"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar for mode
func (k KeyMap) ShortHelp(mode focus.Mode) []key.Binding {
	if mode == focus.ModeInput {
		return []key.Binding{k.Submit, k.NextFocus, k.Cancel, k.ForceQuit}
	}
	return []key.Binding{k.Submit, k.Retry, k.FocusInput, k.NextFocus, k.Quit}
}
