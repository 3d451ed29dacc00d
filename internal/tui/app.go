// Package tui is the interactive terminal widget.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"leetstats/internal/core"
	"leetstats/internal/tui/focus"
	"leetstats/internal/tui/styles"
	"leetstats/internal/tui/views"
	"leetstats/pkg/config"
)

// Model is the root Bubble Tea model
type Model struct {
	// Configuration
	config *config.Config

	// Focus manager
	focusManager *focus.Manager

	// Key bindings
	keys KeyMap

	// Window dimensions
	width  int
	height int

	// View models
	widget views.WidgetModel

	// Username to search on start
	initial string
}

// New creates a new TUI application. The fetcher is shared by every lookup
// this widget starts; the guard belongs to the widget.
func New(ctx context.Context, cfg *config.Config, fetcher core.Fetcher) *Model {
	focusMgr := focus.NewManager()
	lookup := core.NewLookup(fetcher).WithTimeout(cfg.APITimeout())

	return &Model{
		config:       cfg,
		focusManager: focusMgr,
		keys:         DefaultKeyMap(),
		widget:       views.NewWidgetModel(ctx, lookup, focusMgr, cfg.UI.BarWidth),
	}
}

// WithUsername prefills the field and searches as soon as the program starts
func (m *Model) WithUsername(username string) *Model {
	m.initial = username
	m.widget.SetUsername(username)
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if strings.TrimSpace(m.initial) != "" {
		return func() tea.Msg { return startSearchMsg{} }
	}
	return m.widget.Init()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.widget, _ = m.widget.Update(msg)
		return m, nil

	case startSearchMsg:
		return m, m.widget.Submit()

	case tea.KeyMsg:
		if m.keys.ShouldHandleKey(m.focusManager.GetMode(), msg) {
			if model, cmd, handled := m.handleKey(msg); handled {
				return model, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.widget, cmd = m.widget.Update(msg)
	return m, cmd
}

// handleKey applies global shortcuts
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Submit):
		return m, m.widget.Submit(), true
	case key.Matches(msg, m.keys.NextFocus):
		return m, m.widget.FocusNext(), true
	case key.Matches(msg, m.keys.PrevFocus):
		return m, m.widget.FocusPrev(), true
	case key.Matches(msg, m.keys.Cancel):
		m.widget.LeaveInput()
		return m, nil, true
	case key.Matches(msg, m.keys.Retry):
		return m, m.widget.Retry(), true
	case key.Matches(msg, m.keys.FocusInput):
		return m, m.widget.FocusInput(), true
	}
	return m, nil, false
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return styles.AppStyle.Render(m.widget.View() + "\n" + m.renderStatusBar())
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	mode := "NAV"
	if m.focusManager.IsInputMode() {
		mode = "INPUT"
	}
	left := styles.StatusBarActiveStyle.Render("● " + mode)

	var hints []string
	for _, b := range m.keys.ShortHelp(m.focusManager.GetMode()) {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	right := styles.StatusBarStyle.Render(strings.Join(hints, " • "))

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if spacing < 0 {
		spacing = 0
	}
	return left + strings.Repeat(" ", spacing) + right
}

// startSearchMsg runs the search for a username given on the command line
type startSearchMsg struct{}
