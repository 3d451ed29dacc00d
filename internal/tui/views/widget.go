package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"leetstats/internal/core"
	"leetstats/internal/render"
	"leetstats/internal/tui/components"
	"leetstats/internal/tui/focus"
	"leetstats/internal/tui/styles"
	"leetstats/pkg/models"
	"leetstats/pkg/utils"
)

// WidgetModel is the statistics widget: username field, search button,
// status line, rank, totals, difficulty bars and the completion gauge.
type WidgetModel struct {
	ctx      context.Context
	lookup   *core.Lookup
	board    *render.Board
	renderer *render.Renderer
	focus    *focus.Manager

	input   components.Input
	button  components.Button
	spinner components.Spinner
	status  components.StatusLine

	// State
	loading   bool
	lastInput string
	barWidth  int

	// Window size
	width  int
	height int
}

// NewWidgetModel creates the widget around one lookup orchestrator
func NewWidgetModel(ctx context.Context, lookup *core.Lookup, fm *focus.Manager, barWidth int) WidgetModel {
	board := render.NewBoard()
	input := components.NewInput("LeetCode username", "e.g. neal_wu", utils.MaxUsernameLength+10)
	input.Focus()

	return WidgetModel{
		ctx:      ctx,
		lookup:   lookup,
		board:    board,
		renderer: render.New(board),
		focus:    fm,
		input:    input,
		button:   components.NewButton("Search"),
		spinner:  components.NewSpinner("Fetching statistics..."),
		status:   components.NewStatusLine("r"),
		barWidth: barWidth,
	}
}

// Init has nothing to load until the first search
func (m WidgetModel) Init() tea.Cmd {
	return nil
}

// Board exposes the rendered slots
func (m WidgetModel) Board() *render.Board {
	return m.board
}

// Loading reports whether the widget is waiting on a lookup
func (m WidgetModel) Loading() bool {
	return m.loading
}

// LastInput is the username of the most recent finished search
func (m WidgetModel) LastInput() string {
	return m.lastInput
}

// SetUsername prefills the field
func (m *WidgetModel) SetUsername(username string) {
	m.input.SetValue(username)
}

// Submit searches for the current field value
func (m *WidgetModel) Submit() tea.Cmd {
	return m.trigger(m.input.Value())
}

// Retry repeats the last search, if any
func (m *WidgetModel) Retry() tea.Cmd {
	if m.lastInput == "" {
		return nil
	}
	return m.trigger(m.lastInput)
}

func (m *WidgetModel) trigger(value string) tea.Cmd {
	m.loading = true
	m.button.SetState(components.ButtonLoading)
	return tea.Batch(m.runLookup(value), m.spinner.Tick)
}

// runLookup performs the lookup off the UI loop
func (m WidgetModel) runLookup(value string) tea.Cmd {
	lookup, ctx := m.lookup, m.ctx
	return func() tea.Msg {
		res, ok := lookup.Run(ctx, value)
		if !ok {
			return LookupDroppedMsg{Input: value}
		}
		return LookupDoneMsg{Result: res}
	}
}

// FocusNext moves focus between the field and the button
func (m *WidgetModel) FocusNext() tea.Cmd {
	m.focus.Next()
	return m.syncFocus()
}

// FocusPrev moves focus backwards
func (m *WidgetModel) FocusPrev() tea.Cmd {
	m.focus.Prev()
	return m.syncFocus()
}

// FocusInput puts the cursor back in the field
func (m *WidgetModel) FocusInput() tea.Cmd {
	m.focus.Focus(focus.TargetInput)
	return m.syncFocus()
}

// LeaveInput keeps the field visible but lets shortcuts through
func (m *WidgetModel) LeaveInput() {
	m.focus.ExitInputMode()
	m.input.Blur()
	m.syncButton()
}

func (m *WidgetModel) syncFocus() tea.Cmd {
	m.syncButton()
	if m.focus.IsInputMode() {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *WidgetModel) syncButton() {
	switch {
	case m.loading:
		m.button.SetState(components.ButtonLoading)
	case m.focus.Target() == focus.TargetButton:
		m.button.SetState(components.ButtonActive)
	default:
		m.button.SetState(components.ButtonNormal)
	}
}

// Update handles messages
func (m WidgetModel) Update(msg tea.Msg) (WidgetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if !m.focus.IsInputMode() {
			return m, nil
		}
		cmd, changed := m.input.Update(msg)
		if changed {
			m.renderer.ClearStatus()
			m.status.SetMessage("")
		}
		return m, cmd

	case LookupDoneMsg:
		// only a search that reached the board can be retried
		m.lastInput = msg.Result.Username
		core.Present(msg.Result, m.renderer)
		m.status.SetMessage(m.board.Status())
		m.loading = m.lookup.InFlight()
		m.syncButton()
		return m, nil

	case LookupDroppedMsg:
		m.loading = m.lookup.InFlight()
		m.syncButton()
		return m, nil

	default:
		if !m.loading {
			return m, nil
		}
		return m, m.spinner.Update(msg)
	}
}

// View renders the widget
func (m WidgetModel) View() string {
	var b strings.Builder
	slots := m.board.Snapshot()

	b.WriteString(styles.TitleStyle.Render("LeetCode Stats"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("  ")
	b.WriteString(m.button.View())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View())
	} else if line := m.status.View(); line != "" {
		b.WriteString(line)
	}
	b.WriteString("\n\n")

	b.WriteString(styles.CardStyle.Render(m.renderCard(slots)))
	return b.String()
}

func (m WidgetModel) renderCard(s models.Slots) string {
	var card strings.Builder

	card.WriteString(styles.MetaKeyStyle.Render("Rank") + " " + styles.RankStyle.Render(s.Rank))
	card.WriteString("    ")
	card.WriteString(styles.RenderKeyValue("Solved", s.TotalSolved))
	card.WriteString("\n\n")

	card.WriteString(styles.CardTitleStyle.Render("Completion"))
	card.WriteString("\n")
	card.WriteString(styles.RenderGauge(s.Gauge.Fill, m.barWidth))
	card.WriteString("\n\n")

	rows := []struct {
		label string
		bar   models.BarSlot
	}{
		{"Easy", s.Easy},
		{"Medium", s.Medium},
		{"Hard", s.Hard},
	}
	for i, row := range rows {
		style := styles.DifficultyStyle(row.label)
		card.WriteString(fmt.Sprintf("%s %s %s\n",
			style.Render(fmt.Sprintf("%-6s", row.label)),
			styles.CardContentStyle.Render(fmt.Sprintf("%5s / %-5s", row.bar.Solved, row.bar.Total)),
			styles.RenderProgressBar(row.bar.Fill, m.barWidth, style),
		))
		if i < len(rows)-1 {
			card.WriteString("\n")
		}
	}
	return card.String()
}

// Messages

// LookupDoneMsg carries a finished lookup back to the UI loop
type LookupDoneMsg struct {
	Result core.Result
}

// LookupDroppedMsg is sent when a search was ignored because one was in flight
type LookupDroppedMsg struct {
	Input string
}
