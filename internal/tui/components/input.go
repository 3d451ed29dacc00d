package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"leetstats/internal/tui/styles"
)

// Input is a labelled single-line text field
type Input struct {
	textInput textinput.Model
	label     string
}

// NewInput creates a new input component
func NewInput(label, placeholder string, charLimit int) Input {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = 40
	ti.Prompt = "› "

	return Input{
		textInput: ti,
		label:     label,
	}
}

// Focus sets the input as focused
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Blur removes focus from input
func (i *Input) Blur() {
	i.textInput.Blur()
}

// Focused returns whether input is focused
func (i *Input) Focused() bool {
	return i.textInput.Focused()
}

// SetValue sets the input value
func (i *Input) SetValue(v string) {
	i.textInput.SetValue(v)
}

// Value returns the current input value
func (i *Input) Value() string {
	return i.textInput.Value()
}

// Update forwards msg to the text field and reports whether the value changed
func (i *Input) Update(msg tea.Msg) (tea.Cmd, bool) {
	before := i.textInput.Value()
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return cmd, i.textInput.Value() != before
}

// View renders the input
func (i Input) View() string {
	var labelStyle, inputStyle lipgloss.Style
	if i.Focused() {
		labelStyle = styles.InputFocusedStyle
		inputStyle = styles.InputFocusedStyle
	} else {
		labelStyle = styles.InputPromptStyle
		inputStyle = styles.InputStyle
	}

	return labelStyle.Render(i.label) + "\n" + inputStyle.Render(i.textInput.View())
}
