package styles

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dracula color palette
const (
	Background  = "#282a36"
	CurrentLine = "#44475a"
	Foreground  = "#f8f8f2"
	Comment     = "#6272a4"
	Cyan        = "#8be9fd"
	Green       = "#50fa7b"
	Orange      = "#ffb86c"
	Pink        = "#ff79c6"
	Purple      = "#bd93f9"
	Red         = "#ff5555"
	Yellow      = "#f1fa8c"
)

var (
	// App-level styles
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Background(lipgloss.Color(Background)).
			Foreground(lipgloss.Color(Foreground))

	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Purple)).
			Background(lipgloss.Color(Background)).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan)).
			Background(lipgloss.Color(Background))

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 1)

	StatusBarActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Green)).
				Background(lipgloss.Color(CurrentLine)).
				Bold(true).
				Padding(0, 1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 1)

	InputFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Background(lipgloss.Color(CurrentLine)).
				Bold(true).
				Padding(0, 1)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Purple)).
				Bold(true)

	// Button styles
	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 2).
			MarginRight(2)

	ButtonActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Purple)).
				Bold(true).
				Padding(0, 2).
				MarginRight(2)

	// Card/Box styles
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Purple)).
			Padding(1, 2).
			MarginBottom(1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Pink)).
			Bold(true)

	CardContentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Foreground))

	// Info/Alert styles
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Red)).
			Bold(true)

	// Help/Hints styles
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			Italic(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Purple)).
			Bold(true)

	// Divider/Border styles
	DividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(CurrentLine))

	// Spinner styles
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Purple))

	// Progress bar styles
	ProgressBarEmpty = lipgloss.NewStyle().
				Foreground(lipgloss.Color(CurrentLine))

	GaugeFilledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Purple)).
				Bold(true)

	// Metadata/Stats styles
	MetaKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Purple)).
			Bold(true)

	MetaValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan))

	RankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Yellow)).
			Bold(true)
)

// DifficultyStyles colors each difficulty row
var DifficultyStyles = map[string]lipgloss.Style{
	"Easy":   lipgloss.NewStyle().Foreground(lipgloss.Color(Green)).Bold(true),
	"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color(Orange)).Bold(true),
	"Hard":   lipgloss.NewStyle().Foreground(lipgloss.Color(Red)).Bold(true),
}

// DifficultyStyle returns the style for a difficulty label
func DifficultyStyle(label string) lipgloss.Style {
	if s, ok := DifficultyStyles[label]; ok {
		return s
	}
	return MetaValueStyle
}

// RenderDivider renders a horizontal divider
func RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return DividerStyle.Render(strings.Repeat("─", width))
}

// filledCells maps a percentage onto width cells
func filledCells(percent float64, width int) int {
	if width <= 0 || math.IsNaN(percent) || percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return width
	}
	return int(float64(width) * percent / 100)
}

// RenderProgressBar renders a bar filled to percent (0-100) in the given style
func RenderProgressBar(percent float64, width int, filledStyle lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	filled := filledCells(percent, width)
	return filledStyle.Render(strings.Repeat("█", filled)) +
		ProgressBarEmpty.Render(strings.Repeat("░", width-filled))
}

var gaugeGlyphs = []string{"○", "◔", "◑", "◕", "●"}

// RenderGauge renders the completion gauge: a quarter glyph, a bar and the percentage
func RenderGauge(percent float64, width int) string {
	idx := 0
	switch {
	case percent >= 100:
		idx = 4
	case percent > 0:
		idx = 1 + int(percent/100*3)
	}
	glyph := GaugeFilledStyle.Render(gaugeGlyphs[idx])
	label := GaugeFilledStyle.Render(fmt.Sprintf("%3.0f%%", percent))
	return glyph + " " + RenderProgressBar(percent, width, GaugeFilledStyle) + " " + label
}

// RenderKeyValue renders a key-value pair with styling
func RenderKeyValue(key, value string) string {
	return MetaKeyStyle.Render(key+":") + " " + MetaValueStyle.Render(value)
}
