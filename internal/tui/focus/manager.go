package focus

// Mode represents different focus modes in the TUI
type Mode int

const (
	// ModeNavigation lets single-letter keys act as shortcuts
	ModeNavigation Mode = iota
	// ModeInput sends keystrokes to the username field
	ModeInput
)

// Target is a focusable widget element
type Target int

const (
	TargetInput Target = iota
	TargetButton
)

var order = []Target{TargetInput, TargetButton}

// Manager tracks which element has focus and the resulting mode
type Manager struct {
	target Target
	mode   Mode
}

// NewManager starts with the username field focused
func NewManager() *Manager {
	return &Manager{target: TargetInput, mode: ModeInput}
}

// Target returns the focused element
func (m *Manager) Target() Target {
	return m.target
}

// Focus moves focus to t
func (m *Manager) Focus(t Target) {
	m.target = t
	if t == TargetInput {
		m.mode = ModeInput
	} else {
		m.mode = ModeNavigation
	}
}

// Next moves focus forward, wrapping around
func (m *Manager) Next() {
	m.Focus(order[(m.index()+1)%len(order)])
}

// Prev moves focus backward, wrapping around
func (m *Manager) Prev() {
	m.Focus(order[(m.index()+len(order)-1)%len(order)])
}

func (m *Manager) index() int {
	for i, t := range order {
		if t == m.target {
			return i
		}
	}
	return 0
}

// GetMode returns the current focus mode
func (m *Manager) GetMode() Mode {
	return m.mode
}

// IsInputMode returns true if in input mode
func (m *Manager) IsInputMode() bool {
	return m.mode == ModeInput
}

// ExitInputMode keeps focus on the field but lets shortcuts through
func (m *Manager) ExitInputMode() {
	m.mode = ModeNavigation
}
