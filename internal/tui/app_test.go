package tui

import (
	"context"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leetstats/internal/tui/views"
	"leetstats/pkg/config"
	"leetstats/pkg/models"
)

const flatBody = `{"status":"success","ranking":1500,"totalSolved":120,"totalQuestions":3000,
	"easySolved":80,"totalEasy":800,"mediumSolved":30,"totalMedium":1600,"hardSolved":10,"totalHard":600}`

type stubFetcher struct {
	calls   atomic.Int32
	err     error
	started chan struct{}
	block   chan struct{}
}

func (f *stubFetcher) FetchStats(ctx context.Context, username string) (*models.RawStatsResponse, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.RawStatsResponse{Shape: models.ShapeFlat, Body: []byte(flatBody)}, nil
}

func newTestModel(f *stubFetcher) Model {
	m := New(context.Background(), config.Default(), f)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func deliver(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		switch msg.(type) {
		case views.LookupDoneMsg, views.LookupDroppedMsg:
			next, _ := m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func TestSearchRendersStats(t *testing.T) {
	f := &stubFetcher{}
	m := newTestModel(f)
	m = typeText(t, m, "alice")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.widget.Loading())
	m = deliver(t, m, collect(cmd))

	assert.False(t, m.widget.Loading())
	s := m.widget.Board().Snapshot()
	assert.Equal(t, "#1500", s.Rank)
	assert.Equal(t, "120", s.TotalSolved)
	assert.Equal(t, "80", s.Easy.Solved)
	assert.Equal(t, 4.0, s.Gauge.Fill)
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Contains(t, m.View(), "#1500")
}

func TestEmptySearchShowsMessageWithoutFetching(t *testing.T) {
	f := &stubFetcher{}
	m := newTestModel(f)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, collect(cmd))

	assert.Equal(t, models.MsgEmptyUsername, m.widget.Board().Status())
	assert.Equal(t, "#--", m.widget.Board().Snapshot().Rank)
	assert.Equal(t, int32(0), f.calls.Load())
	assert.Contains(t, m.View(), models.MsgEmptyUsername)
}

func TestTypingClearsStatus(t *testing.T) {
	f := &stubFetcher{err: models.NewNotFoundError(200, nil)}
	m := newTestModel(f)
	m = typeText(t, m, "ghost")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, collect(cmd))
	require.Equal(t, models.MsgNotFound, m.widget.Board().Status())

	m = typeText(t, m, "x")
	assert.Empty(t, m.widget.Board().Status())
}

func TestQuitOnlyOutsideInputMode(t *testing.T) {
	m := newTestModel(&stubFetcher{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlCAlwaysQuits(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRetryRepeatsLastSearch(t *testing.T) {
	f := &stubFetcher{}
	m := newTestModel(f)
	m = typeText(t, m, "alice")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, collect(cmd))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = deliver(t, m, collect(cmd))

	assert.Equal(t, int32(2), f.calls.Load())
	assert.Equal(t, "alice", m.widget.LastInput())
}

func TestTabMovesFocusToButton(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	assert.True(t, m.focusManager.IsInputMode())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.focusManager.IsInputMode())

	// the button triggers a search on enter as well
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, m.widget.Loading())
}

func TestOverlappingSearchIsDropped(t *testing.T) {
	f := &stubFetcher{started: make(chan struct{}, 1), block: make(chan struct{})}
	m := newTestModel(f)
	m = typeText(t, m, "alice")

	m, first := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	done := make(chan []tea.Msg)
	go func() { done <- collect(first) }()
	<-f.started

	m, second := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	secondMsgs := collect(second)
	var dropped bool
	for _, msg := range secondMsgs {
		if _, ok := msg.(views.LookupDroppedMsg); ok {
			dropped = true
		}
	}
	assert.True(t, dropped)
	m = deliver(t, m, secondMsgs)
	assert.True(t, m.widget.Loading())

	close(f.block)
	m = deliver(t, m, <-done)
	assert.False(t, m.widget.Loading())
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, "#1500", m.widget.Board().Snapshot().Rank)
}

func TestDroppedSearchKeepsRetryTarget(t *testing.T) {
	f := &stubFetcher{started: make(chan struct{}, 1), block: make(chan struct{})}
	m := newTestModel(f)
	m = typeText(t, m, "alice")

	m, first := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	done := make(chan []tea.Msg)
	go func() { done <- collect(first) }()
	<-f.started

	m = typeText(t, m, "_2")
	m, second := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, collect(second))
	assert.Equal(t, "", m.widget.LastInput())

	close(f.block)
	m = deliver(t, m, <-done)
	assert.Equal(t, "alice", m.widget.LastInput())
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestInitialUsernameSearchesOnStart(t *testing.T) {
	f := &stubFetcher{}
	m := New(context.Background(), config.Default(), f).WithUsername("alice")

	msgs := collect(m.Init())
	require.Len(t, msgs, 1)
	next, cmd := m.Update(msgs[0])
	model := deliver(t, next.(Model), collect(cmd))
	assert.Equal(t, "#1500", model.widget.Board().Snapshot().Rank)
}
