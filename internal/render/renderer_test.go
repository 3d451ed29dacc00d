package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leetstats/pkg/models"
)

func sampleModel() models.DisplayModel {
	return models.DisplayModel{
		Ranking:        models.RankOf(1500),
		TotalSolved:    120,
		TotalQuestions: 3000,
		ByDifficulty: models.Difficulties{
			Easy:   models.DifficultyStats{Solved: 80, Total: 800},
			Medium: models.DifficultyStats{Solved: 30, Total: 1600},
			Hard:   models.DifficultyStats{Solved: 10, Total: 600},
		},
		CompletionPercent: 4,
	}
}

func TestApplyWritesEverySlot(t *testing.T) {
	board := &Board{}
	New(board).Apply(sampleModel())
	s := board.Snapshot()

	assert.Equal(t, "#1500", s.Rank)
	assert.Equal(t, "120", s.TotalSolved)
	assert.Equal(t, models.BarSlot{Solved: "80", Total: "800", Width: "10%", Fill: 10}, s.Easy)
	assert.Equal(t, "1.875%", s.Medium.Width)
	assert.Equal(t, "10", s.Hard.Solved)
	assert.Equal(t, "600", s.Hard.Total)
	assert.Equal(t, 4.0, s.Gauge.Fill)
	assert.Equal(t, "conic-gradient(var(--primary-color) 0% 4%, #e2e8f0 4% 100%)", s.Gauge.Background)
}

func TestApplyIsIdempotent(t *testing.T) {
	board := &Board{}
	r := New(board)

	r.Apply(sampleModel())
	first := board.Snapshot()
	r.Apply(sampleModel())
	assert.Equal(t, first, board.Snapshot())

	r.Reset()
	reset := board.Snapshot()
	r.Reset()
	assert.Equal(t, reset, board.Snapshot())
}

func TestResetSlots(t *testing.T) {
	board := NewBoard()
	s := board.Snapshot()

	assert.Equal(t, "#--", s.Rank)
	assert.Equal(t, "0", s.TotalSolved)
	for _, bar := range []models.BarSlot{s.Easy, s.Medium, s.Hard} {
		assert.Equal(t, models.BarSlot{Solved: "0", Total: "0", Width: "0%", Fill: 0}, bar)
	}
	assert.Equal(t, 0.0, s.Gauge.Fill)
	assert.Equal(t, "conic-gradient(var(--primary-color) 0% 0%, #e2e8f0 0% 100%)", s.Gauge.Background)
	assert.Empty(t, s.Status)
}

func TestStatusIsIndependentOfModel(t *testing.T) {
	board := &Board{}
	r := New(board)

	r.ShowStatus(models.MsgNotFound)
	r.Apply(sampleModel())
	assert.Equal(t, models.MsgNotFound, board.Status())

	r.ClearStatus()
	assert.Empty(t, board.Status())
}

func TestBarPercent(t *testing.T) {
	assert.Equal(t, 0.0, BarPercent(5, 0))
	assert.Equal(t, 50.0, BarPercent(1, 2))
	assert.Equal(t, 100.0, BarPercent(900, 800))
	assert.Equal(t, 0.0, BarPercent(-1, 10))
}

func TestConicGradientClamps(t *testing.T) {
	assert.Equal(t, "conic-gradient(var(--primary-color) 0% 100%, #e2e8f0 100% 100%)", ConicGradient(250))
	assert.Equal(t, "conic-gradient(var(--primary-color) 0% 0%, #e2e8f0 0% 100%)", ConicGradient(-5))
}

type recordingSurface struct {
	texts map[SlotID]string
}

func (s *recordingSurface) SetText(id SlotID, text string) { s.texts[id] = text }
func (s *recordingSurface) SetWidth(SlotID, float64) {}
func (s *recordingSurface) SetGauge(SlotID, float64, string) {}

func TestRendererWritesOnlyNamedSlots(t *testing.T) {
	surface := &recordingSurface{texts: map[SlotID]string{}}
	New(surface).Apply(sampleModel())

	known := map[SlotID]bool{
		SlotUserRank: true, SlotTotalSolved: true,
		SlotEasySolved: true, SlotEasyTotal: true,
		SlotMediumSolved: true, SlotMediumTotal: true,
		SlotHardSolved: true, SlotHardTotal: true,
	}
	for id := range surface.texts {
		assert.True(t, known[id], "unexpected slot %s", id)
	}
	assert.Len(t, surface.texts, len(known))
}
