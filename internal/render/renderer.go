// Package render projects a DisplayModel onto named output slots.
package render

import (
	"fmt"
	"math"
	"strconv"

	"leetstats/pkg/models"
)

// SlotID names one output slot. The values are the widget element ids.
type SlotID string

const (
	SlotUserRank       SlotID = "user-rank"
	SlotTotalSolved    SlotID = "total-solved"
	SlotProgressCircle SlotID = "progress-circle"
	SlotEasySolved     SlotID = "easy-solved"
	SlotEasyTotal      SlotID = "easy-total"
	SlotEasyProgress   SlotID = "easy-progress"
	SlotMediumSolved   SlotID = "medium-solved"
	SlotMediumTotal    SlotID = "medium-total"
	SlotMediumProgress SlotID = "medium-progress"
	SlotHardSolved     SlotID = "hard-solved"
	SlotHardTotal      SlotID = "hard-total"
	SlotHardProgress   SlotID = "hard-progress"
	SlotErrorMessage   SlotID = "error-message"
)

// GaugeBackgroundTone fills the unsolved remainder of the gauge
const GaugeBackgroundTone = "#e2e8f0"

// Surface is anything with named slots the renderer can write to.
// Implementations ignore ids they do not know.
type Surface interface {
	SetText(id SlotID, text string)
	SetWidth(id SlotID, percent float64)
	SetGauge(id SlotID, percent float64, background string)
}

// Renderer writes models and status messages to a Surface
type Renderer struct {
	surface Surface
}

// New creates a renderer for surface
func New(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

type difficultySlots struct {
	solved, total, progress SlotID
}

var (
	easySlots   = difficultySlots{SlotEasySolved, SlotEasyTotal, SlotEasyProgress}
	mediumSlots = difficultySlots{SlotMediumSolved, SlotMediumTotal, SlotMediumProgress}
	hardSlots   = difficultySlots{SlotHardSolved, SlotHardTotal, SlotHardProgress}
)

// Apply writes every model slot. The status slot is left alone.
func (r *Renderer) Apply(m models.DisplayModel) {
	r.surface.SetText(SlotUserRank, RankText(m.Ranking))
	r.surface.SetText(SlotTotalSolved, strconv.Itoa(m.TotalSolved))
	r.applyDifficulty(easySlots, m.ByDifficulty.Easy)
	r.applyDifficulty(mediumSlots, m.ByDifficulty.Medium)
	r.applyDifficulty(hardSlots, m.ByDifficulty.Hard)

	pct := clampPercent(float64(m.CompletionPercent))
	r.surface.SetGauge(SlotProgressCircle, pct, ConicGradient(pct))
}

func (r *Renderer) applyDifficulty(slots difficultySlots, s models.DifficultyStats) {
	r.surface.SetText(slots.solved, strconv.Itoa(s.Solved))
	r.surface.SetText(slots.total, strconv.Itoa(s.Total))
	r.surface.SetWidth(slots.progress, BarPercent(s.Solved, s.Total))
}

// Reset applies the reset model
func (r *Renderer) Reset() {
	r.Apply(models.ResetModel())
}

// ShowStatus writes msg to the status slot
func (r *Renderer) ShowStatus(msg string) {
	r.surface.SetText(SlotErrorMessage, msg)
}

// ClearStatus empties the status slot
func (r *Renderer) ClearStatus() {
	r.surface.SetText(SlotErrorMessage, "")
}

// RankText formats the rank slot, e.g. "#1500" or "#--"
func RankText(rank models.Ranking) string {
	return "#" + rank.String()
}

// BarPercent is solved/total*100 clamped to [0,100]; 0 when total is 0
func BarPercent(solved, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clampPercent(float64(solved) / float64(total) * 100)
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// FormatPercent renders a CSS percentage such as "10%" or "1.875%"
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// ConicGradient is the CSS background of the gauge at pct percent
func ConicGradient(pct float64) string {
	p := strconv.FormatFloat(clampPercent(pct), 'f', -1, 64)
	return fmt.Sprintf("conic-gradient(var(--primary-color) 0%% %s%%, %s %s%% 100%%)", p, GaugeBackgroundTone, p)
}
