package render

import (
	"sync"

	"leetstats/pkg/models"
)

// Board is an in-memory Surface safe for concurrent use.
// Every presentation surface renders into one and reads it back.
type Board struct {
	mu    sync.RWMutex
	slots models.Slots
}

// NewBoard returns a board already showing the reset model
func NewBoard() *Board {
	b := &Board{}
	New(b).Reset()
	return b
}

func (b *Board) bar(id SlotID) *models.BarSlot {
	switch id {
	case SlotEasySolved, SlotEasyTotal, SlotEasyProgress:
		return &b.slots.Easy
	case SlotMediumSolved, SlotMediumTotal, SlotMediumProgress:
		return &b.slots.Medium
	case SlotHardSolved, SlotHardTotal, SlotHardProgress:
		return &b.slots.Hard
	}
	return nil
}

// SetText implements Surface
func (b *Board) SetText(id SlotID, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch id {
	case SlotUserRank:
		b.slots.Rank = text
	case SlotTotalSolved:
		b.slots.TotalSolved = text
	case SlotErrorMessage:
		b.slots.Status = text
	case SlotEasySolved, SlotMediumSolved, SlotHardSolved:
		b.bar(id).Solved = text
	case SlotEasyTotal, SlotMediumTotal, SlotHardTotal:
		b.bar(id).Total = text
	}
}

// SetWidth implements Surface
func (b *Board) SetWidth(id SlotID, percent float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch id {
	case SlotEasyProgress, SlotMediumProgress, SlotHardProgress:
		bar := b.bar(id)
		bar.Fill = percent
		bar.Width = FormatPercent(percent)
	}
}

// SetGauge implements Surface
func (b *Board) SetGauge(id SlotID, percent float64, background string) {
	if id != SlotProgressCircle {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots.Gauge = models.GaugeSlot{Fill: percent, Background: background}
}

// Snapshot returns a copy of every slot
func (b *Board) Snapshot() models.Slots {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.slots
}

// Status returns the current status text
func (b *Board) Status() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.slots.Status
}
