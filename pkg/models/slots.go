package models

// BarSlot is the rendered state of one difficulty row
type BarSlot struct {
	Solved string  `json:"solved"`
	Total  string  `json:"total"`
	Width  string  `json:"width"`
	Fill   float64 `json:"fill"`
}

// GaugeSlot is the rendered state of the completion gauge
type GaugeSlot struct {
	Fill       float64 `json:"fill"`
	Background string  `json:"background"`
}

// Slots is a point-in-time copy of every output slot
type Slots struct {
	Rank        string    `json:"rank"`
	TotalSolved string    `json:"totalSolved"`
	Easy        BarSlot   `json:"easy"`
	Medium      BarSlot   `json:"medium"`
	Hard        BarSlot   `json:"hard"`
	Gauge       GaugeSlot `json:"gauge"`
	Status      string    `json:"status,omitempty"`
}
