package models

import (
	"encoding/json"
	"strconv"
)

// RankingSentinel is shown when no numeric rank is available
const RankingSentinel = "--"

// Shape identifies which upstream response layout a payload follows
type Shape string

const (
	// ShapeAuto picks the layout from the payload itself
	ShapeAuto Shape = "auto"
	// ShapeFlat is the flat easySolved/totalEasy/... layout
	ShapeFlat Shape = "flat"
	// ShapeProfile is the userProfile layout with matchedUserStats.acSubmissionNum
	ShapeProfile Shape = "profile"
)

// ParseShape converts a config or flag value into a Shape
func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case ShapeAuto, ShapeFlat, ShapeProfile:
		return Shape(s), nil
	case "":
		return ShapeFlat, nil
	default:
		return "", ErrInvalidShape
	}
}

// RawStatsResponse is the untrusted upstream body, kept byte-for-byte.
// Shape records which endpoint produced it.
type RawStatsResponse struct {
	Shape Shape
	Body  []byte
}

// Ranking is either a positive integer rank or the sentinel
type Ranking struct {
	value int
	known bool
}

// RankOf returns a known ranking; non-positive values become the sentinel
func RankOf(v int) Ranking {
	if v <= 0 {
		return Ranking{}
	}
	return Ranking{value: v, known: true}
}

// UnknownRank returns the sentinel ranking
func UnknownRank() Ranking {
	return Ranking{}
}

// Value returns the numeric rank and whether it is known
func (r Ranking) Value() (int, bool) {
	return r.value, r.known
}

func (r Ranking) String() string {
	if !r.known {
		return RankingSentinel
	}
	return strconv.Itoa(r.value)
}

// MarshalJSON encodes a known rank as a number and the sentinel as "--"
func (r Ranking) MarshalJSON() ([]byte, error) {
	if !r.known {
		return json.Marshal(RankingSentinel)
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON accepts a number or the sentinel string
func (r *Ranking) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = RankOf(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = UnknownRank()
	return nil
}

// DifficultyStats is the solved/total pair for one difficulty tier
type DifficultyStats struct {
	Solved int `json:"solved"`
	Total  int `json:"total"`
}

// Difficulties groups the three difficulty tiers
type Difficulties struct {
	Easy   DifficultyStats `json:"easy"`
	Medium DifficultyStats `json:"medium"`
	Hard   DifficultyStats `json:"hard"`
}

// DisplayModel is the fully populated result of one lookup.
// TotalQuestions is never below 1 and CompletionPercent is within [0,100].
type DisplayModel struct {
	Ranking           Ranking      `json:"ranking"`
	TotalSolved       int          `json:"totalSolved"`
	TotalQuestions    int          `json:"totalQuestions"`
	ByDifficulty      Difficulties `json:"byDifficulty"`
	CompletionPercent int          `json:"completionPercent"`
}

// ResetModel is applied whenever a lookup fails
func ResetModel() DisplayModel {
	return DisplayModel{
		Ranking:        UnknownRank(),
		TotalQuestions: 1,
	}
}
