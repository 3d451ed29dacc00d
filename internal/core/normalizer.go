package core

import (
	"math"

	"github.com/tidwall/gjson"

	"leetstats/pkg/models"
)

// Difficulty tags in matchedUserStats.acSubmissionNum, matched exactly
const (
	tagAll    = "All"
	tagEasy   = "Easy"
	tagMedium = "Medium"
	tagHard   = "Hard"
)

// shapeAdapter reads solved counts out of one response layout
type shapeAdapter interface {
	totalSolved(root gjson.Result) int
	solved(root gjson.Result, tag string) int
}

type flatAdapter struct{}

var flatSolvedFields = map[string]string{
	tagEasy:   "easySolved",
	tagMedium: "mediumSolved",
	tagHard:   "hardSolved",
}

func (flatAdapter) totalSolved(root gjson.Result) int {
	return count(root.Get("totalSolved"))
}

func (flatAdapter) solved(root gjson.Result, tag string) int {
	return count(root.Get(flatSolvedFields[tag]))
}

type profileAdapter struct{}

func (profileAdapter) totalSolved(root gjson.Result) int {
	if entry, ok := findTag(root, tagAll); ok {
		return count(entry.Get("count"))
	}
	return count(root.Get("totalSolved"))
}

func (profileAdapter) solved(root gjson.Result, tag string) int {
	entry, ok := findTag(root, tag)
	if !ok {
		return 0
	}
	return count(entry.Get("count"))
}

// findTag returns the first acSubmissionNum entry whose difficulty equals tag
func findTag(root gjson.Result, tag string) (gjson.Result, bool) {
	list := root.Get("matchedUserStats.acSubmissionNum")
	if !list.IsArray() {
		return gjson.Result{}, false
	}
	var found gjson.Result
	ok := false
	list.ForEach(func(_, entry gjson.Result) bool {
		d := entry.Get("difficulty")
		if d.Type == gjson.String && d.Str == tag {
			found, ok = entry, true
			return false
		}
		return true
	})
	return found, ok
}

func adapterFor(shape models.Shape, root gjson.Result) shapeAdapter {
	switch shape {
	case models.ShapeProfile:
		return profileAdapter{}
	case models.ShapeAuto:
		if root.Get("matchedUserStats.acSubmissionNum").IsArray() {
			return profileAdapter{}
		}
		return flatAdapter{}
	default:
		return flatAdapter{}
	}
}

// count accepts only finite, positive JSON numbers. Fractions truncate.
func count(r gjson.Result) int {
	if r.Type != gjson.Number {
		return 0
	}
	f := r.Num
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// Normalize converts an untrusted upstream body into a fully populated
// DisplayModel. It never fails: anything missing or malformed becomes 0,
// or "--" for the ranking.
func Normalize(raw models.RawStatsResponse) models.DisplayModel {
	root := gjson.ParseBytes(raw.Body)
	adapter := adapterFor(raw.Shape, root)

	totalQuestions := count(root.Get("totalQuestions"))
	if totalQuestions < 1 {
		totalQuestions = 1
	}
	totalSolved := adapter.totalSolved(root)

	return models.DisplayModel{
		Ranking:        models.RankOf(count(root.Get("ranking"))),
		TotalSolved:    totalSolved,
		TotalQuestions: totalQuestions,
		ByDifficulty: models.Difficulties{
			Easy:   models.DifficultyStats{Solved: adapter.solved(root, tagEasy), Total: count(root.Get("totalEasy"))},
			Medium: models.DifficultyStats{Solved: adapter.solved(root, tagMedium), Total: count(root.Get("totalMedium"))},
			Hard:   models.DifficultyStats{Solved: adapter.solved(root, tagHard), Total: count(root.Get("totalHard"))},
		},
		CompletionPercent: CompletionPercent(totalSolved, totalQuestions),
	}
}

// CompletionPercent is round(100*solved/total) clamped to [0,100], with
// total clamped to at least 1.
func CompletionPercent(solved, total int) int {
	if total < 1 {
		total = 1
	}
	if solved <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(solved) / float64(total)))
	if pct > 100 {
		return 100
	}
	return pct
}
