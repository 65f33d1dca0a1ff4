package analytics

import (
	"math"

	"github.com/Aniket-Chugh/cf-tracker/internal/model"
)

// Contest outcome labels.
const (
	LabelGood             = "Good"
	LabelNeedsImprovement = "Needs Improvement"
)

// ContestResult is one rating-history entry with its derived delta and
// label. Zero and negative deltas both label as needing improvement.
type ContestResult struct {
	model.RatingChange
	Delta int    `json:"delta"`
	Label string `json:"label"`
}

// ContestPerformance summarizes the user's recent rated contests.
type ContestPerformance struct {
	Results       []ContestResult `json:"results"`
	AvgChange     int             `json:"avgRatingChange"`
	Best          ContestResult   `json:"bestContest"`
	Worst         ContestResult   `json:"worstContest"`
	TotalContests int             `json:"totalContests"`
	PositiveCount int             `json:"positiveCount"`
}

// AnalyzeContests derives per-contest deltas, the rounded average
// change, and the single best and worst contests (ties keep the first
// encountered). Input must be oldest first. Returns nil for an empty
// history.
func AnalyzeContests(changes []model.RatingChange) *ContestPerformance {
	if len(changes) == 0 {
		return nil
	}

	perf := &ContestPerformance{
		Results:       make([]ContestResult, 0, len(changes)),
		TotalContests: len(changes),
	}
	sum := 0
	for i, rc := range changes {
		delta := rc.Delta()
		label := LabelNeedsImprovement
		if delta > 0 {
			label = LabelGood
			perf.PositiveCount++
		}
		res := ContestResult{RatingChange: rc, Delta: delta, Label: label}
		perf.Results = append(perf.Results, res)

		sum += delta
		if i == 0 || delta > perf.Best.Delta {
			perf.Best = res
		}
		if i == 0 || delta < perf.Worst.Delta {
			perf.Worst = res
		}
	}
	perf.AvgChange = int(math.Round(float64(sum) / float64(len(changes))))
	return perf
}
