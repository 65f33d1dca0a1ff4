package analytics

import (
	"math"
)

// HourBucket counts activity within one local hour of day.
type HourBucket struct {
	Submissions int `json:"submissions"`
	Solved      int `json:"solved"`
}

// SuccessRate returns solved/submissions as a percentage, 0 when the
// bucket saw no submissions.
func (b HourBucket) SuccessRate() float64 {
	if b.Submissions == 0 {
		return 0
	}
	return float64(b.Solved) / float64(b.Submissions) * 100
}

// Aggregates holds the counting statistics over the full submission
// history.
type Aggregates struct {
	TotalCount  int `json:"totalCount"`
	SolvedCount int `json:"solvedCount"`

	// Accuracy is SolvedCount/TotalCount as a percentage, rounded to
	// two decimals. 0 when there are no submissions.
	Accuracy float64 `json:"accuracy"`

	// DifficultyDistribution counts solved problems per rating;
	// problems without a rating fall under the "Unknown" key.
	DifficultyDistribution map[string]int `json:"difficultyDistribution"`

	// TagStats counts accepted submissions per tag; WrongTagStats
	// counts rejected submissions per tag. A multi-tag submission
	// increments every one of its tags.
	TagStats      map[string]int `json:"tagStats"`
	WrongTagStats map[string]int `json:"wrongTagStats"`

	// Hourly is keyed by local hour of day.
	Hourly [24]HourBucket `json:"hourlyPerformance"`

	// AverageDifficulty is the mean problem rating over accepted
	// submissions with a known rating, rounded to the nearest
	// integer. 0 when no accepted submission has a rating.
	AverageDifficulty int `json:"averageDifficulty"`
}

// Aggregate computes counting statistics from a normalized history.
// Recomputation over the same submissions in any order yields the same
// counts.
func Aggregate(n *Normalized) *Aggregates {
	agg := &Aggregates{
		TotalCount:             len(n.Submissions),
		SolvedCount:            n.SolvedCount(),
		DifficultyDistribution: make(map[string]int),
		TagStats:               make(map[string]int),
		WrongTagStats:          make(map[string]int),
	}

	ratedSolvedSum := 0
	ratedSolvedCount := 0
	for _, s := range n.Submissions {
		hour := s.Time().Hour()
		agg.Hourly[hour].Submissions++

		if s.Verdict.Accepted() {
			agg.Hourly[hour].Solved++
			for _, tag := range s.Problem.Tags {
				agg.TagStats[tag]++
			}
			if s.Problem.Rating.Valid {
				ratedSolvedSum += s.Problem.Rating.Value
				ratedSolvedCount++
			}
		} else {
			for _, tag := range s.Problem.Tags {
				agg.WrongTagStats[tag]++
			}
		}
	}

	// Distribution over distinct solved problems, keyed by the rating
	// seen at first solve.
	for _, p := range n.RatingProgress {
		agg.DifficultyDistribution[p.Rating.String()]++
	}

	if agg.TotalCount > 0 {
		raw := float64(agg.SolvedCount) / float64(agg.TotalCount) * 100
		agg.Accuracy = math.Round(raw*100) / 100
	}
	if ratedSolvedCount > 0 {
		agg.AverageDifficulty = int(math.Round(float64(ratedSolvedSum) / float64(ratedSolvedCount)))
	}
	return agg
}
