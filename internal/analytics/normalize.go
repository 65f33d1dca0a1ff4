// Package analytics derives practice metrics from a user's submission
// history: aggregate counts, day streaks, weak/strong tag
// classification, wrong-answer patterns, and contest performance.
// Every function is a pure function of its inputs and tolerates empty
// input, yielding zero-valued aggregates.
package analytics

import (
	"sort"

	"github.com/Aniket-Chugh/cf-tracker/internal/model"
)

// ProgressPoint is one step of the rating-progress series: the problem
// rating at the moment a problem was first solved.
type ProgressPoint struct {
	At     int64        `json:"at"`
	Rating model.Rating `json:"rating"`
	Key    string       `json:"problem"`
}

// Normalized is the cleaned submission history every downstream stage
// consumes.
type Normalized struct {
	// Submissions sorted ascending by creation time.
	Submissions []model.Submission

	// FirstSolved maps problem identity to the first accepted
	// submission's timestamp.
	FirstSolved map[string]int64

	// SolvedOrder lists problem identities in first-solve order.
	SolvedOrder []string

	// RatingProgress holds one point per first solve, in time order.
	RatingProgress []ProgressPoint
}

// SolvedCount returns the number of distinct solved problems.
func (n *Normalized) SolvedCount() int {
	return len(n.SolvedOrder)
}

// IsSolved reports whether the problem identity has an accepted
// submission.
func (n *Normalized) IsSolved(key string) bool {
	_, ok := n.FirstSolved[key]
	return ok
}

// Normalize sorts the raw submission list ascending by time and
// derives the solved set in first-solve order. The input slice is not
// modified.
func Normalize(raw []model.Submission) *Normalized {
	subs := make([]model.Submission, len(raw))
	copy(subs, raw)
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].CreatedAt < subs[j].CreatedAt
	})

	n := &Normalized{
		Submissions: subs,
		FirstSolved: make(map[string]int64),
	}
	for _, s := range subs {
		if !s.Verdict.Accepted() {
			continue
		}
		key := s.ProblemKey()
		if _, seen := n.FirstSolved[key]; seen {
			continue
		}
		n.FirstSolved[key] = s.CreatedAt
		n.SolvedOrder = append(n.SolvedOrder, key)
		n.RatingProgress = append(n.RatingProgress, ProgressPoint{
			At:     s.CreatedAt,
			Rating: s.Problem.Rating,
			Key:    key,
		})
	}
	return n
}
