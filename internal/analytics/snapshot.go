package analytics

import (
	"time"

	"github.com/Aniket-Chugh/cf-tracker/internal/model"
)

// Snapshot is the fully derived analytics state for one submission
// history. It is immutable once computed; a changed input produces a
// fresh Snapshot.
type Snapshot struct {
	Normalized     *Normalized    `json:"-"`
	Aggregates     *Aggregates    `json:"aggregates"`
	Streaks        StreakStats    `json:"streaks"`
	Classification Classification `json:"classification"`
	Patterns       []Pattern      `json:"wrongPatterns"`
	ComputedAt     time.Time      `json:"computedAt"`
}

// ComputeSnapshot runs the full derivation pipeline over a raw
// submission list. now anchors the current-streak walk.
func ComputeSnapshot(raw []model.Submission, now time.Time) *Snapshot {
	n := Normalize(raw)
	agg := Aggregate(n)
	return &Snapshot{
		Normalized:     n,
		Aggregates:     agg,
		Streaks:        Streaks(n, now),
		Classification: Classify(agg),
		Patterns:       MinePatterns(n),
		ComputedAt:     now,
	}
}
