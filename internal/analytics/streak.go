package analytics

import (
	"math"
	"sort"
	"time"
)

// StreakStats holds consecutive-day solve streaks.
type StreakStats struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// dateOf truncates t to its local calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Streaks computes the maximum and current consecutive-day solve
// streaks. A day counts when it has at least one accepted submission.
// The current streak counts back from now's calendar date and is 0
// when today has no solve.
func Streaks(n *Normalized, now time.Time) StreakStats {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, s := range n.Submissions {
		if !s.Verdict.Accepted() {
			continue
		}
		d := dateOf(s.Time())
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return StreakStats{}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	maxStreak := 1
	run := 1
	for i := 1; i < len(dates); i++ {
		switch gapDays(dates[i-1], dates[i]) {
		case 0:
			// Duplicate date; cannot happen after dedup above.
		case 1:
			run++
			if run > maxStreak {
				maxStreak = run
			}
		default:
			run = 1
		}
	}

	current := 0
	for d := dateOf(now); seen[d]; d = d.AddDate(0, 0, -1) {
		current++
	}

	return StreakStats{Current: current, Max: maxStreak}
}

// gapDays returns the whole calendar days between two local dates.
func gapDays(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
