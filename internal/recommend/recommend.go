// Package recommend ranks unsolved catalog problems against a user's
// analytics snapshot: weak-tag matches and wrong-pattern matches,
// ordered by distance from a target difficulty slightly above the
// user's rating.
package recommend

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/Aniket-Chugh/cf-tracker/internal/analytics"
	"github.com/Aniket-Chugh/cf-tracker/internal/model"
)

// Recommendation reasons, highest priority first.
const (
	ReasonWeakTag    = "targets a weak tag"
	ReasonPattern    = "matches a frequent wrong-answer pattern"
	ReasonSkillLevel = "matches skill level"
)

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	// TargetOffset is added to the user rating to form the preferred
	// problem difficulty.
	TargetOffset int

	// PatternWindow is the maximum |problem rating − pattern rating|
	// for a pattern match.
	PatternWindow int

	// Limit caps the returned list.
	Limit int

	// MinRating/MaxRating are the default difficulty range when the
	// caller passes a zero Range.
	MinRating int
	MaxRating int
}

// DefaultConfig mirrors the engine's stock tuning.
func DefaultConfig() Config {
	return Config{
		TargetOffset:  150,
		PatternWindow: 200,
		Limit:         15,
		MinRating:     800,
		MaxRating:     3500,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TargetOffset == 0 {
		c.TargetOffset = d.TargetOffset
	}
	if c.PatternWindow == 0 {
		c.PatternWindow = d.PatternWindow
	}
	if c.Limit == 0 {
		c.Limit = d.Limit
	}
	if c.MinRating == 0 {
		c.MinRating = d.MinRating
	}
	if c.MaxRating == 0 {
		c.MaxRating = d.MaxRating
	}
	return c
}

// Range is the user-selected difficulty window, inclusive.
type Range struct {
	Min int
	Max int
}

// Request carries the user-controlled recommendation inputs.
type Request struct {
	// UserRating is the current or historical rating. Recommendations
	// are skipped entirely when it is absent.
	UserRating model.Rating

	// TagFilter restricts weak-tag candidates; empty means no
	// restriction.
	TagFilter []string

	// Difficulty is the inclusive rating window; a zero Range falls
	// back to the configured defaults.
	Difficulty Range
}

// Recommendation is one ranked practice problem with the single
// highest-priority reason it was selected.
type Recommendation struct {
	Problem model.Problem `json:"problem"`
	Reason  string        `json:"reason"`
}

// Engine ranks catalog problems against an analytics snapshot.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given tuning.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Recommend selects and ranks practice problems. It returns nil when
// the user rating or the snapshot is absent. Candidates are the union
// of weak-tag matches and wrong-pattern matches, each excluding solved
// problems; a problem satisfying both criteria appears twice, which is
// long-standing behavior the ranking preserves.
func (e *Engine) Recommend(catalog []model.Problem, snap *analytics.Snapshot, req Request) []Recommendation {
	if snap == nil || !req.UserRating.Valid {
		log.Debug().Bool("have_snapshot", snap != nil).
			Bool("have_rating", req.UserRating.Valid).
			Msg("recommendations skipped")
		return nil
	}

	lo, hi := req.Difficulty.Min, req.Difficulty.Max
	if lo == 0 && hi == 0 {
		lo, hi = e.cfg.MinRating, e.cfg.MaxRating
	}

	weakTags := snap.Classification.WeakTagNames()
	patterns := snap.Patterns

	var candidates []Recommendation
	for _, p := range catalog {
		if snap.Normalized.IsSolved(p.Key()) {
			continue
		}
		if matchesWeakTags(p, weakTags, req.TagFilter, lo, hi) {
			candidates = append(candidates, Recommendation{Problem: p, Reason: ReasonWeakTag})
		}
	}
	for _, p := range catalog {
		if snap.Normalized.IsSolved(p.Key()) {
			continue
		}
		if e.matchesPattern(p, patterns) {
			candidates = append(candidates, Recommendation{Problem: p})
		}
	}

	target := req.UserRating.Value + e.cfg.TargetOffset
	sort.SliceStable(candidates, func(i, j int) bool {
		return distance(candidates[i].Problem, target) < distance(candidates[j].Problem, target)
	})
	if len(candidates) > e.cfg.Limit {
		candidates = candidates[:e.cfg.Limit]
	}

	for i := range candidates {
		candidates[i].Reason = e.reason(candidates[i].Problem, weakTags, patterns)
	}
	return candidates
}

// reason picks the single annotation for a recommended problem:
// weak-tag match wins over pattern match wins over the default.
func (e *Engine) reason(p model.Problem, weakTags []string, patterns []analytics.Pattern) string {
	if p.HasAnyTag(weakTags) {
		return ReasonWeakTag
	}
	if e.matchesPattern(p, patterns) {
		return ReasonPattern
	}
	return ReasonSkillLevel
}

func matchesWeakTags(p model.Problem, weakTags, filter []string, lo, hi int) bool {
	if !p.HasAnyTag(weakTags) {
		return false
	}
	if !p.Rating.Valid || p.Rating.Value < lo || p.Rating.Value > hi {
		return false
	}
	return len(filter) == 0 || p.HasAnyTag(filter)
}

func (e *Engine) matchesPattern(p model.Problem, patterns []analytics.Pattern) bool {
	if !p.Rating.Valid {
		return false
	}
	for _, pat := range patterns {
		if abs(p.Rating.Value-pat.Rating) <= e.cfg.PatternWindow && p.HasTag(pat.Tag) {
			return true
		}
	}
	return false
}

func distance(p model.Problem, target int) int {
	// Unrated problems cannot enter either candidate set, but guard
	// anyway so ranking never misbehaves on malformed input.
	if !p.Rating.Valid {
		return 1 << 30
	}
	return abs(p.Rating.Value - target)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
