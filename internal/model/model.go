package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Verdict is the judge-reported outcome of a single submission.
type Verdict string

const (
	VerdictOK                  Verdict = "OK"
	VerdictWrongAnswer         Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded   Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimitExceeded Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError        Verdict = "RUNTIME_ERROR"
	VerdictCompilationError    Verdict = "COMPILATION_ERROR"
	VerdictOther               Verdict = "OTHER"
)

// Accepted reports whether the verdict denotes a correct solution.
func (v Verdict) Accepted() bool {
	return v == VerdictOK
}

// UnmarshalJSON collapses verdict strings outside the known set to
// VerdictOther so new upstream verdicts never break aggregation.
func (v *Verdict) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("verdict: %w", err)
	}
	switch Verdict(s) {
	case VerdictOK, VerdictWrongAnswer, VerdictTimeLimitExceeded,
		VerdictMemoryLimitExceeded, VerdictRuntimeError, VerdictCompilationError:
		*v = Verdict(s)
	default:
		*v = VerdictOther
	}
	return nil
}

// Rating is an optional integer: a user's skill rating or a problem's
// difficulty rating. Absent JSON fields leave the zero value, which is
// not Valid.
type Rating struct {
	Value int
	Valid bool
}

// NewRating returns a valid rating with the given value.
func NewRating(v int) Rating {
	return Rating{Value: v, Valid: true}
}

func (r Rating) String() string {
	if !r.Valid {
		return "Unknown"
	}
	return strconv.Itoa(r.Value)
}

// Or returns the rating value, or def when the rating is absent.
func (r Rating) Or(def int) int {
	if !r.Valid {
		return def
	}
	return r.Value
}

func (r *Rating) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Rating{}
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	*r = Rating{Value: v, Valid: true}
	return nil
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// Problem is one entry of the global problem catalog. Identity is
// ContestID concatenated with Index, unique within the catalog.
type Problem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    Rating   `json:"rating"`
	Tags      []string `json:"tags"`
}

// Key returns the problem identity used for solved-set deduplication.
func (p Problem) Key() string {
	return strconv.Itoa(p.ContestID) + p.Index
}

// HasTag reports whether the problem carries the given tag.
func (p Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the problem carries at least one of the tags.
func (p Problem) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}

// Submission is one judged attempt at a problem.
type Submission struct {
	ID        int64   `json:"id"`
	Problem   Problem `json:"problem"`
	Verdict   Verdict `json:"verdict"`
	CreatedAt int64   `json:"creationTimeSeconds"`
}

// ProblemKey returns the identity of the attempted problem.
func (s Submission) ProblemKey() string {
	return s.Problem.Key()
}

// Time returns the submission time in the local timezone.
func (s Submission) Time() time.Time {
	return time.Unix(s.CreatedAt, 0)
}

// RatingChange is one contest outcome from the user's rating history.
type RatingChange struct {
	ContestID   int    `json:"contestId"`
	ContestName string `json:"contestName"`
	Rank        int    `json:"rank"`
	OldRating   int    `json:"oldRating"`
	NewRating   int    `json:"newRating"`
	UpdatedAt   int64  `json:"ratingUpdateTimeSeconds"`
}

// Delta returns the rating change of the contest.
func (rc RatingChange) Delta() int {
	return rc.NewRating - rc.OldRating
}

// Profile is the user's public profile on the judge.
type Profile struct {
	Handle    string `json:"handle"`
	Rating    Rating `json:"rating"`
	MaxRating Rating `json:"maxRating"`
	Rank      string `json:"rank"`
	MaxRank   string `json:"maxRank"`
}

// BestRating returns the current rating, falling back to the historical
// maximum for users whose current rating is absent.
func (p Profile) BestRating() Rating {
	if p.Rating.Valid {
		return p.Rating
	}
	return p.MaxRating
}

// Contest is one entry of the judge's contest list.
type Contest struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Phase     string `json:"phase"`
	StartTime int64  `json:"startTimeSeconds"`
}
