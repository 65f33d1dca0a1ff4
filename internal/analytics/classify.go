package analytics

import "sort"

const classifyLimit = 5

// weakMinAttempts is the attempt floor for a tag to qualify as weak.
// Strong tags carry no such floor; the asymmetry is intentional.
const weakMinAttempts = 3

// TagRating describes one tag's solve/fail record.
type TagRating struct {
	Tag         string  `json:"tag"`
	Solved      int     `json:"solved"`
	Wrong       int     `json:"wrong"`
	SuccessRate float64 `json:"successRate"`
}

// Classification splits tags into the user's weakest and strongest
// topics.
type Classification struct {
	Weak   []TagRating `json:"weakTags"`
	Strong []TagRating `json:"strongTags"`
}

// Classify derives weak and strong tags from aggregated tag counts.
// A tag is weak when its success rate is below 0.5 over at least 3
// attempts; the weak list is ordered ascending by wrong-submission
// count, ties by tag name, and capped at 5. Strong tags are ordered
// descending by solved count, same cap.
func Classify(agg *Aggregates) Classification {
	var c Classification

	for tag, wrong := range agg.WrongTagStats {
		solved := agg.TagStats[tag]
		attempts := solved + wrong
		rate := 0.0
		if attempts > 0 {
			rate = float64(solved) / float64(attempts)
		}
		if rate < 0.5 && attempts >= weakMinAttempts {
			c.Weak = append(c.Weak, TagRating{
				Tag:         tag,
				Solved:      solved,
				Wrong:       wrong,
				SuccessRate: rate,
			})
		}
	}
	sort.Slice(c.Weak, func(i, j int) bool {
		if c.Weak[i].Wrong != c.Weak[j].Wrong {
			return c.Weak[i].Wrong < c.Weak[j].Wrong
		}
		return c.Weak[i].Tag < c.Weak[j].Tag
	})
	if len(c.Weak) > classifyLimit {
		c.Weak = c.Weak[:classifyLimit]
	}

	for tag, solved := range agg.TagStats {
		wrong := agg.WrongTagStats[tag]
		attempts := solved + wrong
		rate := 0.0
		if attempts > 0 {
			rate = float64(solved) / float64(attempts)
		}
		c.Strong = append(c.Strong, TagRating{
			Tag:         tag,
			Solved:      solved,
			Wrong:       wrong,
			SuccessRate: rate,
		})
	}
	sort.Slice(c.Strong, func(i, j int) bool {
		if c.Strong[i].Solved != c.Strong[j].Solved {
			return c.Strong[i].Solved > c.Strong[j].Solved
		}
		return c.Strong[i].Tag < c.Strong[j].Tag
	})
	if len(c.Strong) > classifyLimit {
		c.Strong = c.Strong[:classifyLimit]
	}

	return c
}

// WeakTagNames returns just the weak tag labels, in rank order.
func (c Classification) WeakTagNames() []string {
	names := make([]string, len(c.Weak))
	for i, t := range c.Weak {
		names[i] = t.Tag
	}
	return names
}
