package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const patternLimit = 5

// Pattern is a recurring (tag, rating-bucket) combination among
// rejected submissions. Rating is the bucket midpoint, a problem
// rating rounded to the nearest hundred.
type Pattern struct {
	Tag    string `json:"tag"`
	Rating int    `json:"rating"`
	Count  int    `json:"count"`
}

// MinePatterns finds the most frequent (tag, rating-bucket) pairs
// among rejected submissions on rated problems, at most 5, most
// frequent first.
func MinePatterns(n *Normalized) []Pattern {
	counts := make(map[string]int)
	for _, s := range n.Submissions {
		if s.Verdict.Accepted() || !s.Problem.Rating.Valid {
			continue
		}
		bucket := int(math.Round(float64(s.Problem.Rating.Value)/100)) * 100
		for _, tag := range s.Problem.Tags {
			counts[fmt.Sprintf("%s-%d", tag, bucket)]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > patternLimit {
		keys = keys[:patternLimit]
	}

	patterns := make([]Pattern, 0, len(keys))
	for _, k := range keys {
		// Split on the final dash; tags themselves may contain dashes
		// ("divide and conquer" does not, but "2-sat" does).
		cut := strings.LastIndex(k, "-")
		rating, _ := strconv.Atoi(k[cut+1:])
		patterns = append(patterns, Pattern{
			Tag:    k[:cut],
			Rating: rating,
			Count:  counts[k],
		})
	}
	return patterns
}
