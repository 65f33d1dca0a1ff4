package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aniket-Chugh/cf-tracker/internal/model"
)

func sub(id int64, contest int, index string, verdict model.Verdict, at int64, rating int, tags ...string) model.Submission {
	p := model.Problem{ContestID: contest, Index: index, Tags: tags}
	if rating > 0 {
		p.Rating = model.NewRating(rating)
	}
	return model.Submission{ID: id, Problem: p, Verdict: verdict, CreatedAt: at}
}

func TestNormalize_SortsAndDedupesSolved(t *testing.T) {
	raw := []model.Submission{
		sub(3, 1, "A", model.VerdictOK, 300, 800, "math"),
		sub(1, 2, "B", model.VerdictWrongAnswer, 100, 1200, "dp"),
		sub(2, 1, "A", model.VerdictOK, 200, 800, "math"), // earlier solve of same problem
	}

	n := Normalize(raw)

	require.Len(t, n.Submissions, 3)
	assert.Equal(t, int64(100), n.Submissions[0].CreatedAt)
	assert.Equal(t, int64(300), n.Submissions[2].CreatedAt)

	assert.Equal(t, 1, n.SolvedCount())
	assert.True(t, n.IsSolved("1A"))
	assert.False(t, n.IsSolved("2B"))
	assert.Equal(t, int64(200), n.FirstSolved["1A"], "first solve timestamp retained")
	require.Len(t, n.RatingProgress, 1)
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := Normalize(nil)
	assert.Empty(t, n.Submissions)
	assert.Equal(t, 0, n.SolvedCount())

	agg := Aggregate(n)
	assert.Zero(t, agg.Accuracy)
	assert.Zero(t, agg.AverageDifficulty)
	assert.Empty(t, agg.TagStats)

	assert.Equal(t, StreakStats{}, Streaks(n, time.Now()))
	assert.Nil(t, MinePatterns(n))
}

func TestAggregate_AccuracyBoundsAndRounding(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, 100, 800, "math"),
		sub(2, 2, "B", model.VerdictWrongAnswer, 200, 1200, "dp"),
		sub(3, 3, "C", model.VerdictTimeLimitExceeded, 300, 1400, "graphs"),
	}

	agg := Aggregate(Normalize(raw))

	assert.Equal(t, 3, agg.TotalCount)
	assert.Equal(t, 1, agg.SolvedCount)
	assert.InDelta(t, 33.33, agg.Accuracy, 0.001, "1/3 rounded to 2 decimals")
	assert.GreaterOrEqual(t, agg.Accuracy, 0.0)
	assert.LessOrEqual(t, agg.Accuracy, 100.0)
}

func TestAggregate_TagAndWrongTagStats(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, 100, 800, "math", "greedy"),
		sub(2, 1, "B", model.VerdictWrongAnswer, 200, 1200, "math"),
		sub(3, 1, "C", model.VerdictOK, 300, 0, "greedy"),
	}

	agg := Aggregate(Normalize(raw))

	assert.Equal(t, 1, agg.TagStats["math"])
	assert.Equal(t, 2, agg.TagStats["greedy"], "multi-tag submissions increment every tag")
	assert.Equal(t, 1, agg.WrongTagStats["math"])
	assert.Zero(t, agg.WrongTagStats["greedy"])
}

func TestAggregate_UnratedExcludedFromRatingAggregates(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, 100, 1000, "math"),
		sub(2, 1, "B", model.VerdictOK, 200, 0, "math"), // no rating
	}

	agg := Aggregate(Normalize(raw))

	assert.Equal(t, 1000, agg.AverageDifficulty, "unrated solve excluded from mean")
	assert.Equal(t, 1, agg.DifficultyDistribution["1000"])
	assert.Equal(t, 1, agg.DifficultyDistribution["Unknown"])
	assert.Equal(t, 2, agg.TagStats["math"], "but still counted in tag stats")
	assert.InDelta(t, 100.0, agg.Accuracy, 0.001, "and in accuracy")
}

func TestAggregate_AverageDifficultyRounding(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, 100, 800),
		sub(2, 1, "B", model.VerdictOK, 200, 901),
	}
	agg := Aggregate(Normalize(raw))
	assert.Equal(t, 851, agg.AverageDifficulty, "850.5 rounds to nearest integer")
}

func TestAggregate_Hourly(t *testing.T) {
	base := time.Date(2024, 6, 1, 9, 30, 0, 0, time.Local)
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, base.Unix(), 800),
		sub(2, 1, "B", model.VerdictWrongAnswer, base.Add(10*time.Minute).Unix(), 900),
		sub(3, 1, "C", model.VerdictOK, base.Add(5*time.Hour).Unix(), 1000),
	}

	agg := Aggregate(Normalize(raw))

	nine := agg.Hourly[9]
	assert.Equal(t, 2, nine.Submissions)
	assert.Equal(t, 1, nine.Solved)
	assert.InDelta(t, 50.0, nine.SuccessRate(), 0.001)

	assert.Equal(t, 1, agg.Hourly[14].Submissions)
	assert.Zero(t, agg.Hourly[0].Submissions)
	assert.Zero(t, HourBucket{}.SuccessRate(), "empty bucket rate is 0")
}

func TestAggregate_OrderIndependence(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, 100, 800, "math"),
		sub(2, 1, "B", model.VerdictWrongAnswer, 200, 1200, "dp"),
		sub(3, 2, "A", model.VerdictOK, 300, 900, "greedy", "math"),
		sub(4, 2, "B", model.VerdictRuntimeError, 400, 1500, "trees"),
		sub(5, 3, "A", model.VerdictOK, 500, 1100, "dp"),
	}
	want := Aggregate(Normalize(raw))

	shuffled := make([]model.Submission, len(raw))
	copy(shuffled, raw)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Aggregate(Normalize(shuffled))
		assert.Equal(t, want.TagStats, got.TagStats)
		assert.Equal(t, want.WrongTagStats, got.WrongTagStats)
		assert.Equal(t, want.Accuracy, got.Accuracy)
		assert.Equal(t, want.DifficultyDistribution, got.DifficultyDistribution)
	}
}

func TestStreaks_MaxRunWithGap(t *testing.T) {
	day := func(d int) int64 {
		return time.Date(2024, 1, d, 12, 0, 0, 0, time.Local).Unix()
	}
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, day(1), 800),
		sub(2, 1, "B", model.VerdictOK, day(2), 800),
		sub(3, 1, "C", model.VerdictOK, day(3), 800),
		sub(4, 1, "D", model.VerdictOK, day(5), 800),
	}
	n := Normalize(raw)

	// "Today" is well past the last solve: current streak is 0.
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	s := Streaks(n, now)
	assert.Equal(t, 3, s.Max)
	assert.Equal(t, 0, s.Current)
}

func TestStreaks_CurrentCountsBackFromToday(t *testing.T) {
	day := func(d int) int64 {
		return time.Date(2024, 1, d, 23, 0, 0, 0, time.Local).Unix()
	}
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, day(3), 800),
		sub(2, 1, "B", model.VerdictOK, day(4), 800),
		sub(3, 1, "C", model.VerdictOK, day(5), 800),
	}
	n := Normalize(raw)

	now := time.Date(2024, 1, 5, 6, 0, 0, 0, time.Local)
	s := Streaks(n, now)
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Max)

	// Yesterday solved but not today: current resets to 0.
	nextDay := time.Date(2024, 1, 6, 6, 0, 0, 0, time.Local)
	assert.Equal(t, 0, Streaks(n, nextDay).Current)
}

func TestStreaks_SingleDate(t *testing.T) {
	at := time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)
	n := Normalize([]model.Submission{sub(1, 1, "A", model.VerdictOK, at.Unix(), 800)})

	s := Streaks(n, at)
	assert.Equal(t, 1, s.Max)
	assert.Equal(t, 1, s.Current)
}

func TestStreaks_MultipleSolvesSameDay(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, day1.Unix(), 800),
		sub(2, 1, "B", model.VerdictOK, day1.Add(2*time.Hour).Unix(), 900),
		sub(3, 1, "C", model.VerdictOK, day1.AddDate(0, 0, 1).Unix(), 1000),
	}
	s := Streaks(Normalize(raw), day1.AddDate(0, 0, 1))
	assert.Equal(t, 2, s.Max, "duplicate dates collapse to one")
	assert.Equal(t, 2, s.Current)
}

func TestClassify_WeakTagGating(t *testing.T) {
	agg := &Aggregates{
		TagStats:      map[string]int{"dp": 2, "greedy": 1},
		WrongTagStats: map[string]int{"dp": 3, "greedy": 1},
	}

	c := Classify(agg)

	require.Len(t, c.Weak, 1)
	assert.Equal(t, "dp", c.Weak[0].Tag, "0.4 success over 5 attempts is weak")
	assert.InDelta(t, 0.4, c.Weak[0].SuccessRate, 0.001)
	// greedy: 0.5 success over 2 attempts fails both the rate and the
	// attempt floor.
}

func TestClassify_WeakOrderAscendingByWrong(t *testing.T) {
	agg := &Aggregates{
		TagStats:      map[string]int{"dp": 1, "graphs": 1, "trees": 1},
		WrongTagStats: map[string]int{"dp": 9, "graphs": 2, "trees": 5},
	}

	c := Classify(agg)

	require.Len(t, c.Weak, 3)
	assert.Equal(t, []string{"graphs", "trees", "dp"}, c.WeakTagNames())
}

func TestClassify_StrongNoAttemptFloor(t *testing.T) {
	agg := &Aggregates{
		TagStats:      map[string]int{"math": 10, "dp": 3, "strings": 1},
		WrongTagStats: map[string]int{},
	}

	c := Classify(agg)

	require.Len(t, c.Strong, 3)
	assert.Equal(t, "math", c.Strong[0].Tag)
	assert.Equal(t, "strings", c.Strong[2].Tag, "a single solve still ranks")
	assert.Empty(t, c.Weak)
}

func TestClassify_TopFiveCaps(t *testing.T) {
	agg := &Aggregates{TagStats: map[string]int{}, WrongTagStats: map[string]int{}}
	for _, tag := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		agg.TagStats[tag] = 1
		agg.WrongTagStats[tag] = 10
	}

	c := Classify(agg)
	assert.Len(t, c.Weak, 5)
	assert.Len(t, c.Strong, 5)
}

func TestMinePatterns_BucketsToNearestHundred(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictWrongAnswer, 100, 1190, "dp"),
		sub(2, 1, "B", model.VerdictWrongAnswer, 200, 1210, "dp"),
		sub(3, 1, "C", model.VerdictWrongAnswer, 300, 1250, "dp"),
	}

	patterns := MinePatterns(Normalize(raw))

	require.Len(t, patterns, 1)
	assert.Equal(t, "dp", patterns[0].Tag)
	assert.Equal(t, 1200, patterns[0].Rating)
	assert.Equal(t, 3, patterns[0].Count)
}

func TestMinePatterns_SkipsAcceptedAndUnrated(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, 100, 1200, "dp"),
		sub(2, 1, "B", model.VerdictWrongAnswer, 200, 0, "dp"), // unrated
		sub(3, 1, "C", model.VerdictWrongAnswer, 300, 800, "math"),
	}

	patterns := MinePatterns(Normalize(raw))

	require.Len(t, patterns, 1)
	assert.Equal(t, "math", patterns[0].Tag)
	assert.Equal(t, 800, patterns[0].Rating)
}

func TestMinePatterns_TagWithDash(t *testing.T) {
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictWrongAnswer, 100, 1540, "2-sat"),
	}

	patterns := MinePatterns(Normalize(raw))

	require.Len(t, patterns, 1)
	assert.Equal(t, "2-sat", patterns[0].Tag)
	assert.Equal(t, 1500, patterns[0].Rating)
}

func TestMinePatterns_TopFiveByFrequency(t *testing.T) {
	var raw []model.Submission
	id := int64(1)
	add := func(times, rating int, tag string) {
		for i := 0; i < times; i++ {
			raw = append(raw, sub(id, int(id), "A", model.VerdictWrongAnswer, id*100, rating, tag))
			id++
		}
	}
	add(6, 1200, "dp")
	add(5, 800, "math")
	add(4, 1500, "graphs")
	add(3, 1000, "greedy")
	add(2, 900, "trees")
	add(1, 1100, "strings")

	patterns := MinePatterns(Normalize(raw))

	require.Len(t, patterns, 5)
	assert.Equal(t, "dp", patterns[0].Tag)
	assert.Equal(t, 6, patterns[0].Count)
	for _, p := range patterns {
		assert.NotEqual(t, "strings", p.Tag, "least frequent bucket is cut")
	}
}

func TestAnalyzeContests_AvgBestWorst(t *testing.T) {
	changes := []model.RatingChange{
		{ContestID: 1, OldRating: 1400, NewRating: 1450, UpdatedAt: 100},
		{ContestID: 2, OldRating: 1450, NewRating: 1420, UpdatedAt: 200},
	}

	perf := AnalyzeContests(changes)

	require.NotNil(t, perf)
	assert.Equal(t, 10, perf.AvgChange, "(50-30)/2")
	assert.Equal(t, 1, perf.Best.ContestID)
	assert.Equal(t, 2, perf.Worst.ContestID)
	assert.Equal(t, 2, perf.TotalContests)
	assert.Equal(t, 1, perf.PositiveCount)
	assert.Equal(t, LabelGood, perf.Results[0].Label)
	assert.Equal(t, LabelNeedsImprovement, perf.Results[1].Label)
}

func TestAnalyzeContests_ZeroDeltaNotGood(t *testing.T) {
	perf := AnalyzeContests([]model.RatingChange{
		{ContestID: 1, OldRating: 1400, NewRating: 1400},
	})
	require.NotNil(t, perf)
	assert.Equal(t, LabelNeedsImprovement, perf.Results[0].Label)
	assert.Zero(t, perf.PositiveCount)
}

func TestAnalyzeContests_TiesKeepFirst(t *testing.T) {
	perf := AnalyzeContests([]model.RatingChange{
		{ContestID: 1, OldRating: 1000, NewRating: 1050},
		{ContestID: 2, OldRating: 1050, NewRating: 1100},
	})
	assert.Equal(t, 1, perf.Best.ContestID, "equal deltas keep the first encountered")
	assert.Equal(t, 1, perf.Worst.ContestID)
}

func TestAnalyzeContests_Empty(t *testing.T) {
	assert.Nil(t, AnalyzeContests(nil))
}

func TestComputeSnapshot_EndToEnd(t *testing.T) {
	now := time.Date(2024, 5, 20, 18, 0, 0, 0, time.Local)
	raw := []model.Submission{
		sub(1, 1, "A", model.VerdictOK, now.Add(-2*time.Hour).Unix(), 800, "math"),
		sub(2, 1, "B", model.VerdictWrongAnswer, now.Add(-time.Hour).Unix(), 1200, "dp"),
	}

	snap := ComputeSnapshot(raw, now)

	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Aggregates.SolvedCount)
	assert.Equal(t, 1, snap.Streaks.Current)
	assert.Equal(t, now, snap.ComputedAt)
}
