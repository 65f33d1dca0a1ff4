// Package pipeline coordinates feed fetches and analytics
// recomputation. Profile and submission-history fetches run
// concurrently and are joined before derivation; every fetch carries a
// monotonically increasing per-feed token so a late response for a
// superseded request is discarded instead of overwriting newer state.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Aniket-Chugh/cf-tracker/internal/analytics"
	"github.com/Aniket-Chugh/cf-tracker/internal/metrics"
	"github.com/Aniket-Chugh/cf-tracker/internal/model"
)

// Feeds is the upstream surface the coordinator consumes. Implemented
// by *judge.Client.
type Feeds interface {
	UserInfo(ctx context.Context, handle string) (*model.Profile, error)
	UserStatus(ctx context.Context, handle string, count int) ([]model.Submission, error)
	UserRating(ctx context.Context, handle string) ([]model.RatingChange, error)
}

// Feed names used for tokens, logs, and metrics.
const (
	feedProfile     = "profile"
	feedSubmissions = "submissions"
	feedRating      = "rating"
)

// State is the most recent joined view of all feeds plus the derived
// analytics. Derived values are recomputed only when their input feed
// version changes; absent feeds leave nil fields.
type State struct {
	Handle        string
	Profile       *model.Profile
	Submissions   []model.Submission
	RatingHistory []model.RatingChange

	Snapshot    *analytics.Snapshot
	Performance *analytics.ContestPerformance
}

// Coordinator owns the latest State and refreshes it on demand.
type Coordinator struct {
	feeds   Feeds
	metrics *metrics.Registry
	count   int
	now     func() time.Time

	mu      sync.Mutex
	tokens  map[string]uint64 // latest issued token per feed
	version map[string]uint64 // bumped on each accepted feed result
	state   State

	snapshotFrom    uint64 // submissions version the snapshot derives from
	performanceFrom uint64 // rating version the performance derives from
}

// Options configure a Coordinator.
type Options struct {
	// SubmissionCount is the history depth requested from the judge.
	SubmissionCount int

	// Metrics defaults to a no-op registry.
	Metrics *metrics.Registry

	// Now is injectable for streak tests; defaults to time.Now.
	Now func() time.Time
}

// New creates a coordinator over the given feeds.
func New(feeds Feeds, opts Options) *Coordinator {
	if opts.SubmissionCount == 0 {
		opts.SubmissionCount = 1000
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{
		feeds:   feeds,
		metrics: opts.Metrics,
		count:   opts.SubmissionCount,
		now:     opts.Now,
		tokens:  make(map[string]uint64),
		version: make(map[string]uint64),
	}
}

// issue hands out the next token for a feed; only the holder of the
// latest token may commit a result.
func (c *Coordinator) issue(feed string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[feed]++
	return c.tokens[feed]
}

// commit applies a feed result if token is still the latest. It
// returns false for a stale result, which the caller must drop.
func (c *Coordinator) commit(feed string, token uint64, apply func(*State)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.tokens[feed] {
		c.metrics.StaleDiscards.WithLabelValues(feed).Inc()
		log.Warn().Str("feed", feed).Uint64("token", token).
			Uint64("latest", c.tokens[feed]).Msg("stale fetch result discarded")
		return false
	}
	apply(&c.state)
	c.version[feed]++
	return true
}

// Refresh fetches all feeds for handle and recomputes derived state.
// Individual feed failures degrade to absent data; Refresh itself only
// fails when the context dies first.
func (c *Coordinator) Refresh(ctx context.Context, handle string) (State, error) {
	cycle := uuid.NewString()
	logger := log.With().Str("cycle", cycle).Str("handle", handle).Logger()
	logger.Info().Msg("refresh started")

	c.mu.Lock()
	if c.state.Handle != handle {
		// New target: previous user's feeds must not leak through.
		c.state = State{Handle: handle}
		c.snapshotFrom, c.performanceFrom = 0, 0
		for k := range c.version {
			c.version[k] = 0
		}
	}
	c.mu.Unlock()

	profileToken := c.issue(feedProfile)
	subsToken := c.issue(feedSubmissions)
	ratingToken := c.issue(feedRating)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		p, err := c.feeds.UserInfo(ctx, handle)
		if err != nil {
			c.metrics.Fetches.WithLabelValues(feedProfile, "degraded").Inc()
			logger.Warn().Err(err).Msg("profile feed unavailable")
			return
		}
		c.commit(feedProfile, profileToken, func(s *State) { s.Profile = p })
	}()

	go func() {
		defer wg.Done()
		subs, err := c.feeds.UserStatus(ctx, handle, c.count)
		if err != nil {
			c.metrics.Fetches.WithLabelValues(feedSubmissions, "degraded").Inc()
			logger.Warn().Err(err).Msg("submission feed unavailable")
			return
		}
		c.commit(feedSubmissions, subsToken, func(s *State) { s.Submissions = subs })
	}()

	go func() {
		defer wg.Done()
		changes, err := c.feeds.UserRating(ctx, handle)
		if err != nil {
			c.metrics.Fetches.WithLabelValues(feedRating, "degraded").Inc()
			logger.Warn().Err(err).Msg("rating feed unavailable")
			return
		}
		c.commit(feedRating, ratingToken, func(s *State) { s.RatingHistory = changes })
	}()

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	c.recompute()

	c.mu.Lock()
	out := c.state
	c.mu.Unlock()
	logger.Info().
		Int("submissions", len(out.Submissions)).
		Int("rating_changes", len(out.RatingHistory)).
		Bool("profile", out.Profile != nil).
		Msg("refresh finished")
	return out, nil
}

// recompute refreshes derived values whose input version moved.
func (c *Coordinator) recompute() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := c.version[feedSubmissions]; v != c.snapshotFrom {
		start := time.Now()
		c.state.Snapshot = analytics.ComputeSnapshot(c.state.Submissions, c.now())
		c.snapshotFrom = v
		c.metrics.SnapshotsComputed.Inc()
		c.metrics.StageDuration.WithLabelValues("snapshot").Observe(time.Since(start).Seconds())
	}
	if v := c.version[feedRating]; v != c.performanceFrom {
		start := time.Now()
		c.state.Performance = analytics.AnalyzeContests(c.state.RatingHistory)
		c.performanceFrom = v
		c.metrics.StageDuration.WithLabelValues("performance").Observe(time.Since(start).Seconds())
	}
}

// Current returns the latest state without fetching.
func (c *Coordinator) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
