// Package judge is the read-only client for the Codeforces HTTP API.
// Every call decodes the standard {status, comment, result} envelope;
// a non-OK status, a transport failure, or a malformed body all surface
// as errors so callers can degrade the affected feed to "no data".
package judge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/Aniket-Chugh/cf-tracker/internal/cache"
	"github.com/Aniket-Chugh/cf-tracker/internal/metrics"
	"github.com/Aniket-Chugh/cf-tracker/internal/model"
	"github.com/Aniket-Chugh/cf-tracker/internal/net/ratelimit"
)

const (
	// DefaultBaseURL is the public Codeforces API root.
	DefaultBaseURL = "https://codeforces.com/api"

	// maxRatingHistory caps how many recent contests the analyzer
	// consumes, oldest first.
	maxRatingHistory = 20

	// upcomingLimit caps the upcoming-contest list.
	upcomingLimit = 8
)

// StatusError is an upstream-reported failure (status != "OK").
type StatusError struct {
	Feed    string
	Comment string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("judge: %s failed upstream: %s", e.Feed, e.Comment)
}

type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Limiter *ratelimit.Limiter
	Store   cache.Store
	TTL     time.Duration
	Metrics *metrics.Registry
}

// Client fetches the judge feeds. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
	store   cache.Store
	ttl     time.Duration
	metrics *metrics.Registry
}

// NewClient creates a judge client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.New(2, 2)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "judge-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Client{
		baseURL: opts.BaseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: opts.Limiter,
		breaker: breaker,
		store:   opts.Store,
		ttl:     opts.TTL,
		metrics: opts.Metrics,
	}
}

// get fetches one feed and returns the raw result payload.
func (c *Client) get(ctx context.Context, feed string, params url.Values) (json.RawMessage, error) {
	cacheKey := feed
	if len(params) > 0 {
		cacheKey = feed + "?" + params.Encode()
	}
	if c.store != nil {
		if b, ok := c.store.Get(ctx, cacheKey); ok {
			c.metrics.CacheHits.WithLabelValues(feed).Inc()
			return json.RawMessage(b), nil
		}
		c.metrics.CacheMisses.WithLabelValues(feed).Inc()
	}

	u, err := url.Parse(c.baseURL + "/" + feed)
	if err != nil {
		return nil, fmt.Errorf("judge: bad base url: %w", err)
	}
	u.RawQuery = params.Encode()

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("judge: rate limit wait: %w", err)
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, feed, u.String())
	})
	c.metrics.FetchLatency.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.Fetches.WithLabelValues(feed, "error").Inc()
		return nil, err
	}
	c.metrics.Fetches.WithLabelValues(feed, "ok").Inc()

	raw := result.(json.RawMessage)
	if c.store != nil && c.ttl > 0 {
		c.store.Set(ctx, cacheKey, raw, c.ttl)
	}

	log.Debug().Str("feed", feed).Dur("latency", time.Since(start)).
		Int("bytes", len(raw)).Msg("feed fetched")
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, feed, rawURL string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("judge: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge: %s: %w", feed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("judge: %s: read body: %w", feed, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("judge: %s: decode envelope: %w", feed, err)
	}
	if env.Status != "OK" {
		return nil, &StatusError{Feed: feed, Comment: env.Comment}
	}
	// Some gateways report errors with a 2xx-shaped body and vice
	// versa; the envelope status wins, but a non-2xx with an OK
	// envelope is still suspect.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge: %s: unexpected http status %d", feed, resp.StatusCode)
	}
	return env.Result, nil
}

// UserInfo fetches the profile for handle.
func (c *Client) UserInfo(ctx context.Context, handle string) (*model.Profile, error) {
	raw, err := c.get(ctx, "user.info", url.Values{"handles": {handle}})
	if err != nil {
		return nil, err
	}
	var profiles []model.Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("judge: user.info: decode result: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("judge: user.info: empty result for %q", handle)
	}
	return &profiles[0], nil
}

// UserStatus fetches up to count submissions for handle. Upstream
// ordering is not guaranteed; the normalizer re-sorts.
func (c *Client) UserStatus(ctx context.Context, handle string, count int) ([]model.Submission, error) {
	raw, err := c.get(ctx, "user.status", url.Values{
		"handle": {handle},
		"from":   {"1"},
		"count":  {strconv.Itoa(count)},
	})
	if err != nil {
		return nil, err
	}
	var subs []model.Submission
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, fmt.Errorf("judge: user.status: decode result: %w", err)
	}
	return subs, nil
}

// UserRating fetches the rating history for handle. The upstream feed
// is reverse-chronological; the result is the most recent entries,
// oldest first, capped at 20.
func (c *Client) UserRating(ctx context.Context, handle string) ([]model.RatingChange, error) {
	raw, err := c.get(ctx, "user.rating", url.Values{"handle": {handle}})
	if err != nil {
		return nil, err
	}
	var changes []model.RatingChange
	if err := json.Unmarshal(raw, &changes); err != nil {
		return nil, fmt.Errorf("judge: user.rating: decode result: %w", err)
	}

	for i, j := 0, len(changes)-1; i < j; i, j = i+1, j-1 {
		changes[i], changes[j] = changes[j], changes[i]
	}
	if len(changes) > maxRatingHistory {
		changes = changes[len(changes)-maxRatingHistory:]
	}
	return changes, nil
}

type problemsetResult struct {
	Problems []model.Problem `json:"problems"`
}

// Problems fetches the global problem catalog.
func (c *Client) Problems(ctx context.Context) ([]model.Problem, error) {
	raw, err := c.get(ctx, "problemset.problems", nil)
	if err != nil {
		return nil, err
	}
	var res problemsetResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("judge: problemset.problems: decode result: %w", err)
	}
	return res.Problems, nil
}

// UpcomingContests fetches contests that have not started yet, soonest
// first, capped at 8.
func (c *Client) UpcomingContests(ctx context.Context) ([]model.Contest, error) {
	raw, err := c.get(ctx, "contest.list", nil)
	if err != nil {
		return nil, err
	}
	var contests []model.Contest
	if err := json.Unmarshal(raw, &contests); err != nil {
		return nil, fmt.Errorf("judge: contest.list: decode result: %w", err)
	}

	upcoming := contests[:0]
	for _, ct := range contests {
		if ct.Phase == "BEFORE" {
			upcoming = append(upcoming, ct)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime < upcoming[j].StartTime
	})
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}
	return upcoming, nil
}
