package main

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Aniket-Chugh/cf-tracker/internal/cache"
	"github.com/Aniket-Chugh/cf-tracker/internal/config"
	"github.com/Aniket-Chugh/cf-tracker/internal/judge"
	"github.com/Aniket-Chugh/cf-tracker/internal/metrics"
	"github.com/Aniket-Chugh/cf-tracker/internal/net/ratelimit"
	"github.com/Aniket-Chugh/cf-tracker/internal/pipeline"
)

// app wires config, metrics, cache, client, and coordinator for one
// command invocation.
type app struct {
	cfg     config.Config
	metrics *metrics.Registry
	promReg *prometheus.Registry
	client  *judge.Client
	coord   *pipeline.Coordinator
	cleanup []func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	apiURL, _ := cmd.Flags().GetString("api-url")

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.Judge.BaseURL = apiURL
	}

	a := &app{cfg: cfg, promReg: prometheus.NewRegistry()}
	a.metrics = metrics.NewRegistry(a.promReg)

	store, err := a.buildStore()
	if err != nil {
		return nil, err
	}

	a.client = judge.NewClient(judge.Options{
		BaseURL: cfg.Judge.BaseURL,
		Timeout: cfg.Judge.Timeout(),
		Limiter: ratelimit.New(cfg.Judge.RateRPS, cfg.Judge.RateBurst),
		Store:   store,
		TTL:     cfg.Cache.TTL(),
		Metrics: a.metrics,
	})
	a.coord = pipeline.New(a.client, pipeline.Options{
		SubmissionCount: cfg.Judge.SubmissionCount,
		Metrics:         a.metrics,
	})
	return a, nil
}

func (a *app) buildStore() (cache.Store, error) {
	switch a.cfg.Cache.Backend {
	case "", "memory":
		mem := cache.NewMemory(a.cfg.Cache.MaxEntries)
		a.cleanup = append(a.cleanup, mem.Stop)
		return mem, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: a.cfg.Cache.Redis.Addr,
			DB:   a.cfg.Cache.Redis.DB,
		})
		a.cleanup = append(a.cleanup, func() { _ = client.Close() })
		log.Info().Str("addr", a.cfg.Cache.Redis.Addr).Msg("using redis feed cache")
		return cache.NewRedis(client, appName), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", a.cfg.Cache.Backend)
	}
}

// newCoordinator rebuilds the coordinator with a different history
// depth, for the --count flag.
func newCoordinator(a *app, count int) *pipeline.Coordinator {
	return pipeline.New(a.client, pipeline.Options{
		SubmissionCount: count,
		Metrics:         a.metrics,
	})
}

func (a *app) close() {
	for _, fn := range a.cleanup {
		fn()
	}
}
