// Package config loads cf-tracker configuration from YAML with
// compiled-in defaults, so running without a config file works.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full tracker configuration.
type Config struct {
	Judge     JudgeConfig     `yaml:"judge"`
	Cache     CacheConfig     `yaml:"cache"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// JudgeConfig tunes the upstream API client.
type JudgeConfig struct {
	BaseURL         string  `yaml:"base_url"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	RateRPS         float64 `yaml:"rate_rps"`
	RateBurst       int     `yaml:"rate_burst"`
	SubmissionCount int     `yaml:"submission_count"`
}

// Timeout returns the request timeout as a duration.
func (j JudgeConfig) Timeout() time.Duration {
	return time.Duration(j.TimeoutSeconds) * time.Second
}

// CacheConfig selects and tunes the feed cache backend.
type CacheConfig struct {
	// Backend is "memory", "redis", or "none".
	Backend    string `yaml:"backend"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxEntries int    `yaml:"max_entries"`
	Redis      struct {
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`
}

// TTL returns the feed cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RecommendConfig tunes the recommendation engine defaults.
type RecommendConfig struct {
	MinRating     int `yaml:"min_rating"`
	MaxRating     int `yaml:"max_rating"`
	TopN          int `yaml:"top_n"`
	TargetOffset  int `yaml:"target_offset"`
	PatternWindow int `yaml:"pattern_window"`
}

// Default returns the stock configuration.
func Default() Config {
	var c Config
	c.Judge.BaseURL = "https://codeforces.com/api"
	c.Judge.TimeoutSeconds = 15
	c.Judge.RateRPS = 2
	c.Judge.RateBurst = 2
	c.Judge.SubmissionCount = 1000
	c.Cache.Backend = "memory"
	c.Cache.TTLSeconds = 300
	c.Cache.MaxEntries = 256
	c.Cache.Redis.Addr = "localhost:6379"
	c.Recommend.MinRating = 800
	c.Recommend.MaxRating = 3500
	c.Recommend.TopN = 15
	c.Recommend.TargetOffset = 150
	c.Recommend.PatternWindow = 200
	return c
}

// Load reads path and overlays it on the defaults. A missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
