// Package config loads the screening engine's configuration, adapted
// from the teacher's internal/config.Config: the same Default/Load/
// Validate shape and environment-override pattern, restructured around
// §6's configuration keys instead of gateway/ledger/bank settings.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the screening engine's full configuration surface
// (spec.md §6 Configuration).
type EngineConfig struct {
	Matching MatchingConfig `yaml:"matching"`
	Batch    BatchConfig    `yaml:"batch"`
	Weights  WeightsConfig  `yaml:"weights"`
	Redis    RedisConfig    `yaml:"redis"`
	NATS     NATSConfig     `yaml:"nats"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// MatchingConfig controls Matcher behavior.
type MatchingConfig struct {
	DefaultThreshold  float64 `yaml:"default_threshold"`
	HighRiskThreshold float64 `yaml:"high_risk_threshold"`
	IncludeAliases    bool    `yaml:"include_aliases"`
	MaxResults        int     `yaml:"max_results"`
}

// BatchConfig controls BatchEngine behavior.
type BatchConfig struct {
	WorkerPoolSize int `yaml:"worker_pool_size"`
	MaxCandidates  int `yaml:"max_candidates"`
}

// WeightsConfig is the weighted-composition tuning for NameScorer.
// Values must sum to 1; see scorer.Weights.Validate.
type WeightsConfig struct {
	JaroWinkler float64 `yaml:"jaro_winkler"`
	EditSim     float64 `yaml:"edit_sim"`
	TokenSort   float64 `yaml:"token_sort"`
	TokenSet    float64 `yaml:"token_set"`
	Phonetic    float64 `yaml:"phonetic"`
}

// RedisConfig configures the prior-score store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// NATSConfig configures the batch-completion event publisher.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Enabled bool   `yaml:"enabled"`
}

// MetricsConfig configures the Prometheus metrics namespace.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// Default returns the engine's default configuration.
func Default() *EngineConfig {
	return &EngineConfig{
		Matching: MatchingConfig{
			DefaultThreshold:  0.75,
			HighRiskThreshold: 0.90,
			IncludeAliases:    true,
			MaxResults:        50,
		},
		Batch: BatchConfig{
			WorkerPoolSize: 0, // 0 means runtime.NumCPU() at construction time
			MaxCandidates:  10000,
		},
		Weights: WeightsConfig{
			JaroWinkler: 0.30,
			EditSim:     0.20,
			TokenSort:   0.25,
			TokenSet:    0.15,
			Phonetic:    0.10,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			DB:   0,
			TTL:  30 * 24 * time.Hour,
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "screening.batch.completed",
			Enabled: false,
		},
		Metrics: MetricsConfig{
			Namespace: "screening",
			Subsystem: "engine",
		},
	}
}

// Load loads configuration from the file named by the SCREENING_CONFIG
// environment variable (default "config.yaml"), falling back to defaults
// with environment overrides applied when no such file exists.
func Load() (*EngineConfig, error) {
	configPath := os.Getenv("SCREENING_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return loadFromFile(configPath)
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// loadFromFile loads config from a YAML file, rejecting unknown keys
// (InvalidConfiguration: unknown configuration key).
func loadFromFile(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: unknown configuration key: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies the small set of environment-variable
// overrides the teacher's applyEnvOverrides pattern establishes.
func applyEnvOverrides(cfg *EngineConfig) {
	if addr := os.Getenv("SCREENING_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if url := os.Getenv("SCREENING_NATS_URL"); url != "" {
		cfg.NATS.URL = url
	}
}

// Validate checks that the configuration is internally consistent.
func (c *EngineConfig) Validate() error {
	if c.Matching.DefaultThreshold < 0.5 || c.Matching.DefaultThreshold > 1 {
		return fmt.Errorf("matching.default_threshold must be in [0.5,1.0]")
	}
	if c.Matching.HighRiskThreshold < 0.5 || c.Matching.HighRiskThreshold > 1 {
		return fmt.Errorf("matching.high_risk_threshold must be in [0.5,1.0]")
	}
	if c.Matching.MaxResults <= 0 {
		return fmt.Errorf("matching.max_results must be positive")
	}
	if c.Batch.WorkerPoolSize < 0 {
		return fmt.Errorf("batch.worker_pool_size must not be negative")
	}
	if c.Batch.MaxCandidates <= 0 {
		return fmt.Errorf("batch.max_candidates must be positive")
	}

	sum := c.Weights.JaroWinkler + c.Weights.EditSim + c.Weights.TokenSort + c.Weights.TokenSet + c.Weights.Phonetic
	if sum < 1-1e-6 || sum > 1+1e-6 {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	return nil
}
