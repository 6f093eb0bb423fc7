package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := Default()
	cfg.Matching.DefaultThreshold = 1.5
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsThresholdBelowSpecFloor(t *testing.T) {
	cfg := Default()
	cfg.Matching.DefaultThreshold = 0.3 // in [0,1] but below the spec's 0.5 floor
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadHighRiskThreshold(t *testing.T) {
	cfg := Default()
	cfg.Matching.HighRiskThreshold = 0.4
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.Weights.JaroWinkler = 0.9
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresRedisAddr(t *testing.T) {
	cfg := Default()
	cfg.Redis.Addr = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matching:
  default_threshold: 0.8
  include_aliases: true
  max_results: 25
`), 0o644))

	t.Setenv("SCREENING_CONFIG", path)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Matching.DefaultThreshold)
	assert.Equal(t, 25, cfg.Matching.MaxResults)
	// Unset sections retain their Default() values.
	assert.Equal(t, Default().Weights, cfg.Weights)
}

func TestLoadFromFileRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matching:
  unknown_field: true
`), 0o644))

	t.Setenv("SCREENING_CONFIG", path)
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFallsBackToDefaultsWithoutFile(t *testing.T) {
	t.Setenv("SCREENING_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Matching, cfg.Matching)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("SCREENING_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SCREENING_REDIS_ADDR", "redis.internal:6380")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
}
