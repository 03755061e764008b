package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/housing-price/internal/assets"
	"github.com/daryltucker/housing-price/internal/model"
)

func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefaultConfigReproducesDemo(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	kind, err := cfg.TrainerKind()
	require.NoError(t, err)
	assert.Equal(t, model.TrainerSDCA, kind)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, []float64{700, 1300, 2500}, cfg.PredictionSizes)
	assert.True(t, cfg.WaitForKey)
	assert.Empty(t, cfg.OutputDir)
}

func TestEmbeddedDefaultMatchesDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, yaml.Unmarshal(assets.DefaultConfig, cfg))

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("embedded housing_price.yaml drifted from DefaultConfig (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trainer: fasttree\nseed: 42\nfasttree:\n  trees: 10\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fasttree", cfg.Trainer)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 10, cfg.FastTree.Trees)
	// Untouched fields keep their defaults.
	assert.Equal(t, 8, cfg.FastTree.Leaves)
	assert.Equal(t, []float64{700, 1300, 2500}, cfg.PredictionSizes)
	assert.Equal(t, path, cfg.Path)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [not a number"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadSearchesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)

	require.NoError(t, os.WriteFile("housing_price.yml", []byte("seed: 7\n"), 0o644))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "housing_price.yml", cfg.Path)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(env(map[string]string{
		"HOUSING_TRAINER":          "tree-ensemble",
		"HOUSING_SEED":             "9",
		"HOUSING_PREDICTION_SIZES": "1000, 2000",
		"HOUSING_WAIT_FOR_KEY":     "false",
		"HOUSING_OUTPUT_DIR":       "/tmp/out",
		"LOG_LEVEL":                "debug",
	}))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Trainer = "tree-ensemble"
	want.Seed = 9
	want.PredictionSizes = []float64{1000, 2000}
	want.WaitForKey = false
	want.OutputDir = "/tmp/out"
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ApplyEnv mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEnvPrefersHousingLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(env(map[string]string{"LOG_LEVEL": "debug", "HOUSING_LOG_LEVEL": "error"})))
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestApplyEnvErrors(t *testing.T) {
	for _, key := range []string{"HOUSING_SEED", "HOUSING_WAIT_FOR_KEY", "HOUSING_PREDICTION_SIZES"} {
		t.Run(key, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyEnv(env(map[string]string{key: "abc"}))
			assert.ErrorIs(t, err, model.ErrInvalidConfig)
		})
	}
}

func TestParseSizes(t *testing.T) {
	sizes, err := ParseSizes("700,1300, 2500,")
	require.NoError(t, err)
	assert.Equal(t, []float64{700, 1300, 2500}, sizes)

	_, err = ParseSizes(" , ")
	assert.Error(t, err)
	_, err = ParseSizes("700,big")
	assert.ErrorContains(t, err, `invalid size "big"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "trainer", mutate: func(c *Config) { c.Trainer = "forest" }},
		{name: "compression", mutate: func(c *Config) { c.OutputCompression = "gzip" }},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "chatty" }},
		{name: "sizes", mutate: func(c *Config) { c.PredictionSizes = nil }},
		{name: "sdca", mutate: func(c *Config) { c.SDCA.L2Regularization = 0 }},
		{name: "fasttree", mutate: func(c *Config) { c.FastTree.Leaves = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), model.ErrInvalidConfig)
		})
	}
}
