package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Rate  float64
	Trees int
	Calls []string
}

func withRate(r float64) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if r <= 0 {
			return errors.New("rate must be positive")
		}
		c.Rate = r
		c.Calls = append(c.Calls, "rate")
		return nil
	})
}

func withTrees(n int) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.Trees = n
		c.Calls = append(c.Calls, "trees")
	})
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}
	err := Apply(cfg, withRate(0.2), withTrees(50))
	require.NoError(t, err)
	require.Equal(t, 0.2, cfg.Rate)
	require.Equal(t, 50, cfg.Trees)
	require.Equal(t, []string{"rate", "trees"}, cfg.Calls)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	cfg := &testConfig{}
	err := Apply(cfg, withTrees(10), withRate(-1), withTrees(20))
	require.Error(t, err)
	require.Equal(t, 10, cfg.Trees)
	require.Equal(t, []string{"trees"}, cfg.Calls)
}

func TestApplySkipsNil(t *testing.T) {
	cfg := &testConfig{}
	require.NoError(t, Apply[*testConfig](cfg, nil, withTrees(3)))
	require.Equal(t, 3, cfg.Trees)
}
