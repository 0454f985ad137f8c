package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/titlescout"
)

func TestSetupLogger(t *testing.T) {
	newContext := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(nil, set, nil)
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, setupLogger(newContext(level)), "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newContext("verbose"))
		assert.Error(t, err)
	})
}

func TestResolveConfig(t *testing.T) {
	newContext := func(args ...string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("config", "", "")
		set.String("suggest-host", "", "")
		set.Int("max-queries", 0, "")
		set.Int("concurrency", 0, "")
		set.Int("request-timeout-ms", 0, "")
		set.Int("global-timeout-ms", 0, "")
		set.Int("delay-ms", 0, "")
		set.Int("history-limit", 0, "")
		require.NoError(t, set.Parse(args))
		return cli.NewContext(nil, set, nil)
	}

	t.Run("no flags yields defaults", func(t *testing.T) {
		cfg, err := resolveConfig(newContext())
		require.NoError(t, err)
		assert.Equal(t, titlescout.DefaultConfig(), cfg)
	})

	t.Run("set flags override", func(t *testing.T) {
		cfg, err := resolveConfig(newContext(
			"-suggest-host", "http://localhost:9999",
			"-concurrency", "2",
			"-max-queries", "10",
		))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999", cfg.SuggestHost)
		assert.Equal(t, 2, cfg.Concurrency)
		assert.Equal(t, 10, cfg.MaxQueriesSearch)
		assert.Equal(t, 10, cfg.MaxQueriesDiscover)

		// Untouched knobs keep their defaults.
		assert.Equal(t, titlescout.DefaultConfig().GlobalTimeoutMs, cfg.GlobalTimeoutMs)
	})

	t.Run("invalid override rejected", func(t *testing.T) {
		_, err := resolveConfig(newContext("-concurrency", "-3"))
		assert.ErrorIs(t, err, titlescout.ErrInvalidConfig)
	})
}
