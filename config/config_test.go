package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquidsort/liquid"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "liquidsort.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Search.Options()
	require.NoError(t, err)
	assert.Equal(t, liquid.UniformCost, opts.Strategy)
	assert.Equal(t, liquid.GoalStrict, opts.Goal)
	assert.NotNil(t, opts.Heuristic)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
search:
  strategy: AStar
  heuristic: zero
  goal: monochrome
  unordered_containers: true
  max_nodes: 1000
  timeout: 2s
puzzle:
  containers: 7
log:
  level: debug
  format: json
render:
  color: never
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "astar", cfg.Search.Strategy)
	assert.Equal(t, 7, cfg.Puzzle.Containers)
	assert.Equal(t, "json", cfg.Log.Format)

	opts, err := cfg.Search.Options()
	require.NoError(t, err)
	assert.Equal(t, liquid.HeuristicGuided, opts.Strategy)
	assert.Equal(t, liquid.GoalMonochrome, opts.Goal)
	assert.True(t, opts.UnorderedContainers)
	assert.Equal(t, 1000, opts.Budget.MaxNodes)
	assert.Equal(t, 2*time.Second, opts.Budget.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"strategy":  "search:\n  strategy: bfs\n",
		"goal":      "search:\n  goal: sorted\n",
		"max nodes": "search:\n  max_nodes: -1\n",
		"log level": "log:\n  level: loud\n",
		"color":     "render:\n  color: rainbow\n",
		"yaml":      "search: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	env := map[string]string{
		"LIQUIDSORT_STRATEGY":  "astar",
		"LIQUIDSORT_MAX_NODES": "50",
		"LIQUIDSORT_TIMEOUT":   "1m",
		"LIQUIDSORT_UNORDERED": "true",
		"LIQUIDSORT_CACHE_DIR": "/tmp/cache",
	}
	cfg := Default()
	require.NoError(t, loadEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, "astar", cfg.Search.Strategy)
	assert.Equal(t, 50, cfg.Search.MaxNodes)
	assert.Equal(t, time.Minute, cfg.Search.Timeout)
	assert.True(t, cfg.Search.UnorderedContainers)
	assert.Equal(t, "/tmp/cache", cfg.Cache.Dir)
}

func TestLoadEnvIgnoresCase(t *testing.T) {
	t.Setenv("LIQUIDSORT_STRATEGY", "AStar")
	t.Setenv("LIQUIDSORT_LOG_LEVEL", "DEBUG")
	t.Setenv("LIQUIDSORT_LOG_FORMAT", "JSON")
	t.Setenv("LIQUIDSORT_COLOR", "Never")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "astar", cfg.Search.Strategy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "never", cfg.Render.Color)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("LIQUIDSORT_GOAL", "full")
	cfg, err := Load(writeConfig(t, "search:\n  goal: monochrome\n"))
	require.NoError(t, err)
	assert.Equal(t, "full", cfg.Search.Goal)
}

func TestLoadEnvBadValues(t *testing.T) {
	cfg := Default()
	err := loadEnv(&cfg, func(k string) (string, bool) {
		switch k {
		case "LIQUIDSORT_MAX_NODES":
			return "many", true
		case "LIQUIDSORT_TIMEOUT":
			return "soon", true
		}
		return "", false
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIQUIDSORT_MAX_NODES")
	assert.Contains(t, err.Error(), "LIQUIDSORT_TIMEOUT")
}
