package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "mahjong", cfg.AppName)
	assert.True(t, cfg.Rule.RedFives)
	assert.True(t, cfg.Rule.Kuikae)
	assert.Equal(t, 25000, cfg.Rule.InitialPoints)
	assert.Equal(t, 30*time.Second, cfg.Rule.ReplyTimeout)
	p, err := cfg.Rule.RonPolicy()
	require.NoError(t, err)
	assert.Equal(t, "head-bump", p)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
appName: sim
log:
  level: debug
rule:
  redFives: false
  ronPolicy: Multiple
  length: south
  replyTimeout: 5s
history:
  maxCost: 4096
  ttl: 1m
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sim", cfg.AppName)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Rule.RedFives)
	assert.True(t, cfg.Rule.Kuikae, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Rule.ReplyTimeout)
	assert.Equal(t, int64(4096), cfg.History.MaxCost)
	assert.Equal(t, time.Minute, cfg.History.TTL)

	p, err := cfg.Rule.RonPolicy()
	require.NoError(t, err)
	assert.Equal(t, "multiple", p)
	l, err := cfg.Rule.MatchLength()
	require.NoError(t, err)
	assert.Equal(t, "south", l)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "rule:\n  ronPolicy: head-bump\n")
	t.Setenv("MAHJONG_RULE_RONPOLICY", "triple-abort")

	cfg, err := Load(path)
	require.NoError(t, err)
	p, err := cfg.Rule.RonPolicy()
	require.NoError(t, err)
	assert.Equal(t, "triple-abort", p)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "appName: from-file\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAHJONG_RULE_INITIALPOINTS=30000\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MAHJONG_RULE_INITIALPOINTS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.AppName)
	assert.Equal(t, 30000, cfg.Rule.InitialPoints)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"ron policy", "rule:\n  ronPolicy: everyone\n", ErrInvalidRonPolicy},
		{"length", "rule:\n  length: west\n", ErrInvalidLength},
		{"points", "rule:\n  initialPoints: 0\n", ErrInvalidConfig},
		{"cost", "history:\n  maxCost: -1\n", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "log:\n  level: info\n")

	var level atomic.Value
	cfg, err := Watch(path, func(c *Config) { level.Store(c.Log.Level) })
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))
	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "warn"
	}, 5*time.Second, 20*time.Millisecond)
}
