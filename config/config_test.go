package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sample = `
pipeline:
  name: kiosk
  log_level: debug
services:
  camera:
    url: http://cam.local/snap.jpg
  emotion:
    url: http://emo.local
capture:
  interval: 500ms
  max_misses: 4
mood:
  window: 9
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, 15, cfg.Mood.Window)
	require.Equal(t, 30, cfg.Mood.Cap)
	require.Equal(t, 200*time.Millisecond, cfg.Capture.Interval)
	require.Equal(t, 5*time.Second, cfg.Inference.Timeout)
	require.Equal(t, "info", cfg.Pipeline.LogLvl)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(viper.New(), writeConfig(t, sample))
	require.NoError(t, err)
	require.Equal(t, "kiosk", cfg.Pipeline.Name)
	require.Equal(t, "debug", cfg.Pipeline.LogLvl)
	require.Equal(t, "http://cam.local/snap.jpg", cfg.Services.Camera.URL)
	require.Equal(t, 500*time.Millisecond, cfg.Capture.Interval)
	require.Equal(t, 4, cfg.Capture.MaxMisses)
	require.Equal(t, 9, cfg.Mood.Window)
	require.Equal(t, 30, cfg.Mood.Cap)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("MOODTRACK_MOOD_CAP", "12")
	t.Setenv("MOODTRACK_INFERENCE_TIMEOUT", "2s")
	cfg, err := Load(viper.New(), writeConfig(t, sample))
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Mood.Cap)
	require.Equal(t, 2*time.Second, cfg.Inference.Timeout)
}

func TestLoadConfigEnvGuess(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config", "kiosk"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "kiosk", "config.yaml"), []byte(sample), 0o644))
	chdir(t, dir)
	t.Setenv("CONFIG_ENV", "kiosk")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, "kiosk", cfg.Pipeline.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := Load(viper.New(), writeConfig(t, "mood:\n  window: 0\ncapture:\n  max_misses: -1\n"))
	require.ErrorContains(t, err, "mood.window")
	require.ErrorContains(t, err, "capture.max_misses")
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg, err := Load(viper.New(), writeConfig(t, sample))
	require.NoError(t, err)
	out, err := cfg.YAML()
	require.NoError(t, err)
	require.Contains(t, string(out), "interval: 500ms")

	var back Root
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, *cfg, back)
}

func TestDefaultMatchesLoad(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, cfg, Default())
	require.NoError(t, Default().Validate())
}
