package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300*time.Millisecond, cfg.Deck.AdvanceDelay)
	assert.Equal(t, 2*time.Second, cfg.Deck.EffectLife)
	assert.Len(t, cfg.Deck.Items, 4)

	opts := cfg.CaptureOptions()
	assert.Equal(t, 1080, opts.Width)
	assert.Equal(t, 1920, opts.Height)
	assert.Equal(t, 3.0, opts.Scale)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
deck:
  advance_delay: 0s
  items:
    - id: first
      name: Card
      text: hello
      photo: a.jpg
    - id: last
      text: yes?
      terminal: true
capture:
  scale: 2
  retry:
    max_attempts: 5
delivery:
  download_dir: /tmp/out
  share_command: ["share-portal", "--files"]
journal: /tmp/journal.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Deck.AdvanceDelay)
	assert.Len(t, cfg.Deck.Items, 2)
	assert.True(t, cfg.Deck.Items[1].Terminal)
	assert.Equal(t, 2.0, cfg.Capture.Scale)
	assert.Equal(t, 1080, cfg.Capture.Width, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.Capture.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Capture.Retry.InitialWait)
	assert.Equal(t, "/tmp/out", cfg.Delivery.DownloadDir)
	assert.Equal(t, []string{"share-portal", "--files"}, cfg.Delivery.ShareCommand)
	assert.Equal(t, "/tmp/journal.db", cfg.Journal)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SWIPEMATCH_DOWNLOAD_DIR", "/srv/dl")
	t.Setenv("SWIPEMATCH_SHARE_COMMAND", "kdeconnect-cli --share")
	t.Setenv("SWIPEMATCH_ADVANCE_DELAY", "50ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/dl", cfg.Delivery.DownloadDir)
	assert.Equal(t, []string{"kdeconnect-cli", "--share"}, cfg.Delivery.ShareCommand)
	assert.Equal(t, 50*time.Millisecond, cfg.Deck.AdvanceDelay)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	tests := []struct {
		name string
		body string
	}{
		{"terminal not last", "deck:\n  items:\n    - {id: a, terminal: true}\n    - {id: b}\n"},
		{"bad scale", "capture:\n  scale: 0\n"},
		{"bad yaml", "deck: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
