// Package config loads swipematch settings from YAML, .env and the
// environment, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/swipematch/internal/capture"
	"github.com/abhisek/swipematch/internal/deck"
	"github.com/abhisek/swipematch/internal/delivery"
	"github.com/abhisek/swipematch/internal/effects"
	"github.com/abhisek/swipematch/internal/qr"
	"github.com/abhisek/swipematch/internal/relay"
)

// Config holds all swipematch configuration.
type Config struct {
	Deck     DeckConfig     `yaml:"deck"`
	Capture  CaptureConfig  `yaml:"capture"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Relay    relay.Config   `yaml:"relay"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Journal is the SQLite journal path. Empty disables the journal.
	Journal string `yaml:"journal"`
}

// DeckConfig configures the swipe deck.
type DeckConfig struct {
	Items         []deck.Item   `yaml:"items"`
	AdvanceDelay  time.Duration `yaml:"advance_delay"`
	EffectLife    time.Duration `yaml:"effect_lifetime"`
	PixelsPerCell float64       `yaml:"pixels_per_cell"`
}

// CaptureConfig configures the story artifact.
type CaptureConfig struct {
	Width  int                 `yaml:"width"`
	Height int                 `yaml:"height"`
	Scale  float64             `yaml:"scale"`
	Photo  string              `yaml:"photo"`
	Rod    capture.RodConfig   `yaml:"chromium"`
	Retry  capture.RetryConfig `yaml:"retry"`
}

// DeliveryConfig configures share and download channels.
type DeliveryConfig struct {
	DownloadDir  string   `yaml:"download_dir"`
	ShareCommand []string `yaml:"share_command"`
	ShareAccept  []string `yaml:"share_accept"`
	RelayURL     string   `yaml:"relay_url"`
	VideoURL     string   `yaml:"video_url"`
	QREndpoint   string   `yaml:"qr_endpoint"`
	QRData       string   `yaml:"qr_data"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Console    bool   `yaml:"console"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Deck: DeckConfig{
			Items:         deck.DefaultItems(),
			AdvanceDelay:  deck.DefaultAdvanceDelay,
			EffectLife:    effects.DefaultLifetime,
			PixelsPerCell: 8,
		},
		Capture: CaptureConfig{
			Width:  capture.StoryWidth,
			Height: capture.StoryHeight,
			Scale:  capture.StoryScale,
			Photo:  "couple.jpg",
			Retry:  capture.DefaultRetryConfig(),
		},
		Delivery: DeliveryConfig{
			DownloadDir: delivery.DefaultDownloadDir(),
			ShareAccept: []string{delivery.MIMEPNG, delivery.MIMEMP4},
			QREndpoint:  qr.DefaultEndpoint,
		},
		Relay: relay.DefaultConfig(),
		Logging: LoggingConfig{
			File:       defaultLogFile(),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads path (or the default location when empty) over the defaults,
// then applies .env and SWIPEMATCH_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env is optional.
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SWIPEMATCH_DOWNLOAD_DIR"); v != "" {
		c.Delivery.DownloadDir = v
	}
	if v := os.Getenv("SWIPEMATCH_SHARE_COMMAND"); v != "" {
		c.Delivery.ShareCommand = strings.Fields(v)
	}
	if v := os.Getenv("SWIPEMATCH_RELAY_URL"); v != "" {
		c.Delivery.RelayURL = v
	}
	if v := os.Getenv("SWIPEMATCH_VIDEO_URL"); v != "" {
		c.Delivery.VideoURL = v
	}
	if v := os.Getenv("SWIPEMATCH_CHROMIUM_URL"); v != "" {
		c.Capture.Rod.ControlURL = v
	}
	if v := os.Getenv("SWIPEMATCH_JOURNAL"); v != "" {
		c.Journal = v
	}
	if v := os.Getenv("SWIPEMATCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SWIPEMATCH_ADVANCE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWIPEMATCH_ADVANCE_DELAY: %w", err)
		}
		c.Deck.AdvanceDelay = d
	}
	if v := os.Getenv("SWIPEMATCH_CAPTURE_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SWIPEMATCH_CAPTURE_SCALE: %w", err)
		}
		c.Capture.Scale = f
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if _, err := deck.New(c.Deck.Items); err != nil {
		return fmt.Errorf("deck: %w", err)
	}
	if c.Deck.AdvanceDelay < 0 {
		return errors.New("deck.advance_delay must not be negative")
	}
	if c.Deck.PixelsPerCell <= 0 {
		return errors.New("deck.pixels_per_cell must be positive")
	}
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 || c.Capture.Scale <= 0 {
		return fmt.Errorf("capture size %dx%d@%g is invalid", c.Capture.Width, c.Capture.Height, c.Capture.Scale)
	}
	if c.Delivery.DownloadDir == "" {
		return errors.New("delivery.download_dir is required")
	}
	return nil
}

// CaptureOptions returns the story capture options.
func (c Config) CaptureOptions() capture.Options {
	return capture.Options{Width: c.Capture.Width, Height: c.Capture.Height, Scale: c.Capture.Scale}
}

// DefaultPath resolves $XDG_CONFIG_HOME/swipematch/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "swipematch.yaml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "swipematch", "config.yaml")
}

func defaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "swipematch.log"
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "swipematch", "swipematch.log")
}
