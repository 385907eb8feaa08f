// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/reelsort/pkg/present"
	"github.com/user/reelsort/pkg/review"
)

// Config represents the full configuration for reelsort.
type Config struct {
	// Queue
	Extensions   []string `yaml:"extensions"`
	TrashDir     string   `yaml:"trash_dir"`
	ReviewedFile string   `yaml:"reviewed_file"`

	// Playback
	TickIntervalMs int `yaml:"tick_interval_ms"`
	SeekAttempts   int `yaml:"seek_attempts"`
	FrameTimeoutMs int `yaml:"frame_timeout_ms"`
	DisplayWidth   int `yaml:"display_width"`
	DisplayHeight  int `yaml:"display_height"`

	// Tools
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// Journal is the path of the SQLite review journal. Empty disables it.
	Journal string `yaml:"journal"`

	Theme ThemeConfig `yaml:"theme"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// ThemeConfig represents overlay colours.
type ThemeConfig struct {
	KeepColor  string `yaml:"keep_color"`
	TrashColor string `yaml:"trash_color"`
	BarColor   string `yaml:"bar_color"`
	TextColor  string `yaml:"text_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Extensions:   append([]string(nil), review.DefaultExtensions...),
		TrashDir:     "trash",
		ReviewedFile: "reviewed.json",

		TickIntervalMs: 33,
		SeekAttempts:   10,
		FrameTimeoutMs: 2000,
		DisplayWidth:   640,
		DisplayHeight:  360,

		Theme: ThemeConfig{
			KeepColor:  "#2ea043",
			TrashColor: "#d03a2f",
			BarColor:   "#f0b429",
			TextColor:  "#ffffff",
		},

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Extensions = NormalizeExtensions(cfg.Extensions)

	return cfg, nil
}

// NormalizeExtensions lowercases extensions and adds the leading dot.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	var errs []error
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("extensions must not be empty"))
	}
	if c.TrashDir == "" {
		errs = append(errs, errors.New("trash_dir must not be empty"))
	}
	if c.ReviewedFile == "" {
		errs = append(errs, errors.New("reviewed_file must not be empty"))
	}
	if c.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs))
	}
	if c.SeekAttempts <= 0 {
		errs = append(errs, fmt.Errorf("seek_attempts must be positive, got %d", c.SeekAttempts))
	}
	if c.FrameTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("frame_timeout_ms must be positive, got %d", c.FrameTimeoutMs))
	}
	if c.DisplayWidth <= 0 || c.DisplayHeight <= 0 {
		errs = append(errs, fmt.Errorf("display size must be positive, got %dx%d", c.DisplayWidth, c.DisplayHeight))
	}
	return errors.Join(errs...)
}

// TickInterval returns the playback cadence.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// FrameTimeout returns the bound on waiting for one decoded frame.
func (c Config) FrameTimeout() time.Duration {
	return time.Duration(c.FrameTimeoutMs) * time.Millisecond
}

// TrashPath returns the trash directory for dir.
func (c Config) TrashPath(dir string) string {
	return resolve(dir, c.TrashDir)
}

// ReviewedPath returns the decision file for dir.
func (c Config) ReviewedPath(dir string) string {
	return resolve(dir, c.ReviewedFile)
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// OverlayTheme returns the overlay colours, falling back to the built-in
// theme for unset entries.
func (c Config) OverlayTheme() present.Theme {
	theme := present.DefaultTheme()
	if c.Theme.KeepColor != "" {
		theme.Keep = ParseColor(c.Theme.KeepColor)
	}
	if c.Theme.TrashColor != "" {
		theme.Trash = ParseColor(c.Theme.TrashColor)
	}
	if c.Theme.BarColor != "" {
		theme.Bar = ParseColor(c.Theme.BarColor)
	}
	if c.Theme.TextColor != "" {
		theme.Text = ParseColor(c.Theme.TextColor)
	}
	return theme
}

// ParseColor parses "#rrggbb" or "#rgb". Invalid input yields black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.Black
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexValue(hex[2*i])
		lo, ok2 := hexValue(hex[2*i+1])
		if !ok1 || !ok2 {
			return color.Black
		}
		rgb[i] = hi<<4 | lo
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
