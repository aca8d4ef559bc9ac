// Package config loads slate settings from YAML files and SLATE_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/slate/pkg/errors"
	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/ui/backend"
)

// Default configuration values exported for documentation and validation
const (
	DefaultLocale         = "en"
	DefaultFontKind       = FontCell
	DefaultTickRate       = 50 * time.Millisecond
	DefaultAnimationSpeed = 10
	DefaultRepeatRate     = 20.0
	DefaultRepeatBurst    = 4
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultFontMemoSize   = 256
)

// Font kinds.
const (
	FontCell         = "cell"
	FontFixed        = "fixed"
	FontProportional = "proportional"
)

// Config represents the complete slate configuration
type Config struct {
	Display   DisplayConfig     `yaml:"display"`
	Font      FontConfig        `yaml:"font"`
	Theme     ThemeConfig       `yaml:"theme"`
	Locale    string            `yaml:"locale"`
	Messages  map[string]string `yaml:"messages"`
	Animation AnimationConfig   `yaml:"animation"`
	Input     InputConfig       `yaml:"input"`
	Logging   LoggingConfig     `yaml:"logging"`
	Telemetry TelemetryConfig   `yaml:"telemetry"`
	Prefs     PrefsConfig       `yaml:"prefs"`
}

// DisplayConfig sizes the output surface. Zero width or height uses the
// terminal size.
type DisplayConfig struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Headless bool          `yaml:"headless"`
	TickRate time.Duration `yaml:"tick_rate"`
}

// FontConfig selects the text metrics.
type FontConfig struct {
	Kind      string         `yaml:"kind"`
	CharWidth int            `yaml:"char_width"`
	Height    int            `yaml:"height"`
	Widths    map[string]int `yaml:"widths"`
	MemoSize  int            `yaml:"memo_size"`
}

// SpacingConfig is a four-sided margin.
type SpacingConfig struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// ColorsConfig holds theme colors as names, "#rrggbb" or palette indices.
// Empty entries keep the default theme's color.
type ColorsConfig struct {
	Foreground      string `yaml:"foreground"`
	Background      string `yaml:"background"`
	Highlight       string `yaml:"highlight"`
	Focus           string `yaml:"focus"`
	Error           string `yaml:"error"`
	ScrollbarTrack  string `yaml:"scrollbar_track"`
	ScrollbarBorder string `yaml:"scrollbar_border"`
	ScrollbarThumb  string `yaml:"scrollbar_thumb"`
}

// ThemeConfig is the default component style and the screen chrome.
type ThemeConfig struct {
	Padding         int           `yaml:"padding"`
	Margin          SpacingConfig `yaml:"margin"`
	LineHeight      float64       `yaml:"line_height"`
	TextAlign       string        `yaml:"text_align"`
	Align           string        `yaml:"align"`
	ScrollbarWidth  int           `yaml:"scrollbar_width"`
	ContentMargin   int           `yaml:"content_margin"`
	AnimationDelay  time.Duration `yaml:"animation_delay"`
	AnimationPeriod time.Duration `yaml:"animation_period"`
	Colors          ColorsConfig  `yaml:"colors"`
}

// AnimationConfig holds the initial animation speed. Speed is stored the
// way the preference is: 10 plays at style timing, 20 at half speed.
type AnimationConfig struct {
	Speed int `yaml:"speed"`
}

// InputConfig throttles held navigation keys.
type InputConfig struct {
	RepeatRate  float64 `yaml:"repeat_rate"`
	RepeatBurst int     `yaml:"repeat_burst"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// TelemetryConfig enables the metrics endpoint and span export.
type TelemetryConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
	Tracing     bool   `yaml:"tracing"`
	TraceFile   string `yaml:"trace_file"`
}

// PrefsConfig locates the preference database. An empty path keeps
// preferences in memory.
type PrefsConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			TickRate: DefaultTickRate,
		},
		Font: FontConfig{
			Kind:      DefaultFontKind,
			CharWidth: 1,
			Height:    1,
			MemoSize:  DefaultFontMemoSize,
		},
		Theme: ThemeConfig{
			Padding:         0,
			Margin:          SpacingConfig{Bottom: 1},
			LineHeight:      1,
			TextAlign:       "left",
			Align:           "left",
			ScrollbarWidth:  1,
			ContentMargin:   1,
			AnimationDelay:  time.Second,
			AnimationPeriod: time.Second,
		},
		Locale:    DefaultLocale,
		Animation: AnimationConfig{Speed: DefaultAnimationSpeed},
		Input: InputConfig{
			RepeatRate:  DefaultRepeatRate,
			RepeatBurst: DefaultRepeatBurst,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, then ~/.slate/config.yaml, then ./.slate/config.yaml, then the
// environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".slate", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, wrapLoadError(err, userConfigPath)
		}
	}

	projectConfigPath := filepath.Join(".", ".slate", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, wrapLoadError(err, projectConfigPath)
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, wrapLoadError(err, path)
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func wrapLoadError(err error, path string) error {
	code := errors.ErrCodeConfigLoad
	if _, ok := err.(*parseError); ok {
		code = errors.ErrCodeConfigParse
	}
	return errors.Wrap(err, code, "loading config").
		WithContext("path", path).
		WithRemediation("check the file exists and is valid YAML")
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SLATE_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("SLATE_FONT_KIND"); v != "" {
		cfg.Font.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("SLATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SLATE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SLATE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("SLATE_METRICS_ADDR"); v != "" {
		cfg.Telemetry.MetricsAddr = v
	}
	if v := os.Getenv("SLATE_PREFS_PATH"); v != "" {
		cfg.Prefs.Path = v
	}
	if v, ok := envInt("SLATE_ANIMATION_SPEED"); ok {
		cfg.Animation.Speed = v
	}
	if v, ok := envInt("SLATE_WIDTH"); ok {
		cfg.Display.Width = v
	}
	if v, ok := envInt("SLATE_HEIGHT"); ok {
		cfg.Display.Height = v
	}
	if v := strings.TrimSpace(os.Getenv("SLATE_REPEAT_RATE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Input.RepeatRate = f
		}
	}
	if val, ok := envBool("SLATE_HEADLESS"); ok {
		cfg.Display.Headless = val
	}
	if val, ok := envBool("SLATE_TRACING"); ok {
		cfg.Telemetry.Tracing = val
	}
}

func envBool(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	invalid := func(field string, value any, format string, args ...any) error {
		return errors.Newf(errors.ErrCodeConfigInvalid, format, args...).
			WithContext("field", field).
			WithContext("value", value)
	}

	if c.Display.Width < 0 || c.Display.Height < 0 {
		return invalid("display", fmt.Sprintf("%dx%d", c.Display.Width, c.Display.Height), "display size must not be negative")
	}
	if c.Display.TickRate <= 0 {
		return invalid("display.tick_rate", c.Display.TickRate, "tick rate must be positive")
	}

	switch c.Font.Kind {
	case FontCell:
	case FontFixed, FontProportional:
		if c.Font.Height <= 0 {
			return invalid("font.height", c.Font.Height, "font height must be positive")
		}
		if c.Font.CharWidth <= 0 {
			return invalid("font.char_width", c.Font.CharWidth, "char width must be positive")
		}
	default:
		return invalid("font.kind", c.Font.Kind, "invalid font kind: %s (valid: cell, fixed, proportional)", c.Font.Kind)
	}
	for k, w := range c.Font.Widths {
		if len([]rune(k)) != 1 || w < 0 {
			return invalid("font.widths", k, "font widths need single-rune keys and non-negative widths")
		}
	}

	t := c.Theme
	if t.Padding < 0 || t.Margin.Top < 0 || t.Margin.Right < 0 || t.Margin.Bottom < 0 || t.Margin.Left < 0 {
		return invalid("theme", t.Padding, "padding and margins must not be negative")
	}
	if t.LineHeight < 1 {
		return invalid("theme.line_height", t.LineHeight, "line height must be at least 1")
	}
	if t.ScrollbarWidth < 0 || t.ContentMargin < 0 {
		return invalid("theme.scrollbar_width", t.ScrollbarWidth, "scrollbar width and content margin must not be negative")
	}
	if t.AnimationDelay < 0 || t.AnimationPeriod < 0 {
		return invalid("theme.animation_delay", t.AnimationDelay, "animation timing must not be negative")
	}
	for _, a := range []string{t.TextAlign, t.Align} {
		switch strings.ToLower(a) {
		case "", "left", "center", "hcenter", "right":
		default:
			return invalid("theme.align", a, "invalid alignment: %s (valid: left, center, right)", a)
		}
	}
	for name, v := range t.Colors.fields() {
		if v == "" {
			continue
		}
		if _, err := backend.ParseColor(v); err != nil {
			return invalid("theme.colors."+name, v, "invalid color: %v", err)
		}
	}

	if c.Animation.Speed < 1 || c.Animation.Speed > 100 {
		return invalid("animation.speed", c.Animation.Speed, "animation speed must be between 1 and 100")
	}
	if c.Input.RepeatRate < 0 || c.Input.RepeatBurst < 0 {
		return invalid("input.repeat_rate", c.Input.RepeatRate, "repeat rate must not be negative")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", c.Logging.Level, "%v", err)
	}
	switch logging.Format(strings.ToLower(c.Logging.Format)) {
	case logging.FormatJSON, logging.FormatText:
	default:
		return invalid("logging.format", c.Logging.Format, "invalid log format: %s (valid: json, text)", c.Logging.Format)
	}
	return nil
}

func (c ColorsConfig) fields() map[string]string {
	return map[string]string{
		"foreground":       c.Foreground,
		"background":       c.Background,
		"highlight":        c.Highlight,
		"focus":            c.Focus,
		"error":            c.Error,
		"scrollbar_track":  c.ScrollbarTrack,
		"scrollbar_border": c.ScrollbarBorder,
		"scrollbar_thumb":  c.ScrollbarThumb,
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
