package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// parseError marks a file that was read but is not valid configuration.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// loadAndMerge decodes path over cfg. Only fields present in the file
// replace the current values, so zero values in YAML are honored.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return &parseError{err: fmt.Errorf("parse %s: %w", path, err)}
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &parseError{err: fmt.Errorf("parse %s: %w", path, err)}
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs copies every field of override that raw says was set.
func mergeConfigs(base, override *Config, raw map[string]any) {
	set := func(path ...string) bool { return fieldSet(raw, path...) }

	if set("display", "width") {
		base.Display.Width = override.Display.Width
	}
	if set("display", "height") {
		base.Display.Height = override.Display.Height
	}
	if set("display", "headless") {
		base.Display.Headless = override.Display.Headless
	}
	if set("display", "tick_rate") {
		base.Display.TickRate = override.Display.TickRate
	}

	if set("font", "kind") {
		base.Font.Kind = override.Font.Kind
	}
	if set("font", "char_width") {
		base.Font.CharWidth = override.Font.CharWidth
	}
	if set("font", "height") {
		base.Font.Height = override.Font.Height
	}
	if set("font", "memo_size") {
		base.Font.MemoSize = override.Font.MemoSize
	}
	if len(override.Font.Widths) > 0 {
		if base.Font.Widths == nil {
			base.Font.Widths = make(map[string]int, len(override.Font.Widths))
		}
		for k, v := range override.Font.Widths {
			base.Font.Widths[k] = v
		}
	}

	mergeTheme(&base.Theme, &override.Theme, raw)

	if set("locale") {
		base.Locale = override.Locale
	}
	if len(override.Messages) > 0 {
		if base.Messages == nil {
			base.Messages = make(map[string]string, len(override.Messages))
		}
		for k, v := range override.Messages {
			base.Messages[k] = v
		}
	}

	if set("animation", "speed") {
		base.Animation.Speed = override.Animation.Speed
	}
	if set("input", "repeat_rate") {
		base.Input.RepeatRate = override.Input.RepeatRate
	}
	if set("input", "repeat_burst") {
		base.Input.RepeatBurst = override.Input.RepeatBurst
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}
	if override.Logging.File != "" {
		base.Logging.File = override.Logging.File
	}

	if set("telemetry", "metrics_addr") {
		base.Telemetry.MetricsAddr = override.Telemetry.MetricsAddr
	}
	if set("telemetry", "tracing") {
		base.Telemetry.Tracing = override.Telemetry.Tracing
	}
	if override.Telemetry.TraceFile != "" {
		base.Telemetry.TraceFile = override.Telemetry.TraceFile
	}

	if set("prefs", "path") {
		base.Prefs.Path = override.Prefs.Path
	}
}

func mergeTheme(base, override *ThemeConfig, raw map[string]any) {
	set := func(path ...string) bool { return fieldSet(raw, append([]string{"theme"}, path...)...) }

	if set("padding") {
		base.Padding = override.Padding
	}
	if set("margin", "top") {
		base.Margin.Top = override.Margin.Top
	}
	if set("margin", "right") {
		base.Margin.Right = override.Margin.Right
	}
	if set("margin", "bottom") {
		base.Margin.Bottom = override.Margin.Bottom
	}
	if set("margin", "left") {
		base.Margin.Left = override.Margin.Left
	}
	if set("line_height") {
		base.LineHeight = override.LineHeight
	}
	if override.TextAlign != "" {
		base.TextAlign = override.TextAlign
	}
	if override.Align != "" {
		base.Align = override.Align
	}
	if set("scrollbar_width") {
		base.ScrollbarWidth = override.ScrollbarWidth
	}
	if set("content_margin") {
		base.ContentMargin = override.ContentMargin
	}
	if set("animation_delay") {
		base.AnimationDelay = override.AnimationDelay
	}
	if set("animation_period") {
		base.AnimationPeriod = override.AnimationPeriod
	}

	c, o := &base.Colors, override.Colors
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&c.Foreground, o.Foreground},
		{&c.Background, o.Background},
		{&c.Highlight, o.Highlight},
		{&c.Focus, o.Focus},
		{&c.Error, o.Error},
		{&c.ScrollbarTrack, o.ScrollbarTrack},
		{&c.ScrollbarBorder, o.ScrollbarBorder},
		{&c.ScrollbarThumb, o.ScrollbarThumb},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}

// fieldSet reports whether the nested key path exists in the raw YAML map.
func fieldSet(raw map[string]any, path ...string) bool {
	if raw == nil || len(path) == 0 {
		return false
	}
	current := raw
	for i, key := range path {
		val, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	return false
}
