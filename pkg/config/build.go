package config

import (
	"log/slog"
	"strings"

	"github.com/odvcencio/slate/pkg/errors"
	"github.com/odvcencio/slate/pkg/i18n"
	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/ui/backend"
	"github.com/odvcencio/slate/pkg/ui/font"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// BuildFont returns the text metrics selected by the font section.
func (c *Config) BuildFont() font.Metrics {
	switch c.Font.Kind {
	case FontFixed:
		return font.Fixed{CellWidth: c.Font.CharWidth, LineHeight: c.Font.Height}
	case FontProportional:
		widths := make(map[rune]int, len(c.Font.Widths))
		for k, w := range c.Font.Widths {
			for _, r := range k {
				widths[r] = w
				break
			}
		}
		return font.NewProportional(c.Font.Height, c.Font.CharWidth, widths, c.Font.MemoSize)
	default:
		return font.Cell
	}
}

// BuildTheme applies the theme section to the default theme.
func (c *Config) BuildTheme() (*theme.Theme, error) {
	t := theme.DefaultTheme()
	tc := c.Theme

	t.Padding = tc.Padding
	t.Margin = theme.Spacing{Top: tc.Margin.Top, Right: tc.Margin.Right, Bottom: tc.Margin.Bottom, Left: tc.Margin.Left}
	t.LineHeight = tc.LineHeight
	t.TextAlign = theme.ParseAnchor(strings.ToLower(tc.TextAlign))
	t.Align = theme.ParseAnchor(strings.ToLower(tc.Align))
	t.ScrollbarWidth = tc.ScrollbarWidth
	t.ContentMargin = tc.ContentMargin
	t.AnimationDelay = tc.AnimationDelay
	t.AnimationPeriod = tc.AnimationPeriod

	apply := func(name, value string, fn func(backend.Color)) error {
		if value == "" {
			return nil
		}
		col, err := backend.ParseColor(value)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid theme color").
				WithContext("field", "theme.colors."+name).
				WithContext("value", value)
		}
		fn(col)
		return nil
	}

	colors := tc.Colors
	steps := []struct {
		name, value string
		fn          func(backend.Color)
	}{
		{"foreground", colors.Foreground, func(col backend.Color) {
			t.Text = t.Text.Foreground(col)
			t.Title = t.Title.Foreground(col)
		}},
		{"background", colors.Background, func(col backend.Color) {
			t.Text = t.Text.Background(col)
			t.Title = t.Title.Background(col)
			t.Error = t.Error.Background(col)
			t.Background = t.Background.Background(col)
		}},
		{"highlight", colors.Highlight, func(col backend.Color) { t.Highlight = t.Highlight.Background(col) }},
		{"focus", colors.Focus, func(col backend.Color) { t.Focus = t.Focus.Background(col) }},
		{"error", colors.Error, func(col backend.Color) { t.Error = t.Error.Foreground(col) }},
		{"scrollbar_track", colors.ScrollbarTrack, func(col backend.Color) { t.ScrollbarTrack = t.ScrollbarTrack.Background(col) }},
		{"scrollbar_border", colors.ScrollbarBorder, func(col backend.Color) { t.ScrollbarBorder = t.ScrollbarBorder.Foreground(col) }},
		{"scrollbar_thumb", colors.ScrollbarThumb, func(col backend.Color) { t.ScrollbarThumb = t.ScrollbarThumb.Background(col) }},
	}
	for _, s := range steps {
		if err := apply(s.name, s.value, s.fn); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// BuildMessages returns the message catalog for the configured locale with
// any message overrides applied.
func (c *Config) BuildMessages() *i18n.Catalog {
	return i18n.New(c.Locale, c.Messages)
}

// LogLevel returns the parsed logging level, info when unparseable.
func (c *Config) LogLevel() slog.Level {
	level, _ := logging.ParseLevel(c.Logging.Level)
	return level
}

// LogFormat returns the configured slog handler format.
func (c *Config) LogFormat() logging.Format {
	return logging.Format(strings.ToLower(c.Logging.Format))
}
