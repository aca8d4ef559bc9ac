// Package logging wraps log/slog with the categories and event helpers used
// across slate. Every subsystem logs through a *Logger scoped with WithCategory.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Category represents the subsystem generating the log
type Category string

const (
	CategoryLayout    Category = "layout"
	CategoryScroll    Category = "scroll"
	CategoryAnimation Category = "animation"
	CategoryConfig    Category = "config"
	CategoryRender    Category = "render"
	CategoryPrefs     Category = "prefs"
	CategoryInput     Category = "input"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Logger is a structured logger for slate components
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to w. Unknown formats fall back to JSON.
func New(w io.Writer, level slog.Level, format Format) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler).With(slog.String("system", "slate"))}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil || l.Logger == nil {
		return Nop()
	}
	return l
}

// ParseLevel maps a config string onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// WithCategory scopes the logger to a subsystem.
func (l *Logger) WithCategory(c Category) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("category", string(c)))}
}

// WithScreen returns a logger with screen-specific fields
func (l *Logger) WithScreen(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("screen", name))}
}

// WithComponent returns a logger with component-specific fields
func (l *Logger) WithComponent(id string, index int) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("component_id", id),
			slog.Int("component_index", index),
		),
	}
}

// WithSession tags every record with the process session id.
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("session_id", sessionID))}
}

// WithContext attaches trace and span ids when ctx carries a valid span.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return l
	}
	return &Logger{
		Logger: l.Logger.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		),
	}
}

// ComponentSubstituted logs a component that could not fit the viewport and
// was replaced by an error text area.
func (l *Logger) ComponentSubstituted(index, width, height, viewportWidth, viewportHeight int) {
	l.Warn("component does not fit",
		slog.Int("index", index),
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("viewport_width", viewportWidth),
		slog.Int("viewport_height", viewportHeight),
	)
}

// LayoutPass logs the outcome of a layout pass.
func (l *Logger) LayoutPass(components, visible, totalContentHeight int, elapsed time.Duration) {
	l.Debug("layout pass",
		slog.Int("components", components),
		slog.Int("visible", visible),
		slog.Int("total_content_height", totalContentHeight),
		slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	)
}

// Scrolled logs a scroll step.
func (l *Logger) Scrolled(direction string, delegated bool, firstVisible int) {
	l.Debug("scrolled",
		slog.String("direction", direction),
		slog.Bool("delegated", delegated),
		slog.Int("first_visible", firstVisible),
	)
}

// ConfigReloaded logs a configuration reload triggered by a file change.
func (l *Logger) ConfigReloaded(path string, err error) {
	if err != nil {
		l.Error("config reload failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	l.Info("config reloaded", slog.String("path", path))
}
