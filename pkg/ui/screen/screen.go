// Package screen hosts a panel as a runtime widget: it runs the layout pass
// each frame, paints the visible components and the scrollbar, and routes
// keys and timer ticks to the panel.
package screen

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/telemetry"
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/panel"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/scroll"
	"github.com/odvcencio/slate/pkg/ui/terminal"
)

// Animator is a panel driven by timer ticks.
type Animator interface {
	Tick(now time.Time) bool
	Flush()
}

// Restarter is a panel that can replay from the top.
type Restarter interface {
	Restart()
}

// Preferenced is a component whose value is a stored preference.
type Preferenced interface {
	Preference() (key string, value int, ok bool)
}

type selector interface {
	Selected() component.Component
}

// Option configures a Screen.
type Option func(*Screen)

// WithRepeatRate limits navigation keys to perSecond, allowing bursts of
// burst keys. Held keys beyond the limit are dropped.
func WithRepeatRate(perSecond float64, burst int) Option {
	return func(s *Screen) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

// WithQuitKeys replaces the keys that close the screen.
func WithQuitKeys(keys ...terminal.Key) Option {
	return func(s *Screen) { s.quitKeys = keys }
}

// Screen is a runtime.Widget showing one panel.
type Screen struct {
	name    string
	panel   panel.Panel
	ctx     *component.Context
	bounds  runtime.Rect
	limiter *rate.Limiter

	quitKeys []terminal.Key
	log      *logging.Logger
}

// New returns a screen showing p. ctx supplies the font, messages, logger
// and metrics; the theme comes from the runtime at render time.
func New(name string, p panel.Panel, ctx *component.Context, opts ...Option) *Screen {
	ctx = ctx.WithDefaults()
	s := &Screen{
		name:     name,
		panel:    p,
		ctx:      ctx,
		limiter:  rate.NewLimiter(rate.Inf, 1),
		quitKeys: []terminal.Key{terminal.KeyEscape, terminal.KeyCtrlC},
		log:      ctx.Log.WithScreen(name),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the screen name.
func (s *Screen) Name() string { return s.name }

// Panel returns the panel shown.
func (s *Screen) Panel() panel.Panel { return s.panel }

func (s *Screen) Measure(c runtime.Constraints) runtime.Size {
	return c.MaxSize()
}

func (s *Screen) Layout(bounds runtime.Rect) {
	s.bounds = bounds
}

// Render lays the panel out for the render bounds and paints it.
func (s *Screen) Render(rc runtime.RenderContext) {
	if rc.Buffer == nil {
		return
	}
	ctx := *s.ctx
	if rc.Theme != nil {
		ctx.Theme = rc.Theme
	}
	th := ctx.Theme
	bounds := rc.Bounds
	width := th.ContentWidth(bounds.Width)

	spanCtx, span := telemetry.StartSpan(rc.Ctx(), "slate.layout", trace.WithAttributes(
		telemetry.AttrViewport.String(fmt.Sprintf("%dx%d", width, bounds.Height)),
	))
	s.panel.PrepareLayout(&ctx, width, bounds.Height)
	m := s.panel.Manager()
	span.SetAttributes(
		telemetry.AttrFirstVisible.Int(m.FirstVisibleIndex()),
		telemetry.AttrVisible.Int(m.VisibleCount()),
		telemetry.AttrContentHeight.Int(m.Position().TotalHeight),
	)
	span.End()

	rc.Context = spanCtx
	rc.Buffer.Fill(bounds, ' ', th.Background)

	y := bounds.Y
	for c := range s.panel.VisibleComponents() {
		st := ctx.StyleOf(c)
		y += st.Margin.Top
		box := runtime.Rect{
			X:      bounds.X + th.ContentMargin + st.Margin.Left,
			Y:      y,
			Width:  width - st.Margin.Horizontal(),
			Height: c.VisibleHeight() + 2*st.Padding,
		}
		selected := s.panel.IsSelected(c)
		if selected {
			rc.Buffer.Fill(box.Intersection(bounds), ' ', th.Focus)
		}
		inner := box.Inset(st.Padding, st.Padding, st.Padding, st.Padding).Intersection(bounds)
		if !inner.Empty() {
			sub := rc.Sub(inner)
			sub.Focused = selected
			c.Render(sub)
		}
		y += box.Height + st.Margin.Bottom
	}

	if pos, ok := s.panel.ScrollPosition(); ok {
		s.drawScrollbar(rc, pos)
	}
}

func (s *Screen) drawScrollbar(rc runtime.RenderContext, pos scroll.Position) {
	th := rc.Theme
	if th == nil {
		th = s.ctx.Theme
	}
	bounds := rc.Bounds
	sbWidth := th.ScrollbarWidth
	if sbWidth <= 0 {
		return
	}
	track := runtime.Rect{
		X:      bounds.X + th.ScrollbarLeft(bounds.Width),
		Y:      bounds.Y,
		Width:  sbWidth,
		Height: bounds.Height,
	}
	if sbWidth > 1 {
		rc.Buffer.VLine(track.X, track.Y, track.Height, '│', th.ScrollbarBorder)
		track.X++
		track.Width--
		rc.Buffer.Fill(track, ' ', th.ScrollbarTrack)
	} else {
		rc.Buffer.Fill(track, '│', th.ScrollbarTrack)
	}

	top, height := pos.Thumb(bounds.Height, sbWidth)
	thumb := runtime.Rect{X: track.X, Y: bounds.Y + top, Width: track.Width, Height: height}
	rc.Buffer.Fill(thumb, '█', th.ScrollbarThumb)
}

// HandleMessage routes keys, ticks and lifecycle messages to the panel.
func (s *Screen) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		return s.handleKey(m)
	case runtime.TickMsg:
		a, ok := s.panel.(Animator)
		if !ok || !a.Tick(m.Time) {
			return runtime.Unhandled()
		}
		a.Flush()
		return runtime.Handled()
	case runtime.ThemeChangedMsg:
		s.panel.Invalidate()
		return runtime.Handled()
	case runtime.ShowMsg:
		s.log.Debug("screen shown")
		s.panel.Show()
		return runtime.Handled()
	case runtime.HideMsg:
		s.log.Debug("screen hidden")
		s.panel.Hide()
		return runtime.Handled()
	}
	return runtime.Unhandled()
}

func (s *Screen) handleKey(m runtime.KeyMsg) runtime.HandleResult {
	for _, k := range s.quitKeys {
		if m.Key == k {
			return runtime.WithCommand(runtime.Quit{})
		}
	}
	if m.Key == terminal.KeyCtrlR {
		if r, ok := s.panel.(Restarter); ok {
			r.Restart()
			return runtime.Handled()
		}
	}

	switch m.Key {
	case terminal.KeyUp, terminal.KeyDown, terminal.KeyLeft, terminal.KeyRight:
		if !s.limiter.Allow() {
			return runtime.Handled()
		}
	}
	if !s.panel.HandleKey(m) {
		return runtime.Unhandled()
	}
	if sel, ok := s.panel.(selector); ok {
		if p, ok := sel.Selected().(Preferenced); ok {
			if key, value, bound := p.Preference(); bound {
				return runtime.WithCommand(runtime.SetPreference{Key: key, Value: value})
			}
		}
	}
	return runtime.Handled()
}
