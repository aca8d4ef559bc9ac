package panel

import (
	"log/slog"
	"time"

	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/ui/component"
)

// TrackKind identifies what an animation track does when it fires.
type TrackKind int

const (
	// TrackFrames advances one animated component until it runs out of frames.
	TrackFrames TrackKind = iota
	// TrackAdvance scrolls down until a component enters the window.
	TrackAdvance
	// TrackReplay enables replay once everything else has played.
	TrackReplay
)

func (k TrackKind) String() string {
	switch k {
	case TrackFrames:
		return "frames"
	case TrackAdvance:
		return "advance"
	default:
		return "replay"
	}
}

// DefaultSpeed is the animation speed preference that plays at style timing.
const DefaultSpeed = 10

// AdvanceEvent is emitted when the active track fires. Flush applies it.
type AdvanceEvent struct {
	ComponentID string
	Kind        TrackKind
}

type track struct {
	kind   TrackKind
	target component.Component
	// index is the component that must become visible for TrackAdvance.
	index  int
	delay  time.Duration
	period time.Duration
}

// AnimatedPanel plays its animated components in order, scrolling the
// window forward to reach each one. Tracks run one after another: a track
// starts after its delay, fires every period and ends when it has nothing
// left to do.
type AnimatedPanel struct {
	*ContentPanel

	tracks  []track
	next    time.Time
	running bool
	pending []AdvanceEvent

	speed    float64
	replay   bool
	onReplay func(enabled bool)
}

// NewAnimatedPanel returns a panel with user scrolling disabled.
func NewAnimatedPanel(components ...component.Component) *AnimatedPanel {
	p := &AnimatedPanel{
		ContentPanel: NewContentPanel(components...),
		speed:        1,
	}
	p.SetUserScrolling(false)
	return p
}

// SetSpeed applies an animation speed preference. DefaultSpeed plays at
// the styles' timing; larger values play slower.
func (p *AnimatedPanel) SetSpeed(pref int) {
	if pref <= 0 {
		p.speed = 1
		return
	}
	p.speed = float64(pref) / DefaultSpeed
}

// OnReplay registers fn to be told when replay becomes available or not.
func (p *AnimatedPanel) OnReplay(fn func(enabled bool)) { p.onReplay = fn }

// ReplayEnabled reports whether every track has played.
func (p *AnimatedPanel) ReplayEnabled() bool { return p.replay }

// Running reports whether tracks have been scheduled.
func (p *AnimatedPanel) Running() bool { return p.running }

func (p *AnimatedPanel) setReplay(enabled bool) {
	p.replay = enabled
	if p.onReplay != nil {
		p.onReplay(enabled)
	}
}

// PrepareLayout runs the layout pass and schedules the animation the first
// time the panel is laid out.
func (p *AnimatedPanel) PrepareLayout(ctx *component.Context, width, height int) {
	p.ContentPanel.PrepareLayout(ctx, width, height)
	if !p.running {
		p.animate()
	}
}

func (p *AnimatedPanel) animate() {
	p.running = true
	p.tracks = p.tracks[:0]
	p.next = time.Time{}
	p.pending = nil

	for i, c := range p.components {
		a, ok := c.(component.Animated)
		if !ok {
			continue
		}
		if c.ScreenPosition() == component.NotShown {
			p.tracks = append(p.tracks, p.newTrack(TrackAdvance, c, i-1))
		}
		p.tracks = append(p.tracks, p.newTrack(TrackFrames, a, i))
	}
	if n := len(p.components); n > 0 {
		if last := p.components[n-1]; last.ScreenPosition() == component.NotShown {
			p.tracks = append(p.tracks, p.newTrack(TrackAdvance, last, n-1))
		}
	}
	p.tracks = append(p.tracks, track{kind: TrackReplay})

	p.log().Debug("animation scheduled", slog.Int("tracks", len(p.tracks)))
}

func (p *AnimatedPanel) newTrack(kind TrackKind, c component.Component, index int) track {
	st := p.ctx.StyleOf(c)
	return track{
		kind:   kind,
		target: c,
		index:  index,
		delay:  time.Duration(float64(st.AnimationDelay) * p.speed),
		period: time.Duration(float64(st.AnimationPeriod) * p.speed),
	}
}

func (p *AnimatedPanel) log() *logging.Logger {
	if p.ctx == nil {
		return logging.Nop()
	}
	return p.ctx.Log.WithCategory(logging.CategoryAnimation)
}

// Tick fires the active track when it is due and reports whether events
// are waiting for Flush.
func (p *AnimatedPanel) Tick(now time.Time) bool {
	if !p.running || len(p.tracks) == 0 {
		return len(p.pending) > 0
	}
	t := p.tracks[0]
	if p.next.IsZero() {
		p.next = now.Add(t.delay)
	}
	if now.Before(p.next) {
		return len(p.pending) > 0
	}

	ev := AdvanceEvent{Kind: t.kind}
	if t.target != nil {
		ev.ComponentID = t.target.ID()
	}
	p.pending = append(p.pending, ev)
	p.next = now.Add(max(t.period, time.Millisecond))
	return true
}

// Flush applies pending events. Events for a track that is no longer
// active are dropped.
func (p *AnimatedPanel) Flush() {
	events := p.pending
	p.pending = nil
	for _, ev := range events {
		if len(p.tracks) == 0 {
			return
		}
		t := p.tracks[0]
		if t.kind != ev.Kind || (t.target != nil && t.target.ID() != ev.ComponentID) {
			continue
		}
		if !p.apply(t) {
			p.tracks = p.tracks[1:]
			p.next = time.Time{}
			p.log().Debug("track done", slog.String("kind", t.kind.String()), slog.Int("remaining", len(p.tracks)))
		}
	}
}

// apply runs one step of t and reports whether the track continues.
func (p *AnimatedPanel) apply(t track) bool {
	switch t.kind {
	case TrackFrames:
		a := t.target.(component.Animated)
		if !a.HasMoreFrames() {
			a.ResetAnimation()
			return false
		}
		a.AdvanceFrame(p)
		if p.ctx != nil {
			p.ctx.Metrics.ObserveAnimationFrame(a.ID())
		}
		return true
	case TrackAdvance:
		if p.scroll.LastVisibleIndex() <= t.index && p.CanScroll(component.Down) {
			p.Scroll(component.Down)
			return true
		}
		return false
	default:
		p.setReplay(true)
		return false
	}
}

// Restart scrolls back to the top and plays everything again.
func (p *AnimatedPanel) Restart() {
	p.setReplay(false)
	p.cancel()
	p.ResetToTop()
	for _, c := range p.components {
		if a, ok := c.(component.Animated); ok {
			a.ResetAnimation()
		}
	}
	p.relayout()
}

// Hide stops the animation. It is scheduled again from the current window
// the next time the panel is laid out.
func (p *AnimatedPanel) Hide() { p.cancel() }

func (p *AnimatedPanel) cancel() {
	p.tracks = p.tracks[:0]
	p.pending = nil
	p.next = time.Time{}
	p.running = false
}

// relayout re-runs this panel's layout pass so a restart schedules tracks.
func (p *AnimatedPanel) relayout() {
	if p.ctx != nil {
		p.PrepareLayout(p.ctx, p.width, p.height)
	}
}
