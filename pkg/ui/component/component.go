// Package component defines the units a content panel lays out: a small
// capability set (sized, scrollable, divisible, animated, focusable) plus
// reusable bases that concrete widgets embed.
package component

import (
	"github.com/odvcencio/slate/pkg/i18n"
	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/telemetry"
	"github.com/odvcencio/slate/pkg/ui/font"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// Direction is a vertical scroll direction.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Delta returns -1 for Up and +1 for Down.
func (d Direction) Delta() int {
	if d == Up {
		return -1
	}
	return 1
}

// ScreenPosition is where a component sits relative to the visible window.
// It is assigned on every layout pass.
type ScreenPosition int

const (
	NotShown ScreenPosition = iota
	First
	Middle
	Last
)

func (p ScreenPosition) String() string {
	switch p {
	case First:
		return "first"
	case Middle:
		return "middle"
	case Last:
		return "last"
	default:
		return "not_shown"
	}
}

// Visible reports whether the position is inside the window.
func (p ScreenPosition) Visible() bool {
	return p != NotShown
}

// Context carries what a layout pass needs to measure components.
type Context struct {
	Font     font.Metrics
	Theme    *theme.Theme
	Messages i18n.Messages
	Log      *logging.Logger
	Metrics  *telemetry.Metrics
}

// DefaultContext returns a context for a plain terminal: cell font, default
// theme, English messages and no logging.
func DefaultContext() *Context {
	return (&Context{}).WithDefaults()
}

// WithDefaults returns a copy with nil fields filled in.
func (c *Context) WithDefaults() *Context {
	out := Context{}
	if c != nil {
		out = *c
	}
	if out.Font == nil {
		out.Font = font.Cell
	}
	if out.Theme == nil {
		out.Theme = theme.DefaultTheme()
	}
	if out.Messages == nil {
		out.Messages = i18n.Default()
	}
	out.Log = logging.OrNop(out.Log)
	return &out
}

// Styled is anything carrying an optional style.
type Styled interface {
	Style() *theme.Style
}

// StyleOf resolves a component's style against the theme.
func (c *Context) StyleOf(s Styled) *theme.Style {
	return c.Theme.Resolve(s.Style())
}

// Scrollable is the intra-component scroll contract.
type Scrollable interface {
	// CanScroll reports whether Scroll(dir) would reveal another segment
	// without leaving the component.
	CanScroll(dir Direction) bool
	Scroll(dir Direction)
	// HasMore reports whether content is hidden in dir.
	HasMore(dir Direction) bool
}

// Component is a unit of content in a panel. Sizes exclude margin and
// padding, which come from Style.
type Component interface {
	Scrollable

	ID() string
	Style() *theme.Style

	// PreferredSize is the full, unscrolled content size when laid out at
	// width. It is cached until Invalidate.
	PreferredSize(ctx *Context, width int) runtime.Size
	// CanRenderInto reports whether any portion of the component can be
	// shown in a width×height box.
	CanRenderInto(ctx *Context, width, height int) bool
	// CalculateVisibleHeight fixes the visible portion for the available
	// height and returns its height.
	CalculateVisibleHeight(ctx *Context, width, availableHeight int) int
	VisibleHeight() int
	// HeightAboveVisibleStart is the height scrolled off the top.
	HeightAboveVisibleStart() int

	ScreenPosition() ScreenPosition
	SetScreenPosition(p ScreenPosition)

	// Render draws the visible portion into rc.Bounds. rc.Focused is true
	// when the component is selected.
	Render(rc runtime.RenderContext)
	Invalidate()
}

// Divisible components can show a sub-range of their segments.
type Divisible interface {
	Component
	SegmentCount() int
	// VisibleRange returns the half-open range of visible segments.
	VisibleRange() (start, end int)
	// SetViewport records the viewport height the component is shown in.
	SetViewport(height int)
	// ResetRange scrolls back to the first segment.
	ResetRange()
}

// ScrollHandler is what an animation uses to move the window.
type ScrollHandler interface {
	CanScroll(dir Direction) bool
	Scroll(dir Direction)
}

// Animated components advance through frames on a timer.
type Animated interface {
	Component
	HasMoreFrames() bool
	AdvanceFrame(h ScrollHandler)
	ResetAnimation()
}

// Focusable components can be selected and receive keys.
type Focusable interface {
	Component
	AcceptsInput() bool
	HandleKey(msg runtime.KeyMsg) bool
}

// AcceptsInput reports whether c can take focus.
func AcceptsInput(c Component) bool {
	f, ok := c.(Focusable)
	return ok && f.AcceptsInput()
}

// Outer adds a style's vertical margin and padding to a content height.
func Outer(st *theme.Style, height int) int {
	return height + 2*st.Padding + st.Margin.Vertical()
}

// OuterWidth adds a style's horizontal margin and padding to a content width.
func OuterWidth(st *theme.Style, width int) int {
	return width + 2*st.Padding + st.Margin.Horizontal()
}

// InnerWidth is the content width left inside a viewport of width.
func InnerWidth(st *theme.Style, width int) int {
	return max(0, width-2*st.Padding-st.Margin.Horizontal())
}
