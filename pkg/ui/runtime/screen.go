package runtime

import (
	"context"

	"github.com/odvcencio/slate/pkg/ui/theme"
)

// Screen owns the render buffer and the root widget.
type Screen struct {
	width, height int
	root          Widget
	buffer        *Buffer
	theme         *theme.Theme
}

// NewScreen creates a screen with the given dimensions.
func NewScreen(w, h int, th *theme.Theme) *Screen {
	if th == nil {
		th = theme.DefaultTheme()
	}
	return &Screen{
		width:  w,
		height: h,
		buffer: NewBuffer(w, h),
		theme:  th,
	}
}

// Size returns the screen dimensions.
func (s *Screen) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the screen dimensions and re-lays out the root.
func (s *Screen) Resize(w, h int) {
	s.width, s.height = w, h
	s.buffer.Resize(w, h)
	if s.root != nil {
		s.root.Layout(Rect{Width: w, Height: h})
	}
}

// Buffer returns the screen's render buffer.
func (s *Screen) Buffer() *Buffer {
	return s.buffer
}

// Theme returns the current theme.
func (s *Screen) Theme() *theme.Theme {
	return s.theme
}

// SetTheme changes the theme.
func (s *Screen) SetTheme(th *theme.Theme) {
	if th != nil {
		s.theme = th
	}
}

// SetRoot installs the root widget and lays it out over the whole screen.
func (s *Screen) SetRoot(root Widget) {
	s.root = root
	if root != nil {
		root.Layout(Rect{Width: s.width, Height: s.height})
	}
}

// Root returns the root widget.
func (s *Screen) Root() Widget {
	return s.root
}

// Render draws the root to the buffer.
func (s *Screen) Render(ctx context.Context) {
	s.buffer.Fill(Rect{Width: s.width, Height: s.height}, ' ', s.theme.Background)
	if s.root == nil {
		return
	}
	s.root.Render(RenderContext{
		Context: ctx,
		Buffer:  s.buffer,
		Theme:   s.theme,
		Focused: true,
		Bounds:  Rect{Width: s.width, Height: s.height},
	})
}

// HandleMessage dispatches a message to the root.
func (s *Screen) HandleMessage(msg Message) HandleResult {
	if s.root == nil {
		return Unhandled()
	}
	return s.root.HandleMessage(msg)
}

// RenderContext provides context to widgets during rendering.
type RenderContext struct {
	// Context carries the frame's trace span.
	Context context.Context
	Buffer  *Buffer
	Theme   *theme.Theme
	Focused bool
	Bounds  Rect
}

// Sub creates a new context for a child widget with adjusted bounds.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	ctx.Bounds = bounds
	return ctx
}

// Ctx returns the frame context, never nil.
func (ctx RenderContext) Ctx() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}
