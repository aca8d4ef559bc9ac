// Package widgets provides the leaf components a content panel lays out.
package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/font"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/text"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// TextOption configures a TextArea.
type TextOption func(*TextArea)

// WithSyllableSeparator marks legal break points inside words with r.
// The separator is never rendered.
func WithSyllableSeparator(r rune) TextOption {
	return func(t *TextArea) { t.separator = r }
}

// WithoutSpaceAboveFirstLine drops the line spacing above the first line.
func WithoutSpaceAboveFirstLine() TextOption {
	return func(t *TextArea) { t.spaceAbove = false }
}

func withTokens() TextOption {
	return func(t *TextArea) { t.tokens = true }
}

// TextArea is a divisible block of wrapped text. Each line is a segment.
type TextArea struct {
	component.Segments

	content    string
	separator  rune
	tokens     bool
	spaceAbove bool

	wrapped text.Result
	font    font.Metrics
	spacing int
}

// NewTextArea returns a text area. A nil style uses the theme's.
func NewTextArea(s string, style *theme.Style, opts ...TextOption) *TextArea {
	t := &TextArea{
		Segments:   component.NewSegments(component.NewBase(style), nil),
		content:    s,
		spaceAbove: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.SetMeasurer(t)
	return t
}

// Text returns the unwrapped text.
func (t *TextArea) Text() string { return t.content }

// Lines returns the wrapped lines from the last layout.
func (t *TextArea) Lines() []string { return t.wrapped.Strings() }

func (t *TextArea) PreferredSize(ctx *component.Context, width int) runtime.Size {
	return t.CachedSize(width, func() runtime.Size {
		st := ctx.StyleOf(t)
		t.font = ctx.Font
		t.spacing = st.LineSpacing(ctx.Font.Height())

		var opts []text.Option
		if t.tokens {
			opts = append(opts, text.WithTokens())
		}
		if t.separator != 0 {
			opts = append(opts, text.WithSyllableSeparator(t.separator))
		}
		t.wrapped = text.Wrap(ctx.Font, t.content, component.InnerWidth(st, width), opts...)

		return runtime.Size{
			Width:  t.wrapped.MaxWidth(),
			Height: t.SegmentHeight(len(t.wrapped.Lines)),
		}
	})
}

func (t *TextArea) SegmentCount() int { return len(t.wrapped.Lines) }

func (t *TextArea) step() int {
	return t.font.Height() + t.spacing
}

// SegmentHeight returns the height of n lines.
func (t *TextArea) SegmentHeight(n int) int {
	if t.font == nil || n <= 0 {
		return 0
	}
	if t.spaceAbove {
		return n * t.step()
	}
	return n*t.step() - t.spacing
}

// FittingSegments returns how many lines fit in height.
func (t *TextArea) FittingSegments(_, height int) int {
	if t.font == nil || height <= 0 {
		return 0
	}
	if t.spaceAbove {
		return height / t.step()
	}
	fh := t.font.Height()
	if height < fh {
		return 0
	}
	return 1 + (height-fh)/t.step()
}

func (t *TextArea) Render(rc runtime.RenderContext) {
	t.render(rc, nil)
}

// lineHook restyles part of a line after it is drawn.
type lineHook func(rc runtime.RenderContext, index int, line text.Line, x, y int)

func (t *TextArea) render(rc runtime.RenderContext, hook lineHook) {
	if rc.Buffer == nil || t.font == nil {
		return
	}
	st := rc.Theme.Resolve(t.Style())
	block := t.LastSize().Width
	left := rc.Bounds.X + st.Align.Offset(rc.Bounds.Width, block)
	bottom := rc.Bounds.Y + rc.Bounds.Height

	y := rc.Bounds.Y
	if t.spaceAbove {
		y += t.spacing
	}
	start, end := t.VisibleRange()
	for i := start; i < end && i < len(t.wrapped.Lines); i++ {
		if y >= bottom {
			break
		}
		line := t.wrapped.Lines[i]
		x := left + st.TextAlign.Offset(block, line.Width)
		avail := rc.Bounds.X + rc.Bounds.Width - x
		rc.Buffer.SetString(x, y, runewidth.Truncate(line.Text, avail, ""), st.Text)
		if hook != nil {
			hook(rc, i, line, x, y)
		}
		y += t.step()
	}
}
