package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// Label is a single line of text that is truncated, never wrapped.
type Label struct {
	component.Block
	content string
	title   bool
}

// NewLabel returns a plain label.
func NewLabel(s string, style *theme.Style) *Label {
	l := &Label{content: s}
	l.Block = component.NewBlock(component.NewBase(style), func(ctx *component.Context, width int) runtime.Size {
		return runtime.Size{
			Width:  min(ctx.Font.Width(l.content), width),
			Height: ctx.Font.Height(),
		}
	})
	return l
}

// NewTitle returns a label drawn in the theme's title style.
func NewTitle(s string, style *theme.Style) *Label {
	l := NewLabel(s, style)
	l.title = true
	return l
}

// Text returns the label text.
func (l *Label) Text() string { return l.content }

func (l *Label) Render(rc runtime.RenderContext) {
	if rc.Buffer == nil {
		return
	}
	st := rc.Theme.Resolve(l.Style())
	s := runewidth.Truncate(l.content, rc.Bounds.Width, "…")
	style := st.Text
	if l.title {
		style = rc.Theme.Title
	}
	x := rc.Bounds.X + st.TextAlign.Offset(rc.Bounds.Width, runewidth.StringWidth(s))
	rc.Buffer.SetString(x, rc.Bounds.Y, s, style)
}
