package widgets

import (
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/text"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

//go:generate mockgen -package=widgets -destination=mock_scroll_handler_test.go github.com/odvcencio/slate/pkg/ui/component ScrollHandler

// HighlightTextArea is a TextArea that highlights one word per animation
// frame, scrolling the panel when the word falls below the visible range.
type HighlightTextArea struct {
	*TextArea
	tokenIdx int
}

// NewHighlightTextArea returns a text area with word highlighting.
func NewHighlightTextArea(s string, style *theme.Style, opts ...TextOption) *HighlightTextArea {
	return &HighlightTextArea{
		TextArea: NewTextArea(s, style, append(opts, withTokens())...),
		tokenIdx: -1,
	}
}

// Highlighted returns the current token, if highlighting has started.
func (h *HighlightTextArea) Highlighted() (text.Token, bool) {
	if h.tokenIdx < 0 || h.tokenIdx >= len(h.wrapped.Tokens) {
		return text.Token{}, false
	}
	return h.wrapped.Tokens[h.tokenIdx], true
}

func (h *HighlightTextArea) HasMoreFrames() bool {
	return h.tokenIdx < len(h.wrapped.Tokens)-1
}

func (h *HighlightTextArea) AdvanceFrame(handler component.ScrollHandler) {
	h.tokenIdx++
	tok, ok := h.Highlighted()
	if !ok {
		return
	}
	_, end := h.VisibleRange()
	if tok.Line > end-1 && handler != nil && handler.CanScroll(component.Down) {
		handler.Scroll(component.Down)
	}
}

func (h *HighlightTextArea) ResetAnimation() {
	h.tokenIdx = -1
}

func (h *HighlightTextArea) Render(rc runtime.RenderContext) {
	tok, ok := h.Highlighted()
	if !ok {
		h.render(rc, nil)
		return
	}
	st := rc.Theme.Resolve(h.Style())
	h.render(rc, func(rc runtime.RenderContext, index int, line text.Line, x, y int) {
		if index != tok.Line {
			return
		}
		hx := x + h.font.SubstringWidth(line.Text, 0, tok.Start)
		area := runtime.Rect{X: hx, Y: y, Width: tok.Width, Height: h.font.Height()}
		rc.Buffer.Restyle(area.Intersection(rc.Bounds), st.Highlight)
	})
}
