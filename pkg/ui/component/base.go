package component

import (
	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// Base implements the identity, style, position and size-cache parts of
// Component. Indivisible widgets embed it directly.
type Base struct {
	id       string
	style    *theme.Style
	position ScreenPosition

	sizeWidth int
	size      runtime.Size
	sized     bool
}

// NewBase returns a Base with a fresh id. A nil style uses the theme's.
func NewBase(style *theme.Style) Base {
	return Base{id: ulid.Make().String(), style: style}
}

func (b *Base) ID() string {
	if b.id == "" {
		b.id = ulid.Make().String()
	}
	return b.id
}

func (b *Base) Style() *theme.Style { return b.style }

// SetStyle replaces the component style and drops the cached size.
func (b *Base) SetStyle(st *theme.Style) {
	b.style = st
	b.Invalidate()
}

func (b *Base) ScreenPosition() ScreenPosition     { return b.position }
func (b *Base) SetScreenPosition(p ScreenPosition) { b.position = p }

// CachedSize returns the cached size for width or computes and stores it.
func (b *Base) CachedSize(width int, compute func() runtime.Size) runtime.Size {
	if b.sized && b.sizeWidth == width {
		return b.size
	}
	b.size = compute()
	b.sizeWidth = width
	b.sized = true
	return b.size
}

// LastSize returns the most recently computed preferred size.
func (b *Base) LastSize() runtime.Size { return b.size }

func (b *Base) Invalidate() { b.sized = false }

func (b *Base) CanScroll(Direction) bool { return false }
func (b *Base) Scroll(Direction)         {}
func (b *Base) HasMore(Direction) bool   { return false }

func (b *Base) HeightAboveVisibleStart() int { return 0 }

// VisibleHeight is the whole preferred height.
func (b *Base) VisibleHeight() int { return b.size.Height }

