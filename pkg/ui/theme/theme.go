// Package theme provides the visual design used by slate screens and the
// per-component styles that feed layout: margins, padding, line height and
// animation timing.
package theme

import (
	"time"

	"github.com/odvcencio/slate/pkg/ui/backend"
)

// Spacing is a margin on four sides.
type Spacing struct {
	Top, Right, Bottom, Left int
}

// Vertical returns Top + Bottom.
func (s Spacing) Vertical() int { return s.Top + s.Bottom }

// Horizontal returns Left + Right.
func (s Spacing) Horizontal() int { return s.Left + s.Right }

// Anchor is a horizontal alignment.
type Anchor int

const (
	AnchorLeft Anchor = iota
	AnchorCenter
	AnchorRight
)

// ParseAnchor maps "left", "center" or "right" onto an Anchor; anything else is left.
func ParseAnchor(s string) Anchor {
	switch s {
	case "center", "hcenter":
		return AnchorCenter
	case "right":
		return AnchorRight
	default:
		return AnchorLeft
	}
}

// Offset returns the x offset of an item of width w inside a box of width box.
func (a Anchor) Offset(box, w int) int {
	switch a {
	case AnchorCenter:
		return (box - w) / 2
	case AnchorRight:
		return box - w
	default:
		return 0
	}
}

// Style is the per-component style. Components without their own style use
// the theme's.
type Style struct {
	Text      backend.Style // font color over component background
	Highlight backend.Style // highlighted token, selected gauge

	// LineHeight scales the font height; the extra space goes above each line.
	LineHeight float64
	Margin     Spacing
	Padding    int

	TextAlign Anchor // text within the component
	Align     Anchor // component within the viewport

	AnimationDelay  time.Duration
	AnimationPeriod time.Duration
}

// LineSpacing returns the extra space per line for a font of the given height.
func (s *Style) LineSpacing(fontHeight int) int {
	lh := s.LineHeight
	if lh < 1 {
		lh = 1
	}
	return int(lh*float64(fontHeight)) - fontHeight
}

// Theme is the screen-level design.
type Theme struct {
	Style

	Background backend.Style
	Title      backend.Style
	Focus      backend.Style
	Error      backend.Style

	ScrollbarTrack  backend.Style
	ScrollbarBorder backend.Style
	ScrollbarThumb  backend.Style
	ScrollbarWidth  int

	// ContentMargin is the horizontal margin on each side of the content area.
	ContentMargin int
}

// DefaultTheme returns the stock blue-on-charcoal theme.
func DefaultTheme() *Theme {
	text := backend.DefaultStyle().
		Foreground(backend.ColorHex(0xE8E6E1)).
		Background(backend.ColorHex(0x16161C))
	return &Theme{
		Style: Style{
			Text:            text,
			Highlight:       text.Foreground(backend.ColorHex(0x16161C)).Background(backend.ColorHex(0xF6F27B)),
			LineHeight:      1,
			Margin:          Spacing{Bottom: 1},
			Padding:         0,
			AnimationDelay:  time.Second,
			AnimationPeriod: time.Second,
		},
		Background:      backend.DefaultStyle().Background(backend.ColorHex(0x16161C)),
		Title:           text.Bold(true),
		Focus:           backend.DefaultStyle().Background(backend.ColorHex(0x3C5A8C)),
		Error:           text.Foreground(backend.ColorHex(0xFF6E5A)),
		ScrollbarTrack:  backend.DefaultStyle().Background(backend.ColorHex(0x202028)),
		ScrollbarBorder: backend.DefaultStyle().Foreground(backend.ColorHex(0x686868)),
		ScrollbarThumb:  backend.DefaultStyle().Background(backend.ColorHex(0x6E8FC8)),
		ScrollbarWidth:  1,
		ContentMargin:   1,
	}
}

// ContentWidth returns the usable width of the content area for a screen of
// the given width: margins on both sides and the scrollbar are excluded.
func (t *Theme) ContentWidth(screenWidth int) int {
	return max(0, screenWidth-2*t.ContentMargin-t.ScrollbarWidth)
}

// ScrollbarLeft returns the x position of the scrollbar track.
func (t *Theme) ScrollbarLeft(screenWidth int) int {
	return screenWidth - t.ScrollbarWidth
}

// Resolve returns s when non-nil, else the theme's own style.
func (t *Theme) Resolve(s *Style) *Style {
	if s != nil {
		return s
	}
	return &t.Style
}
