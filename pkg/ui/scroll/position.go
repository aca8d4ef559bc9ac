package scroll

// Position is the scrollbar state: how far the window is from the top of
// the content and how tall the content is.
type Position struct {
	ThumbOffset int
	TotalHeight int
}

// Thumb returns the top and height of the scrollbar thumb for a viewport
// of the given content height. The thumb is at least two scrollbar widths
// tall and never extends past the viewport.
func (p Position) Thumb(viewportHeight, scrollbarWidth int) (top, height int) {
	if p.TotalHeight <= 0 || viewportHeight <= 0 {
		return 0, 0
	}
	vh := float64(viewportHeight)
	total := float64(p.TotalHeight)

	height = int(vh * (vh / total))
	height = min(max(height, 2*scrollbarWidth), viewportHeight)

	top = int(vh * (float64(p.ThumbOffset) / total))
	if top+height > viewportHeight {
		top = viewportHeight - height
	}
	return max(top, 0), height
}
