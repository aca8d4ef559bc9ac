package component

// SegmentMeasurer sizes the fixed-height slices of a divisible component.
type SegmentMeasurer interface {
	SegmentCount() int
	// SegmentHeight returns the height of n consecutive segments.
	SegmentHeight(n int) int
	// FittingSegments returns how many segments starting at start fit in
	// height.
	FittingSegments(start, height int) int
}

// Segments implements the divisible half of Component on top of a
// SegmentMeasurer. Scrolling moves one segment at a time.
type Segments struct {
	Base
	measurer SegmentMeasurer

	start    int // first visible segment, inclusive
	end      int // last visible segment, exclusive
	viewport int
}

// NewSegments returns a Segments over m.
func NewSegments(base Base, m SegmentMeasurer) Segments {
	return Segments{Base: base, measurer: m}
}

// SetMeasurer installs m. Components that measure themselves call it from
// their constructor.
func (s *Segments) SetMeasurer(m SegmentMeasurer) { s.measurer = m }

func (s *Segments) SegmentCount() int {
	if s.measurer == nil {
		return 0
	}
	return s.measurer.SegmentCount()
}

func (s *Segments) segmentHeight(n int) int {
	if s.measurer == nil || n <= 0 {
		return 0
	}
	return s.measurer.SegmentHeight(n)
}

func (s *Segments) VisibleRange() (start, end int) { return s.start, s.end }

func (s *Segments) SetViewport(height int) { s.viewport = height }

func (s *Segments) ResetRange() { s.start, s.end = 0, 0 }

func (s *Segments) CanScroll(dir Direction) bool {
	if dir == Up {
		return s.start > 0
	}
	return s.start < s.end-1
}

func (s *Segments) Scroll(dir Direction) {
	count := s.SegmentCount()
	s.start = min(max(s.start+dir.Delta(), 0), count)

	if dir == Up {
		if s.viewport > 0 && s.segmentHeight(s.end-s.start) > s.viewport {
			s.end--
		}
		return
	}
	if s.end < count {
		s.end++
	}
	s.end = max(s.end, s.start)
}

func (s *Segments) HasMore(dir Direction) bool {
	if dir == Up {
		return s.start > 0
	}
	return s.end < s.SegmentCount()
}

func (s *Segments) VisibleHeight() int {
	return s.segmentHeight(s.end - s.start)
}

func (s *Segments) HeightAboveVisibleStart() int {
	return s.segmentHeight(s.start)
}

// CanRenderInto reports whether at least one segment fits.
func (s *Segments) CanRenderInto(_ *Context, _, height int) bool {
	return s.segmentHeight(1) <= height
}

// CalculateVisibleHeight clips the range from the top when the component
// has not been scrolled, and otherwise keeps the range it has.
func (s *Segments) CalculateVisibleHeight(_ *Context, _, availableHeight int) int {
	s.clampRange()
	if s.start == 0 && s.measurer != nil {
		n := s.measurer.FittingSegments(0, availableHeight)
		s.end = min(max(n, 0), s.SegmentCount())
	}
	return s.VisibleHeight()
}

func (s *Segments) clampRange() {
	count := s.SegmentCount()
	if s.start >= count {
		s.start = max(count-1, 0)
	}
	s.end = min(max(s.end, s.start), count)
}
