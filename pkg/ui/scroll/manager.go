// Package scroll decides how a scroll input moves the visible window over a
// sequence of components: within the component at the window edge when it
// has hidden segments, otherwise by shifting the window one component.
package scroll

import (
	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/telemetry"
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/terminal"
)

// Content is the ordered component sequence a Manager scrolls over.
type Content interface {
	Len() int
	At(i int) component.Component
}

// Manager holds the window state written by the layout pass and moves it
// in response to scroll input.
type Manager struct {
	content Content

	first int
	count int
	pos   Position

	scrollingNeeded bool
	userScrolling   bool

	log     *logging.Logger
	metrics *telemetry.Metrics
}

// NewManager returns a manager over content with user scrolling enabled.
func NewManager(content Content) *Manager {
	return &Manager{
		content:       content,
		userScrolling: true,
		log:           logging.Nop(),
	}
}

// Instrument sets where scroll steps are logged and counted.
func (m *Manager) Instrument(log *logging.Logger, metrics *telemetry.Metrics) {
	m.log = logging.OrNop(log).WithCategory(logging.CategoryScroll)
	m.metrics = metrics
}

// SetVisibleState records the window computed by a layout pass.
func (m *Manager) SetVisibleState(first, count int) {
	m.first, m.count = first, count

	n := m.content.Len()
	if n == 0 || count <= 0 {
		m.scrollingNeeded = n > 0 && first > 0
		return
	}
	last := m.LastVisibleIndex()
	m.scrollingNeeded = first > 0 ||
		count < n ||
		m.content.At(last).HasMore(component.Down) ||
		m.content.At(first).HasMore(component.Up)
}

// SetPosition records the scrollbar state computed by a layout pass.
func (m *Manager) SetPosition(thumbOffset, totalHeight int) {
	m.pos = Position{ThumbOffset: thumbOffset, TotalHeight: totalHeight}
}

// Position returns the last recorded scrollbar state.
func (m *Manager) Position() Position { return m.pos }

func (m *Manager) FirstVisibleIndex() int { return m.first }

func (m *Manager) VisibleCount() int { return m.count }

// LastVisibleIndex returns the index of the last component in the window.
func (m *Manager) LastVisibleIndex() int { return m.first + m.count - 1 }

// IsScrollingNeeded reports whether any content lies outside the window.
func (m *Manager) IsScrollingNeeded() bool { return m.scrollingNeeded }

// ResetToTop moves the window back to the first component.
func (m *Manager) ResetToTop() { m.first = 0 }

// SetFirstVisible moves the window start. The next layout pass clamps it.
func (m *Manager) SetFirstVisible(i int) { m.first = i }

func (m *Manager) SetUserScrolling(enabled bool) { m.userScrolling = enabled }

func (m *Manager) UserScrolling() bool { return m.userScrolling }

// CanScroll reports whether Scroll(dir) would reveal anything.
func (m *Manager) CanScroll(dir component.Direction) bool {
	if !m.scrollingNeeded {
		return false
	}
	if m.windowCanMove(dir) {
		return true
	}
	return m.edgeCanScroll(dir)
}

func (m *Manager) windowCanMove(dir component.Direction) bool {
	if dir == component.Up {
		return m.first > 0
	}
	return m.first+m.count < m.content.Len()
}

// edgeCanScroll asks the component at the window edge. The last component
// may only scroll down until its final segment is on screen.
func (m *Manager) edgeCanScroll(dir component.Direction) bool {
	idx := m.first
	if dir == component.Down {
		idx = m.LastVisibleIndex()
	}
	if idx < 0 || idx >= m.content.Len() {
		return false
	}
	c := m.content.At(idx)
	if dir == component.Down && idx == m.content.Len()-1 {
		return c.HasMore(component.Down)
	}
	return c.CanScroll(dir)
}

// Scroll moves one step in dir: into the top component when it can scroll,
// otherwise by shifting the window. It does nothing when CanScroll(dir) is
// false.
//
// Both directions act on the top component: only the top component may
// have hidden leading segments.
func (m *Manager) Scroll(dir component.Direction) {
	n := m.content.Len()
	if n == 0 || m.first < 0 || m.first >= n {
		return
	}
	if !m.CanScroll(dir) {
		m.metrics.ObserveScroll(dir.String(), telemetry.StepIgnored)
		return
	}

	kind := telemetry.StepWindow
	top := m.content.At(m.first)
	switch {
	case top.CanScroll(dir):
		top.Scroll(dir)
		kind = telemetry.StepSegment
	case dir == component.Down && m.first+1 >= n:
		// A lone component showing a single segment cannot scroll within
		// itself yet still has content below.
		top.Scroll(dir)
		kind = telemetry.StepSegment
	default:
		m.first += dir.Delta()
	}

	m.log.Scrolled(dir.String(), kind == telemetry.StepSegment, m.first)
	m.metrics.ObserveScroll(dir.String(), kind)
}

// HandleKey scrolls for the up and down keys and reports whether it did.
func (m *Manager) HandleKey(key terminal.Key) bool {
	if !m.userScrolling {
		return false
	}
	dir, ok := DirectionOf(key)
	if !ok || !m.CanScroll(dir) {
		return false
	}
	m.Scroll(dir)
	return true
}

// DirectionOf maps the up and down keys to a direction.
func DirectionOf(key terminal.Key) (component.Direction, bool) {
	switch key {
	case terminal.KeyUp:
		return component.Up, true
	case terminal.KeyDown:
		return component.Down, true
	}
	return component.Down, false
}
