package panel

import (
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/scroll"
)

// SelectionPanel is a ContentPanel where one visible component is selected.
// Up and down move the selection inside the window before scrolling it.
type SelectionPanel struct {
	*ContentPanel
	selected int
}

// NewSelectionPanel returns a panel with nothing selected.
func NewSelectionPanel(components ...component.Component) *SelectionPanel {
	return &SelectionPanel{
		ContentPanel: NewContentPanel(components...),
		selected:     -1,
	}
}

// SelectedIndex returns the selected component's index, or -1.
func (p *SelectionPanel) SelectedIndex() int { return p.selected }

// Selected returns the selected component, or nil.
func (p *SelectionPanel) Selected() component.Component {
	if p.selected < 0 || p.selected >= len(p.components) {
		return nil
	}
	return p.components[p.selected]
}

func (p *SelectionPanel) IsSelected(c component.Component) bool {
	sel := p.Selected()
	return sel != nil && sel == c
}

// PrepareLayout runs the layout pass and keeps the selection inside the
// window, preferring the first visible component that accepts input.
func (p *SelectionPanel) PrepareLayout(ctx *component.Context, width, height int) {
	p.ContentPanel.PrepareLayout(ctx, width, height)

	first := p.scroll.FirstVisibleIndex()
	if p.selected >= first {
		return
	}
	for i, c := range p.Visible() {
		if component.AcceptsInput(c) {
			p.selected = i
			return
		}
	}
	p.selected = first
}

// HandleKey offers the key to the selected component, then moves the
// selection, then scrolls.
func (p *SelectionPanel) HandleKey(msg runtime.KeyMsg) bool {
	if f, ok := p.Selected().(component.Focusable); ok && f.AcceptsInput() && f.HandleKey(msg) {
		return true
	}

	dir, ok := scroll.DirectionOf(msg.Key)
	if !ok {
		return false
	}

	first := p.scroll.FirstVisibleIndex()
	last := p.scroll.LastVisibleIndex()
	if i, ok := p.nextFocusable(dir, first, last); ok {
		p.selected = i
		return true
	}

	edge := first
	if dir == component.Down {
		edge = last
	}
	if edge >= 0 && edge < len(p.components) && !p.components[edge].HasMore(dir) {
		edge += dir.Delta()
	}
	if !p.ContentPanel.HandleKey(msg) {
		return false
	}
	p.selected = min(max(edge, 0), len(p.components)-1)
	return true
}

// nextFocusable walks from the selection toward the window edge in dir and
// returns the first component that accepts input.
func (p *SelectionPanel) nextFocusable(dir component.Direction, first, last int) (int, bool) {
	i := p.selected + dir.Delta()
	if dir == component.Down {
		i = max(i, first)
	} else {
		i = min(i, last)
	}
	for ; i >= first && i <= last && i < len(p.components); i += dir.Delta() {
		if component.AcceptsInput(p.components[i]) {
			return i, true
		}
	}
	return 0, false
}
