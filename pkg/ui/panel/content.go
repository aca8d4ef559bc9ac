// Package panel owns ordered component sequences and runs the layout pass
// that decides which of them are visible in a viewport.
package panel

import (
	"iter"
	"time"

	"github.com/odvcencio/slate/pkg/i18n"
	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/scroll"
	"github.com/odvcencio/slate/pkg/ui/theme"
	"github.com/odvcencio/slate/pkg/ui/widgets"
)

//go:generate mockgen -package=panel -destination=mock_messages_test.go github.com/odvcencio/slate/pkg/i18n Messages

// Panel is what a screen drives.
type Panel interface {
	PrepareLayout(ctx *component.Context, width, height int)
	Manager() *scroll.Manager
	VisibleComponents() iter.Seq[component.Component]
	ScrollPosition() (scroll.Position, bool)
	HandleKey(msg runtime.KeyMsg) bool
	IsSelected(c component.Component) bool
	Show()
	Hide()
	Invalidate()
}

// ContentPanel lays out components top to bottom and scrolls over them.
type ContentPanel struct {
	components []component.Component
	scroll     *scroll.Manager

	ctx           *component.Context
	width, height int
}

// NewContentPanel returns a panel holding components in display order.
func NewContentPanel(components ...component.Component) *ContentPanel {
	p := &ContentPanel{}
	p.scroll = scroll.NewManager(p)
	p.Add(components...)
	return p
}

// Add appends components.
func (p *ContentPanel) Add(components ...component.Component) {
	p.components = append(p.components, components...)
}

// Len returns the number of components.
func (p *ContentPanel) Len() int { return len(p.components) }

// At returns the component at i.
func (p *ContentPanel) At(i int) component.Component { return p.components[i] }

// Manager returns the scroll manager.
func (p *ContentPanel) Manager() *scroll.Manager { return p.scroll }

// PrepareLayout runs the layout pass for a width×height viewport. It marks
// every component's screen position, fixes the visible portion of the
// window's components and records the scrollbar state.
//
// A component that cannot be shown in the viewport at all is replaced, at
// the same index, by an error text area.
func (p *ContentPanel) PrepareLayout(ctx *component.Context, width, height int) {
	start := time.Now()
	ctx = ctx.WithDefaults()
	p.ctx, p.width, p.height = ctx, width, height
	log := ctx.Log.WithCategory(logging.CategoryLayout)

	n := len(p.components)
	first := min(max(p.scroll.FirstVisibleIndex(), 0), max(n-1, 0))
	avail := height
	visible, total, thumb := 0, 0, 0

	for i := 0; i < n; i++ {
		c := p.components[i]
		st := ctx.StyleOf(c)
		size := c.PreferredSize(ctx, width)
		outerH := component.Outer(st, size.Height)
		outerW := component.OuterWidth(st, size.Width)

		if (outerH > height || outerW > width) && !c.CanRenderInto(ctx, width, height) {
			c = p.substitute(ctx, log, i, outerW, outerH, width, height)
			st = ctx.StyleOf(c)
			outerH = component.Outer(st, c.PreferredSize(ctx, width).Height)
		}

		if i < first {
			thumb += outerH
		}

		if i >= first && avail > 0 {
			maxAvail := avail - st.Margin.Vertical() - 2*st.Padding
			fits := c.CanRenderInto(ctx, width, maxAvail)
			if fits || i == first {
				if d, ok := c.(component.Divisible); ok {
					d.SetViewport(height)
				}
				visibleHeight := c.CalculateVisibleHeight(ctx, width, maxAvail)
				if i == first {
					c.SetScreenPosition(component.First)
					thumb += c.HeightAboveVisibleStart()
				} else {
					c.SetScreenPosition(component.Middle)
				}
				avail -= component.Outer(st, visibleHeight)
				visible++
			} else {
				c.SetScreenPosition(component.NotShown)
			}
			if !fits {
				avail = 0
			}
		} else {
			c.SetScreenPosition(component.NotShown)
		}

		total += outerH
	}

	p.scroll.Instrument(ctx.Log, ctx.Metrics)
	p.scroll.SetVisibleState(first, visible)
	p.scroll.SetPosition(thumb, total)
	if visible > 0 {
		p.components[p.scroll.LastVisibleIndex()].SetScreenPosition(component.Last)
	}

	elapsed := time.Since(start)
	log.LayoutPass(n, visible, total, elapsed)
	ctx.Metrics.ObserveLayout(elapsed, visible, n, total)
}

func (p *ContentPanel) substitute(ctx *component.Context, log *logging.Logger, i, w, h, viewportWidth, viewportHeight int) component.Component {
	msg := ctx.Messages.Get(i18n.KeyComponentDoesNotFit, i+1, w, h)
	placeholder := widgets.NewTextArea(msg, &theme.Style{
		Text:       ctx.Theme.Error,
		LineHeight: 1,
	})
	p.components[i] = placeholder

	log.WithComponent(placeholder.ID(), i).ComponentSubstituted(i, w, h, viewportWidth, viewportHeight)
	ctx.Metrics.ObserveSubstitution(i, w, h)
	return placeholder
}

// VisibleComponents yields the components of the current window, top to
// bottom. Each call starts over.
func (p *ContentPanel) VisibleComponents() iter.Seq[component.Component] {
	return func(yield func(component.Component) bool) {
		for _, c := range p.Visible() {
			if !yield(c) {
				return
			}
		}
	}
}

// Visible yields the window's components with their indices.
func (p *ContentPanel) Visible() iter.Seq2[int, component.Component] {
	return func(yield func(int, component.Component) bool) {
		first := p.scroll.FirstVisibleIndex()
		last := min(p.scroll.LastVisibleIndex(), len(p.components)-1)
		for i := max(first, 0); i <= last; i++ {
			if !yield(i, p.components[i]) {
				return
			}
		}
	}
}

// ScrollPosition returns the scrollbar state, or false when everything fits.
func (p *ContentPanel) ScrollPosition() (scroll.Position, bool) {
	if !p.scroll.IsScrollingNeeded() {
		return scroll.Position{}, false
	}
	return p.scroll.Position(), true
}

// CanScroll reports whether the window can move in dir.
func (p *ContentPanel) CanScroll(dir component.Direction) bool {
	return p.scroll.CanScroll(dir)
}

// Scroll moves one step in dir and re-runs the layout pass.
func (p *ContentPanel) Scroll(dir component.Direction) {
	p.scroll.Scroll(dir)
	p.relayout()
}

func (p *ContentPanel) relayout() {
	if p.ctx != nil {
		p.PrepareLayout(p.ctx, p.width, p.height)
	}
}

// HandleKey scrolls for the up and down keys.
func (p *ContentPanel) HandleKey(msg runtime.KeyMsg) bool {
	if !p.scroll.HandleKey(msg.Key) {
		return false
	}
	p.relayout()
	return true
}

// SetUserScrolling enables or disables scrolling from keys.
func (p *ContentPanel) SetUserScrolling(enabled bool) {
	p.scroll.SetUserScrolling(enabled)
}

// ResetToTop moves the window to the first component and scrolls every
// divisible component back to its first segment.
func (p *ContentPanel) ResetToTop() {
	p.scroll.ResetToTop()
	for _, c := range p.components {
		if d, ok := c.(component.Divisible); ok {
			d.ResetRange()
		}
	}
}

// Invalidate drops every cached size, e.g. after a theme or font change.
func (p *ContentPanel) Invalidate() {
	for _, c := range p.components {
		c.Invalidate()
	}
}

func (p *ContentPanel) IsSelected(component.Component) bool { return false }

// Selected returns nil; plain panels have no selection.
func (p *ContentPanel) Selected() component.Component { return nil }

func (p *ContentPanel) Show() {}
func (p *ContentPanel) Hide() {}
