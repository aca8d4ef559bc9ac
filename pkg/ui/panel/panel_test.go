package panel

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/odvcencio/slate/pkg/i18n"
	"github.com/odvcencio/slate/pkg/telemetry"
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/font"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/terminal"
	"github.com/odvcencio/slate/pkg/ui/theme"
	"github.com/odvcencio/slate/pkg/ui/widgets"
)

// flat has no margins or padding so heights add up exactly.
var flat = &theme.Style{
	LineHeight:      1,
	AnimationDelay:  10 * time.Millisecond,
	AnimationPeriod: 10 * time.Millisecond,
}

// box is a fixed-size block that can optionally take focus.
type box struct {
	component.Block
	focusable bool
	consume   bool
	keys      []runtime.KeyMsg
}

func newBox(height int, focusable bool) *box {
	b := &box{focusable: focusable}
	b.Block = component.NewBlock(component.NewBase(flat), func(*component.Context, int) runtime.Size {
		return runtime.Size{Width: 10, Height: height}
	})
	return b
}

func (b *box) Render(runtime.RenderContext) {}
func (b *box) AcceptsInput() bool           { return b.focusable }

func (b *box) HandleKey(msg runtime.KeyMsg) bool {
	b.keys = append(b.keys, msg)
	return b.consume
}

func lines(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(out, "\n")
}

func tallContext() *component.Context {
	ctx := component.DefaultContext()
	ctx.Font = font.Fixed{CellWidth: 1, LineHeight: 10}
	return ctx
}

func positions(p *ContentPanel) []component.ScreenPosition {
	out := make([]component.ScreenPosition, p.Len())
	for i := range out {
		out[i] = p.At(i).ScreenPosition()
	}
	return out
}

func key(k terminal.Key) runtime.KeyMsg { return runtime.KeyMsg{Key: k} }

func TestContentPanel_ImageTextImage(t *testing.T) {
	ctx := tallContext()
	text := widgets.NewTextArea(lines(20), flat)
	p := NewContentPanel(
		widgets.NewImage(80, 40, "top", flat),
		text,
		widgets.NewImage(80, 40, "bottom", flat),
	)

	p.PrepareLayout(ctx, 80, 100)

	assert.Equal(t, []component.ScreenPosition{component.First, component.Last, component.NotShown}, positions(p))
	start, end := text.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 6, end)
	assert.Equal(t, 60, text.VisibleHeight())

	pos, ok := p.ScrollPosition()
	require.True(t, ok)
	assert.Equal(t, 280, pos.TotalHeight)
	assert.Equal(t, 0, pos.ThumbOffset)
}

func TestContentPanel_ScrollsIntoTopComponent(t *testing.T) {
	ctx := tallContext()
	text := widgets.NewTextArea(lines(20), flat)
	p := NewContentPanel(
		widgets.NewImage(80, 40, "top", flat),
		text,
		widgets.NewImage(80, 40, "bottom", flat),
	)
	p.PrepareLayout(ctx, 80, 100)

	require.True(t, p.CanScroll(component.Down))
	p.Scroll(component.Down)
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())
	assert.Equal(t, component.Last, text.ScreenPosition())
	assert.Equal(t, 40, p.Manager().Position().ThumbOffset)

	p.Scroll(component.Down)
	start, end := text.VisibleRange()
	assert.Equal(t, 1, start)
	assert.Equal(t, 11, end)
	assert.Equal(t, 50, p.Manager().Position().ThumbOffset)
}

func TestContentPanel_SingleTallComponentStopsAtBottom(t *testing.T) {
	ctx := tallContext()
	text := widgets.NewTextArea(lines(20), flat)
	p := NewContentPanel(text)
	p.PrepareLayout(ctx, 80, 100)

	steps := 0
	for p.CanScroll(component.Down) {
		p.Scroll(component.Down)
		steps++
		require.Less(t, steps, 50)
	}

	assert.Equal(t, 10, steps)
	start, end := text.VisibleRange()
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)
	assert.False(t, text.HasMore(component.Down))
	assert.Equal(t, 100, p.Manager().Position().ThumbOffset)
}

func TestContentPanel_OneLineViewportAdvances(t *testing.T) {
	ctx := tallContext()
	text := widgets.NewTextArea(lines(3), flat)
	p := NewContentPanel(text)
	p.PrepareLayout(ctx, 80, 10)

	steps := 0
	for p.CanScroll(component.Down) {
		p.Scroll(component.Down)
		steps++
		require.Less(t, steps, 10)
	}

	assert.Equal(t, 2, steps)
	start, end := text.VisibleRange()
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)
}

func TestContentPanel_ScrollUpReturnsToTop(t *testing.T) {
	ctx := tallContext()
	text := widgets.NewTextArea(lines(20), flat)
	p := NewContentPanel(widgets.NewImage(80, 40, "top", flat), text)
	p.PrepareLayout(ctx, 80, 100)

	for p.CanScroll(component.Down) {
		p.Scroll(component.Down)
	}
	steps := 0
	for p.CanScroll(component.Up) {
		p.Scroll(component.Up)
		steps++
		require.Less(t, steps, 50)
	}

	assert.Equal(t, 0, p.Manager().FirstVisibleIndex())
	start, _ := text.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, component.First, p.At(0).ScreenPosition())
}

func TestContentPanel_EverythingFits(t *testing.T) {
	p := NewContentPanel(newBox(3, false), newBox(3, false))
	p.PrepareLayout(component.DefaultContext(), 20, 10)

	_, ok := p.ScrollPosition()
	assert.False(t, ok)
	assert.False(t, p.CanScroll(component.Down))
	assert.Equal(t, []component.ScreenPosition{component.First, component.Last}, positions(p))
}

func TestContentPanel_ScrollIgnoredWhenEverythingFits(t *testing.T) {
	p := NewContentPanel(newBox(20, false), newBox(20, false))
	p.PrepareLayout(component.DefaultContext(), 20, 100)
	require.False(t, p.Manager().IsScrollingNeeded())

	p.Scroll(component.Down)
	assert.Equal(t, 0, p.Manager().FirstVisibleIndex())
	assert.Equal(t, []component.ScreenPosition{component.First, component.Last}, positions(p))

	p.Scroll(component.Up)
	assert.Equal(t, 0, p.Manager().FirstVisibleIndex())
}

func TestContentPanel_SingleVisibleComponentIsLast(t *testing.T) {
	p := NewContentPanel(newBox(3, false))
	p.PrepareLayout(component.DefaultContext(), 20, 10)
	assert.Equal(t, []component.ScreenPosition{component.Last}, positions(p))

	p = NewContentPanel(newBox(8, false), newBox(8, false))
	p.PrepareLayout(component.DefaultContext(), 20, 10)
	assert.Equal(t, []component.ScreenPosition{component.Last, component.NotShown}, positions(p))
}

func TestContentPanel_TextBelowBlockScrollsFromTheTop(t *testing.T) {
	ctx := tallContext()
	text := widgets.NewTextArea(lines(20), flat)
	p := NewContentPanel(widgets.NewImage(80, 10, "top", flat), text)
	p.PrepareLayout(ctx, 80, 100)

	start, end := text.VisibleRange()
	require.Equal(t, 0, start)
	require.Equal(t, 9, end)
	require.True(t, p.CanScroll(component.Down))

	// The block cannot scroll, so the window advances and the text becomes
	// the top component with its first line still shown.
	p.Scroll(component.Down)
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())
	assert.Equal(t, []component.ScreenPosition{component.NotShown, component.Last}, positions(p))
	start, end = text.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
	assert.Equal(t, 10, p.Manager().Position().ThumbOffset)

	p.Scroll(component.Down)
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())
	start, end = text.VisibleRange()
	assert.Equal(t, 1, start)
	assert.Equal(t, 11, end)
	assert.Equal(t, 20, p.Manager().Position().ThumbOffset)
}

func TestContentPanel_WindowIsContiguous(t *testing.T) {
	heights := []int{4, 9, 2, 7, 7, 1, 12, 3, 5, 8}
	for _, viewport := range []int{1, 5, 10, 13, 20, 100} {
		t.Run(fmt.Sprintf("viewport=%d", viewport), func(t *testing.T) {
			p := NewContentPanel()
			for _, h := range heights {
				p.Add(newBox(h, false))
			}
			ctx := component.DefaultContext()
			p.PrepareLayout(ctx, 20, viewport)

			for {
				pos := positions(p)
				first := p.Manager().FirstVisibleIndex()
				last := p.Manager().LastVisibleIndex()
				require.GreaterOrEqual(t, last, first, "first component is always shown")
				for i, sp := range pos {
					assert.Equal(t, i >= first && i <= last, sp.Visible(), "component %d", i)
				}
				assert.Equal(t, component.Last, pos[last])
				if last > first {
					assert.Equal(t, component.First, pos[first])
				}

				top, height := p.Manager().Position().Thumb(viewport, 1)
				assert.GreaterOrEqual(t, top, 0)
				assert.LessOrEqual(t, top+height, viewport)

				if !p.CanScroll(component.Down) {
					break
				}
				p.Scroll(component.Down)
			}
			assert.Equal(t, len(heights)-1, p.Manager().LastVisibleIndex())
		})
	}
}

func TestContentPanel_SubstitutesOversizedComponent(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := NewMockMessages(ctrl)
	messages.EXPECT().Get(i18n.KeyComponentDoesNotFit, 1, 200, 40).Return("does not fit")

	metrics := telemetry.NewMetrics(nil)
	ctx := tallContext()
	ctx.Messages = messages
	ctx.Metrics = metrics

	p := NewContentPanel(widgets.NewImage(200, 40, "wide", flat), newBox(10, false))
	p.PrepareLayout(ctx, 80, 100)

	placeholder, ok := p.At(0).(*widgets.TextArea)
	require.True(t, ok)
	assert.Equal(t, "does not fit", placeholder.Text())
	assert.Equal(t, ctx.Theme.Error, placeholder.Style().Text)
	assert.Equal(t, component.First, placeholder.ScreenPosition())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Substitutions))

	// The replacement is permanent.
	p.PrepareLayout(ctx, 80, 100)
	assert.Same(t, placeholder, p.At(0))
}

func TestContentPanel_VisibleComponents(t *testing.T) {
	boxes := []*box{newBox(5, false), newBox(5, false), newBox(5, false)}
	p := NewContentPanel(boxes[0], boxes[1], boxes[2])
	p.PrepareLayout(component.DefaultContext(), 20, 10)

	var got []component.Component
	for c := range p.VisibleComponents() {
		got = append(got, c)
	}
	assert.Equal(t, []component.Component{boxes[0], boxes[1]}, got)

	p.Scroll(component.Down)
	got = got[:0]
	for c := range p.VisibleComponents() {
		got = append(got, c)
	}
	assert.Equal(t, []component.Component{boxes[1], boxes[2]}, got)
}

func TestContentPanel_HandleKey(t *testing.T) {
	p := NewContentPanel(newBox(5, false), newBox(5, false), newBox(5, false))
	p.PrepareLayout(component.DefaultContext(), 20, 10)

	assert.False(t, p.HandleKey(key(terminal.KeyUp)))
	assert.True(t, p.HandleKey(key(terminal.KeyDown)))
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())

	p.SetUserScrolling(false)
	assert.False(t, p.HandleKey(key(terminal.KeyUp)))
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())
}

func TestContentPanel_ResetToTop(t *testing.T) {
	ctx := tallContext()
	text := widgets.NewTextArea(lines(20), flat)
	p := NewContentPanel(text)
	p.PrepareLayout(ctx, 80, 100)
	p.Scroll(component.Down)
	p.Scroll(component.Down)

	p.ResetToTop()
	p.PrepareLayout(ctx, 80, 100)
	start, end := text.VisibleRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}

func TestContentPanel_Empty(t *testing.T) {
	p := NewContentPanel()
	p.PrepareLayout(component.DefaultContext(), 20, 10)

	_, ok := p.ScrollPosition()
	assert.False(t, ok)
	for range p.VisibleComponents() {
		t.Fatal("no components expected")
	}
}

func TestSelectionPanel_SelectsFirstFocusable(t *testing.T) {
	p := NewSelectionPanel(newBox(3, false), newBox(3, true), newBox(3, true))
	assert.Nil(t, p.Selected())

	p.PrepareLayout(component.DefaultContext(), 20, 20)
	assert.Equal(t, 1, p.SelectedIndex())
	assert.True(t, p.IsSelected(p.At(1)))
	assert.False(t, p.IsSelected(p.At(0)))
}

func TestSelectionPanel_MovesThenScrolls(t *testing.T) {
	p := NewSelectionPanel(newBox(10, true), newBox(10, true), newBox(10, true), newBox(10, true))
	p.PrepareLayout(component.DefaultContext(), 20, 20)
	require.Equal(t, 0, p.SelectedIndex())

	assert.True(t, p.HandleKey(key(terminal.KeyDown)))
	assert.Equal(t, 1, p.SelectedIndex())
	assert.Equal(t, 0, p.Manager().FirstVisibleIndex())

	assert.True(t, p.HandleKey(key(terminal.KeyDown)))
	assert.Equal(t, 2, p.SelectedIndex())
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())

	assert.True(t, p.HandleKey(key(terminal.KeyUp)))
	assert.Equal(t, 1, p.SelectedIndex())
	assert.True(t, p.HandleKey(key(terminal.KeyUp)))
	assert.Equal(t, 0, p.SelectedIndex())
	assert.Equal(t, 0, p.Manager().FirstVisibleIndex())

	assert.False(t, p.HandleKey(key(terminal.KeyUp)))
	assert.Equal(t, 0, p.SelectedIndex())
}

func TestSelectionPanel_SkipsComponentsWithoutInput(t *testing.T) {
	p := NewSelectionPanel(newBox(3, true), newBox(3, false), newBox(3, true))
	p.PrepareLayout(component.DefaultContext(), 20, 20)
	require.Equal(t, 0, p.SelectedIndex())

	assert.True(t, p.HandleKey(key(terminal.KeyDown)))
	assert.Equal(t, 2, p.SelectedIndex())

	assert.False(t, p.HandleKey(key(terminal.KeyDown)))
	assert.Equal(t, 2, p.SelectedIndex())

	assert.True(t, p.HandleKey(key(terminal.KeyUp)))
	assert.Equal(t, 0, p.SelectedIndex())
}

func TestSelectionPanel_ScrollsWhenNoFocusableAhead(t *testing.T) {
	p := NewSelectionPanel(newBox(10, true), newBox(10, false), newBox(10, false))
	p.PrepareLayout(component.DefaultContext(), 20, 20)
	require.Equal(t, 0, p.SelectedIndex())

	assert.True(t, p.HandleKey(key(terminal.KeyDown)))
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())
	assert.Equal(t, 2, p.SelectedIndex())
}

func TestSelectionPanel_SelectedComponentGetsKeysFirst(t *testing.T) {
	b := newBox(3, true)
	b.consume = true
	p := NewSelectionPanel(b, newBox(3, true))
	p.PrepareLayout(component.DefaultContext(), 20, 20)

	assert.True(t, p.HandleKey(key(terminal.KeyDown)))
	assert.Equal(t, 0, p.SelectedIndex())
	require.Len(t, b.keys, 1)
	assert.Equal(t, terminal.KeyDown, b.keys[0].Key)
}

func TestSelectionPanel_IgnoresOtherKeys(t *testing.T) {
	p := NewSelectionPanel(newBox(3, true))
	p.PrepareLayout(component.DefaultContext(), 20, 20)
	assert.False(t, p.HandleKey(key(terminal.KeyEnter)))
}

// play ticks p every 10ms until replay is enabled.
func play(t *testing.T, p *AnimatedPanel, now time.Time) time.Time {
	t.Helper()
	for i := 0; !p.ReplayEnabled(); i++ {
		require.Less(t, i, 200, "animation did not finish")
		now = now.Add(10 * time.Millisecond)
		if p.Tick(now) {
			p.Flush()
		}
	}
	return now
}

func TestAnimatedPanel_PlaysFramesInPlace(t *testing.T) {
	metrics := telemetry.NewMetrics(nil)
	ctx := component.DefaultContext()
	ctx.Metrics = metrics

	h := widgets.NewHighlightTextArea("one two three", flat)
	p := NewAnimatedPanel(h)
	p.PrepareLayout(ctx, 80, 10)
	require.True(t, p.Running())

	now := time.Unix(0, 0)
	assert.False(t, p.Tick(now))

	now = now.Add(10 * time.Millisecond)
	require.True(t, p.Tick(now))
	p.Flush()
	tok, ok := h.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "one", tok.Source)

	var replays []bool
	p.OnReplay(func(enabled bool) { replays = append(replays, enabled) })
	play(t, p, now)

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.AnimationFrames))
	_, ok = h.Highlighted()
	assert.False(t, ok, "highlight resets when the frames run out")
	assert.Equal(t, []bool{true}, replays)
}

func TestAnimatedPanel_ScrollsToHiddenComponent(t *testing.T) {
	h := widgets.NewHighlightTextArea("aa bb", flat)
	p := NewAnimatedPanel(newBox(10, false), newBox(10, false), h)
	p.PrepareLayout(component.DefaultContext(), 80, 20)
	require.Equal(t, component.NotShown, h.ScreenPosition())

	play(t, p, time.Unix(0, 0))

	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())
	assert.Equal(t, component.Last, h.ScreenPosition())
}

func TestAnimatedPanel_UserCannotScroll(t *testing.T) {
	p := NewAnimatedPanel(newBox(10, false), newBox(10, false))
	p.PrepareLayout(component.DefaultContext(), 80, 10)
	assert.False(t, p.HandleKey(key(terminal.KeyDown)))
}

func TestAnimatedPanel_Restart(t *testing.T) {
	h := widgets.NewHighlightTextArea("aa bb", flat)
	p := NewAnimatedPanel(newBox(10, false), newBox(10, false), h)
	p.PrepareLayout(component.DefaultContext(), 80, 20)
	play(t, p, time.Unix(0, 0))

	p.Restart()

	assert.False(t, p.ReplayEnabled())
	assert.True(t, p.Running())
	assert.Equal(t, 0, p.Manager().FirstVisibleIndex())
	assert.Equal(t, component.NotShown, h.ScreenPosition())
	play(t, p, time.Unix(10, 0))
	assert.Equal(t, 1, p.Manager().FirstVisibleIndex())
}

func TestAnimatedPanel_HideCancels(t *testing.T) {
	p := NewAnimatedPanel(widgets.NewHighlightTextArea("aa bb", flat))
	p.PrepareLayout(component.DefaultContext(), 80, 10)

	p.Hide()
	assert.False(t, p.Running())
	assert.False(t, p.Tick(time.Unix(100, 0)))
}

func TestAnimatedPanel_Speed(t *testing.T) {
	p := NewAnimatedPanel(widgets.NewHighlightTextArea("aa bb", flat))
	p.SetSpeed(20)
	p.PrepareLayout(component.DefaultContext(), 80, 10)

	require.NotEmpty(t, p.tracks)
	assert.Equal(t, TrackFrames, p.tracks[0].kind)
	assert.Equal(t, 20*time.Millisecond, p.tracks[0].delay)
	assert.Equal(t, 20*time.Millisecond, p.tracks[0].period)

	p.SetSpeed(0)
	assert.Equal(t, float64(1), p.speed)
}

func TestAnimatedPanel_StaleEventsAreDropped(t *testing.T) {
	h := widgets.NewHighlightTextArea("aa bb", flat)
	p := NewAnimatedPanel(h)
	p.PrepareLayout(component.DefaultContext(), 80, 10)

	p.pending = append(p.pending, AdvanceEvent{ComponentID: "other", Kind: TrackFrames})
	p.Flush()
	_, ok := h.Highlighted()
	assert.False(t, ok)
}
