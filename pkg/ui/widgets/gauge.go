package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/slate/pkg/i18n"
	"github.com/odvcencio/slate/pkg/ui/backend"
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/terminal"
	"github.com/odvcencio/slate/pkg/ui/text"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// Step is a horizontal value change.
type Step int

const (
	Back    Step = -1
	Forward Step = 1
)

// GaugeStyle defines the visual appearance of a gauge bar.
type GaugeStyle struct {
	FillChar  rune // default '█'
	EmptyChar rune // default '░'

	// Thresholds in ascending order; each starts a new fill style.
	Thresholds []GaugeThreshold
	EmptyStyle backend.Style
}

// GaugeThreshold defines a color breakpoint in the fill.
type GaugeThreshold struct {
	Ratio float64
	Style backend.Style
}

// Gauge selects an integer in [lower, upper] in count steps. It takes
// focus and changes with the left and right keys.
type Gauge struct {
	component.Block

	title        string
	lower, upper int
	count        int
	value        int
	observers    []func(int)

	titleLines []string
	lineHeight int
	messages   i18n.Messages
	bar        *GaugeStyle
	prefKey    string
}

// NewGauge returns a gauge starting at lower.
func NewGauge(title string, lower, upper, count int, style *theme.Style) *Gauge {
	if upper < lower {
		lower, upper = upper, lower
	}
	g := &Gauge{title: title, lower: lower, upper: upper, count: max(count, 1), value: lower}
	g.Block = component.NewBlock(component.NewBase(style), g.measure)
	return g
}

// SetBarStyle overrides the bar appearance.
func (g *Gauge) SetBarStyle(s GaugeStyle) { g.bar = &s }

func (g *Gauge) measure(ctx *component.Context, width int) runtime.Size {
	g.messages = ctx.Messages
	g.lineHeight = ctx.Font.Height()
	wrapped := text.Wrap(ctx.Font, g.title+":", width)
	g.titleLines = wrapped.Strings()
	return runtime.Size{
		Width:  wrapped.MaxWidth(),
		Height: (len(g.titleLines) + 1) * g.lineHeight,
	}
}

// BindPreference ties the gauge to a stored preference. A screen hosting
// the gauge asks for the value to be persisted after each change.
func (g *Gauge) BindPreference(key string) { g.prefKey = key }

// Preference returns the bound preference key and the current value.
func (g *Gauge) Preference() (key string, value int, ok bool) {
	return g.prefKey, g.value, g.prefKey != ""
}

// Value returns the current value.
func (g *Gauge) Value() int { return g.value }

// SetValue sets the value, clamped to the bounds. Observers are not notified.
func (g *Gauge) SetValue(v int) {
	g.value = min(max(v, g.lower), g.upper)
}

// Observe registers fn to run after every successful change.
func (g *Gauge) Observe(fn func(value int)) {
	g.observers = append(g.observers, fn)
}

func (g *Gauge) step() int {
	return max((g.upper-g.lower)/g.count, 1)
}

// CanChange reports whether the value can move in dir.
func (g *Gauge) CanChange(dir Step) bool {
	if dir == Back {
		return g.value > g.lower
	}
	return g.value < g.upper
}

// ChangeValue moves the value one step, clamped to the bounds, and reports
// whether it could move.
func (g *Gauge) ChangeValue(dir Step) bool {
	ok := g.CanChange(dir)
	g.SetValue(g.value + g.step()*int(dir))
	if ok {
		for _, fn := range g.observers {
			fn(g.value)
		}
	}
	return ok
}

func (g *Gauge) AcceptsInput() bool { return true }

func (g *Gauge) HandleKey(msg runtime.KeyMsg) bool {
	switch msg.Key {
	case terminal.KeyLeft:
		return g.ChangeValue(Back)
	case terminal.KeyRight:
		return g.ChangeValue(Forward)
	}
	return false
}

// Ratio returns the fill fraction.
func (g *Gauge) Ratio() float64 {
	if g.upper == g.lower {
		return 0
	}
	return float64(g.value-g.lower) / float64(g.upper-g.lower)
}

func (g *Gauge) Render(rc runtime.RenderContext) {
	if rc.Buffer == nil || g.lineHeight == 0 {
		return
	}
	st := rc.Theme.Resolve(g.Style())
	x0 := rc.Bounds.X
	y := rc.Bounds.Y
	for _, line := range g.titleLines {
		rc.Buffer.SetString(x0, y, runewidth.Truncate(line, rc.Bounds.Width, ""), st.Text)
		y += g.lineHeight
	}

	w := rc.Bounds.Width
	if rc.Focused {
		if g.CanChange(Back) {
			rc.Buffer.Set(x0, y, '◀', st.Text)
		}
		if g.CanChange(Forward) {
			rc.Buffer.Set(x0+w-1, y, '▶', st.Text)
		}
	}

	label := ""
	if g.messages != nil {
		label = g.messages.Get(i18n.KeyGaugeValue, g.value, g.upper)
	}
	labelW := runewidth.StringWidth(label)
	barW := w - 4 - labelW - 1
	if barW < 1 {
		barW = w - 4
		labelW = -1
	}
	bar := g.bar
	if bar == nil {
		bar = &GaugeStyle{
			Thresholds: []GaugeThreshold{{Ratio: 0, Style: st.Highlight}},
			EmptyStyle: st.Text,
		}
	}
	DrawGauge(rc.Buffer, x0+2, y, barW, g.Ratio(), *bar)
	if labelW > 0 {
		rc.Buffer.SetString(x0+2+barW+1, y, label, st.Text)
	}
}

// DrawGauge renders a horizontal bar filled to ratio.
func DrawGauge(buf *runtime.Buffer, x, y, width int, ratio float64, style GaugeStyle) {
	if buf == nil || width <= 0 {
		return
	}
	ratio = min(max(ratio, 0), 1)
	fill := min(int(float64(width)*ratio+0.5), width)

	fillChar := style.FillChar
	if fillChar == 0 {
		fillChar = '█'
	}
	emptyChar := style.EmptyChar
	if emptyChar == 0 {
		emptyChar = '░'
	}

	for i := 0; i < width; i++ {
		if i < fill {
			buf.Set(x+i, y, fillChar, styleForRatio(float64(i)/float64(width), style.Thresholds))
		} else {
			buf.Set(x+i, y, emptyChar, style.EmptyStyle)
		}
	}
}

// styleForRatio returns the style of the highest threshold ratio meets.
func styleForRatio(ratio float64, thresholds []GaugeThreshold) backend.Style {
	if len(thresholds) == 0 {
		return backend.DefaultStyle()
	}
	result := thresholds[0].Style
	for _, t := range thresholds {
		if ratio >= t.Ratio {
			result = t.Style
		}
	}
	return result
}
