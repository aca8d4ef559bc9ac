// Package tcell implements backend.Backend on a tcell screen.
package tcell

import (
	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/slate/pkg/cache"
	"github.com/odvcencio/slate/pkg/ui/backend"
	"github.com/odvcencio/slate/pkg/ui/terminal"
)

// styleCacheSize bounds the memoized style conversions. A theme uses a few
// dozen distinct styles at most.
const styleCacheSize = 128

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen
	styles *cache.LRU[backend.Style, tcell.Style]
}

// New creates a backend on the process terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an existing tcell screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{
		screen: screen,
		styles: cache.NewLRU[backend.Style, tcell.Style](styleCacheSize),
	}
}

// Init initializes the screen.
func (b *Backend) Init() error {
	return b.screen.Init()
}

// Fini restores the terminal.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, b.styles.GetOrCompute(style, convertStyle))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// PollEvent blocks until a key or resize event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if out := convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent injects an event into the queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	if tev := reverseConvertEvent(ev); tev != nil {
		return b.screen.PostEvent(tev)
	}
	return nil
}

// Beep emits an audible bell.
func (b *Backend) Beep() {
	_ = b.screen.Beep()
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// StyleCacheStats reports style conversion cache hits and misses.
func (b *Backend) StyleCacheStats() (hits, misses uint64) {
	return b.styles.Stats()
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	return tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg)).
		Bold(attrs&backend.AttrBold != 0).
		Italic(attrs&backend.AttrItalic != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Dim(attrs&backend.AttrDim != 0).
		Blink(attrs&backend.AttrBlink != 0).
		Reverse(attrs&backend.AttrReverse != 0).
		StrikeThrough(attrs&backend.AttrStrikeThrough != 0)
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return terminal.KeyEvent{
			Key:   convertKey(e.Key()),
			Rune:  e.Rune(),
			Alt:   e.Modifiers()&tcell.ModAlt != 0,
			Ctrl:  e.Modifiers()&tcell.ModCtrl != 0,
			Shift: e.Modifiers()&tcell.ModShift != 0,
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	default:
		return nil
	}
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlR:      terminal.KeyCtrlR,
}

var reverseKeyMap = func() map[terminal.Key]tcell.Key {
	m := make(map[terminal.Key]tcell.Key, len(keyMap))
	for tk, k := range keyMap {
		if tk == tcell.KeyBackspace2 {
			continue
		}
		m[k] = tk
	}
	return m
}()

func convertKey(k tcell.Key) terminal.Key {
	if out, ok := keyMap[k]; ok {
		return out
	}
	return terminal.KeyNone
}

func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	case terminal.KeyEvent:
		tk, ok := reverseKeyMap[e.Key]
		if !ok {
			return nil
		}
		var mods tcell.ModMask
		if e.Alt {
			mods |= tcell.ModAlt
		}
		if e.Ctrl {
			mods |= tcell.ModCtrl
		}
		if e.Shift {
			mods |= tcell.ModShift
		}
		return tcell.NewEventKey(tk, e.Rune, mods)
	default:
		return nil
	}
}

var _ backend.Backend = (*Backend)(nil)
