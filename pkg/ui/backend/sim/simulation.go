// Package sim provides an in-memory backend on tcell's simulation screen.
// It backs golden-frame tests and headless rendering.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/slate/pkg/ui/backend"
	"github.com/odvcencio/slate/pkg/ui/backend/tcell"
	"github.com/odvcencio/slate/pkg/ui/terminal"
)

// Backend is a capturable backend.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex
}

// New creates a simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("UTF-8")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen),
		screen:  screen,
	}
}

// Init initializes the screen and reapplies the requested size, which
// tcell resets during Init.
func (s *Backend) Init() error {
	s.mu.Lock()
	w, h := s.screen.Size()
	s.mu.Unlock()
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	if w > 0 && h > 0 {
		s.screen.SetSize(w, h)
	}
	s.mu.Unlock()
	return nil
}

// InjectKey queues a key press.
func (s *Backend) InjectKey(key terminal.Key, r rune) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key, Rune: r})
}

// InjectResize resizes the screen and queues the matching event.
func (s *Backend) InjectResize(width, height int) {
	s.mu.Lock()
	s.screen.SetSize(width, height)
	s.mu.Unlock()
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture returns the screen content, one line per row, trailing spaces kept.
func (s *Backend) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	lines := make([]string, 0, h)
	for y := 0; y < h; y++ {
		var line strings.Builder
		for x := 0; x < w; x++ {
			mainc, comb, _, width := s.screen.GetContent(x, y)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
			for _, c := range comb {
				line.WriteRune(c)
			}
			if width > 1 {
				x += width - 1
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// CaptureCell returns the content and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (rune, backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, ts, _ := s.screen.GetContent(x, y)
	return m, convertTcellStyle(ts)
}

// ContainsText reports whether text appears on any row.
func (s *Backend) ContainsText(text string) bool {
	for _, line := range strings.Split(s.Capture(), "\n") {
		if strings.Contains(line, text) {
			return true
		}
	}
	return false
}

func convertTcellStyle(ts tcellv2.Style) backend.Style {
	fg, bg, attrs := ts.Decompose()
	return backend.DefaultStyle().
		Foreground(convertTcellColor(fg)).
		Background(convertTcellColor(bg)).
		Bold(attrs&tcellv2.AttrBold != 0).
		Italic(attrs&tcellv2.AttrItalic != 0).
		Underline(attrs&tcellv2.AttrUnderline != 0).
		Dim(attrs&tcellv2.AttrDim != 0).
		Blink(attrs&tcellv2.AttrBlink != 0).
		Reverse(attrs&tcellv2.AttrReverse != 0).
		StrikeThrough(attrs&tcellv2.AttrStrikeThrough != 0)
}

func convertTcellColor(tc tcellv2.Color) backend.Color {
	if tc == tcellv2.ColorDefault {
		return backend.ColorDefault
	}
	if tc&tcellv2.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return backend.ColorRGB(uint8(r), uint8(g), uint8(b))
	}
	return backend.Color(tc & 0xFF)
}

var _ backend.Backend = (*Backend)(nil)
