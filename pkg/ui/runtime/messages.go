package runtime

import (
	"time"

	"github.com/odvcencio/slate/pkg/ui/terminal"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// Message represents an event flowing into the UI.
// Messages come from backend input, timers, or other goroutines via App.Post.
type Message interface {
	isMessage()
}

// KeyMsg represents a keyboard input event.
type KeyMsg struct {
	Key   terminal.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the surface size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// TickMsg is sent on each timer tick and drives animations.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}

// ThemeChangedMsg swaps the active theme. Cached component sizes are stale
// after it.
type ThemeChangedMsg struct {
	Theme *theme.Theme
}

func (ThemeChangedMsg) isMessage() {}

// ShowMsg and HideMsg bracket the time a screen is on display.
type ShowMsg struct{}

func (ShowMsg) isMessage() {}

type HideMsg struct{}

func (HideMsg) isMessage() {}
