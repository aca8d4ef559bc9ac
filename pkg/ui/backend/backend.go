// Package backend defines the display surface slate renders onto.
// A tcell implementation drives real terminals; the simulation backend
// captures frames for golden tests and headless output.
package backend

import "github.com/odvcencio/slate/pkg/ui/terminal"

// Backend is the display abstraction layer.
type Backend interface {
	// Init prepares the surface (alt screen, raw mode, ...).
	Init() error

	// Fini restores the surface.
	Fini()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetContent sets the cell at (x, y).
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show flushes pending cells to the display.
	Show()

	// Clear blanks the surface.
	Clear()

	// HideCursor hides the text cursor.
	HideCursor()

	// PollEvent blocks until input is available. It returns nil once the
	// backend has been finalized.
	PollEvent() terminal.Event

	// PostEvent injects an event into the input queue.
	PostEvent(ev terminal.Event) error

	// Beep emits an audible bell.
	Beep()

	// Sync forces a full redraw on the next Show.
	Sync()
}
