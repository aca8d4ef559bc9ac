package runtime

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/slate/pkg/ui/backend"
)

// Cell is a single character cell. Width is 0 for the trailing half of a
// wide rune.
type Cell struct {
	Rune  rune
	Style backend.Style
	Width int
}

var blank = Cell{Rune: ' ', Style: backend.DefaultStyle(), Width: 1}

// Buffer is a grid of cells that widgets render into before it is flushed
// to the backend. Only cells that changed since the last flush are sent.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirty      []bool
	dirtyCount int
}

// NewBuffer creates a blank buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{}
	b.Resize(w, h)
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the buffer dimensions. Content is discarded and the whole
// buffer is marked dirty.
func (b *Buffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == b.width && h == b.height && b.cells != nil {
		return
	}
	b.width, b.height = w, h
	b.cells = make([]Cell, w*h)
	for i := range b.cells {
		b.cells[i] = blank
	}
	b.dirty = make([]bool, w*h)
	b.MarkAllDirty()
}

// Clear blanks the buffer.
func (b *Buffer) Clear() {
	b.Fill(Rect{Width: b.width, Height: b.height}, ' ', backend.DefaultStyle())
}

// Get returns the cell at (x, y), or a blank cell when out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return blank
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	b.put(x, y, Cell{Rune: r, Style: s, Width: 1})
}

// SetString writes s starting at (x, y), advancing by each rune's display
// width, and returns the number of columns consumed. Wide runes that would
// straddle the right edge are dropped.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	col := x
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > b.width {
			break
		}
		if col >= 0 {
			b.put(col, y, Cell{Rune: r, Style: style, Width: rw})
			for i := 1; i < rw; i++ {
				b.put(col+i, y, Cell{Style: style})
			}
		}
		col += rw
	}
	return col - x
}

// Fill fills a rectangular region with a rune and style.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	r = r.Intersection(Rect{Width: b.width, Height: b.height})
	cell := Cell{Rune: ch, Style: s, Width: 1}
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			b.put(x, y, cell)
		}
	}
}

// VLine draws a vertical line of ch from (x, y) downwards.
func (b *Buffer) VLine(x, y, length int, ch rune, s backend.Style) {
	b.Fill(Rect{X: x, Y: y, Width: 1, Height: length}, ch, s)
}

// Restyle replaces the style of cells in r, keeping their runes.
func (b *Buffer) Restyle(r Rect, s backend.Style) {
	r = r.Intersection(Rect{Width: b.width, Height: b.height})
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			c := b.cells[y*b.width+x]
			c.Style = s
			b.put(x, y, c)
		}
	}
}

// String renders the buffer as text, one line per row.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			if c.Width == 0 {
				continue
			}
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) put(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	if b.cells[idx] == c {
		return
	}
	b.cells[idx] = c
	if !b.dirty[idx] {
		b.dirty[idx] = true
		b.dirtyCount++
	}
}

// MarkAllDirty forces every cell to be flushed.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
}

// ClearDirty resets all dirty flags.
func (b *Buffer) ClearDirty() {
	clear(b.dirty)
	b.dirtyCount = 0
}

// DirtyCount returns the number of dirty cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// Flush sends dirty cells to the target and clears the dirty set.
func (b *Buffer) Flush(target backend.Backend) {
	if b.dirtyCount == 0 {
		return
	}
	for idx, d := range b.dirty {
		if !d {
			continue
		}
		c := b.cells[idx]
		if c.Width == 0 {
			continue
		}
		target.SetContent(idx%b.width, idx/b.width, c.Rune, nil, c.Style)
	}
	b.ClearDirty()
}
