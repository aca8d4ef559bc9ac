// Package font provides the text metrics consumed by wrapping and layout.
// Widths and heights are in display units: terminal cells for the shipped
// fonts, pixels for hosts that supply their own Metrics.
package font

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/slate/pkg/cache"
)

// Metrics measures text. Implementations must be fast, in-memory lookups.
type Metrics interface {
	// Height returns the height of one line of text.
	Height() int
	// Width returns the rendered width of s.
	Width(s string) int
	// SubstringWidth returns the width of s[offset:offset+length]. Offsets are bytes.
	SubstringWidth(s string, offset, length int) int
}

// Fixed measures text on a cell grid. East Asian wide runes occupy two cells.
type Fixed struct {
	CellWidth  int
	LineHeight int
}

// Cell is the plain terminal font: one cell wide, one row tall.
var Cell = Fixed{CellWidth: 1, LineHeight: 1}

// Height returns the line height.
func (f Fixed) Height() int {
	if f.LineHeight <= 0 {
		return 1
	}
	return f.LineHeight
}

// Width returns the width of s.
func (f Fixed) Width(s string) int {
	w := f.CellWidth
	if w <= 0 {
		w = 1
	}
	return runewidth.StringWidth(s) * w
}

// SubstringWidth returns the width of a byte range of s.
func (f Fixed) SubstringWidth(s string, offset, length int) int {
	return f.Width(substring(s, offset, length))
}

// Proportional assigns each rune its own advance width and memoizes
// whole-string measurements.
type Proportional struct {
	lineHeight   int
	defaultWidth int
	widths       map[rune]int
	memo         *cache.LRU[string, int]
}

// NewProportional builds a proportional font. Runes missing from widths use
// defaultWidth. memoSize bounds the string-width cache.
func NewProportional(lineHeight, defaultWidth int, widths map[rune]int, memoSize int) *Proportional {
	w := make(map[rune]int, len(widths))
	for r, v := range widths {
		w[r] = v
	}
	return &Proportional{
		lineHeight:   max(lineHeight, 1),
		defaultWidth: max(defaultWidth, 0),
		widths:       w,
		memo:         cache.NewLRU[string, int](memoSize),
	}
}

// Height returns the line height.
func (p *Proportional) Height() int { return p.lineHeight }

// Width returns the width of s.
func (p *Proportional) Width(s string) int {
	if s == "" {
		return 0
	}
	return p.memo.GetOrCompute(s, p.measure)
}

// SubstringWidth returns the width of a byte range of s.
func (p *Proportional) SubstringWidth(s string, offset, length int) int {
	return p.Width(substring(s, offset, length))
}

// RuneWidth returns the advance of a single rune.
func (p *Proportional) RuneWidth(r rune) int {
	if w, ok := p.widths[r]; ok {
		return w
	}
	return p.defaultWidth
}

// CacheStats exposes the memo hit and miss counters.
func (p *Proportional) CacheStats() (hits, misses uint64) {
	return p.memo.Stats()
}

func (p *Proportional) measure(s string) int {
	total := 0
	for _, r := range s {
		total += p.RuneWidth(r)
	}
	return total
}

func substring(s string, offset, length int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s) {
		return ""
	}
	end := offset + length
	if length < 0 || end > len(s) {
		end = len(s)
	}
	return s[offset:end]
}
