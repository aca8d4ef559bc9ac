package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/slate/pkg/ui/font"
)

func TestWrap_Scenarios(t *testing.T) {
	m := font.Cell
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fills line exactly", "a bb ccc", m.Width("a bb"), []string{"a bb", "ccc"}},
		{"overflowing token stands alone", "x VERYLONGTOKEN y", 10, []string{"x", "VERYLONGTOKEN", "y"}},
		{"token equal to width stands alone", "ab cdef gh", 4, []string{"ab", "cdef", "gh"}},
		{"empty input", "", 10, nil},
		{"whitespace only", "  \t  ", 10, nil},
		{"single break", "\n", 10, []string{""}},
		{"hard break", "a\nb", 10, []string{"a", "b"}},
		{"doubled break gives one blank line", "a\n\nb", 10, []string{"a", "", "b"}},
		{"crlf is one break", "a\r\nb", 10, []string{"a", "b"}},
		{"lone cr", "a\rb", 10, []string{"a", "b"}},
		{"trailing break", "a\n", 10, []string{"a"}},
		{"breaks only", "\n\n", 10, []string{"", ""}},
		{"leading break", "\na", 10, []string{"", "a"}},
		{"trailing doubled break", "a\n\n", 10, []string{"a", ""}},
		{"blank lines between words", "a\n\n\nb", 10, []string{"a", "", "", "b"}},
		{"no space after hyphen", "re- do", 20, []string{"re-do"}},
		{"collapses runs of spaces", "a    b", 10, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(m, tt.in, tt.width)
			if tt.want == nil {
				assert.Empty(t, got.Lines)
				return
			}
			assert.Equal(t, tt.want, got.Strings())
		})
	}
}

func TestWrap_LineWidths(t *testing.T) {
	p := font.NewProportional(10, 6, map[rune]int{' ': 3, 'i': 2, 'l': 2, 'm': 10}, 64)
	res := Wrap(p, "mill limit mim", 45)
	for _, l := range res.Lines {
		assert.Equal(t, p.Width(l.Text), l.Width)
	}
	assert.Equal(t, []string{"mill limit", "mim"}, res.Strings())
	assert.Equal(t, p.Width("mill limit"), res.MaxWidth())
}

func TestWrap_Tokens(t *testing.T) {
	res := Wrap(font.Cell, "hello big world", 9, WithTokens())
	require.Equal(t, []string{"hello big", "world"}, res.Strings())
	assert.Equal(t, []Token{
		{Source: "hello", Line: 0, Start: 0, End: 5, Width: 5},
		{Source: "big", Line: 0, Start: 6, End: 9, Width: 3},
		{Source: "world", Line: 1, Start: 0, End: 5, Width: 5},
	}, res.Tokens)
}

func TestWrap_TokensForStandaloneOverflow(t *testing.T) {
	res := Wrap(font.Cell, "x VERYLONGTOKEN y", 10, WithTokens())
	assert.Equal(t, []Token{
		{Source: "x", Line: 0, Start: 0, End: 1, Width: 1},
		{Source: "VERYLONGTOKEN", Line: 1, Start: 0, End: 13, Width: 13},
		{Source: "y", Line: 2, Start: 0, End: 1, Width: 1},
	}, res.Tokens)
}

func TestWrap_TokensOffByDefault(t *testing.T) {
	assert.Nil(t, Wrap(font.Cell, "a b c", 3).Tokens)
}

func TestWrap_TokenOffsetsMatchLineText(t *testing.T) {
	res := Wrap(font.Cell, "the quick brown fox jumps over the lazy dog", 12, WithTokens())
	for _, tok := range res.Tokens {
		line := res.Lines[tok.Line].Text
		assert.Equal(t, tok.Source, line[tok.Start:tok.End])
		assert.Equal(t, font.Cell.SubstringWidth(line, tok.Start, tok.End-tok.Start), tok.Width)
	}
}

func TestWrap_SyllableSeparator(t *testing.T) {
	res := Wrap(font.Cell, "go un|break|able", 12, WithSyllableSeparator('|'), WithTokens())

	assert.Equal(t, []string{"go unbreak-", "able"}, res.Strings())
	assert.Equal(t, []Token{
		{Source: "go", Line: 0, Start: 0, End: 2, Width: 2},
		{Source: "unbreakable", Line: 0, Start: 3, End: 11, Width: 8},
		{Source: "unbreakable", Line: 1, Start: 0, End: 4, Width: 4},
	}, res.Tokens)
}

func TestWrap_SyllableSeparatorIsStripped(t *testing.T) {
	res := Wrap(font.Cell, "ba|na|na split", 40, WithSyllableSeparator('|'))
	assert.Equal(t, []string{"banana split"}, res.Strings())

	// measured without separators: "banana" is 6 wide, so it fits a width of 7
	res = Wrap(font.Cell, "ba|na|na", 7, WithSyllableSeparator('|'))
	assert.Equal(t, []string{"banana"}, res.Strings())
}

func TestWrap_SyllableSplitNeedsRoom(t *testing.T) {
	// not even "ab-" fits after "xxxxxx", so the whole word moves down
	res := Wrap(font.Cell, "xxxxxx ab|cd", 9, WithSyllableSeparator('|'))
	assert.Equal(t, []string{"xxxxxx", "abcd"}, res.Strings())
}

const prose = "Segment granularity keeps scrolling predictable on devices with sluggish redraw " +
	"and keeps text rendered from a line boundary so glyphs are never cut in half. " +
	"Supercalifragilisticexpialidocious words overflow deliberately."

func TestWrap_WidthBound(t *testing.T) {
	m := font.Cell
	for _, width := range []int{8, 13, 21, 40} {
		res := Wrap(m, prose, width)
		for _, l := range res.Lines {
			if strings.Contains(l.Text, " ") || l.Width < width {
				// A line may fill the width exactly: "a bb" wrapped at
				// width("a bb") stays on one line.
				assert.LessOrEqual(t, l.Width, width, "line %q at width %d", l.Text, width)
			}
		}
	}
}

func TestWrap_Idempotent(t *testing.T) {
	for _, width := range []int{8, 13, 21, 40} {
		first := Wrap(font.Cell, prose, width).Strings()
		again := Wrap(font.Cell, strings.Join(first, " "), width).Strings()
		assert.Equal(t, first, again, "width %d", width)
	}
}

func TestWrap_Deterministic(t *testing.T) {
	a := Wrap(font.Cell, prose, 17, WithTokens())
	b := Wrap(font.Cell, prose, 17, WithTokens())
	assert.Equal(t, a, b)
}
