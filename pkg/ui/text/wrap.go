// Package text wraps strings into width-bounded lines.
//
// Wrap is greedy: words are appended to the current line while the line still
// fits, a word that alone reaches the width budget is emitted on its own line
// untruncated, and line-break characters force a break. When token tracking is
// requested every placed word (or word piece) is recorded with its line index
// and byte offsets so callers can highlight it later.
//
// A line break terminates the line before it, so "\n" is one blank line,
// "a\n" is just "a" and "a\n\nb" has one blank line between the words. An
// empty line after the final break is not emitted.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/odvcencio/slate/pkg/ui/font"
)

// Line is one wrapped display line.
type Line struct {
	Text  string
	Width int
}

// Token records where a word landed. Start and End are byte offsets into
// the line's Text.
type Token struct {
	Source string
	Line   int
	Start  int
	End    int
	Width  int
}

// Result is the output of Wrap. Tokens is nil unless WithTokens was given.
type Result struct {
	Lines  []Line
	Tokens []Token
}

// Strings returns the line texts.
func (r Result) Strings() []string {
	out := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = l.Text
	}
	return out
}

// MaxWidth returns the widest line width.
func (r Result) MaxWidth() int {
	w := 0
	for _, l := range r.Lines {
		w = max(w, l.Width)
	}
	return w
}

type options struct {
	tokens    bool
	separator rune
	hasSep    bool
}

// Option configures Wrap.
type Option func(*options)

// WithTokens enables token tracking.
func WithTokens() Option {
	return func(o *options) { o.tokens = true }
}

// WithSyllableSeparator marks r as a legal break point inside words. The
// separator never appears in the output; a word split at one ends its line
// with a hyphen.
func WithSyllableSeparator(r rune) Option {
	return func(o *options) {
		o.separator = r
		o.hasSep = true
	}
}

// Wrap splits s into lines no wider than maxWidth, except for single words that
// are themselves at least maxWidth wide.
func Wrap(m font.Metrics, s string, maxWidth int, opts ...Option) Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	w := &wrapper{m: m, max: maxWidth, opts: o, atBreak: true}
	if o.tokens {
		w.res.Tokens = []Token{}
	}

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		switch {
		case r == '\r':
			if strings.HasPrefix(s, "\r\n") {
				size = 2
			}
			w.hardBreak()
		case r == '\n':
			w.hardBreak()
		case unicode.IsSpace(r):
		default:
			end := strings.IndexFunc(s, unicode.IsSpace)
			if end < 0 {
				end = len(s)
			}
			w.word(s[:end])
			size = end
		}
		s = s[size:]
	}
	w.flush()
	return w.res
}

type wrapper struct {
	m    font.Metrics
	max  int
	opts options
	res  Result

	acc strings.Builder
	// atBreak is true at the start of a line that has no words yet; a break
	// there terminates a blank line.
	atBreak bool
}

func (w *wrapper) emit(s string) {
	w.res.Lines = append(w.res.Lines, Line{Text: s, Width: w.m.Width(s)})
}

func (w *wrapper) flush() {
	if w.acc.Len() == 0 {
		return
	}
	w.emit(w.acc.String())
	w.acc.Reset()
}

func (w *wrapper) hardBreak() {
	if w.acc.Len() > 0 {
		w.flush()
	} else if w.atBreak {
		w.emit("")
	}
	w.atBreak = true
}

func (w *wrapper) separator() string {
	cur := w.acc.String()
	if cur == "" || strings.HasSuffix(cur, "-") {
		return ""
	}
	return " "
}

func (w *wrapper) record(source string, line, start int, piece string, width int) {
	if w.res.Tokens == nil {
		return
	}
	w.res.Tokens = append(w.res.Tokens, Token{
		Source: source,
		Line:   line,
		Start:  start,
		End:    start + len(piece),
		Width:  width,
	})
}

func (w *wrapper) word(raw string) {
	w.atBreak = false

	syllables := []string{raw}
	if w.opts.hasSep {
		syllables = strings.FieldsFunc(raw, func(r rune) bool { return r == w.opts.separator })
		if len(syllables) == 0 {
			return
		}
	}
	source := strings.Join(syllables, "")

	for len(syllables) > 0 {
		stripped := strings.Join(syllables, "")
		width := w.m.Width(stripped)

		if width >= w.max {
			w.flush()
			w.record(source, len(w.res.Lines), 0, stripped, width)
			w.emit(stripped)
			return
		}

		sep := w.separator()
		if w.m.Width(w.acc.String()+sep+stripped) <= w.max {
			w.place(source, sep, stripped, width)
			return
		}

		if n := w.fittingSyllables(sep, syllables); n > 0 {
			piece := strings.Join(syllables[:n], "")
			if !strings.HasSuffix(piece, "-") {
				piece += "-"
			}
			w.place(source, sep, piece, w.m.Width(piece))
			syllables = syllables[n:]
		}
		w.flush()
	}
}

func (w *wrapper) place(source, sep, piece string, width int) {
	w.acc.WriteString(sep)
	w.record(source, len(w.res.Lines), w.acc.Len(), piece, width)
	w.acc.WriteString(piece)
}

// fittingSyllables returns how many leading syllables, plus a trailing hyphen,
// still fit on the current line. A word is never split before its first or
// after its last syllable.
func (w *wrapper) fittingSyllables(sep string, syllables []string) int {
	if len(syllables) < 2 || w.acc.Len() == 0 {
		return 0
	}
	cur := w.acc.String() + sep
	for n := len(syllables) - 1; n > 0; n-- {
		piece := strings.Join(syllables[:n], "")
		if !strings.HasSuffix(piece, "-") {
			piece += "-"
		}
		if w.m.Width(cur+piece) <= w.max {
			return n
		}
	}
	return 0
}
