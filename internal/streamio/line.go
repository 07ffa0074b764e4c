// Package streamio implements nesting.Stream, the mutable line cursor the
// tokenizer combinator is driven through. Line is the one concrete
// implementation this repo ships; an embedding editor with its own buffer
// representation can supply its own.
package streamio

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/nestmode/internal/nesting"
)

// Line is a cursor over one line of text, byte-indexed like nesting's
// Pattern/Match contract; DisplayWidth below is the separate rune- and
// grapheme-aware helper for callers that need display columns rather than
// byte offsets.
type Line struct {
	text string
	pos  int
	sol  bool
}

// NewLine starts a cursor at byte offset 0 of text, marked as being at the
// true start of line (SOL matters for the close-at-SOL sentinel pattern
// and for mask/sub continuation resumed from a prior line).
func NewLine(text string) *Line {
	return &Line{text: text, pos: 0, sol: true}
}

var _ nesting.Stream = (*Line)(nil)

func (l *Line) LineText() string    { return l.text }
func (l *Line) SetLineText(s string) {
	l.text = s
	if l.pos > len(l.text) {
		l.pos = len(l.text)
	}
}

func (l *Line) Pos() int { return l.pos }

func (l *Line) SetPos(p int) {
	if p < 0 {
		p = 0
	}
	if p > len(l.text) {
		p = len(l.text)
	}
	l.pos = p
	l.sol = false
}

// SOL reports true only at the cursor's very first position on this Line
// value, before any SetPos/Next has moved it — exactly the moment a
// close-at-SOL pattern or a line-resumed mask/sub continuation is allowed
// to match.
func (l *Line) SOL() bool { return l.sol && l.pos == 0 }

func (l *Line) Next() (rune, bool) {
	if l.pos >= len(l.text) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(l.text[l.pos:])
	l.pos += size
	l.sol = false
	return r, true
}

func (l *Line) Eat(r rune) bool {
	if l.pos >= len(l.text) {
		return false
	}
	cur, size := utf8.DecodeRuneInString(l.text[l.pos:])
	if cur != r {
		return false
	}
	l.pos += size
	l.sol = false
	return true
}

func (l *Line) EatWhile(pred func(rune) bool) bool {
	start := l.pos
	for l.pos < len(l.text) {
		r, size := utf8.DecodeRuneInString(l.text[l.pos:])
		if !pred(r) {
			break
		}
		l.pos += size
	}
	if l.pos > start {
		l.sol = false
		return true
	}
	return false
}

func (l *Line) EatSpace() bool {
	return l.EatWhile(unicode.IsSpace)
}

func (l *Line) SkipToEnd() {
	if l.pos < len(l.text) {
		l.pos = len(l.text)
		l.sol = false
	}
}

func (l *Line) SkipTo(target string) bool {
	if target == "" {
		return false
	}
	idx := indexFrom(l.text, l.pos, target)
	if idx < 0 {
		return false
	}
	l.pos = idx
	l.sol = false
	return true
}

func indexFrom(s string, from int, target string) int {
	if from > len(s) {
		return -1
	}
	rel := indexOf(s[from:], target)
	if rel < 0 {
		return -1
	}
	return from + rel
}

func indexOf(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if s[i:i+n] == substr {
			return i
		}
	}
	return -1
}

// DisplayWidth returns text's terminal column width, treating each
// extended grapheme cluster (uniseg) as one unit and using go-runewidth to
// weigh double-width runes (CJK, emoji) within it — a column count that
// byte-offset Match positions don't provide on their own.
func DisplayWidth(text string) int {
	width := 0
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		width += clusterWidth(cluster)
	}
	return width
}

func clusterWidth(cluster string) int {
	w := 0
	for _, r := range cluster {
		rw := runewidth.RuneWidth(r)
		if rw > w {
			w = rw
		}
	}
	if w == 0 && cluster != "" {
		w = 1
	}
	return w
}
