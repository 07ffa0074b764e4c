// Package markdown implements a host mode for a practical subset of
// Markdown: headings, blockquotes, list markers, emphasis/strong spans,
// inline code spans, and links. Fenced code blocks are deliberately not
// handled here — FencedCodeBlockConfig returns the nesting.RawConfig that
// wires them in as a real sub-mode (delegating to internal/modes/script),
// since a nested-mode delimiter is what the combinator exists to arbitrate,
// not something a single host Mode should hand-roll.
package markdown

import (
	"strings"

	"github.com/zjrosen/nestmode/internal/nesting"
)

const (
	StylePlain      = ""
	StyleHeading    = "markdown.heading"
	StyleBlockquote = "markdown.blockquote"
	StyleListMarker = "markdown.list-marker"
	StyleCodeSpan   = "markdown.code-span"
	StyleStrong     = "markdown.strong"
	StyleEmphasis   = "markdown.emphasis"
	StyleLinkText   = "markdown.link-text"
	StyleLinkURL    = "markdown.link-url"
)

// State carries the one piece of context that needs to survive from one
// Token call to the next within a line: the byte length of a link's
// "(url)" segment still owed after a "[text]" token was just emitted.
type State struct {
	pendingURLLen int
}

// Mode implements nesting.Mode for the Markdown subset described above.
type Mode struct{}

// New returns a markdown Mode.
func New() *Mode { return &Mode{} }

// ModeSpecOf returns a nesting.ModeSpec that constructs a markdown Mode,
// for use as a sub-mode (e.g. an embedded Markdown region inside a larger
// document) rather than as the top-level host.
func ModeSpecOf() nesting.ModeSpec {
	return nesting.ModeSpec{
		Name: "markdown",
		Factory: func(ctx *nesting.EditorContext) (nesting.Mode, error) {
			return New(), nil
		},
	}
}

var _ nesting.Mode = (*Mode)(nil)

func (m *Mode) StartState(indent int, nestState *nesting.NestState) any {
	return &State{}
}

func (m *Mode) CopyState(state any) any {
	st := state.(*State)
	clone := *st
	return &clone
}

func (m *Mode) Token(stream nesting.Stream, state any) (string, error) {
	st := state.(*State)

	if stream.SOL() {
		st.pendingURLLen = 0
		if style, ok := m.startOfLinePrefix(stream); ok {
			return style, nil
		}
	}

	if st.pendingURLLen > 0 {
		n := st.pendingURLLen
		st.pendingURLLen = 0
		for i := 0; i < n; i++ {
			if _, ok := stream.Next(); !ok {
				break
			}
		}
		return StyleLinkURL, nil
	}

	text := stream.LineText()
	pos := stream.Pos()
	if pos >= len(text) {
		return "", nil
	}

	switch {
	case strings.HasPrefix(text[pos:], "**") || strings.HasPrefix(text[pos:], "__"):
		return m.consumeDelimited(stream, text[pos:pos+2], StyleStrong), nil
	case text[pos] == '`':
		return m.consumeCodeSpan(stream, text, pos), nil
	case text[pos] == '*' || text[pos] == '_':
		return m.consumeDelimited(stream, text[pos:pos+1], StyleEmphasis), nil
	case text[pos] == '[':
		if style, ok := m.startLink(stream, st, text, pos); ok {
			return style, nil
		}
	}

	next := m.nextMarker(text, pos)
	if next < 0 {
		stream.SkipToEnd()
		return StylePlain, nil
	}
	stream.SetPos(next)
	return StylePlain, nil
}

// startOfLinePrefix recognizes block-level prefixes that only mean anything
// at the start of a line: ATX headings, blockquote markers, and list
// markers. It consumes exactly the prefix (including its trailing space)
// and leaves the rest of the line for ordinary inline scanning.
func (m *Mode) startOfLinePrefix(stream nesting.Stream) (string, bool) {
	text := stream.LineText()

	if style, n := headingPrefixLen(text); n > 0 {
		advance(stream, n)
		return style, true
	}
	if strings.HasPrefix(text, ">") {
		n := 1
		for n < len(text) && text[n] == ' ' {
			n++
		}
		advance(stream, n)
		return StyleBlockquote, true
	}
	if n := listMarkerLen(text); n > 0 {
		advance(stream, n)
		return StyleListMarker, true
	}
	return "", false
}

func headingPrefixLen(text string) (string, int) {
	n := 0
	for n < len(text) && n < 6 && text[n] == '#' {
		n++
	}
	if n == 0 || n >= len(text) || text[n] != ' ' {
		return "", 0
	}
	return StyleHeading, n + 1
}

func listMarkerLen(text string) int {
	i := 0
	for i < len(text) && text[i] == ' ' {
		i++
	}
	if i >= len(text) {
		return 0
	}
	if text[i] == '-' || text[i] == '*' || text[i] == '+' {
		if i+1 < len(text) && text[i+1] == ' ' {
			return i + 2
		}
		return 0
	}
	j := i
	for j < len(text) && text[j] >= '0' && text[j] <= '9' {
		j++
	}
	if j > i && j+1 < len(text) && text[j] == '.' && text[j+1] == ' ' {
		return j + 2
	}
	return 0
}

func advance(stream nesting.Stream, n int) {
	for i := 0; i < n; i++ {
		if _, ok := stream.Next(); !ok {
			return
		}
	}
}

// consumeDelimited consumes from the current position through the next
// occurrence of marker (inclusive), or to end of line if marker never
// recurs, styling the whole span style.
func (m *Mode) consumeDelimited(stream nesting.Stream, marker, style string) string {
	text := stream.LineText()
	pos := stream.Pos()
	closeIdx := strings.Index(text[pos+len(marker):], marker)
	if closeIdx < 0 {
		stream.SkipToEnd()
		return style
	}
	stream.SetPos(pos + len(marker) + closeIdx + len(marker))
	return style
}

func (m *Mode) consumeCodeSpan(stream nesting.Stream, text string, pos int) string {
	closeIdx := strings.IndexByte(text[pos+1:], '`')
	if closeIdx < 0 {
		stream.SkipToEnd()
		return StyleCodeSpan
	}
	stream.SetPos(pos + 1 + closeIdx + 1)
	return StyleCodeSpan
}

// startLink recognizes "[text](url)" at pos. It emits the "[text]" span as
// the first token and records the length of the following "(url)" span so
// the next Token call can emit it as a second token, since one Token call
// can only carry one style.
func (m *Mode) startLink(stream nesting.Stream, st *State, text string, pos int) (string, bool) {
	closeBracket := strings.IndexByte(text[pos:], ']')
	if closeBracket < 0 || pos+closeBracket+1 >= len(text) || text[pos+closeBracket+1] != '(' {
		return "", false
	}
	urlStart := pos + closeBracket + 1
	closeParen := strings.IndexByte(text[urlStart:], ')')
	if closeParen < 0 {
		return "", false
	}
	urlEnd := urlStart + closeParen + 1

	stream.SetPos(urlStart)
	st.pendingURLLen = urlEnd - urlStart
	return StyleLinkText, true
}

// nextMarker returns the byte offset of the nearest inline marker at or
// after pos, or -1 if none appear on the rest of the line.
func (m *Mode) nextMarker(text string, pos int) int {
	best := -1
	consider := func(idx int) {
		if idx < 0 {
			return
		}
		if best < 0 || idx < best {
			best = idx
		}
	}
	for _, marker := range []string{"**", "__", "`", "*", "_", "["} {
		if idx := strings.Index(text[pos:], marker); idx >= 0 {
			consider(pos + idx)
		}
	}
	return best
}
