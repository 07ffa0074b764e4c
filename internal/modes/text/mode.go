// Package text implements a minimal host mode: plain prose with optional
// quoted strings and line/block comments, styled directly rather than via
// nested sub-mode activations (scenario S2's "all characters emitted as
// string, escape as inner style, no sub-mode entry triggered" only holds if
// the host recognizes its own strings itself — nesting.New never auto-masks
// a top-level host against its own configs).
//
// It is meant to sit at the root of a NestingMode as the hostMode argument,
// or to be used as Config.DelimMode/ModeSpec for a sub-mode that just wants
// "ordinary text with strings and comments" semantics (e.g. the contents of
// a fenced fallback code block with no registered language).
package text

import (
	"strings"

	"github.com/zjrosen/nestmode/internal/nesting"
)

const (
	StylePlain   = ""
	StyleString  = "text.string"
	StyleComment = "text.comment"
)

// Config describes the lexical conventions of one text-like language:
// which characters open/close a string, how strings escape, and how line
// and block comments are written. The zero Config is plain prose with no
// strings or comments at all.
type Config struct {
	StringQuotes      string // e.g. `"'`
	StringEscape      rune
	HasStringEscape   bool
	LineComment       []string // e.g. []string{"//", "#"}
	BlockCommentStart string
	BlockCommentEnd   string
}

// State is the per-line state this mode keeps: whether a block comment
// opened on an earlier line is still open.
type State struct {
	inBlockComment bool
}

// Mode implements nesting.Mode for Config's lexical conventions.
type Mode struct {
	cfg Config
}

// New returns a text Mode for cfg.
func New(cfg Config) *Mode {
	return &Mode{cfg: cfg}
}

// ModeSpecOf returns a nesting.ModeSpec that constructs a text Mode for
// cfg, for direct use as a RawConfig.ModeSpec entry.
func ModeSpecOf(cfg Config) nesting.ModeSpec {
	return nesting.ModeSpec{
		Name: "text",
		Factory: func(ctx *nesting.EditorContext) (nesting.Mode, error) {
			return New(cfg), nil
		},
	}
}

var (
	_ nesting.Mode         = (*Mode)(nil)
	_ nesting.MetaProvider = (*Mode)(nil)
)

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

	if st.inBlockComment {
		return m.continueBlockComment(stream, st), nil
	}

	text := stream.LineText()
	pos := stream.Pos()
	if pos >= len(text) {
		return "", nil
	}

	if style, ok := m.startLineComment(stream, text, pos); ok {
		return style, nil
	}
	if style, ok := m.startBlockComment(stream, st, text, pos); ok {
		return style, nil
	}
	if style, ok := m.startString(stream, text, pos); ok {
		return style, nil
	}

	next := m.nextMarker(text, pos)
	if next < 0 {
		stream.SkipToEnd()
		return StylePlain, nil
	}
	stream.SetPos(next)
	return StylePlain, nil
}

func (m *Mode) startLineComment(stream nesting.Stream, text string, pos int) (string, bool) {
	for _, marker := range m.cfg.LineComment {
		if marker == "" {
			continue
		}
		if strings.HasPrefix(text[pos:], marker) {
			stream.SkipToEnd()
			return StyleComment, true
		}
	}
	return "", false
}

func (m *Mode) startBlockComment(stream nesting.Stream, st *State, text string, pos int) (string, bool) {
	start := m.cfg.BlockCommentStart
	if start == "" || m.cfg.BlockCommentEnd == "" {
		return "", false
	}
	if !strings.HasPrefix(text[pos:], start) {
		return "", false
	}
	stream.SetPos(pos + len(start))
	st.inBlockComment = true
	return m.continueBlockComment(stream, st), true
}

// continueBlockComment consumes up to and including the block comment's
// close marker if it appears on the current line, otherwise the rest of
// the line, always returning StyleComment.
func (m *Mode) continueBlockComment(stream nesting.Stream, st *State) string {
	text := stream.LineText()
	pos := stream.Pos()
	if idx := strings.Index(text[pos:], m.cfg.BlockCommentEnd); idx >= 0 {
		stream.SetPos(pos + idx + len(m.cfg.BlockCommentEnd))
		st.inBlockComment = false
	} else {
		stream.SkipToEnd()
	}
	return StyleComment
}

func (m *Mode) startString(stream nesting.Stream, text string, pos int) (string, bool) {
	if !strings.ContainsRune(m.cfg.StringQuotes, rune(text[pos])) {
		return "", false
	}
	quote, _ := stream.Next()
	for {
		r, ok := stream.Next()
		if !ok {
			return StyleString, true
		}
		if m.cfg.HasStringEscape && r == m.cfg.StringEscape {
			stream.Next() // consume the escaped character, if any
			continue
		}
		if r == quote {
			return StyleString, true
		}
	}
}

// nextMarker returns the byte offset of the nearest line-comment, block
// comment, or quote marker at or after pos, or -1 if none appear on the
// rest of the line.
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
	for _, marker := range m.cfg.LineComment {
		if marker == "" {
			continue
		}
		if idx := strings.Index(text[pos:], marker); idx >= 0 {
			consider(pos + idx)
		}
	}
	if m.cfg.BlockCommentStart != "" {
		if idx := strings.Index(text[pos:], m.cfg.BlockCommentStart); idx >= 0 {
			consider(pos + idx)
		}
	}
	for _, q := range m.cfg.StringQuotes {
		if idx := strings.IndexRune(text[pos:], q); idx >= 0 {
			consider(pos + idx)
		}
	}
	return best
}

// Meta exposes this mode's lexical conventions for mask synthesis when it
// is nested as someone else's sub-mode.
func (m *Mode) Meta() (nesting.ModeMeta, bool) {
	if m.cfg.StringQuotes == "" && len(m.cfg.LineComment) == 0 && m.cfg.BlockCommentStart == "" {
		return nesting.ModeMeta{}, false
	}
	return nesting.ModeMeta{
		StringQuotes:      m.cfg.StringQuotes,
		StringEscape:      m.cfg.StringEscape,
		HasStringEscape:   m.cfg.HasStringEscape,
		LineComment:       m.cfg.LineComment,
		BlockCommentStart: m.cfg.BlockCommentStart,
		BlockCommentEnd:   m.cfg.BlockCommentEnd,
	}, true
}
