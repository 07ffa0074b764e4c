package nesting

// teststream_test.go gives the package's own tests a minimal Stream
// implementation. internal/streamio.Line would be the natural choice, but it
// imports this package, so pulling it in from a _test.go file living in
// package nesting (not nesting_test) would be an import cycle; this is a
// deliberately small stand-in satisfying the same contract.

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

type testStream struct {
	text string
	pos  int
	sol  bool
}

func newTestStream(text string) *testStream {
	return &testStream{text: text, sol: true}
}

var _ Stream = (*testStream)(nil)

func (s *testStream) LineText() string { return s.text }

func (s *testStream) SetLineText(t string) {
	s.text = t
	if s.pos > len(s.text) {
		s.pos = len(s.text)
	}
}

func (s *testStream) Pos() int { return s.pos }

func (s *testStream) SetPos(p int) {
	if p < 0 {
		p = 0
	}
	if p > len(s.text) {
		p = len(s.text)
	}
	s.pos = p
	s.sol = false
}

func (s *testStream) SOL() bool { return s.sol && s.pos == 0 }

func (s *testStream) Next() (rune, bool) {
	if s.pos >= len(s.text) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s.text[s.pos:])
	s.pos += size
	s.sol = false
	return r, true
}

func (s *testStream) Eat(r rune) bool {
	if s.pos >= len(s.text) {
		return false
	}
	cur, size := utf8.DecodeRuneInString(s.text[s.pos:])
	if cur != r {
		return false
	}
	s.pos += size
	s.sol = false
	return true
}

func (s *testStream) EatWhile(pred func(rune) bool) bool {
	start := s.pos
	for s.pos < len(s.text) {
		r, size := utf8.DecodeRuneInString(s.text[s.pos:])
		if !pred(r) {
			break
		}
		s.pos += size
	}
	if s.pos > start {
		s.sol = false
		return true
	}
	return false
}

func (s *testStream) EatSpace() bool { return s.EatWhile(unicode.IsSpace) }

func (s *testStream) SkipToEnd() {
	if s.pos < len(s.text) {
		s.pos = len(s.text)
		s.sol = false
	}
}

func (s *testStream) SkipTo(target string) bool {
	if target == "" {
		return false
	}
	idx := strings.Index(s.text[s.pos:], target)
	if idx < 0 {
		return false
	}
	s.pos += idx
	s.sol = false
	return true
}

// renderedToken is a test-local stand-in for internal/highlight.Token, kept
// separate for the same import-cycle reason as testStream above.
type renderedToken struct {
	Text  string
	Style string
}

// maxTokensPerLineTest bounds the per-line loop the way internal/highlight.Lines
// does, so a misbehaving test config can't hang a test run.
const maxTokensPerLineTest = 100000

// tokenizeDocument mirrors internal/highlight.Lines' driving loop: StartState
// once, CopyState before each line, Token repeatedly within a line, and
// BlankLine before the Token call on an empty line.
func tokenizeDocument(t *testing.T, mode Mode, lines []string) [][]renderedToken {
	t.Helper()
	state := mode.StartState(0, nil)
	result := make([][]renderedToken, 0, len(lines))
	for _, text := range lines {
		state = mode.CopyState(state)
		var toks []renderedToken
		if text == "" {
			if liner, ok := mode.(BlankLiner); ok {
				liner.BlankLine(state)
			}
		}
		stream := newTestStream(text)
		for i := 0; i < maxTokensPerLineTest; i++ {
			before := stream.Pos()
			style, err := mode.Token(stream, state)
			require.NoError(t, err)
			if stream.Pos() > before {
				toks = append(toks, renderedToken{Text: text[before:stream.Pos()], Style: style})
			}
			if stream.Pos() >= len(text) {
				break
			}
			if stream.Pos() == before {
				break
			}
		}
		result = append(result, toks)
	}
	return result
}

func joinText(toks []renderedToken) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}

// styleAtByte returns the style of whichever token covers byte offset in a
// single line's token slice.
func styleAtByte(toks []renderedToken, offset int) string {
	pos := 0
	for _, tok := range toks {
		if offset >= pos && offset < pos+len(tok.Text) {
			return tok.Style
		}
		pos += len(tok.Text)
	}
	return ""
}

// stubMode is the smallest possible Mode: it consumes exactly one rune per
// Token call and always reports the same style, used throughout this
// package's tests as a stand-in host/sub/js/whatever mode whenever the test
// only cares about delimiter and region boundaries, not real tokenization.
type stubMode struct {
	style string
}

func newStubMode(style string) *stubMode { return &stubMode{style: style} }

func (m *stubMode) StartState(indent int, nestState *NestState) any { return indent }
func (m *stubMode) CopyState(state any) any                        { return state }
func (m *stubMode) Token(stream Stream, state any) (string, error) {
	stream.Next()
	return m.style, nil
}

func modeSpecFor(name string, mode Mode) ModeSpec {
	return ModeSpec{
		Name:    name,
		Factory: func(ctx *EditorContext) (Mode, error) { return mode, nil },
	}
}

func ptrSpec(ps PatternSpec) *PatternSpec { return &ps }
