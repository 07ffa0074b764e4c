// Package script adapts chroma's language lexers to the nesting.Mode
// contract, so a fenced code block can be highlighted with whatever
// language chroma already knows about instead of a hand-written grammar
// per language.
package script

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/zjrosen/nestmode/internal/nesting"
)

// Mode wraps a chroma lexer. Chroma lexes a whole input at once rather than
// advancing a cursor, so this mode lexes the current line in full on first
// contact and then drains the resulting tokens one at a time across
// subsequent Token calls — close enough to the combinator's
// one-token-per-call shape for a fenced code block, which is this mode's
// only intended home.
type Mode struct {
	lexer chroma.Lexer
	name  string
}

// New returns a Mode for the chroma lexer registered under name (a chroma
// alias such as "go", "python", "json", or a fenced code block's info
// string). An unrecognized name falls back to chroma's plaintext lexer
// rather than erroring, so a typo'd fence tag degrades to unstyled text
// instead of breaking highlighting entirely.
func New(name string) *Mode {
	lexer := lexers.Get(name)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &Mode{lexer: chroma.Coalesce(lexer), name: name}
}

// ModeSpecOf returns a nesting.ModeSpec that constructs a script Mode for
// name, for direct use as a RawConfig.ModeSpec entry.
func ModeSpecOf(name string) nesting.ModeSpec {
	return nesting.ModeSpec{
		Name: "script:" + name,
		Factory: func(ctx *nesting.EditorContext) (nesting.Mode, error) {
			return New(name), nil
		},
	}
}

// State is the per-line state this mode keeps: the chroma tokens produced
// for the current line that have not yet been drained one at a time.
type State struct {
	line    string
	pending []chroma.Token
}

var _ nesting.Mode = (*Mode)(nil)

func (m *Mode) StartState(indent int, nestState *nesting.NestState) any {
	return &State{}
}

func (m *Mode) CopyState(state any) any {
	st := state.(*State)
	return &State{
		line:    st.line,
		pending: append([]chroma.Token(nil), st.pending...),
	}
}

func (m *Mode) Token(stream nesting.Stream, state any) (string, error) {
	st := state.(*State)

	text := stream.LineText()
	if st.line != text {
		tokens, err := m.lex(text)
		if err != nil {
			return "", err
		}
		st.line = text
		st.pending = tokens
	}

	if len(st.pending) == 0 {
		stream.SkipToEnd()
		return "", nil
	}

	tok := st.pending[0]
	st.pending = st.pending[1:]

	for range tok.Value {
		if _, ok := stream.Next(); !ok {
			break
		}
	}

	return styleFor(tok.Type), nil
}

// lex tokenizes one line through the wrapped chroma lexer. A trailing
// newline is appended before tokenizing (several chroma rules anchor on
// end-of-line) and stripped back off the last token afterward.
func (m *Mode) lex(line string) ([]chroma.Token, error) {
	iterator, err := m.lexer.Tokenise(nil, line+"\n")
	if err != nil {
		return nil, fmt.Errorf("tokenise %s line: %w", m.name, err)
	}

	var tokens []chroma.Token
	for tok := iterator(); tok != chroma.EOF; tok = iterator() {
		tok.Value = strings.TrimSuffix(tok.Value, "\n")
		if tok.Value == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// styleFor maps a chroma token type to a style tag by hyphenating its
// CamelCase name, e.g. chroma's "KeywordType" becomes "script.keyword-type".
func styleFor(t chroma.TokenType) string {
	var b strings.Builder
	for i, r := range t.String() {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return "script." + b.String()
}
