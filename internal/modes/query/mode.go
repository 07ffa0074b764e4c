package query

import (
	"github.com/zjrosen/nestmode/internal/nesting"
)

// Style tags this mode's Token returns. internal/style maps each to a
// lipgloss.Style for terminal rendering; this package knows nothing about
// rendering itself.
const (
	StyleKeyword  = "query.keyword"
	StyleOperator = "query.operator"
	StyleField    = "query.field"
	StyleString   = "query.string"
	StyleLiteral  = "query.literal"
	StyleParen    = "query.paren"
	StyleComma    = "query.comma"
)

// State is the per-line copyable state query.Mode keeps: just enough
// lookahead context to tell a field name from a value by the tokens that
// came before it, since the grammar has no separate parse tree to consult.
type State struct {
	inValueList   bool
	afterOperator bool
	prevToken     TokenType
}

// Mode implements nesting.Mode for query expressions.
type Mode struct{}

// New returns a query Mode. It carries no configuration: field names,
// operators and the order-by clause are fixed by the grammar.
func New() *Mode {
	return &Mode{}
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

	tok := nextLexeme(stream)
	if tok.Type == TokenEOF {
		return "", nil
	}

	if tok.Type == TokenLParen && st.prevToken == TokenIn {
		st.inValueList = true
	} else if tok.Type == TokenRParen && st.inValueList {
		st.inValueList = false
	}

	switch tok.Type {
	case TokenEq, TokenNeq, TokenLt, TokenGt, TokenLte, TokenGte, TokenContains, TokenNotContains:
		st.afterOperator = true
	case TokenAnd, TokenOr, TokenNot, TokenOrder:
		st.afterOperator = false
	}

	style := m.styleFor(tok, st)

	switch tok.Type {
	case TokenNumber, TokenString, TokenTrue, TokenFalse:
		st.afterOperator = false
	case TokenIdent:
		if st.inValueList || (st.afterOperator && tok.Type == TokenIdent) {
			st.afterOperator = false
		}
	}

	st.prevToken = tok.Type
	return style, nil
}

// styleFor returns the style tag for tok, treating identifiers that follow
// a comparison operator or sit inside an "in (...)" list as values rather
// than field names (and leaving them unstyled, same as a bare word would
// be in the surrounding host language).
func (m *Mode) styleFor(tok lexeme, st *State) string {
	if tok.Type == TokenIdent && (st.inValueList || st.afterOperator) {
		return ""
	}

	switch tok.Type {
	case TokenAnd, TokenOr, TokenNot, TokenIn, TokenOrder, TokenBy, TokenAsc, TokenDesc:
		return StyleKeyword
	case TokenEq, TokenNeq, TokenLt, TokenGt, TokenLte, TokenGte, TokenContains, TokenNotContains:
		return StyleOperator
	case TokenLParen, TokenRParen:
		return StyleParen
	case TokenComma:
		return StyleComma
	case TokenString:
		return StyleString
	case TokenNumber, TokenTrue, TokenFalse:
		return StyleLiteral
	case TokenIdent:
		return StyleField
	default:
		return ""
	}
}

// ModeSpecOf returns a nesting.ModeSpec that resolves to a fresh query Mode,
// ready to drop into a RawConfig.ModeSpec for a sub-mode that should
// highlight query-expression content.
func ModeSpecOf() nesting.ModeSpec {
	return nesting.ModeSpec{
		Name: "query",
		Factory: func(ctx *nesting.EditorContext) (nesting.Mode, error) {
			return New(), nil
		},
	}
}

// Meta lets this mode be nested inside another nesting.Mode's config and
// still get free string-literal masking (spec.md's compileNestMasksAtMode):
// a query expression's own quoted values should never be scanned for a
// parent delimiter.
func (m *Mode) Meta() (nesting.ModeMeta, bool) {
	return nesting.ModeMeta{StringQuotes: `"'`}, true
}
