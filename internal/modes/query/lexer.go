package query

import (
	"unicode"
	"unicode/utf8"

	"github.com/zjrosen/nestmode/internal/nesting"
)

// lexeme is one token read off a nesting.Stream: its type, literal text and
// the byte offset it started at (needed because Token must report a style
// for exactly the span it consumed, and the caller may need the original
// position for string tokens whose literal excludes the surrounding quotes).
type lexeme struct {
	Type    TokenType
	Literal string
	Start   int
}

// nextLexeme consumes exactly one token from stream, or reports TokenEOF
// without consuming anything at end of line. Whitespace before the token is
// consumed but not reported.
func nextLexeme(stream nesting.Stream) lexeme {
	stream.EatSpace()
	start := stream.Pos()

	r, ok := stream.Next()
	if !ok {
		return lexeme{Type: TokenEOF, Start: start}
	}

	switch r {
	case '(':
		return lexeme{Type: TokenLParen, Literal: "(", Start: start}
	case ')':
		return lexeme{Type: TokenRParen, Literal: ")", Start: start}
	case ',':
		return lexeme{Type: TokenComma, Literal: ",", Start: start}
	case '=':
		return lexeme{Type: TokenEq, Literal: "=", Start: start}
	case '!':
		if stream.Eat('=') {
			return lexeme{Type: TokenNeq, Literal: "!=", Start: start}
		}
		if stream.Eat('~') {
			return lexeme{Type: TokenNotContains, Literal: "!~", Start: start}
		}
		return lexeme{Type: TokenIllegal, Literal: "!", Start: start}
	case '<':
		if stream.Eat('=') {
			return lexeme{Type: TokenLte, Literal: "<=", Start: start}
		}
		return lexeme{Type: TokenLt, Literal: "<", Start: start}
	case '>':
		if stream.Eat('=') {
			return lexeme{Type: TokenGte, Literal: ">=", Start: start}
		}
		return lexeme{Type: TokenGt, Literal: ">", Start: start}
	case '~':
		return lexeme{Type: TokenContains, Literal: "~", Start: start}
	case '"', '\'':
		return readString(stream, r, start)
	}

	if isIdentStart(r) {
		stream.EatWhile(isIdentRune)
		lit := sliceFrom(stream, start)
		return lexeme{Type: lookupKeyword(lit), Literal: lit, Start: start}
	}

	if isDigit(r) || (r == '-' && startsNumber(stream)) {
		readNumber(stream)
		lit := sliceFrom(stream, start)
		return lexeme{Type: TokenNumber, Literal: lit, Start: start}
	}

	return lexeme{Type: TokenIllegal, Literal: string(r), Start: start}
}

// readString consumes a quoted literal, reporting Literal with the quotes
// included (unlike the field-value grammar's other tokens, a string's style
// span has to cover its delimiters too, so there is no reason to strip them
// only to special-case them back in at the caller).
func readString(stream nesting.Stream, quote rune, start int) lexeme {
	for {
		r, ok := stream.Next()
		if !ok || r == quote {
			break
		}
	}
	return lexeme{Type: TokenString, Literal: sliceFrom(stream, start), Start: start}
}

func startsNumber(stream nesting.Stream) bool {
	text := stream.LineText()
	pos := stream.Pos()
	if pos >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return isDigit(r)
}

// readNumber consumes digits and an optional single-letter time-unit
// suffix (d/h/m, case-insensitive) for relative offsets like -7d or -24h.
func readNumber(stream nesting.Stream) {
	stream.Eat('-')
	stream.EatWhile(isDigit)
	text := stream.LineText()
	pos := stream.Pos()
	if pos < len(text) {
		switch text[pos] {
		case 'd', 'D', 'h', 'H', 'm', 'M':
			stream.Next()
		}
	}
}

func sliceFrom(stream nesting.Stream, start int) string {
	return stream.LineText()[start:stream.Pos()]
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
