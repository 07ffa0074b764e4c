// Package query implements a nesting.Mode for a small filter-query
// expression language: field comparisons joined by and/or/not, "in (...)"
// set membership, and a trailing "order by" clause. It is meant to be
// embedded as a sub-mode wherever a host language wants an inline query
// string highlighted (a search bar, a `@query(...)` block in a config
// file, a fenced code block tagged "query" in markdown).
package query

import "strings"

// TokenType classifies one lexical token of a query expression.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent  // field names, unquoted values
	TokenString // "quoted" or 'quoted'
	TokenNumber // integers, and relative offsets like -7d, -24h, -3m

	TokenLParen
	TokenRParen
	TokenComma

	TokenEq
	TokenNeq
	TokenLt
	TokenGt
	TokenLte
	TokenGte
	TokenContains
	TokenNotContains

	TokenAnd
	TokenOr
	TokenNot

	TokenIn

	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc

	TokenTrue
	TokenFalse
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenIdent:
		return "IDENT"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenComma:
		return ","
	case TokenEq:
		return "="
	case TokenNeq:
		return "!="
	case TokenLt:
		return "<"
	case TokenGt:
		return ">"
	case TokenLte:
		return "<="
	case TokenGte:
		return ">="
	case TokenContains:
		return "~"
	case TokenNotContains:
		return "!~"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenIn:
		return "IN"
	case TokenOrder:
		return "ORDER"
	case TokenBy:
		return "BY"
	case TokenAsc:
		return "ASC"
	case TokenDesc:
		return "DESC"
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"in":    TokenIn,
	"order": TokenOrder,
	"by":    TokenBy,
	"asc":   TokenAsc,
	"desc":  TokenDesc,
	"true":  TokenTrue,
	"false": TokenFalse,
}

// lookupKeyword returns the keyword token type for ident, or TokenIdent if
// ident is not a reserved word.
func lookupKeyword(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return TokenIdent
}

func (t TokenType) isComparisonOp() bool {
	switch t {
	case TokenEq, TokenNeq, TokenLt, TokenGt, TokenLte, TokenGte, TokenContains, TokenNotContains:
		return true
	}
	return false
}
