// Package highlight drives a nesting.Mode across a whole document: the
// line-splitting, StartState/CopyState bookkeeping, and blank-line handling
// that both the "highlight" and "view" CLI commands need identically. Only
// this package (and the modes it drives) knows about a document as a whole;
// internal/nesting itself only ever sees one line at a time.
package highlight

import (
	"strings"

	"github.com/zjrosen/nestmode/internal/nesting"
	"github.com/zjrosen/nestmode/internal/streamio"
)

// Token is one styled run of text within a line.
type Token struct {
	Text  string
	Style string
}

// maxTokensPerLine bounds how many Token calls one line will accept before
// this driver gives up on it, a defensive backstop independent of
// nesting.NestingMode's own internal maxStepsPerToken guard.
const maxTokensPerLine = 100000

// Lines tokenizes every line of content against mode, in order, threading
// one NestState through the whole document the way an editor's line-by-line
// render loop would: StartState once at the top, CopyState before each
// line, Token repeatedly within a line, and BlankLine before the Token call
// on a genuinely empty line.
func Lines(mode nesting.Mode, content string) ([][]Token, error) {
	rawLines := strings.Split(content, "\n")

	state := mode.StartState(0, nil)
	result := make([][]Token, 0, len(rawLines))

	for _, text := range rawLines {
		state = mode.CopyState(state)
		tokens, err := tokenizeLine(mode, state, text)
		if err != nil {
			return nil, err
		}
		result = append(result, tokens)
	}
	return result, nil
}

func tokenizeLine(mode nesting.Mode, state any, text string) ([]Token, error) {
	if text == "" {
		if liner, ok := mode.(nesting.BlankLiner); ok {
			liner.BlankLine(state)
		}
	}

	line := streamio.NewLine(text)
	var tokens []Token

	for i := 0; i < maxTokensPerLine; i++ {
		before := line.Pos()
		style, err := mode.Token(line, state)
		if err != nil {
			return nil, err
		}

		if line.Pos() > before {
			tokens = append(tokens, Token{Text: text[before:line.Pos()], Style: style})
		}

		if line.Pos() >= len(text) {
			return tokens, nil
		}
		if line.Pos() == before {
			// Token reported no error but made no progress; stop rather
			// than spin, matching the same guarantee mode packages'
			// contract tests already assert on each mode individually.
			return tokens, nil
		}
	}
	return tokens, nil
}
