package markdown

import (
	"regexp"
	"strings"

	"github.com/zjrosen/nestmode/internal/modes/script"
	"github.com/zjrosen/nestmode/internal/nesting"
)

const StyleFence = "markdown.fence"

// fenceOpenRe matches a fenced code block's opening line: three or more
// backticks or tildes, followed by an optional info string (whose first
// word names the language, e.g. "go" in "```go").
var fenceOpenRe = regexp.MustCompile("^(`{3,}|~{3,})[ \t]*([^`\r\n]*)$")

// fenceCloseRe matches a closing fence line. Unlike CommonMark, it does not
// require the closer to reuse the opener's exact character or be at least
// as long — a plain "```" always closes any open fence, which is simpler
// and matches every fence actually written in practice.
var fenceCloseRe = regexp.MustCompile("^[ \t]*(`{3,}|~{3,})[ \t]*$")

// FencedCodeBlockConfig returns the nesting.RawConfig that recognizes
// Markdown fenced code blocks and delegates their contents to
// internal/modes/script for the language named in the opening fence's info
// string, falling back to chroma's plaintext lexer for an empty or
// unrecognized one.
func FencedCodeBlockConfig() nesting.RawConfig {
	return nesting.RawConfig{
		Open:  nesting.Regex(fenceOpenRe),
		Close: closePattern(),
		Start: func(ctx *nesting.EditorContext, match nesting.Match) (nesting.ConfigDelta, error) {
			lang := ""
			if len(match.Groups) > 1 {
				fields := strings.Fields(match.Groups[1])
				if len(fields) > 0 {
					lang = fields[0]
				}
			}
			return nesting.ConfigDelta{Mode: script.New(lang)}, nil
		},
		DelimStyle: StyleFence,
	}
}

func closePattern() *nesting.PatternSpec {
	p := nesting.Regex(fenceCloseRe)
	return &p
}
