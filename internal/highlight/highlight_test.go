package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/nestmode/internal/modes/text"
	"github.com/zjrosen/nestmode/internal/nesting"
)

func newTextMode(t *testing.T, cfg text.Config) nesting.Mode {
	t.Helper()
	mode, err := nesting.New(nesting.NewEditorContext(nil), text.New(cfg), nil)
	require.NoError(t, err)
	return mode
}

func TestLines_PlainText(t *testing.T) {
	mode := newTextMode(t, text.Config{})
	lines, err := Lines(mode, "hello\nworld")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "hello", lines[0][0].Text)
	require.Equal(t, "world", lines[1][0].Text)
}

func TestLines_BlankLineProducesNoTokens(t *testing.T) {
	mode := newTextMode(t, text.Config{})
	lines, err := Lines(mode, "a\n\nb")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Empty(t, lines[1])
}

func TestLines_QuotedStringAcrossOneLine(t *testing.T) {
	mode := newTextMode(t, text.Config{StringQuotes: `"`})
	lines, err := Lines(mode, `x = "hi"`)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	var joined string
	var sawString bool
	for _, tok := range lines[0] {
		joined += tok.Text
		if tok.Style == text.StyleString {
			sawString = true
		}
	}
	require.Equal(t, `x = "hi"`, joined)
	require.True(t, sawString)
}

func TestLines_BlockCommentSpansLines(t *testing.T) {
	mode := newTextMode(t, text.Config{BlockCommentStart: "/*", BlockCommentEnd: "*/"})
	lines, err := Lines(mode, "/* start\nmiddle\nend */")
	require.NoError(t, err)
	require.Len(t, lines, 3)

	for _, ln := range lines {
		for _, tok := range ln {
			require.Equal(t, text.StyleComment, tok.Style)
		}
	}
}

func TestLines_EmptyDocument(t *testing.T) {
	mode := newTextMode(t, text.Config{})
	lines, err := Lines(mode, "")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Empty(t, lines[0])
}
