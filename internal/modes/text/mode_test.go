package text

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/nestmode/internal/nesting"
	"github.com/zjrosen/nestmode/internal/streamio"
)

func tokenizeAll(t *testing.T, m *Mode, state any, text string) []string {
	t.Helper()
	line := streamio.NewLine(text)
	var styles []string
	for line.Pos() < len(line.LineText()) {
		before := line.Pos()
		style, err := m.Token(line, state)
		require.NoError(t, err)
		require.Greater(t, line.Pos(), before, "Token must make progress")
		styles = append(styles, style)
	}
	return styles
}

func TestMode_PlainTextNoConfig(t *testing.T) {
	m := New(Config{})
	state := m.StartState(0, &nesting.NestState{})
	styles := tokenizeAll(t, m, state, "just some words")
	require.Equal(t, []string{StylePlain}, styles)
}

func TestMode_QuotedString(t *testing.T) {
	m := New(Config{StringQuotes: `"`, StringEscape: '\\', HasStringEscape: true})
	state := m.StartState(0, &nesting.NestState{})
	styles := tokenizeAll(t, m, state, `a "b\"c" d`)
	require.Equal(t, []string{StylePlain, StyleString, StylePlain}, styles)
}

func TestMode_LineComment(t *testing.T) {
	m := New(Config{LineComment: []string{"//"}})
	state := m.StartState(0, &nesting.NestState{})
	styles := tokenizeAll(t, m, state, `code // trailing remark`)
	require.Equal(t, []string{StylePlain, StyleComment}, styles)
}

func TestMode_BlockCommentSingleLine(t *testing.T) {
	m := New(Config{BlockCommentStart: "/*", BlockCommentEnd: "*/"})
	state := m.StartState(0, &nesting.NestState{})
	styles := tokenizeAll(t, m, state, `a /* note */ b`)
	require.Equal(t, []string{StylePlain, StyleComment, StylePlain}, styles)
}

func TestMode_BlockCommentSpansLines(t *testing.T) {
	m := New(Config{BlockCommentStart: "/*", BlockCommentEnd: "*/"})
	state := m.StartState(0, &nesting.NestState{})

	styles := tokenizeAll(t, m, state, `a /* open`)
	require.Equal(t, []string{StylePlain, StyleComment}, styles)
	require.True(t, state.(*State).inBlockComment)

	clone := m.CopyState(state)
	styles = tokenizeAll(t, m, clone, `still inside */ b`)
	require.Equal(t, []string{StyleComment, StylePlain}, styles)
	require.False(t, clone.(*State).inBlockComment)
}

func TestMode_MetaAbsentWhenUnconfigured(t *testing.T) {
	m := New(Config{})
	_, ok := m.Meta()
	require.False(t, ok)
}

func TestMode_MetaPresentWhenConfigured(t *testing.T) {
	m := New(Config{StringQuotes: `"'`, LineComment: []string{"#"}})
	meta, ok := m.Meta()
	require.True(t, ok)
	require.Equal(t, `"'`, meta.StringQuotes)
	require.Equal(t, []string{"#"}, meta.LineComment)
}
