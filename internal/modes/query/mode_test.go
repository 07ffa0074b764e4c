package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/nestmode/internal/nesting"
	"github.com/zjrosen/nestmode/internal/streamio"
)

func tokenizeAll(t *testing.T, text string) []string {
	t.Helper()

	m := New()
	state := m.StartState(0, &nesting.NestState{})
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

func TestMode_FieldOperatorValue(t *testing.T) {
	styles := tokenizeAll(t, `priority = "high"`)
	require.Equal(t, []string{StyleField, StyleOperator, StyleString}, styles)
}

func TestMode_IdentifierAfterOperatorIsUnstyled(t *testing.T) {
	styles := tokenizeAll(t, `status = open`)
	require.Equal(t, []string{StyleField, StyleOperator, ""}, styles)
}

func TestMode_InValueList(t *testing.T) {
	styles := tokenizeAll(t, `status in (open, closed)`)
	require.Equal(t, []string{
		StyleField, StyleKeyword, StyleParen, "", StyleComma, "", StyleParen,
	}, styles)
}

func TestMode_LogicalOperatorsResetValueContext(t *testing.T) {
	styles := tokenizeAll(t, `status = open and priority = high`)
	require.Equal(t, []string{
		StyleField, StyleOperator, "",
		StyleKeyword,
		StyleField, StyleOperator, "",
	}, styles)
}

func TestMode_OrderByClause(t *testing.T) {
	styles := tokenizeAll(t, `order by priority desc`)
	require.Equal(t, []string{StyleKeyword, StyleKeyword, StyleField, StyleKeyword}, styles)
}

func TestMode_NumbersAndBooleans(t *testing.T) {
	styles := tokenizeAll(t, `age > 30 and archived = false`)
	require.Equal(t, []string{
		StyleField, StyleOperator, StyleLiteral,
		StyleKeyword,
		StyleField, StyleOperator, StyleLiteral,
	}, styles)
}

func TestMode_RelativeTimeOffset(t *testing.T) {
	styles := tokenizeAll(t, `updated > -7d`)
	require.Equal(t, []string{StyleField, StyleOperator, StyleLiteral}, styles)
}

func TestMode_UnterminatedStringStillMakesProgress(t *testing.T) {
	styles := tokenizeAll(t, `title ~ "unterminated`)
	require.Equal(t, []string{StyleField, StyleOperator, StyleString}, styles)
}

func TestMode_StateCopyIsIndependent(t *testing.T) {
	m := New()
	state := m.StartState(0, &nesting.NestState{})
	line := streamio.NewLine(`status =`)

	_, err := m.Token(line, state)
	require.NoError(t, err)
	_, err = m.Token(line, state)
	require.NoError(t, err)

	clone := m.CopyState(state).(*State)
	clone.afterOperator = false
	require.NotEqual(t, clone.afterOperator, state.(*State).afterOperator)
}

func TestMode_Meta(t *testing.T) {
	m := New()
	meta, ok := m.Meta()
	require.True(t, ok)
	require.Equal(t, `"'`, meta.StringQuotes)
}
