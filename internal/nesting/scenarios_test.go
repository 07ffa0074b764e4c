package nesting

// scenarios_test.go implements the literal round-trip scenarios the design
// document's testable-properties section spells out verbatim (S1 through
// S6): a sub-mode entering and exiting around static delimiters, a mask that
// keeps an embedded marker from ever being searched for, two NestingModes
// nested inside each other, a suffix region following a zero-width close, a
// close-at-start-of-line region spanning two lines, and the default
// comparator's two tie-break rules.

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenario_S1_SubModeEntryAndExit(t *testing.T) {
	host := newStubMode("plain")
	js := newStubMode("js")

	cfg := RawConfig{
		Open:       Literal("<%"),
		Close:      ptrSpec(Literal("%>")),
		ModeSpec:   modeSpecFor("js", js),
		DelimStyle: "delim",
	}
	mode, err := New(NewEditorContext(nil), host, nil, cfg)
	require.NoError(t, err)

	doc := tokenizeDocument(t, mode, []string{"a <% 1+2 %> b"})
	require.Len(t, doc, 1)
	line := doc[0]
	require.Equal(t, "a <% 1+2 %> b", joinText(line))

	require.Equal(t, "plain", styleAtByte(line, 0))
	require.Equal(t, "delim delim-open", styleAtByte(line, 2))
	for i := 4; i < 9; i++ {
		require.Equalf(t, "js", styleAtByte(line, i), "byte %d", i)
	}
	require.Equal(t, "delim delim-close", styleAtByte(line, 9))
	require.Equal(t, "plain", styleAtByte(line, 12))
}

func TestScenario_S2_MaskPreventsSubEntry(t *testing.T) {
	host := newStubMode("plain")
	js := newStubMode("js")

	escPattern := regexp.MustCompile(regexp.QuoteMeta(`\`) + `(?s:.)`)
	stringCfg := RawConfig{
		Open:       Literal(`"`),
		Close:      ptrSpec(Literal(`"`)),
		Mask:       true,
		InnerStyle: "string",
		Masks: []RawConfig{{
			Open:       Regex(escPattern),
			Close:      ptrSpec(Regex(regexp.MustCompile(""))),
			Mask:       true,
			InnerStyle: "string-escape",
		}},
	}
	// Declared alongside the mask, exactly the candidate an embedded "<%"
	// would need to win against to ever fire inside the string.
	embeddedCfg := RawConfig{
		Open:     Literal("<%"),
		Close:    ptrSpec(Literal("%>")),
		ModeSpec: modeSpecFor("js", js),
	}

	mode, err := New(NewEditorContext(nil), host, nil, stringCfg, embeddedCfg)
	require.NoError(t, err)

	doc := tokenizeDocument(t, mode, []string{`"a\"b"`})
	require.Len(t, doc, 1)
	line := doc[0]
	require.Equal(t, `"a\"b"`, joinText(line))

	for _, tok := range line {
		require.Containsf(t, []string{"string", "string-escape"}, tok.Style,
			"token %q styled %q, want string or string-escape", tok.Text, tok.Style)
		require.NotContains(t, tok.Style, "js")
	}
}

func TestScenario_S3_RecursiveNesting(t *testing.T) {
	innerHost := newStubMode("plain2")
	x := newStubMode("x")
	innerCfg := RawConfig{
		Open:       Literal("<<"),
		Close:      ptrSpec(Literal(">>")),
		ModeSpec:   modeSpecFor("x", x),
		DelimStyle: "innerdelim",
	}
	innerMode, err := New(NewEditorContext(nil), innerHost, nil, innerCfg)
	require.NoError(t, err)

	outerHost := newStubMode("plain")
	outerCfg := RawConfig{
		Open:       Literal("[["),
		Close:      ptrSpec(Literal("]]")),
		ModeSpec:   modeSpecFor("inner", innerMode),
		DelimStyle: "outerdelim",
	}
	outerMode, err := New(NewEditorContext(nil), outerHost, nil, outerCfg)
	require.NoError(t, err)

	doc := tokenizeDocument(t, outerMode, []string{"[[ a << b >> c ]]"})
	require.Len(t, doc, 1)
	line := doc[0]
	require.Equal(t, "[[ a << b >> c ]]", joinText(line))

	require.Equal(t, "outerdelim outerdelim-open", styleAtByte(line, 0))
	require.Equal(t, "plain2", styleAtByte(line, 2))
	require.Equal(t, "plain2", styleAtByte(line, 3))
	require.Equal(t, "innerdelim innerdelim-open", styleAtByte(line, 5))
	require.Equal(t, "x", styleAtByte(line, 8))
	require.Equal(t, "innerdelim innerdelim-close", styleAtByte(line, 10))
	require.Equal(t, "plain2", styleAtByte(line, 13))
	require.Equal(t, "outerdelim outerdelim-open", styleAtByte(line, 0))
	require.Equal(t, "outerdelim outerdelim-close", styleAtByte(line, 15))
}

func TestScenario_S4_Suffix(t *testing.T) {
	host := newStubMode("plain")
	mid := newStubMode("mid")
	z := newStubMode("z")

	fooCfg := RawConfig{
		Open:       Literal("foo"),
		Close:      ptrSpec(Regex(regexp.MustCompile(`^`))),
		ModeSpec:   modeSpecFor("mid", mid),
		DelimStyle: "foo",
		Suffixes: []RawConfig{{
			Open:       Literal("bar"),
			Close:      ptrSpec(Regex(regexp.MustCompile(`$`))),
			ModeSpec:   modeSpecFor("z", z),
			DelimStyle: "bar",
		}},
	}
	mode, err := New(NewEditorContext(nil), host, nil, fooCfg)
	require.NoError(t, err)

	doc := tokenizeDocument(t, mode, []string{"foo bar rest"})
	require.Len(t, doc, 1)
	line := doc[0]
	require.Equal(t, "foo bar rest", joinText(line))

	require.Equal(t, "foo foo-open", styleAtByte(line, 0))
	require.Equal(t, "plain", styleAtByte(line, 3))
	require.Equal(t, "bar bar-open", styleAtByte(line, 4))
	for i := 7; i < 12; i++ {
		require.Equalf(t, "z", styleAtByte(line, i), "byte %d", i)
	}
}

func TestScenario_S5_CloseAtSOL(t *testing.T) {
	host := newStubMode("plain")
	comment := newStubMode("comment")

	cfg := RawConfig{
		Open:       Literal("#"),
		ModeSpec:   modeSpecFor("comment", comment),
		DelimStyle: "hash",
	}
	mode, err := New(NewEditorContext(nil), host, nil, cfg)
	require.NoError(t, err)

	doc := tokenizeDocument(t, mode, []string{"# hello", "world"})
	require.Len(t, doc, 2)

	line1 := doc[0]
	require.Equal(t, "# hello", joinText(line1))
	require.Equal(t, "hash hash-open", styleAtByte(line1, 0))
	for i := 1; i < 7; i++ {
		require.Equalf(t, "comment", styleAtByte(line1, i), "line1 byte %d", i)
	}

	line2 := doc[1]
	require.Equal(t, "world", joinText(line2))
	for i := 0; i < 5; i++ {
		require.Equalf(t, "plain", styleAtByte(line2, i), "line2 byte %d", i)
	}
}

func TestScenario_S6_TieBreak_ZeroWidthFavorsDeclarationOrder(t *testing.T) {
	host := newStubMode("plain")
	always := Regex(regexp.MustCompile(""))

	cfgA := RawConfig{Open: always, Mask: true, InnerStyle: "A"}
	cfgB := RawConfig{Open: always, Mask: true, InnerStyle: "B"}

	mode, err := New(NewEditorContext(nil), host, nil, cfgA, cfgB)
	require.NoError(t, err)

	doc := tokenizeDocument(t, mode, []string{"x"})
	require.Len(t, doc, 1)
	require.NotEmpty(t, doc[0])
	require.Equal(t, "A", doc[0][0].Style)

	modeReordered, err := New(NewEditorContext(nil), host, nil, cfgB, cfgA)
	require.NoError(t, err)
	docReordered := tokenizeDocument(t, modeReordered, []string{"x"})
	require.Equal(t, "B", docReordered[0][0].Style)
}

func TestScenario_S6_TieBreak_DefaultComparatorPrefersLongerMatch(t *testing.T) {
	host := newStubMode("plain")

	cfgShort := RawConfig{Open: Literal("ab"), Mask: true, InnerStyle: "short"}
	cfgLong := RawConfig{Open: Literal("abc"), Mask: true, InnerStyle: "long"}

	mode, err := New(NewEditorContext(nil), host, nil, cfgShort, cfgLong)
	require.NoError(t, err)

	doc := tokenizeDocument(t, mode, []string{"abc"})
	require.Len(t, doc, 1)
	require.Len(t, doc[0], 1)
	require.Equal(t, "abc", doc[0][0].Text)
	require.Equal(t, "long", doc[0][0].Style)
}
