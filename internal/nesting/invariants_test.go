package nesting

// invariants_test.go property-tests the seven invariants the design
// document's testable-properties section lists: determinism, the
// copyState/line-independence contract, per-call progress, sub-mode stack
// balance, mask containment, suffix locality, and the comparator-driven
// priority law.

import (
	"regexp"
	"testing"

	"pgregory.net/rapid"
)

// buildFuzzMode returns a NestingMode exercising a sub-mode, a mask with a
// nested escape mask, and a suffix, all at once — enough surface for the
// property tests below to find real interactions rather than only trivial
// ones.
func buildFuzzMode(t *rapid.T) Mode {
	host := newStubMode("host")
	sub := newStubMode("sub")
	suffixMode := newStubMode("suffix")

	escPattern := regexp.MustCompile(regexp.QuoteMeta(`\`) + `(?s:.)`)
	subCfg := RawConfig{
		Open:       Literal("<<"),
		Close:      ptrSpec(Literal(">>")),
		ModeSpec:   modeSpecFor("sub", sub),
		DelimStyle: "sub",
		Suffixes: []RawConfig{{
			Open:       Literal("~"),
			Close:      ptrSpec(Literal(";")),
			ModeSpec:   modeSpecFor("suffix", suffixMode),
			DelimStyle: "suffix",
		}},
	}
	maskCfg := RawConfig{
		Open:       Literal(`"`),
		Close:      ptrSpec(Literal(`"`)),
		Mask:       true,
		InnerStyle: "string",
		Masks: []RawConfig{{
			Open:       Regex(escPattern),
			Close:      ptrSpec(Regex(regexp.MustCompile(""))),
			Mask:       true,
			InnerStyle: "escape",
		}},
	}

	mode, err := New(NewEditorContext(nil), host, nil, subCfg, maskCfg)
	if err != nil {
		t.Fatalf("building fuzz mode: %v", err)
	}
	return mode
}

func randomDoc(t *rapid.T, maxLines int) []string {
	n := rapid.IntRange(1, maxLines).Draw(t, "lineCount")
	lines := make([]string, n)
	for i := range lines {
		lines[i] = rapid.StringMatching(`[a-z <>"\\~;]{0,24}`).Draw(t, "line")
	}
	return lines
}

// TestInvariant_Determinism covers spec invariant 1: tokenizing the same
// document twice against fresh state yields identical token streams.
func TestInvariant_Determinism(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mode := buildFuzzMode(rt)
		lines := randomDoc(rt, 4)

		first := tokenizeDocumentRapid(rt, mode, lines)
		second := tokenizeDocumentRapid(rt, mode, lines)

		if len(first) != len(second) {
			rt.Fatalf("line count differs across runs: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if joinText(first[i]) != joinText(second[i]) {
				rt.Fatalf("line %d text differs across runs", i)
			}
			if len(first[i]) != len(second[i]) {
				rt.Fatalf("line %d token count differs across runs", i)
			}
			for j := range first[i] {
				if first[i][j] != second[i][j] {
					rt.Fatalf("line %d token %d differs: %+v vs %+v", i, j, first[i][j], second[i][j])
				}
			}
		}
	})
}

// TestInvariant_LineIndependence covers spec invariant 2: splitting a
// document at an arbitrary line and resuming from a CopyState-copied state
// produces the same tokens as running the whole document in one pass.
func TestInvariant_LineIndependence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mode := buildFuzzMode(rt)
		lines := randomDoc(rt, 5)
		split := rapid.IntRange(0, len(lines)).Draw(rt, "split")

		whole := tokenizeDocumentRapid(rt, mode, lines)

		state := mode.StartState(0, nil)
		var prefix [][]renderedToken
		for _, text := range lines[:split] {
			state = mode.CopyState(state)
			prefix = append(prefix, tokenizeOneLine(rt, mode, state, text))
		}
		// Deep-copy again before resuming, the way an editor would hand the
		// state back across a document-wide edit boundary.
		resumed := mode.CopyState(state)
		var suffix [][]renderedToken
		for _, text := range lines[split:] {
			resumed = mode.CopyState(resumed)
			suffix = append(suffix, tokenizeOneLine(rt, mode, resumed, text))
		}

		combined := append(append([][]renderedToken{}, prefix...), suffix...)
		if len(combined) != len(whole) {
			rt.Fatalf("split run produced %d lines, whole run produced %d", len(combined), len(whole))
		}
		for i := range whole {
			if joinText(combined[i]) != joinText(whole[i]) {
				rt.Fatalf("line %d text differs: split=%q whole=%q", i, joinText(combined[i]), joinText(whole[i]))
			}
		}
	})
}

// TestInvariant_Progress covers spec invariant 3: every Token call either
// advances the stream or the line was already exhausted.
func TestInvariant_Progress(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mode := buildFuzzMode(rt)
		lines := randomDoc(rt, 3)

		state := mode.StartState(0, nil)
		for _, text := range lines {
			state = mode.CopyState(state)
			stream := newTestStream(text)
			for i := 0; i < maxTokensPerLineTest; i++ {
				before := stream.Pos()
				wasAtEOL := before >= len(text)
				_, err := mode.Token(stream, state)
				if err != nil {
					rt.Fatalf("Token returned error: %v", err)
				}
				if !wasAtEOL && stream.Pos() <= before {
					rt.Fatalf("Token made no progress on non-exhausted line %q at pos %d", text, before)
				}
				if stream.Pos() >= len(text) {
					break
				}
			}
		}
	})
}

// TestInvariant_StackBalance covers spec invariant 4: a document built from
// balanced open/close pairs returns the sub-mode stack to its starting
// depth.
func TestInvariant_StackBalance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		host := newStubMode("host")
		sub := newStubMode("sub")
		cfg := RawConfig{
			Open:     Literal("<<"),
			Close:    ptrSpec(Literal(">>")),
			ModeSpec: modeSpecFor("sub", sub),
		}
		mode, err := New(NewEditorContext(nil), host, nil, cfg)
		if err != nil {
			rt.Fatalf("building mode: %v", err)
		}

		pairs := rapid.IntRange(0, 6).Draw(rt, "pairs")
		text := ""
		for i := 0; i < pairs; i++ {
			text += "a<<b>>c"
		}

		state := mode.StartState(0, nil)
		stream := newTestStream(text)
		for i := 0; i < maxTokensPerLineTest && stream.Pos() < len(text); i++ {
			if _, err := mode.Token(stream, state); err != nil {
				rt.Fatalf("Token returned error: %v", err)
			}
		}

		ns, ok := state.(*NestState)
		if !ok {
			rt.Fatalf("state is not *NestState")
		}
		if len(ns.Stack) != 0 {
			rt.Fatalf("stack not balanced after %q: depth %d", text, len(ns.Stack))
		}
	})
}

// TestInvariant_MaskContainment covers spec invariant 5: while any mask is
// active, no StartSub transition (a Stack push) ever fires, however many
// sub-mode-shaped markers appear inside the masked text.
func TestInvariant_MaskContainment(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mode := buildFuzzMode(rt)
		lines := randomDoc(rt, 3)

		state := mode.StartState(0, nil)
		for _, text := range lines {
			state = mode.CopyState(state)
			stream := newTestStream(text)
			for i := 0; i < maxTokensPerLineTest; i++ {
				ns := state.(*NestState)
				maskedBefore := len(ns.Masks) > 0
				stackBefore := len(ns.Stack)

				before := stream.Pos()
				if _, err := mode.Token(stream, state); err != nil {
					rt.Fatalf("Token returned error: %v", err)
				}

				if maskedBefore && len(ns.Stack) > stackBefore {
					rt.Fatalf("sub-mode stack grew from %d to %d while a mask was active on %q",
						stackBefore, len(ns.Stack), text)
				}
				if stream.Pos() >= len(text) || stream.Pos() == before {
					break
				}
			}
		}
	})
}

// TestInvariant_SuffixLocality covers spec invariant 6: Suffixes installed
// by a close at the end of a line carry over into the next line, and the
// first Token call on the next non-blank line clears them (consumed into an
// entry, or dropped by its open search).
func TestInvariant_SuffixLocality(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mode := buildFuzzMode(rt)
		lines := randomDoc(rt, 4)

		state := mode.StartState(0, nil)
		for _, text := range lines {
			state = mode.CopyState(state)
			ns := state.(*NestState)
			carried := text != "" && ns.Suffixes != nil
			stream := newTestStream(text)
			for i := 0; i < maxTokensPerLineTest; i++ {
				before := stream.Pos()
				if _, err := mode.Token(stream, state); err != nil {
					rt.Fatalf("Token returned error: %v", err)
				}
				if i == 0 && carried && ns.Suffixes != nil {
					rt.Fatalf("Suffixes carried into line %q survived its first Token call", text)
				}
				if stream.Pos() >= len(text) || stream.Pos() == before {
					break
				}
			}
		}
	})
}

// TestInvariant_PriorityLaw covers spec invariant 7: searchOpen's winner
// always matches what the default comparator's documented rules (null-width
// beats consuming at the same offset; otherwise longer wins; otherwise
// leftmost wins) would pick by hand over the same candidate set.
func TestInvariant_PriorityLaw(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 5).Draw(rt, "numConfigs")
		line := rapid.StringMatching(`[a-z]{3,12}`).Draw(rt, "line")

		type candidate struct {
			cfg *Config
			lit string
		}
		var cands []candidate
		for i := 0; i < n; i++ {
			lit := rapid.StringMatching(`[a-z]{1,3}`).Draw(rt, "lit")
			cfg, err := Compile(RawConfig{Open: Literal(lit), Mask: true}, 0, nil)
			if err != nil {
				rt.Fatalf("compiling candidate: %v", err)
			}
			cands = append(cands, candidate{cfg: cfg, lit: lit})
		}

		configs := make([]*Config, len(cands))
		for i, c := range cands {
			configs[i] = c.cfg
		}

		got, ok := searchOpen(line, 0, true, configs)

		// Reference: apply the exact asymmetric fold searchOpen documents,
		// independently of the production code path under test.
		var want *MatchRecord
		for _, cfg := range configs {
			m, found := cfg.Open.Find(line, 0, true)
			if !found {
				continue
			}
			rec := MatchRecord{Match: m, Config: cfg, AbsoluteIndex: m.Index}
			if want == nil {
				want = &rec
				continue
			}
			if !want.Config.Comp(want.Match, rec.Match) {
				want = &rec
			}
		}

		if ok != (want != nil) {
			rt.Fatalf("searchOpen found=%v, reference found=%v", ok, want != nil)
		}
		if want == nil {
			return
		}
		sameMatch := got.Match.Index == want.Match.Index &&
			got.Match.Length == want.Match.Length &&
			got.Match.Raw == want.Match.Raw
		if got.Config != want.Config || !sameMatch {
			rt.Fatalf("searchOpen picked open %q (len %d) at %d, reference picked open %q (len %d) at %d",
				got.Config.Open.String(), got.Length, got.AbsoluteIndex,
				want.Config.Open.String(), want.Length, want.AbsoluteIndex)
		}
	})
}

// tokenizeDocumentRapid is tokenizeDocument's rapid-friendly twin: it fails
// the property via rt.Fatalf instead of require, since require needs a
// *testing.T and rapid's T only satisfies a subset of that interface.
func tokenizeDocumentRapid(rt *rapid.T, mode Mode, lines []string) [][]renderedToken {
	state := mode.StartState(0, nil)
	result := make([][]renderedToken, 0, len(lines))
	for _, text := range lines {
		state = mode.CopyState(state)
		result = append(result, tokenizeOneLine(rt, mode, state, text))
	}
	return result
}

func tokenizeOneLine(rt *rapid.T, mode Mode, state any, text string) []renderedToken {
	if text == "" {
		if liner, ok := mode.(BlankLiner); ok {
			liner.BlankLine(state)
		}
	}
	stream := newTestStream(text)
	var toks []renderedToken
	for i := 0; i < maxTokensPerLineTest; i++ {
		before := stream.Pos()
		style, err := mode.Token(stream, state)
		if err != nil {
			rt.Fatalf("Token returned error: %v", err)
		}
		if stream.Pos() > before {
			toks = append(toks, renderedToken{Text: text[before:stream.Pos()], Style: style})
		}
		if stream.Pos() >= len(text) || stream.Pos() == before {
			break
		}
	}
	return toks
}
