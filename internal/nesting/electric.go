package nesting

// DelimKind distinguishes which side of a region's delimiter pair an
// electric hook fired for (spec.md §4.6).
type DelimKind int

const (
	DelimOpen DelimKind = iota
	DelimClose
)

// ElectricSpec is the value an ElectricDelimiters hook registers on
// NestState.Electric immediately after the parser consumes a delimiter
// token. The next Indent call consults Test before applying Indent, and
// clears the request either way — an ElectricSpec is consumed at most
// once.
type ElectricSpec struct {
	// Test reports whether line (the text of the line about to be
	// indented) should receive this spec's indent instead of the mode's
	// own. Spec.md's default behavior ("re-indent any line that begins,
	// after whitespace, with the close delimiter") is Default below.
	Test func(line string) bool
	// Indent computes the replacement indent. Returning PassIndent
	// defers back to whichever indent would have run had no electric
	// spec fired.
	Indent func(outerIndent int) int
}

// ElectricDelimiters is the optional per-Config hook of spec.md §4.6:
// called immediately after the parser consumes an open or close delimiter
// token, it may return an ElectricSpec to register for the next Indent
// call, or the zero value (ok == false) to register nothing.
type ElectricDelimiters func(state *NestState, kind DelimKind) (spec ElectricSpec, ok bool)

// DefaultElectric builds the spec.md §4.6 default: re-indent a line that
// begins, after leading whitespace, with closeText using the host mode's
// own indent (i.e. Indent always returns PassIndent, letting the normal
// host-indent path run but gating it on Test rather than on "is this
// class of line electric at all").
func DefaultElectric(closeText string) ElectricDelimiters {
	return func(_ *NestState, kind DelimKind) (ElectricSpec, bool) {
		if kind != DelimClose || closeText == "" {
			return ElectricSpec{}, false
		}
		return ElectricSpec{
			Test: func(line string) bool {
				trimmed := trimLeadingSpace(line)
				return hasPrefixRunes(trimmed, closeText)
			},
			Indent: func(outerIndent int) int { return PassIndent },
		}, true
	}
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

func hasPrefixRunes(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}

// fireElectric invokes cfg's ElectricDelimiters hook (if any) for the given
// kind and, if it returns ok, installs the result on root — the NestState
// of the NestingMode layer that consumed the delimiter, per spec.md §9's
// resolved Open Question (an explicit request/response through NestState
// rather than an implicit parent pointer). An outer layer's Indent reaches
// a nested layer's request through indentVia.
func fireElectric(cfg *Config, root *NestState, kind DelimKind) {
	if cfg.Electric == nil {
		return
	}
	spec, ok := cfg.Electric(root, kind)
	if !ok {
		return
	}
	root.Electric = &ElectricRequest{Spec: spec, Kind: kind}
}
