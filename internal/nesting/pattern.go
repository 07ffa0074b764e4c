package nesting

import "regexp"

// Match is the canonical result of running a Pattern against a line
// substring: the byte offset of the match within that substring, its byte
// length, any capture groups, and the raw matched text. A Pattern that
// found nothing returns ok == false from Find.
type Match struct {
	Index  int
	Length int
	Groups []string
	Raw    string
}

// Empty reports whether the match consumed zero characters — the
// "null-width" case spec.md calls out for close-at-start-of-line and for
// the default comparator's tie-break rule.
func (m Match) Empty() bool {
	return m.Length == 0
}

// Pattern is a compiled delimiter spec: a regular expression that Find
// searches for, unanchored, in the part of the line from a given offset on,
// returning an Index relative to that offset. Patterns are immutable once
// built.
type Pattern struct {
	re  *regexp.Regexp
	src string
}

// NewPattern compiles re as-is. re must already describe what should match
// at the front of the text handed to Find; Find does not anchor it itself
// so a caller that wants "only at position 0" must anchor with `^`.
func NewPattern(re *regexp.Regexp) Pattern {
	return Pattern{re: re, src: re.String()}
}

// NewLiteralPattern builds a Pattern that matches the literal string s by
// regex-escaping every character, mirroring how string delimiter specs
// ("<%", "-->", "#") are normalized in spec.md §4.1.
func NewLiteralPattern(s string) Pattern {
	re := regexp.MustCompile(regexp.QuoteMeta(s))
	return Pattern{re: re, src: s}
}

// closeAtSOL is the sentinel close pattern installed when a Config omits an
// explicit close: it only ever matches when Find is called with
// atStartOfLine == true, and then it matches a zero-width string at offset
// zero — "close immediately on the following line's prefix" per spec.md
// §4.1.
var closeAtSOL = Pattern{src: "<close-at-sol>"}

func isCloseAtSOL(p Pattern) bool {
	return p.re == nil && p.src == closeAtSOL.src
}

// Find runs the pattern against text starting at byte offset from. It
// reports ok == false on no match (including a regex engine panic, which
// Find recovers from and treats as "no match" per spec.md §7's "runtime
// regex failure" clause) or when p is the close-at-SOL sentinel and
// atStartOfLine is false.
func (p Pattern) Find(text string, from int, atStartOfLine bool) (m Match, ok bool) {
	if isCloseAtSOL(p) {
		if !atStartOfLine || from != 0 {
			return Match{}, false
		}
		return Match{Index: 0, Length: 0, Raw: ""}, true
	}
	if p.re == nil {
		return Match{}, false
	}
	sub := text[from:]
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	loc := p.re.FindStringSubmatchIndex(sub)
	if loc == nil {
		return Match{}, false
	}
	groups := make([]string, 0, len(loc)/2)
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, sub[loc[i]:loc[i+1]])
	}
	return Match{
		Index:  loc[0],
		Length: loc[1] - loc[0],
		Groups: groups,
		Raw:    sub[loc[0]:loc[1]],
	}, true
}

// String returns the source text the pattern was built from, for error
// messages and logging.
func (p Pattern) String() string { return p.src }
