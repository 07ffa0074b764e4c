package nesting

// stepResult is what every step handler (topparser.go, subparser.go,
// mask.go) returns: a style to emit when consumed is true, or consumed ==
// false to signal "no characters were consumed, re-dispatch immediately" —
// the zero-cost bookkeeping transitions spec.md's step functions chain
// internally before a call to token finally returns.
type stepResult struct {
	style    string
	consumed bool
}

// atEOL reports whether stream's cursor has reached the end of its
// currently visible line text (which may itself be a retracted prefix of
// the true line).
func atEOL(stream Stream) bool {
	return stream.Pos() >= len(stream.LineText())
}

// beginRetraction implements spec.md's "PreStartSub: save originalLine,
// retract the stream's visible end to pos + match.index" (and the
// equivalent retractions subparser.go/mask.go perform before finalizing a
// delimiter): it captures the true line once into state.OriginalLine
// (invariant 3) and shortens the stream's visible text to cutAt bytes.
// Calling beginRetraction while already retracted is a bug in the caller;
// it always re-captures LineText() as the new "true" line, which would
// silently discard the real original — every step function must pair
// exactly one beginRetraction with one endRetraction per activation.
func beginRetraction(state *NestState, stream Stream, cutAt int) {
	line := stream.LineText()
	state.OriginalLine = line
	state.hasOriginalLine = true
	if cutAt < 0 {
		cutAt = 0
	}
	if cutAt > len(line) {
		cutAt = len(line)
	}
	stream.SetLineText(line[:cutAt])
}

// endRetraction restores the stream's true line text, clearing
// OriginalLine (invariant 3). It is idempotent: calling it when no
// retraction is active is a no-op.
func endRetraction(state *NestState, stream Stream) {
	if !state.hasOriginalLine {
		return
	}
	stream.SetLineText(state.OriginalLine)
	state.OriginalLine = ""
	state.hasOriginalLine = false
}

// advanceBy moves stream's cursor forward n bytes of its LineText,
// clamping at the line length, for consuming a Match whose Length is known
// but whose text we don't need back rune-by-rune.
func advanceBy(stream Stream, n int) {
	target := stream.Pos() + n
	if max := len(stream.LineText()); target > max {
		target = max
	}
	stream.SetPos(target)
}

// consumeAtLeastOne guarantees the forward-progress contract of spec.md
// §7's "Pattern misuse" clause: a delimiter match that somehow consumed
// zero characters still advances the cursor by one rune so token() cannot
// be called forever without the stream moving.
func consumeAtLeastOne(stream Stream) {
	if !atEOL(stream) {
		stream.Next()
	}
}
