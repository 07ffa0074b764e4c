package nesting

// topparser.go implements spec.md §4.3's TopParser: the four step
// functions that run whenever no sub-mode is active, searching for the
// next sub-mode or suffix open and handing control to the host mode
// otherwise.

// topConfigs bundles the top-level search space a NestingMode was built
// with; it lives on the Mode value itself (immutable after New), not on
// NestState, since it never changes per-line.
type topConfigs struct {
	subConfigs []*Config
	host       Mode
	ctx        *EditorContext
	cache      MaskCache
}

// topEntryStep implements TopEntry: search subConfigs plus any pending
// suffixes for the next open; dispatch based on where (if anywhere) it
// was found.
func topEntryStep(stream Stream, state *NestState, top *topConfigs) (stepResult, error) {
	line := stream.LineText()
	cursor := stream.Pos()
	atSOL := stream.SOL()

	candidates := top.subConfigs
	if len(state.Suffixes) > 0 {
		candidates = append(append([]*Config{}, state.Suffixes...), top.subConfigs...)
	}

	match, ok := searchOpen(line, cursor, atSOL, candidates)
	state.Suffixes = nil // invariant 6: cleared on first consume-or-fail

	if !ok {
		state.Step = stepUntilEOL
		return stepResult{consumed: false}, nil
	}

	if match.AbsoluteIndex == cursor {
		rec := match
		state.nextEntry = &pendingEntry{match: rec, kind: entryKindSub}
		state.Step = stepStartSub
		return stepResult{consumed: false}, nil
	}

	rec := match
	state.pendingEnd = &rec
	beginRetraction(state, stream, rec.AbsoluteIndex)
	state.Step = stepUntilOpen
	return stepResult{consumed: false}, nil
}

// untilEOLStep implements UntilEOL: let the host mode tokenize until the
// line is exhausted, then reset to TopEntry for the next line.
func untilEOLStep(stream Stream, state *NestState, top *topConfigs) (stepResult, error) {
	before := stream.Pos()
	style, err := top.host.Token(stream, state.HostState)
	if err != nil {
		return stepResult{}, err
	}
	consumed := stream.Pos() > before
	if atEOL(stream) {
		state.Step = stepTopEntry
	}
	return stepResult{style: style, consumed: consumed}, nil
}

// preStartSubStep is folded into topEntryStep above (spec.md's PreStartSub
// is just "retract, then go tokenize the host up to the boundary"); this
// function is UntilOpen's counterpart, kept separate because it runs the
// host repeatedly across calls until the retracted region is exhausted.
func untilOpenStep(stream Stream, state *NestState, top *topConfigs) (stepResult, error) {
	before := stream.Pos()
	style, err := top.host.Token(stream, state.HostState)
	if err != nil {
		return stepResult{}, err
	}
	consumed := stream.Pos() > before
	if atEOL(stream) {
		endRetraction(state, stream)
		// The match that triggered this retraction was found back in
		// topEntryStep, possibly against a Suffixes list already cleared
		// by invariant 6 — re-searching from scratch here could miss a
		// suffix-sourced entry entirely. Carry the original match forward
		// via pendingEnd instead of rediscovering it.
		if state.pendingEnd != nil {
			rec := *state.pendingEnd
			state.pendingEnd = nil
			state.nextEntry = &pendingEntry{match: rec, kind: entryKindSub}
		}
		state.Step = stepStartSub
	}
	return stepResult{style: style, consumed: consumed}, nil
}

// startSubStep implements StartSub: resolve the matched Config (running
// its Start callback if any), then branch into either a mask activation or
// a real sub-mode activation, recording the match's original index before
// zeroing it per spec.md §4.3.
func startSubStep(stream Stream, state *NestState, top *topConfigs) (stepResult, error) {
	pending := state.nextEntry
	state.nextEntry = nil
	if pending == nil {
		state.Step = stepTopEntry
		return stepResult{consumed: false}, nil
	}
	match := pending.match
	cfg := match.Config

	effective, mode, err := cfg.resolve(top.ctx, match.Match)
	if err != nil {
		return stepResult{}, err
	}

	match.OriginalIndex = match.AbsoluteIndex
	zeroed := match.Match
	zeroed.Index = 0
	match.Match = zeroed

	if effective.Mask {
		style := enterMask(state, effective)
		advanceOrForce(stream, match.Length)
		state.Step = stepMaskUntilEOL
		fireElectric(effective, state, DelimOpen)
		return stepResult{style: style, consumed: true}, nil
	}

	indent := state.outerIndent
	if effective.IndentFn != nil {
		indent = effective.IndentFn(state.outerIndent, match.Match, state)
	}

	subState := mode.StartState(indent, state)
	frame := StackFrame{Config: effective, Mode: mode, EntryState: subState, StartMatch: match}
	state.Stack = append(state.Stack, frame)
	state.SubConfig = effective
	state.SubState = subState

	if effective.Variant == VariantStatic {
		style := effective.DelimStyleOpen
		if style == "" {
			style = effective.InnerStyle
		}
		advanceOrForce(stream, match.Length)
		fireElectric(effective, state, DelimOpen)
		state.Step = stepSubContinuation
		return stepResult{style: style, consumed: true}, nil
	}

	if match.Length == 0 {
		fireElectric(effective, state, DelimOpen)
		state.Step = stepSubContinuation
		return stepResult{consumed: false}, nil
	}

	beginDelimRetraction(state, stream, effective, match.Length, false)
	state.Step = stepDelimOpen
	return stepResult{consumed: false}, nil
}
