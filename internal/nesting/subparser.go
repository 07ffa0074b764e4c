package nesting

// subparser.go implements spec.md §4.4's four delimiter-styling variants as
// one state machine. All four share the same continuation logic for
// deciding when the active sub-mode's region ends or nests a mask; they
// differ only in how open/close delimiter *text* becomes a token, which is
// isolated in delimStyleFor/consumeDelimSpan below (the "small DelimHandler
// capability" spec.md §9 asks for, expressed here as a couple of
// variant-switched helper functions rather than a class hierarchy).

func topFrame(state *NestState) *StackFrame {
	if len(state.Stack) == 0 {
		return nil
	}
	return &state.Stack[len(state.Stack)-1]
}

// delegateOnce forwards exactly one Token call to the active sub-mode,
// reporting whether it advanced the stream.
func delegateOnce(stream Stream, subMode Mode, subState any) (style string, consumed bool, err error) {
	before := stream.Pos()
	style, err = subMode.Token(stream, subState)
	if err != nil {
		return "", false, err
	}
	return style, stream.Pos() > before, nil
}

// continuationStep implements spec.md §4.4's shared FSM, invoked whenever
// the parser is about to resume inside the active sub (stepSubContinuation).
func continuationStep(stream Stream, state *NestState) (stepResult, error) {
	frame := topFrame(state)
	if frame == nil {
		state.Step = stepTopEntry
		return stepResult{consumed: false}, nil
	}
	cfg := state.SubConfig

	// Step 1: the sub is itself a NestingMode still busy with a deeper
	// sub of its own — keep delegating until that settles.
	if inner, ok := state.SubState.(*NestState); ok && inner.SubConfig != nil {
		style, consumed, err := delegateOnce(stream, frame.Mode, state.SubState)
		if err != nil {
			return stepResult{}, err
		}
		if atEOL(stream) {
			state.Step = stepSubAtSOL
		}
		return stepResult{style: style, consumed: consumed}, nil
	}

	line := stream.LineText()
	cursor := stream.Pos()
	atSOL := stream.SOL()

	masks := cfg.effectiveMasks(frame.Mode)
	maskRec, maskOK := searchOpen(line, cursor, atSOL, masks)
	closeRec, closeOK := searchClose(line, cursor, atSOL, cfg)

	if !maskOK && !closeOK {
		// Steps 2/5 collapsed: nothing of ours to react to on this line;
		// let the sub mode run (and, if it is itself a NestingMode, it
		// will discover and enter its own nested regions internally).
		style, consumed, err := delegateOnce(stream, frame.Mode, state.SubState)
		if err != nil {
			return stepResult{}, err
		}
		if atEOL(stream) {
			state.Step = stepSubAtSOL
		}
		return stepResult{style: style, consumed: consumed}, nil
	}

	useMask := maskOK && (!closeOK || higherPriority(maskRec, closeRec))
	winner := closeRec
	if useMask {
		winner = maskRec
	}

	if winner.AbsoluteIndex == cursor {
		if useMask {
			style := enterMask(state, winner.Config)
			advanceOrForce(stream, winner.Length)
			state.Step = stepMaskUntilEOL
			return stepResult{style: style, consumed: true}, nil
		}
		if winner.Length == 0 {
			fireElectric(cfg, state, DelimClose)
			return finishSub(state)
		}
		if cfg.Variant == VariantStatic {
			style := consumeStaticDelim(stream, cfg, winner.Length, true)
			fireElectric(cfg, state, DelimClose)
			res, err := finishSub(state)
			if err != nil {
				return res, err
			}
			return stepResult{style: style, consumed: true}, nil
		}
		beginDelimRetraction(state, stream, cfg, winner.Length, true)
		state.afterBoundary = pendingActionFinishAfterDelim
		state.Step = stepDelimClose
		return stepResult{consumed: false}, nil
	}

	// Winner sits ahead of the cursor: delegate content up to it, bounded
	// by a retraction so the sub mode cannot read past our boundary.
	beginRetraction(state, stream, winner.AbsoluteIndex)
	rec := winner
	state.pendingEnd = &rec
	switch {
	case useMask:
		state.afterBoundary = pendingActionEnterMask
	case winner.Length == 0:
		state.afterBoundary = pendingActionFinishNoDelim
	default:
		state.afterBoundary = pendingActionConsumeCloseDelim
	}
	state.Step = stepUntilSubInnerClose
	return stepResult{consumed: false}, nil
}

// untilSubInnerCloseStep delegates to the active sub mode within a
// boundary-limited retraction, then acts on state.afterBoundary once the
// retraction is exhausted.
func untilSubInnerCloseStep(stream Stream, state *NestState) (stepResult, error) {
	frame := topFrame(state)
	if frame == nil {
		state.Step = stepTopEntry
		return stepResult{consumed: false}, nil
	}
	style, consumed, err := delegateOnce(stream, frame.Mode, state.SubState)
	if err != nil {
		return stepResult{}, err
	}
	if !atEOL(stream) {
		return stepResult{style: style, consumed: consumed}, nil
	}

	if !state.hasOriginalLine {
		state.Step = stepSubAtSOL
		return stepResult{style: style, consumed: consumed}, nil
	}

	endRetraction(state, stream)
	rec := state.pendingEnd
	action := state.afterBoundary
	state.afterBoundary = pendingActionNone

	switch action {
	case pendingActionEnterMask:
		if consumed {
			state.nextEntry = &pendingEntry{match: *rec, kind: entryKindMask}
			state.Step = stepMaskEntry
		}
	case pendingActionFinishNoDelim:
		state.Step = stepFinalizeToNull
	case pendingActionConsumeCloseDelim:
		state.Step = stepFinalizeToDelim
	}
	return stepResult{style: style, consumed: consumed}, nil
}

// finalizeToNullStep runs FinalizeToNullDelim: the boundary has been
// reached and the close itself is zero-width, so the region ends with no
// extra delimiter token.
func finalizeToNullStep(state *NestState) (stepResult, error) {
	return finishSub(state)
}

// finalizeToDelimStep runs FinalizeToDelim: the boundary has been reached
// and a non-empty close delimiter remains to be consumed.
func finalizeToDelimStep(stream Stream, state *NestState) (stepResult, error) {
	cfg := state.SubConfig
	rec := state.pendingEnd
	if cfg.Variant == VariantStatic {
		style := consumeStaticDelim(stream, cfg, rec.Length, true)
		fireElectric(cfg, state, DelimClose)
		res, err := finishSub(state)
		if err != nil {
			return res, err
		}
		return stepResult{style: style, consumed: true}, nil
	}
	beginDelimRetraction(state, stream, cfg, rec.Length, true)
	state.afterBoundary = pendingActionFinishAfterDelim
	state.Step = stepDelimClose
	return stepResult{consumed: false}, nil
}

// consumeStaticDelim consumes length bytes directly and returns the
// precomputed delimiter style, the Static variant's whole behavior: no
// sub-mode delegation, single shot (spec.md §4.4's simplest case).
func consumeStaticDelim(stream Stream, cfg *Config, length int, closing bool) string {
	style := cfg.DelimStyleOpen
	if closing {
		style = cfg.DelimStyleClose
	}
	if style == "" {
		style = cfg.InnerStyle
	}
	advanceOrForce(stream, length)
	return style
}

// maskEntryDispatchStep consumes a pending mask-open match recorded by
// continuationStep/untilSubInnerCloseStep and installs the mask frame.
func maskEntryDispatchStep(stream Stream, state *NestState) (stepResult, error) {
	pending := state.nextEntry
	state.nextEntry = nil
	if pending == nil {
		state.Step = stepSubContinuation
		return stepResult{consumed: false}, nil
	}
	style := enterMask(state, pending.match.Config)
	advanceOrForce(stream, pending.match.Length)
	state.Step = stepMaskUntilEOL
	return stepResult{style: style, consumed: true}, nil
}

// beginDelimRetraction sets up the scratch needed to stream a delimiter
// span (open or close) through the variant-appropriate mode: Static never
// calls this (it consumes the span directly); Separate/Include reuse the
// active sub mode and state; Tokenize-with builds a fresh helper mode.
func beginDelimRetraction(state *NestState, stream Stream, cfg *Config, length int, closing bool) {
	cursor := stream.Pos()
	beginRetraction(state, stream, cursor+length)
	state.delimClosing = closing
	if closing {
		state.delimStylePrefix = cfg.DelimStyleClose
	} else {
		state.delimStylePrefix = cfg.DelimStyleOpen
	}
	if cfg.Variant == VariantTokenizeWith {
		mode, err := cfg.DelimMode.resolve(state.ctx)
		if err == nil {
			state.delimScratchMode = mode
			state.delimScratchState = mode.StartState(0, state)
		}
	}
}

// delimSpanStep drives stepDelimOpen/stepDelimClose: stream the retracted
// delimiter span through the right mode/state pair for cfg's variant,
// combining styles per variant, until the retraction is exhausted.
func delimSpanStep(stream Stream, state *NestState) (stepResult, error) {
	cfg := state.SubConfig
	frame := topFrame(state)

	var mode Mode
	var modeState any
	switch cfg.Variant {
	case VariantInclude, VariantSeparate:
		mode = frame.Mode
		modeState = state.SubState
	case VariantTokenizeWith:
		mode = state.delimScratchMode
		modeState = state.delimScratchState
	}

	var style string
	consumed := false
	if mode != nil {
		var err error
		style, consumed, err = delegateOnce(stream, mode, modeState)
		if err != nil {
			return stepResult{}, err
		}
	} else {
		advanceOrForce(stream, len(stream.LineText())-stream.Pos())
		consumed = true
	}

	switch cfg.Variant {
	case VariantSeparate, VariantTokenizeWith:
		style = joinStyle(state.delimStylePrefix, style)
	case VariantInclude:
		// No prefix: delimiter text reads as ordinary sub content.
	}

	if atEOL(stream) {
		endRetraction(state, stream)
		state.delimScratchMode = nil
		state.delimScratchState = nil
		if state.delimClosing {
			if state.afterBoundary == pendingActionFinishAfterDelim {
				state.afterBoundary = pendingActionNone
				res, err := finishSub(state)
				if err != nil {
					return res, err
				}
				// Emit the close delimiter's own style this call; the
				// pop already updated state, so the next call starts
				// clean at the parent's context.
				return stepResult{style: style, consumed: consumed || res.consumed}, nil
			}
		} else {
			fireElectric(cfg, state, DelimOpen)
			state.Step = stepSubContinuation
		}
	}
	return stepResult{style: style, consumed: consumed}, nil
}

// joinStyle combines a delimiter-style prefix with whatever style a
// delegate mode produced for the same span, mirroring the source's CSS
// "base modifier" class composition.
func joinStyle(prefix, style string) string {
	if prefix == "" {
		return style
	}
	if style == "" {
		return prefix
	}
	return prefix + " " + style
}

// advanceOrForce advances the stream by n bytes, or by one rune if n is
// zero, guaranteeing forward progress per spec.md §7.
func advanceOrForce(stream Stream, n int) {
	if n <= 0 {
		consumeAtLeastOne(stream)
		return
	}
	advanceBy(stream, n)
}

// finishSub pops the active sub-mode frame, installs its suffixes (if any)
// for priority consideration on the next open-search, and returns control
// to the top-level parser.
func finishSub(state *NestState) (stepResult, error) {
	cfg := state.SubConfig
	if len(state.Stack) > 0 {
		state.Stack = state.Stack[:len(state.Stack)-1]
	}
	state.SubConfig = nil
	state.SubState = nil
	if len(cfg.Suffixes) > 0 {
		state.Suffixes = cfg.Suffixes
	}
	state.Step = stepTopEntry
	return stepResult{consumed: false}, nil
}

// subAtSOLStep resumes an active sub-mode at the start of a new line
// (spec.md's SubAtSOL): replay continuation from position 0.
func subAtSOLStep(state *NestState) (stepResult, error) {
	state.Step = stepSubContinuation
	return stepResult{consumed: false}, nil
}
