package nesting

// Mask regions (spec.md §4.5, glossary "Mask") are a pure delimiter-search
// suppressor, not a second tokenizer: everything inside one is painted
// with the frame's own Config.InnerStyle (falling back to its
// DelimStyleOpen/Close for the delimiter characters themselves when set).
// No Mode is ever instantiated for mask content — Config.mode is declared
// optional specifically for masks (spec.md §3), and the glossary defines a
// mask purely in terms of delimiter-search suppression. This is the one
// deliberate simplification from the source's "install the host mode as
// the fake sub-mode": instead of manufacturing a throwaway host-shaped
// state purely to re-derive a style per character, content style is read
// directly off the Config that owns the region. See DESIGN.md.
//
// A mask stack can nest (e.g. an escape sequence mask inside a string
// mask); every frame in one contiguous stack shares the same "governing"
// context — host-level (state.SubConfig == nil when the outermost frame
// was pushed) or sub-mode-level — fixed once when the first frame goes on
// and read back by maskStep when the last one comes off.

// enterMask pushes cfg onto state.Masks, fixing the governing context on
// the first push, and reports the style for the delimiter text about to
// be consumed by the caller.
func enterMask(state *NestState, cfg *Config) string {
	if len(state.Masks) == 0 {
		state.maskGoverningHost = state.SubConfig == nil
	}
	state.Masks = append(state.Masks, maskFrame{Config: cfg})
	if cfg.DelimStyle != "" {
		return cfg.DelimStyleOpen
	}
	return cfg.InnerStyle
}

func topMask(state *NestState) *maskFrame {
	if len(state.Masks) == 0 {
		return nil
	}
	return &state.Masks[len(state.Masks)-1]
}

// maskStep drives stepMaskUntilEOL/stepMaskAtSOL: find the winner between
// the active mask's own close and any nested mask open, emit plain content
// up to it when the winner isn't at the cursor yet, or act on it directly
// when it is.
func maskStep(stream Stream, state *NestState) (stepResult, error) {
	frame := topMask(state)
	if frame == nil {
		// Nothing to do; defensive fallback to top-level dispatch.
		state.Step = stepTopEntry
		return stepResult{consumed: false}, nil
	}
	line := stream.LineText()
	cursor := stream.Pos()
	atSOL := stream.SOL()

	closeRec, closeOK := searchClose(line, cursor, atSOL, frame.Config)
	nestedRec, nestedOK := searchOpen(line, cursor, atSOL, frame.Config.Masks)

	useNested := nestedOK && (!closeOK || higherPriority(nestedRec, closeRec))

	var winner MatchRecord
	switch {
	case useNested:
		winner = nestedRec
	case closeOK:
		winner = closeRec
	default:
		// No close or nested open on the remainder of this line: paint
		// the rest as mask content and resume at start of next line.
		advanceBy(stream, len(line)-cursor)
		state.Step = stepMaskAtSOL
		return stepResult{style: frame.Config.InnerStyle, consumed: true}, nil
	}

	if winner.AbsoluteIndex > cursor {
		advanceBy(stream, winner.AbsoluteIndex-cursor)
		return stepResult{style: frame.Config.InnerStyle, consumed: true}, nil
	}

	if useNested {
		consumeLen := winner.Length
		if consumeLen == 0 {
			consumeAtLeastOne(stream)
		} else {
			advanceBy(stream, consumeLen)
		}
		style := enterMask(state, winner.Config)
		return stepResult{style: style, consumed: true}, nil
	}

	// winner is this frame's own close.
	consumeLen := winner.Length
	closeStyle := frame.Config.InnerStyle
	if frame.Config.DelimStyle != "" {
		closeStyle = frame.Config.DelimStyleClose
	}
	if consumeLen > 0 {
		advanceBy(stream, consumeLen)
	}
	state.Masks = state.Masks[:len(state.Masks)-1]

	if len(state.Masks) > 0 {
		if consumeLen == 0 {
			// Zero-width close (the synthesized escape-mask sentinel):
			// nothing was consumed, so popping must not itself end this
			// token() call — keep unwinding synchronously.
			return stepResult{consumed: false}, nil
		}
		return stepResult{style: closeStyle, consumed: true}, nil
	}

	// Mask stack fully unwound.
	next := stepTopEntry
	if !state.maskGoverningHost {
		next = stepSubContinuation
	}
	if consumeLen == 0 {
		state.Step = next
		return stepResult{consumed: false}, nil
	}
	state.Step = next
	return stepResult{style: closeStyle, consumed: true}, nil
}

// maskAtSOLStep replays checkEnd from the start of a new line (spec.md
// §4.5's MaskAtSOL).
func maskAtSOLStep(stream Stream, state *NestState) (stepResult, error) {
	state.Step = stepMaskUntilEOL
	return stepResult{consumed: false}, nil
}
