package nesting

// modefacade.go provides the exported NestingMode type and its Mode
// methods (spec.md §4.7): the dispatch loop that turns Token's per-line,
// per-step-function architecture (topparser.go/subparser.go/mask.go) into
// a single Mode implementation, plus StartState/CopyState/Indent/
// BlankLine/InnerMode and the New constructor.

// maxStepsPerToken bounds the number of zero-width internal transitions
// Token will chase before giving up and returning control, a defensive
// guard against a bug turning "consumed: false" into an infinite loop. It
// is not a timeout or cancellation mechanism.
const maxStepsPerToken = 1000

// NestingMode is the composite Mode spec.md describes: a host mode plus an
// ordered set of sub-mode Configs, switching transparently between them.
type NestingMode struct {
	top *topConfigs
}

// New compiles subConfigs against clv 0 and returns a Mode that dispatches
// between hostMode and the compiled sub-modes per spec.md §4. cache may be
// nil, in which case mask synthesis (compileMetaMasks) recompiles on every
// call; pass a MaskCache-backed cache (internal/cache wraps
// patrickmn/go-cache) to amortize that across lines sharing a ModeMeta.
func New(ctx *EditorContext, hostMode Mode, cache MaskCache, rawConfigs ...RawConfig) (Mode, error) {
	if hostMode == nil {
		return nil, newConfigError("new", "a nesting mode requires a non-nil host mode")
	}
	if cache == nil {
		cache = noopCache{}
	}
	configs := make([]*Config, 0, len(rawConfigs))
	for i, raw := range rawConfigs {
		cfg, err := Compile(raw, 0, cache)
		if err != nil {
			return nil, newConfigError("new", "sub-config %d: %v", i, err)
		}
		configs = append(configs, cfg)
	}
	return &NestingMode{top: &topConfigs{
		subConfigs: configs,
		host:       hostMode,
		ctx:        ctx,
		cache:      cache,
	}}, nil
}

// StartState creates the root NestState for a fresh buffer (or, when this
// NestingMode is itself installed as a sub-mode's ModeSpec target, the
// NestState for that nested activation — nestState is the enclosing
// activation's state, carried through purely so EditorContext propagates
// without a parent pointer per spec.md §9).
func (m *NestingMode) StartState(indent int, nestState *NestState) any {
	ctx := m.top.ctx
	if ctx == nil && nestState != nil {
		ctx = nestState.ctx
	}
	state := &NestState{
		HostState:   m.top.host.StartState(indent, nestState),
		Step:        stepTopEntry,
		ctx:         ctx,
		outerIndent: indent,
	}
	if nestState != nil {
		state.NestLevel = nestState.NestLevel + 1
	}
	return state
}

// CopyState deep-clones state: HostState/SubState via their owning mode's
// own CopyState, the mask and sub-mode stacks by re-slicing (their
// elements are value types or already-immutable *Config pointers), and
// every other field by value. This is the cacheability contract spec.md's
// package doc promises — the result must share no mutable state with its
// source.
func (m *NestingMode) CopyState(s any) any {
	state, ok := s.(*NestState)
	if !ok || state == nil {
		return s
	}
	clone := *state

	clone.HostState = m.top.host.CopyState(state.HostState)

	if state.SubConfig != nil {
		frame := topFrame(state)
		if frame != nil && frame.Mode != nil {
			clone.SubState = frame.Mode.CopyState(state.SubState)
		}
	}

	if state.Masks != nil {
		clone.Masks = append([]maskFrame(nil), state.Masks...)
	}
	if state.Suffixes != nil {
		clone.Suffixes = append([]*Config(nil), state.Suffixes...)
	}
	if state.Stack != nil {
		clone.Stack = make([]StackFrame, len(state.Stack))
		copy(clone.Stack, state.Stack)
	}
	if state.pendingEnd != nil {
		rec := *state.pendingEnd
		clone.pendingEnd = &rec
	}
	if state.nextEntry != nil {
		entry := *state.nextEntry
		clone.nextEntry = &entry
	}
	if state.Electric != nil {
		req := *state.Electric
		clone.Electric = &req
	}
	clone.delimScratchMode = nil
	clone.delimScratchState = nil

	return &clone
}

// Token implements the bounded dispatch loop: route on the active step,
// run its handler, and keep looping internally while the handler reports
// consumed == false (a zero-cost bookkeeping transition), returning as
// soon as a real style is produced or the line is exhausted.
func (m *NestingMode) Token(stream Stream, s any) (string, error) {
	state, ok := s.(*NestState)
	if !ok || state == nil {
		return "", newConfigError("token", "Token called with a state value that is not *NestState")
	}
	if state.tokenGetter == tokenGetterBlankSwallow {
		stream.SkipToEnd()
		state.tokenGetter = tokenGetterDefault
		return "", nil
	}

	for i := 0; i < maxStepsPerToken; i++ {
		res, err := m.dispatch(stream, state)
		if err != nil {
			return "", err
		}
		if res.consumed {
			return res.style, nil
		}
		if atEOL(stream) && !stepMayAdvanceAtEOL(state.Step) {
			return res.style, nil
		}
	}
	return "", newConfigError("token", "exceeded %d internal transitions without consuming input", maxStepsPerToken)
}

// stepMayAdvanceAtEOL reports whether step can still make progress when
// the stream is already at the end of its visible line (the *AtSOL steps
// exist precisely to be entered at EOL and resume on the next line).
func stepMayAdvanceAtEOL(step parserStep) bool {
	switch step {
	case stepTopEntry, stepSubAtSOL, stepMaskAtSOL, stepStartSub, stepMaskEntry,
		stepFinalizeToNull, stepFinalizeToDelim, stepSubContinuation:
		return true
	default:
		return false
	}
}

func (m *NestingMode) dispatch(stream Stream, state *NestState) (stepResult, error) {
	switch state.Step {
	case stepTopEntry:
		return topEntryStep(stream, state, m.top)
	case stepUntilEOL:
		return untilEOLStep(stream, state, m.top)
	case stepUntilOpen:
		return untilOpenStep(stream, state, m.top)
	case stepStartSub:
		return startSubStep(stream, state, m.top)
	case stepSubAtSOL:
		return subAtSOLStep(state)
	case stepSubContinuation:
		return continuationStep(stream, state)
	case stepUntilSubInnerClose:
		return untilSubInnerCloseStep(stream, state)
	case stepFinalizeToNull:
		return finalizeToNullStep(state)
	case stepFinalizeToDelim:
		return finalizeToDelimStep(stream, state)
	case stepDelimOpen, stepDelimClose:
		return delimSpanStep(stream, state)
	case stepMaskEntry:
		return maskEntryDispatchStep(stream, state)
	case stepMaskAtSOL:
		return maskAtSOLStep(stream, state)
	case stepMaskUntilEOL:
		return maskStep(stream, state)
	default:
		state.Step = stepTopEntry
		return stepResult{consumed: false}, nil
	}
}

// Indent implements spec.md §4.7's indent façade: an outstanding electric
// request whose Test matches line takes precedence unless its Indent
// returns PassIndent; otherwise an active sub-mode's own Indent runs,
// falling back to the host's.
func (m *NestingMode) Indent(s any, textAfter, line string) int {
	state, ok := s.(*NestState)
	if !ok || state == nil {
		return PassIndent
	}

	if state.Electric != nil {
		req := state.Electric
		state.Electric = nil
		if req.Spec.Test != nil && req.Spec.Test(line) {
			if ind := req.Spec.Indent(state.outerIndent); ind != PassIndent {
				return ind
			}
		}
	}

	if state.SubConfig != nil {
		frame := topFrame(state)
		if frame != nil {
			if indenter, ok := frame.Mode.(Indenter); ok {
				if sub, ok := state.SubState.(*NestState); ok {
					return m.indentVia(frame.Mode, sub, textAfter, line)
				}
				return indenter.Indent(state.SubState, textAfter, line)
			}
		}
	}

	if indenter, ok := m.top.host.(Indenter); ok {
		return indenter.Indent(state.HostState, textAfter, line)
	}
	return PassIndent
}

// indentVia delegates to a nested NestingMode's own Indent so electric
// requests recorded arbitrarily deep still surface correctly.
func (m *NestingMode) indentVia(mode Mode, sub *NestState, textAfter, line string) int {
	if nested, ok := mode.(*NestingMode); ok {
		return nested.Indent(sub, textAfter, line)
	}
	if indenter, ok := mode.(Indenter); ok {
		return indenter.Indent(sub, textAfter, line)
	}
	return PassIndent
}

// BlankLine implements spec.md §4.7's blankLine: exactly one of closing an
// active sub at start-of-line, an explicit "\n" delimiter match, or the
// active sub-mode's own BlankLine (the host's when no sub is active)
// fires; Token's next call swallows the (empty) line
// without emitting a style.
func (m *NestingMode) BlankLine(s any) {
	state, ok := s.(*NestState)
	if !ok || state == nil {
		return
	}
	state.tokenGetter = tokenGetterBlankSwallow

	if state.SubConfig != nil {
		cfg := state.SubConfig
		if isCloseAtSOL(cfg.Close) {
			fireElectric(cfg, state, DelimClose)
			state.Suffixes = nil
			if len(cfg.Suffixes) > 0 {
				state.Suffixes = cfg.Suffixes
			}
			if len(state.Stack) > 0 {
				state.Stack = state.Stack[:len(state.Stack)-1]
			}
			state.SubConfig = nil
			state.SubState = nil
			state.Step = stepTopEntry
			return
		}
		if _, ok := cfg.Close.Find("\n", 0, true); ok {
			fireElectric(cfg, state, DelimClose)
			if len(state.Stack) > 0 {
				state.Stack = state.Stack[:len(state.Stack)-1]
			}
			state.SubConfig = nil
			state.SubState = nil
			state.Step = stepTopEntry
			return
		}
		if frame := topFrame(state); frame != nil {
			if liner, ok := frame.Mode.(BlankLiner); ok {
				liner.BlankLine(state.SubState)
			}
		}
		return
	}

	state.Step = stepTopEntry
	if liner, ok := m.top.host.(BlankLiner); ok {
		liner.BlankLine(state.HostState)
	}
}

// InnerMode reports the mode/state pair currently responsible for
// styling, recursing into a nested NestingMode so callers (e.g. a bracket
// matcher) always land on a leaf mode.
func (m *NestingMode) InnerMode(s any) (Mode, any, bool) {
	state, ok := s.(*NestState)
	if !ok || state == nil {
		return m, s, false
	}
	if len(state.Masks) > 0 {
		return m, s, true
	}
	if state.SubConfig == nil {
		if moder, ok := m.top.host.(InnerModer); ok {
			if mode, inner, ok := moder.InnerMode(state.HostState); ok {
				return mode, inner, true
			}
		}
		return m.top.host, state.HostState, true
	}
	frame := topFrame(state)
	if frame == nil {
		return m, s, true
	}
	if moder, ok := frame.Mode.(InnerModer); ok {
		if mode, inner, ok := moder.InnerMode(state.SubState); ok {
			return mode, inner, true
		}
	}
	return frame.Mode, state.SubState, true
}

// Meta implements MetaProvider by delegating to the host mode only: a
// NestingMode used as someone else's sub-mode contributes its host
// language's strings/comments to the outer mask-synthesis search, since
// that is what governs its surface syntax between sub-mode activations.
func (m *NestingMode) Meta() (ModeMeta, bool) {
	if provider, ok := m.top.host.(MetaProvider); ok {
		return provider.Meta()
	}
	return ModeMeta{}, false
}
