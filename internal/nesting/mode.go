// Package nesting implements a nesting tokenizer combinator: given a host
// Mode and an ordered set of sub-mode Configs, New produces a composite
// Mode that transparently switches between the host and nested sub-modes on
// configurable open/close delimiters, supports non-exiting mask regions
// (string literals, comments, escapes), and supports one-shot suffix
// regions activated once after a sub-mode closes.
//
// The package has no knowledge of any particular editor. It consumes the
// Stream and Mode contracts (§6) and is driven one line at a time: a caller
// repeatedly invokes Token(stream, state) until the stream is exhausted,
// then calls CopyState before moving to the next line. That per-line copy
// is the cacheability contract the whole design exists to preserve.
package nesting

import (
	"github.com/google/uuid"
)

// Stream is the contract a host application provides: a mutable cursor
// over exactly one line of text. Implementations live outside this
// package (internal/streamio.Line is the one shipped alongside it).
type Stream interface {
	// LineText returns the text currently visible to the cursor. A
	// caller performing a scoped retraction (§4.3's "PreStartSub") calls
	// SetLineText with a prefix of the original text and must restore it
	// with the original before returning control past a line boundary.
	LineText() string
	SetLineText(s string)

	// Pos returns the current byte offset into LineText(); SetPos moves
	// the cursor directly (used when a sub-parser needs to jump to a
	// delimiter's start or end without consuming character by character).
	Pos() int
	SetPos(p int)

	// SOL reports whether the cursor sits at the start of the (true,
	// unretracted) line.
	SOL() bool

	// Next consumes and returns the next rune, or ok == false at EOL.
	Next() (r rune, ok bool)

	// Eat consumes the next rune if it equals r.
	Eat(r rune) bool

	// EatWhile consumes runes while pred holds, returning whether any
	// rune was consumed.
	EatWhile(pred func(rune) bool) bool

	// EatSpace consumes a run of whitespace, returning whether any was
	// consumed.
	EatSpace() bool

	// SkipToEnd moves the cursor to the end of LineText().
	SkipToEnd()

	// SkipTo moves the cursor to the first occurrence of target at or
	// after Pos(), returning false (and not moving) if target isn't
	// found on the remainder of the line.
	SkipTo(target string) bool
}

// Role distinguishes an open match from a close match in a MatchRecord,
// needed because the default comparator (§4.2) treats the two
// asymmetrically when an open candidate is compared against the active
// region's close.
type Role int

const (
	RoleOpen Role = iota
	RoleClose
)

// MatchRecord enriches a Pattern match with the Config that produced it,
// its absolute position in the line, the position it held before any
// rewriting (see StartSub's "zero match.Index" step in spec.md §4.3), its
// Role, and — resolving spec.md §9's open question about which field
// carries the associated NestState — a single State pointer set at
// construction time for both open and close matches.
type MatchRecord struct {
	Match
	Config        *Config
	AbsoluteIndex int
	OriginalIndex int
	Role          Role
	State         *NestState
}

// parserStep is the tagged discriminant spec.md §9 calls for in place of
// step-function reassignment: NestState.Step names which function in
// topparser.go/subparser.go/mask.go runs next, and Mode.Token dispatches on
// it. This makes CopyState trivial (an int copies itself) and removes the
// closure-capture hazard of storing a bound function value in state.
type parserStep int

const (
	stepTopEntry parserStep = iota
	stepUntilEOL
	stepUntilOpen
	stepStartSub
	stepSubAtSOL
	stepSubContinuation
	stepFinalizeToDelim
	stepFinalizeToNull
	stepDelimOpen
	stepDelimClose
	stepMaskEntry
	stepMaskAtSOL
	stepMaskUntilEOL
	stepUntilSubInnerClose
)

// entryKind distinguishes "enter a real sub-mode" from "enter a mask" at
// the point StartSub has to decide how to install the fake/real activation
// (spec.md §4.3's StartSub / §4.5's MaskEntry split).
type entryKind int

const (
	entryKindSub entryKind = iota
	entryKindMask
)

// pendingEntry is TopParser's "a pre-computed sub-mode entry awaiting
// execution" (NestState.nextEntry in spec.md §3).
type pendingEntry struct {
	match MatchRecord
	kind  entryKind
}

// StackFrame is one element of the sub-mode stack: the config that opened
// it, a snapshot of the sub-mode's own state at entry (kept only for
// InnerMode/debugging — the live copy is NestState.SubState), the open
// match, and — once the frame closes — the close match.
type StackFrame struct {
	Config     *Config
	Mode       Mode
	EntryState any
	StartMatch MatchRecord
	EndMatch   *MatchRecord
}

// maskFrame is one element of the mask stack (NestState.masks). Masks are
// deliberately not folded into StackFrame/SubConfig: spec.md's Design Notes
// call the source's "mask installs the host mode as the fake sub-mode" a
// pattern to re-architect away, so a maskFrame never touches SubConfig or
// SubState. Whether the whole stack nests under the host or an active
// sub-mode is recorded once, for the full stack, in
// NestState.maskGoverningHost rather than per frame.
type maskFrame struct {
	Config *Config
}

// pendingAction names what stepUntilSubInnerClose should do once a
// boundary-limited retraction (beginRetraction up to a known winning
// match) is exhausted: the four outcomes of spec.md §4.4 step 4, plus the
// follow-up after a close delimiter itself has been consumed.
type pendingAction int

const (
	pendingActionNone pendingAction = iota
	pendingActionEnterMask
	pendingActionFinishNoDelim
	pendingActionConsumeCloseDelim
	pendingActionFinishAfterDelim
)

// tokenGetterKind selects which of Mode's two token-delegation behaviors is
// active: the normal dispatch, or — for the duration of one BlankLine step
// — the "advance one position, emit nothing" swallow described in §4.7.
type tokenGetterKind int

const (
	tokenGetterDefault tokenGetterKind = iota
	tokenGetterBlankSwallow
)

// ElectricRequest is the explicit request/response spec.md §9 asks for in
// place of the source's implicit `this.electricInput` parent pointer: the
// innermost Mode.Token call that consumes an electric delimiter sets this
// on its own NestState; the next Indent call (however many NestingMode
// layers up) reaches it by delegating down, and consumes and clears it.
type ElectricRequest struct {
	Spec ElectricSpec
	Kind DelimKind
}

// EditorContext is the explicit handle spec.md §9 asks for in place of the
// source's implicit nestState parent-pointer chain back to the editor
// instance. It is opaque to this package; Config.Start callbacks receive it
// and may use it however the embedding application needs (e.g. resolving
// a mode name against a registry that needs access to buffer-wide
// options). The root NestState records the EditorContext it was built
// with; nested/recursive NestingModes inherit it from their outer
// NestState.
type EditorContext struct {
	ID      uuid.UUID
	Options any
}

// NewEditorContext creates a context carrying opaque embedder options.
func NewEditorContext(options any) *EditorContext {
	return &EditorContext{ID: uuid.New(), Options: options}
}

// NestState is the per-line, copyable state described in spec.md §3. All
// six invariants listed there are maintained by this package, never by
// callers: (1) SubConfig is non-nil iff SubState is non-nil; (2) Masks is
// non-empty only while Step is one of the Mask* steps; (3) OriginalLine is
// set iff Step is one of the steps that temporarily retracted the stream's
// visible line end; (4) len(Stack) equals the number of open non-mask
// sub-modes below the host; (5) a Config is compiled at most once; (6)
// Suffixes is cleared the first time an open-search consumes or fails to
// match it (see topparser.go).
type NestState struct {
	Host *Config // nil at the root; set for a recursively-nested NestingMode's own NestState

	HostState any
	SubConfig *Config
	SubState  any

	Step parserStep

	Masks             []maskFrame
	maskGoverningHost bool

	Suffixes []*Config

	nextEntry  *pendingEntry
	pendingEnd *MatchRecord

	// Delimiter-retraction scratch, valid only while Step is stepDelimOpen
	// or stepDelimClose: the dedicated helper mode/state for the
	// Tokenize-with variant (nil for the other three, which reuse
	// SubState directly), and the style prefix Separate/Tokenize-with
	// combine with whatever the delegate mode returns.
	delimScratchMode  Mode
	delimScratchState any
	delimStylePrefix  string
	delimClosing      bool
	afterBoundary     pendingAction

	OriginalLine    string
	hasOriginalLine bool

	Stack     []StackFrame
	NestLevel int

	tokenGetter tokenGetterKind

	Electric *ElectricRequest

	ctx *EditorContext

	// outerIndent is the indent level the embedder supplied at
	// StartState; sub-mode Config.Indent callbacks receive it as their
	// "outer indent" argument.
	outerIndent int
}

// ModeMeta exposes the optional per-mode metadata spec.md §4.1 uses to
// synthesize "strings, escapes, and comments do not terminate me" masks for
// free (compileNestMasksAtMode). A Mode that has nothing to contribute
// returns the zero value and Meta's second return is false.
type ModeMeta struct {
	StringQuotes      string
	StringEscape      rune
	HasStringEscape   bool
	LineComment       []string
	BlockCommentStart string
	BlockCommentEnd   string
}

// Mode is the contract both the host mode and every sub-mode must satisfy
// (spec.md §6). StartState/CopyState/Token are required; the rest are
// optional and discovered via type assertion against the small interfaces
// below, mirroring how an untyped "mode object" in the source exposes
// optional fields.
type Mode interface {
	StartState(indent int, nestState *NestState) any
	CopyState(state any) any
	Token(stream Stream, state any) (style string, err error)
}

// PassIndent is the sentinel spec.md §6 calls PASS: "defer to outer
// indent".
const PassIndent = -1 << 31

// Indenter is implemented by modes that compute their own indent.
type Indenter interface {
	Indent(state any, textAfter, line string) int
}

// BlankLiner is implemented by modes with special blank-line handling
// (spec.md §4.7's blankLine).
type BlankLiner interface {
	BlankLine(state any)
}

// InnerModer is implemented by modes that can themselves delegate styling
// to a contained mode (used by bracket matchers per spec.md §4.7).
type InnerModer interface {
	InnerMode(state any) (mode Mode, inner any, ok bool)
}

// MetaProvider is implemented by modes exposing ModeMeta for mask
// synthesis. A mode with nothing to contribute returns the zero value and
// false.
type MetaProvider interface {
	Meta() (ModeMeta, bool)
}

// ElectricCharProvider is implemented by modes with editor-affordance hook
// points for auto-indent-on-character (spec.md §1's "Editor affordances...
// treated here only as hook points").
type ElectricCharProvider interface {
	ElectricChars() string
}
