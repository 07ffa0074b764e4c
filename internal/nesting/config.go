package nesting

import "regexp"

// TokenizeVariant selects one of the four delimiter-styling behaviors a
// sub-mode Config can have (spec.md §4.4). All four share one FSM
// (subparser.go); the variant only changes how open/close delimiter text
// becomes tokens.
type TokenizeVariant int

const (
	// VariantStatic emits the open/close delimiter text as a single
	// precomputed style, never handing it to the sub-mode. The default.
	VariantStatic TokenizeVariant = iota
	// VariantSeparate re-tokenizes the delimiter text through the active
	// sub-mode itself (so a quote character can come back styled as part
	// of the string value), prefixed with the delimiter style.
	VariantSeparate
	// VariantTokenizeWith re-tokenizes the delimiter text through a
	// dedicated helper mode (DelimMode) instead of the active sub-mode.
	VariantTokenizeWith
	// VariantInclude passes delimiter text through as ordinary sub-mode
	// content; no separate delimiter token is ever emitted.
	VariantInclude
)

// PatternSpec is the unevaluated form of an open/close delimiter spec: a
// literal string (escaped at compile time, per spec.md §4.1) or a
// caller-supplied regexp.
type PatternSpec struct {
	literal    string
	re         *regexp.Regexp
	isLiteral  bool
	isSentinel bool
}

// Literal builds a PatternSpec that matches s verbatim.
func Literal(s string) PatternSpec { return PatternSpec{literal: s, isLiteral: true} }

// Regex builds a PatternSpec from a caller-compiled regexp, for specs that
// need anchoring or zero-width matches a plain literal can't express (e.g.
// scenario S4's `^` close, or `$`). Go's RE2 syntax has no lookahead.
func Regex(re *regexp.Regexp) PatternSpec { return PatternSpec{re: re} }

func (ps PatternSpec) compile() Pattern {
	if ps.isSentinel {
		return closeAtSOL
	}
	if ps.isLiteral {
		return NewLiteralPattern(ps.literal)
	}
	return NewPattern(ps.re)
}

// StartFunc is a Config's optional dynamic per-instance hook (spec.md §3's
// `start`): given the EditorContext and the open match that triggered
// entry, it returns a ConfigDelta describing overrides for this one
// activation. It must be pure with respect to match (spec.md §5).
type StartFunc func(ctx *EditorContext, match Match) (ConfigDelta, error)

// ConfigDelta is the small record a StartFunc returns in place of mutating
// the shared, immutable Config (spec.md §9's "Config objects with
// dynamically added instance methods" re-architecture note). A nil/zero
// field means "no override".
type ConfigDelta struct {
	// Mode overrides the mode instance used for this activation. When
	// nil, Config.ModeSpec.Factory(ctx) resolves it as usual.
	Mode Mode
	// Mask overrides Config.Mask for this activation — this is how a
	// dynamic start callback can decide, per match, whether an
	// occurrence behaves as a real sub-mode or a non-exiting mask.
	Mask *bool
}

// IndentFunc computes a Config's contribution to the indent of a line
// inside its sub-mode; return PassIndent to defer to the outer indent.
type IndentFunc func(outerIndent int, match Match, state *NestState) int

// Comparator is the priority-arbitration function of spec.md §4.2: This
// returns true when `this` should be treated as higher priority than
// `other`. It is always invoked as `candidate.comp(candidate, incumbent)`
// or `incumbent.comp(incumbent, candidate)` depending on call site — never
// symmetrically — which is why custom comparators can break ties that the
// default leaves to declaration order.
type Comparator func(this, other Match) bool

// DefaultComparator implements spec.md §4.2: a null-width match beats a
// consuming match at the same offset; among consuming matches the longer
// wins; otherwise the leftmost wins.
func DefaultComparator(this, other Match) bool {
	if this.Index == other.Index {
		if this.Empty() {
			return true
		}
		return this.Length >= other.Length && !other.Empty()
	}
	return this.Index < other.Index
}

// ModeFactory resolves a ModeSpec to a concrete Mode instance. Spec.md §6
// calls this the mode registry contract (`getMode(editorOptions, spec)`);
// here it is a plain function value supplied by the embedder, side-effect
// free except for caching the embedder chooses to do inside it.
type ModeFactory func(ctx *EditorContext) (Mode, error)

// ModeSpec names a mode and how to build it.
type ModeSpec struct {
	Name    string
	Factory ModeFactory
}

func (ms ModeSpec) resolve(ctx *EditorContext) (Mode, error) {
	if ms.Factory == nil {
		return nil, newConfigError("start", "mode spec %q has no factory", ms.Name)
	}
	mode, err := ms.Factory(ctx)
	if err != nil {
		return nil, newConfigError("start", "mode spec %q: %v", ms.Name, err)
	}
	if mode == nil {
		return nil, newConfigError("start", "mode spec %q resolved to a nil mode", ms.Name)
	}
	return mode, nil
}

// RawConfig is the user-facing, uncompiled form of Config. Compile
// normalizes it (spec.md §4.1): strings become escaped Patterns, a missing
// Close becomes the close-at-SOL sentinel, masks/suffixes compile
// recursively at clv+1, and a default Comp is installed when none is
// given.
type RawConfig struct {
	Open  PatternSpec
	Close *PatternSpec

	ModeSpec ModeSpec
	Start    StartFunc
	IndentFn IndentFunc

	// ParseDelimiters, TokenizeDelimiters and DelimMode select the
	// tokenization variant (spec.md §4.4's flag table): neither set ⇒
	// Static; TokenizeDelimiters ⇒ Separate; TokenizeDelimiters plus
	// DelimMode ⇒ Tokenize-with; ParseDelimiters ⇒ Include.
	ParseDelimiters    bool
	TokenizeDelimiters bool
	DelimMode          ModeSpec

	InnerStyle string
	DelimStyle string

	Mask     bool
	Masks    []RawConfig
	Suffixes []RawConfig

	Comp Comparator

	Electric ElectricDelimiters
}

// Config is the compiled, immutable sub-mode descriptor of spec.md §3. It
// is safely shared by every active NestState once built (spec.md §5); no
// field is ever mutated after Compile returns.
type Config struct {
	Open  Pattern
	Close Pattern

	ModeSpec ModeSpec
	Start    StartFunc
	IndentFn IndentFunc

	Variant   TokenizeVariant
	DelimMode ModeSpec

	InnerStyle      string
	DelimStyle      string
	DelimStyleOpen  string
	DelimStyleClose string

	Mask     bool
	Masks    []*Config
	Suffixes []*Config

	Comp Comparator

	Clv int

	Electric ElectricDelimiters

	cache MaskCache
}

// MaskCache memoizes the mask configs compileMetaMasks synthesizes from a
// Mode's ModeMeta (spec.md §4.1's `compileNestMasksAtMode`), so that
// highlighting the same mode repeatedly does not recompile the same
// regexes. internal/cache supplies the production implementation backed by
// patrickmn/go-cache; tests and callers that don't care about reuse can
// pass nil (Compile installs a no-op pass-through).
type MaskCache interface {
	GetOrCompute(key string, compute func() []*Config) []*Config
}

type noopCache struct{}

func (noopCache) GetOrCompute(_ string, compute func() []*Config) []*Config { return compute() }

// Compile normalizes raw into an immutable Config at nesting level clv. cache
// may be nil. Compile recurses into raw.Masks (forced to Mask: true, at
// clv+1) and raw.Suffixes (at clv+1).
func Compile(raw RawConfig, clv int, cache MaskCache) (*Config, error) {
	if cache == nil {
		cache = noopCache{}
	}
	if raw.Open.re == nil && !raw.Open.isLiteral {
		return nil, newConfigError("compile", "config at level %d has no open pattern", clv)
	}
	if !raw.Mask && raw.ModeSpec.Factory == nil && raw.Start == nil {
		return nil, newConfigError("compile", "config at level %d has neither a mode nor a start callback", clv)
	}

	cfg := &Config{
		Open:        raw.Open.compile(),
		ModeSpec:    raw.ModeSpec,
		Start:       raw.Start,
		IndentFn:    raw.IndentFn,
		InnerStyle:  raw.InnerStyle,
		DelimStyle:  raw.DelimStyle,
		Mask:        raw.Mask,
		Comp:        raw.Comp,
		Clv:         clv,
		Electric: raw.Electric,
		cache:       cache,
	}
	if raw.Close != nil {
		cfg.Close = raw.Close.compile()
	} else {
		cfg.Close = closeAtSOL
	}
	if cfg.Comp == nil {
		cfg.Comp = DefaultComparator
	}
	if cfg.DelimStyle != "" {
		cfg.DelimStyleOpen = cfg.DelimStyle + " " + cfg.DelimStyle + "-open"
		cfg.DelimStyleClose = cfg.DelimStyle + " " + cfg.DelimStyle + "-close"
	}

	switch {
	case raw.TokenizeDelimiters && raw.DelimMode.Factory != nil:
		cfg.Variant = VariantTokenizeWith
		cfg.DelimMode = raw.DelimMode
	case raw.TokenizeDelimiters:
		cfg.Variant = VariantSeparate
	case raw.ParseDelimiters:
		cfg.Variant = VariantInclude
	default:
		cfg.Variant = VariantStatic
	}

	for _, m := range raw.Masks {
		m.Mask = true
		compiled, err := Compile(m, clv+1, cache)
		if err != nil {
			return nil, err
		}
		cfg.Masks = append(cfg.Masks, compiled)
	}
	for _, s := range raw.Suffixes {
		compiled, err := Compile(s, clv+1, cache)
		if err != nil {
			return nil, err
		}
		cfg.Suffixes = append(cfg.Suffixes, compiled)
	}
	return cfg, nil
}

// resolve runs cfg.Start (if any) against match, returning the Config that
// should actually govern this activation (itself, unless the start
// callback overrode Mask) and the Mode instance to use.
func (cfg *Config) resolve(ctx *EditorContext, match Match) (*Config, Mode, error) {
	effective := cfg
	var delta ConfigDelta
	if cfg.Start != nil {
		var err error
		delta, err = cfg.Start(ctx, match)
		if err != nil {
			return nil, nil, err
		}
		if delta.Mask != nil && *delta.Mask != cfg.Mask {
			clone := *cfg
			clone.Mask = *delta.Mask
			effective = &clone
		}
	}
	if delta.Mode != nil {
		return effective, delta.Mode, nil
	}
	if effective.Mask {
		// A mask with no mode of its own runs under the host mode that
		// discovered it (spec.md §4.3's StartSub: "install the host mode
		// as the sub mode"); topparser.go supplies the host mode
		// explicitly at the call site instead of here, since Config has
		// no notion of "the enclosing host".
		return effective, nil, nil
	}
	mode, err := effective.ModeSpec.resolve(ctx)
	if err != nil {
		return nil, nil, err
	}
	return effective, mode, nil
}

// effectiveMasks returns cfg's declared Masks plus, when mode exposes
// ModeMeta, the memoized masks synthesized from it (spec.md §4.1's
// compileNestMasksAtMode).
func (cfg *Config) effectiveMasks(mode Mode) []*Config {
	metaProvider, ok := mode.(MetaProvider)
	if !ok {
		return cfg.Masks
	}
	meta, has := metaProvider.Meta()
	if !has {
		return cfg.Masks
	}
	key := metaCacheKey(meta, cfg.Clv+1)
	synthesized := cfg.cache.GetOrCompute(key, func() []*Config {
		return compileMetaMasks(meta, cfg.Clv+1, cfg.cache)
	})
	if len(synthesized) == 0 {
		return cfg.Masks
	}
	out := make([]*Config, 0, len(cfg.Masks)+len(synthesized))
	out = append(out, cfg.Masks...)
	out = append(out, synthesized...)
	return out
}

func metaCacheKey(meta ModeMeta, clv int) string {
	key := "q=" + meta.StringQuotes + "|esc="
	if meta.HasStringEscape {
		key += string(meta.StringEscape)
	}
	key += "|lc="
	for _, m := range meta.LineComment {
		key += m + ","
	}
	key += "|bc=" + meta.BlockCommentStart + ".." + meta.BlockCommentEnd
	key += "|clv="
	key += string(rune('0' + clv%10))
	return key
}

// compileMetaMasks synthesizes mask Configs from a mode's metadata: one
// mask per string-quote character (with a nested escape mask when the mode
// declares one), one per line-comment marker (closing at SOL), and one for
// a block comment delimiter pair.
func compileMetaMasks(meta ModeMeta, clv int, cache MaskCache) []*Config {
	var out []*Config

	for _, q := range meta.StringQuotes {
		qs := string(q)
		raw := RawConfig{
			Open: Literal(qs),
			Close: &PatternSpec{literal: qs, isLiteral: true},
			Mask: true,
		}
		if meta.HasStringEscape {
			escPattern := regexp.MustCompile(regexp.QuoteMeta(string(meta.StringEscape)) + `(?s:.)`)
			raw.Masks = []RawConfig{{
				Open:  Regex(escPattern),
				Close: &PatternSpec{re: regexp.MustCompile("")},
				Mask:  true,
			}}
		}
		compiled, err := Compile(raw, clv, cache)
		if err == nil {
			out = append(out, compiled)
		}
	}

	for _, marker := range meta.LineComment {
		if marker == "" {
			continue
		}
		raw := RawConfig{
			Open: Literal(marker),
			Mask: true,
		}
		compiled, err := Compile(raw, clv, cache)
		if err == nil {
			out = append(out, compiled)
		}
	}

	if meta.BlockCommentStart != "" && meta.BlockCommentEnd != "" {
		raw := RawConfig{
			Open:  Literal(meta.BlockCommentStart),
			Close: &PatternSpec{literal: meta.BlockCommentEnd, isLiteral: true},
			Mask:  true,
		}
		compiled, err := Compile(raw, clv, cache)
		if err == nil {
			out = append(out, compiled)
		}
	}

	return out
}
