// Package config loads YAML *language profiles* — a host mode name plus an
// ordered list of sub-mode/mask/suffix descriptors — and builds a
// nesting.Mode from them. A profile is the embedding application's concern,
// not the core combinator's: internal/nesting never reads a file or knows
// a mode by string name, it only knows Mode values and RawConfig structs.
// This package is the registry and the YAML-to-struct-to-RawConfig bridge
// that the CLI in cmd/ needs to turn a user-editable file into one.
package config

import (
	"regexp"
	"strings"

	"github.com/zjrosen/nestmode/internal/modes/markdown"
	"github.com/zjrosen/nestmode/internal/modes/query"
	"github.com/zjrosen/nestmode/internal/modes/script"
	"github.com/zjrosen/nestmode/internal/modes/text"
	"github.com/zjrosen/nestmode/internal/nesting"
)

// TextConfig mirrors text.Config in a form viper/mapstructure can decode
// from YAML (a single-character string rather than a rune, an explicit
// string_quotes field rather than a Go string-of-runes).
type TextConfig struct {
	StringQuotes      string   `mapstructure:"string_quotes"`
	StringEscape      string   `mapstructure:"string_escape"`
	LineComment       []string `mapstructure:"line_comment"`
	BlockCommentStart string   `mapstructure:"block_comment_start"`
	BlockCommentEnd   string   `mapstructure:"block_comment_end"`
}

func (t *TextConfig) toModeConfig() text.Config {
	if t == nil {
		return text.Config{}
	}
	cfg := text.Config{
		StringQuotes:      t.StringQuotes,
		LineComment:       t.LineComment,
		BlockCommentStart: t.BlockCommentStart,
		BlockCommentEnd:   t.BlockCommentEnd,
	}
	if t.StringEscape != "" {
		cfg.StringEscape = []rune(t.StringEscape)[0]
		cfg.HasStringEscape = true
	}
	return cfg
}

// HostConfig names the profile's host mode: "text", "markdown", or "query".
// Text is the only mode with its own tunable lexical conventions, so it is
// the only one with a dedicated nested field.
type HostConfig struct {
	Mode string      `mapstructure:"mode"`
	Text *TextConfig `mapstructure:"text"`
}

// SubModeConfig is one nested-mode, mask, or suffix region: the YAML form
// of a nesting.RawConfig. Open/Close are literal strings by default; a
// "re:" prefix compiles the remainder as a Go (RE2) regular expression, for
// cases a literal can't express (e.g. an anchored close such as `$`); RE2
// has no lookahead.
type SubModeConfig struct {
	Name  string `mapstructure:"name"`
	Mode  string `mapstructure:"mode"`
	Open  string `mapstructure:"open"`
	Close string `mapstructure:"close"`

	InnerStyle string `mapstructure:"inner_style"`
	DelimStyle string `mapstructure:"delim_style"`

	Mask               bool `mapstructure:"mask"`
	TokenizeDelimiters bool `mapstructure:"tokenize_delimiters"`
	ParseDelimiters    bool `mapstructure:"parse_delimiters"`

	Text *TextConfig `mapstructure:"text"`

	Masks    []SubModeConfig `mapstructure:"masks"`
	Suffixes []SubModeConfig `mapstructure:"suffixes"`
}

// Profile is one YAML language profile: a host mode plus its sub-modes.
type Profile struct {
	Name     string          `mapstructure:"name"`
	Host     HostConfig      `mapstructure:"host"`
	SubModes []SubModeConfig `mapstructure:"sub_modes"`
}

// Build resolves profile against the built-in mode registry and compiles
// it into a nesting.Mode via nesting.New. cache may be nil.
func (p *Profile) Build(ctx *nesting.EditorContext, cache nesting.MaskCache) (nesting.Mode, error) {
	host, err := resolveHostMode(p.Host)
	if err != nil {
		return nil, newProfileError("build", "profile %q: %v", p.Name, err)
	}

	rawConfigs := make([]nesting.RawConfig, 0, len(p.SubModes))
	for _, sm := range p.SubModes {
		raw, err := sm.toRawConfig()
		if err != nil {
			return nil, newProfileError("build", "profile %q, sub-mode %q: %v", p.Name, sm.Name, err)
		}
		rawConfigs = append(rawConfigs, raw)
	}

	mode, err := nesting.New(ctx, host, cache, rawConfigs...)
	if err != nil {
		return nil, newProfileError("build", "profile %q: %v", p.Name, err)
	}
	return mode, nil
}

// markdownFenceMode is the one sub-mode descriptor that cannot be expressed
// by the generic open/close/mode fields: a fenced code block's mode is
// chosen per-match from its info string, which needs the dynamic Start
// callback markdown.FencedCodeBlockConfig already builds.
const markdownFenceMode = "markdown-fence"

func (sm SubModeConfig) toRawConfig() (nesting.RawConfig, error) {
	if sm.Mode == markdownFenceMode {
		return markdown.FencedCodeBlockConfig(), nil
	}
	if sm.Open == "" {
		return nesting.RawConfig{}, newProfileError("sub-mode", "%q has no open pattern", sm.Name)
	}

	open, err := parsePattern(sm.Open)
	if err != nil {
		return nesting.RawConfig{}, newProfileError("sub-mode", "%q: open pattern: %v", sm.Name, err)
	}

	raw := nesting.RawConfig{
		Open:               open,
		InnerStyle:         sm.InnerStyle,
		DelimStyle:         sm.DelimStyle,
		Mask:               sm.Mask,
		TokenizeDelimiters: sm.TokenizeDelimiters,
		ParseDelimiters:    sm.ParseDelimiters,
	}

	if sm.Close != "" {
		close, err := parsePattern(sm.Close)
		if err != nil {
			return nesting.RawConfig{}, newProfileError("sub-mode", "%q: close pattern: %v", sm.Name, err)
		}
		raw.Close = &close
	}

	if !sm.Mask {
		spec, err := resolveModeSpec(sm.Mode, sm.Text)
		if err != nil {
			return nesting.RawConfig{}, err
		}
		raw.ModeSpec = spec
	}

	for _, m := range sm.Masks {
		m.Mask = true
		child, err := m.toRawConfig()
		if err != nil {
			return nesting.RawConfig{}, err
		}
		raw.Masks = append(raw.Masks, child)
	}
	for _, s := range sm.Suffixes {
		child, err := s.toRawConfig()
		if err != nil {
			return nesting.RawConfig{}, err
		}
		raw.Suffixes = append(raw.Suffixes, child)
	}

	return raw, nil
}

// parsePattern compiles a profile's textual pattern spec: a "re:" prefix
// means the remainder is a regular expression, otherwise the whole string
// is a literal.
func parsePattern(s string) (nesting.PatternSpec, error) {
	if rest, ok := strings.CutPrefix(s, "re:"); ok {
		re, err := regexp.Compile(rest)
		if err != nil {
			return nesting.PatternSpec{}, err
		}
		return nesting.Regex(re), nil
	}
	return nesting.Literal(s), nil
}

func resolveHostMode(h HostConfig) (nesting.Mode, error) {
	switch h.Mode {
	case "text":
		return text.New(h.Text.toModeConfig()), nil
	case "markdown":
		return markdown.New(), nil
	case "query":
		return query.New(), nil
	default:
		return nil, newProfileError("host", "unregistered host mode %q", h.Mode)
	}
}

// resolveModeSpec resolves a sub-mode's "mode" field to a nesting.ModeSpec.
// "script:<lang>" names a chroma-backed language, e.g. "script:go";
// anything else must be one of the built-in mode names.
func resolveModeSpec(name string, textCfg *TextConfig) (nesting.ModeSpec, error) {
	if lang, ok := strings.CutPrefix(name, "script:"); ok {
		return script.ModeSpecOf(lang), nil
	}
	switch name {
	case "text":
		return text.ModeSpecOf(textCfg.toModeConfig()), nil
	case "query":
		return query.ModeSpecOf(), nil
	case "markdown":
		return markdown.ModeSpecOf(), nil
	default:
		return nesting.ModeSpec{}, newProfileError("sub-mode", "unregistered mode %q", name)
	}
}
