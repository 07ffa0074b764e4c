package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Resolver maps the style tags a nesting.Mode returns from Token (plain
// strings like "query.keyword", or "" for unstyled) to lipgloss.Style
// values.
// A mode package never imports lipgloss itself; this is the one place a tag
// becomes paint, the terminal analogue of a browser resolving a CSS class
// against a stylesheet.
type Resolver struct {
	exact      map[string]lipgloss.Style
	overrides  map[string]lipgloss.Style
	defaultSty lipgloss.Style
}

// NewResolver returns a Resolver pre-populated with the style tags every
// mode package in this repository emits.
func NewResolver() *Resolver {
	return &Resolver{
		exact:      defaultExactStyles(),
		overrides:  make(map[string]lipgloss.Style),
		defaultSty: lipgloss.NewStyle(),
	}
}

// Set overrides the style for one exact tag, e.g. loaded from a user theme.
func (r *Resolver) Set(tag string, style lipgloss.Style) {
	r.overrides[tag] = style
}

// StyleFor returns the rendered style for tag. An empty tag (a mode's way of
// saying "no styling") and any tag with no known mapping both resolve to an
// unstyled lipgloss.Style, so an unrecognized chroma token type degrades to
// plain text rather than an error.
func (r *Resolver) StyleFor(tag string) lipgloss.Style {
	if tag == "" {
		return r.defaultSty
	}
	if s, ok := r.overrides[tag]; ok {
		return s
	}
	if s, ok := r.exact[tag]; ok {
		return s
	}
	if lang, rest, ok := strings.Cut(tag, "."); ok && lang == "script" {
		return scriptStyleFor(rest)
	}
	return r.defaultSty
}

// Render applies tag's style to text.
func (r *Resolver) Render(tag, text string) string {
	return r.StyleFor(tag).Render(text)
}

func defaultExactStyles() map[string]lipgloss.Style {
	keyword := lipgloss.NewStyle().Foreground(SyntaxKeywordColor).Bold(true)
	operator := lipgloss.NewStyle().Foreground(SyntaxOperatorColor)
	field := lipgloss.NewStyle().Foreground(SyntaxFieldColor)
	str := lipgloss.NewStyle().Foreground(SyntaxStringColor)
	literal := lipgloss.NewStyle().Foreground(SyntaxLiteralColor)
	paren := lipgloss.NewStyle().Foreground(SyntaxParenColor).Bold(true)
	punct := lipgloss.NewStyle().Foreground(SyntaxPunctColor)
	comment := lipgloss.NewStyle().Foreground(SyntaxCommentColor).Italic(true)
	delimiter := lipgloss.NewStyle().Foreground(SyntaxDelimiterColor).Bold(true)

	return map[string]lipgloss.Style{
		// internal/modes/query
		"query.keyword":  keyword,
		"query.operator": operator,
		"query.field":    field,
		"query.string":   str,
		"query.literal":  literal,
		"query.paren":    paren,
		"query.comma":    punct,

		// internal/modes/text
		"text.string":  str,
		"text.comment": comment,

		// internal/modes/markdown
		"markdown.heading":     lipgloss.NewStyle().Foreground(MarkdownHeadingColor).Bold(true),
		"markdown.blockquote":  lipgloss.NewStyle().Foreground(SyntaxCommentColor).Italic(true),
		"markdown.list-marker": lipgloss.NewStyle().Foreground(SyntaxOperatorColor).Bold(true),
		"markdown.code-span":   lipgloss.NewStyle().Foreground(SyntaxStringColor),
		"markdown.strong":      lipgloss.NewStyle().Bold(true),
		"markdown.emphasis":    lipgloss.NewStyle().Italic(true),
		"markdown.link-text":   lipgloss.NewStyle().Foreground(MarkdownLinkColor).Underline(true),
		"markdown.link-url":    lipgloss.NewStyle().Foreground(SyntaxCommentColor),
		"markdown.fence":       delimiter,

		// a sub-mode embedded via open/close delimiters that the host
		// language itself doesn't otherwise style (e.g. "<%"/"%>").
		"embed.delimiter": delimiter,
	}
}

// scriptStyleFor maps a chroma-derived tag's remainder (everything after
// "script.", e.g. "keyword-type" or "literal-string-doc") to a style by
// matching against chroma's own dotted token hierarchy, most specific
// prefix first. chroma registers dozens of subtypes per category; rather
// than enumerate each one, this groups by the leading category, same as
// most terminal chroma formatters do when a 256-color palette has fewer
// slots than chroma has token types.
func scriptStyleFor(rest string) lipgloss.Style {
	switch {
	case strings.HasPrefix(rest, "keyword"):
		return lipgloss.NewStyle().Foreground(SyntaxKeywordColor).Bold(true)
	case strings.HasPrefix(rest, "name-function"), strings.HasPrefix(rest, "name-class"):
		return lipgloss.NewStyle().Foreground(SyntaxNameColor).Bold(true)
	case strings.HasPrefix(rest, "name-builtin"), strings.HasPrefix(rest, "name-decorator"):
		return lipgloss.NewStyle().Foreground(SyntaxTypeColor)
	case strings.HasPrefix(rest, "name"):
		return lipgloss.NewStyle().Foreground(SyntaxFieldColor)
	case strings.HasPrefix(rest, "literal-string"):
		return lipgloss.NewStyle().Foreground(SyntaxStringColor)
	case strings.HasPrefix(rest, "literal-number"), strings.HasPrefix(rest, "literal"):
		return lipgloss.NewStyle().Foreground(SyntaxLiteralColor)
	case strings.HasPrefix(rest, "comment"):
		return lipgloss.NewStyle().Foreground(SyntaxCommentColor).Italic(true)
	case strings.HasPrefix(rest, "operator"):
		return lipgloss.NewStyle().Foreground(SyntaxOperatorColor)
	case strings.HasPrefix(rest, "punctuation"):
		return lipgloss.NewStyle().Foreground(SyntaxPunctColor)
	case strings.HasPrefix(rest, "error"):
		return lipgloss.NewStyle().Foreground(SyntaxErrorColor)
	case strings.HasPrefix(rest, "generic-heading"), strings.HasPrefix(rest, "generic-subheading"):
		return lipgloss.NewStyle().Bold(true)
	case strings.HasPrefix(rest, "generic-deleted"):
		return lipgloss.NewStyle().Foreground(SyntaxErrorColor)
	case strings.HasPrefix(rest, "generic-inserted"):
		return lipgloss.NewStyle().Foreground(StatusSuccessColor)
	default:
		return lipgloss.NewStyle()
	}
}
