// Package styles contains Lip Gloss style definitions and the resolver that
// maps a mode's plain style-tag strings (e.g. "query.keyword",
// "markdown.heading") to rendered lipgloss.Style values. Nothing under
// internal/nesting or internal/modes imports lipgloss; this package is the
// one place a tag string becomes an actual terminal style, the same way a
// browser resolves a CSS class name against a stylesheet.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy, used by the CLI's own chrome (status line, prompts).
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	SpinnerColor            = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}

	// Syntax palette (Catppuccin Mocha/Latte), shared across every mode
	// package's style tags rather than kept per-language the way the
	// teacher's bql.KeywordColor/bql.OperatorColor/etc. were.
	SyntaxKeywordColor   = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // mauve
	SyntaxOperatorColor  = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"} // red
	SyntaxFieldColor     = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // teal
	SyntaxStringColor    = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"} // yellow
	SyntaxLiteralColor   = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"} // peach
	SyntaxParenColor     = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue
	SyntaxPunctColor     = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"} // overlay0
	SyntaxCommentColor   = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"} // overlay0
	SyntaxTypeColor      = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"} // yellow
	SyntaxNameColor      = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue
	SyntaxErrorColor     = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"} // red
	SyntaxDelimiterColor = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"} // overlay0

	// Markdown-specific accents that don't map cleanly onto the generic
	// syntax palette above.
	MarkdownHeadingColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	MarkdownLinkColor    = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"}

	// Selection indicator style (">" prefix in lists).
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// Status bar shown beneath rendered output (file path, cursor line).
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Error display for CLI/TUI failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)

// ApplyTheme overrides the base CLI chrome colors from user configuration.
// Empty strings are ignored, keeping the default values. The syntax palette
// is overridden separately, per-tag, through Resolver.Set.
func ApplyTheme(muted, errorColor, success string) {
	if muted != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		BorderDefaultColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
	}
	if errorColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
	}
	if success != "" {
		StatusSuccessColor = lipgloss.AdaptiveColor{Light: success, Dark: success}
	}
}
