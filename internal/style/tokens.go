package styles

// ColorToken names a themeable color. These are the keys a user can override
// in theme configuration; they are independent of the style tags a
// nesting.Mode emits (see Resolver), which name rendered roles rather than
// raw colors.
type ColorToken string

const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	TokenBorderDefault ColorToken = "border.default"

	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	TokenSelectionIndicator ColorToken = "selection.indicator"
	TokenSpinner            ColorToken = "spinner"

	TokenSyntaxKeyword   ColorToken = "syntax.keyword"
	TokenSyntaxOperator  ColorToken = "syntax.operator"
	TokenSyntaxField     ColorToken = "syntax.field"
	TokenSyntaxString    ColorToken = "syntax.string"
	TokenSyntaxLiteral   ColorToken = "syntax.literal"
	TokenSyntaxParen     ColorToken = "syntax.paren"
	TokenSyntaxPunct     ColorToken = "syntax.punct"
	TokenSyntaxComment   ColorToken = "syntax.comment"
	TokenSyntaxType      ColorToken = "syntax.type"
	TokenSyntaxName      ColorToken = "syntax.name"
	TokenSyntaxError     ColorToken = "syntax.error"
	TokenSyntaxDelimiter ColorToken = "syntax.delimiter"

	TokenMarkdownHeading ColorToken = "markdown.heading"
	TokenMarkdownLink    ColorToken = "markdown.link"
)

// AllTokens returns every valid color token, for validating user-supplied
// theme overrides.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,

		TokenBorderDefault,

		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		TokenSelectionIndicator,
		TokenSpinner,

		TokenSyntaxKeyword,
		TokenSyntaxOperator,
		TokenSyntaxField,
		TokenSyntaxString,
		TokenSyntaxLiteral,
		TokenSyntaxParen,
		TokenSyntaxPunct,
		TokenSyntaxComment,
		TokenSyntaxType,
		TokenSyntaxName,
		TokenSyntaxError,
		TokenSyntaxDelimiter,

		TokenMarkdownHeading,
		TokenMarkdownLink,
	}
}
