package config

// DefaultProfiles returns the language profiles shipped with this
// repository, available without any user-supplied profile directory.
func DefaultProfiles() map[string]*Profile {
	profiles := []*Profile{markdownProfile(), shellWithEmbeddedQueryProfile()}
	out := make(map[string]*Profile, len(profiles))
	for _, p := range profiles {
		out[p.Name] = p
	}
	return out
}

// markdownProfile highlights Markdown prose, delegating fenced code blocks
// to whatever language chroma recognizes from the fence's info string.
func markdownProfile() *Profile {
	return &Profile{
		Name: "markdown",
		Host: HostConfig{Mode: "markdown"},
		SubModes: []SubModeConfig{
			{Name: "fenced-code", Mode: markdownFenceMode},
		},
	}
}

// shellWithEmbeddedQueryProfile is a host of plain shell-style text (line
// comments, double/single-quoted strings) with an inline filter-query
// language embedded between "<%" and "%>" markers — the nearest analogue
// this repo's modes give to a template language embedding a query
// expression inside a host document.
func shellWithEmbeddedQueryProfile() *Profile {
	return &Profile{
		Name: "shell-with-embedded-query",
		Host: HostConfig{
			Mode: "text",
			Text: &TextConfig{
				StringQuotes: `"'`,
				StringEscape: `\`,
				LineComment:  []string{"#"},
			},
		},
		SubModes: []SubModeConfig{
			{
				Name:               "embedded-query",
				Mode:               "query",
				Open:               "<%",
				Close:              "%>",
				DelimStyle:         "embed.delimiter",
				TokenizeDelimiters: false,
			},
		},
	}
}
