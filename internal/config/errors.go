package config

import "fmt"

// ProfileError reports a problem loading or building a language profile: a
// malformed YAML document, a reference to an unregistered mode, or a
// sub-mode descriptor missing a required field.
type ProfileError struct {
	Where string
	Msg   string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Where, e.Msg)
}

func newProfileError(where, format string, args ...any) *ProfileError {
	return &ProfileError{Where: where, Msg: fmt.Sprintf(format, args...)}
}
