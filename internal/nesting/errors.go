package nesting

import "fmt"

// ConfigError reports a problem detected while compiling a Config: a
// missing open pattern, or a mode that could not be resolved even after a
// dynamic start callback ran. Configuration errors are not recoverable —
// the Config that produced one is rejected and must not be installed.
type ConfigError struct {
	// Where names the stage that failed, e.g. "compile", "start".
	Where string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("nesting: config error during %s: %s", e.Where, e.Msg)
}

func newConfigError(where, format string, args ...any) *ConfigError {
	return &ConfigError{Where: where, Msg: fmt.Sprintf(format, args...)}
}

// LexicalError reports a runtime regex failure or a pattern that matched
// zero characters where forward progress was required. Per spec.md §7,
// these degrade tokenization to host-mode pass-through for the rest of the
// line rather than aborting the document.
type LexicalError struct {
	Msg string
}

func (e *LexicalError) Error() string {
	return "nesting: " + e.Msg
}
