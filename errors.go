package envsafe

import (
	"fmt"
	"strings"
)

// ParseError reports a line that began like a variable assignment but could
// not be fully parsed, such as a quoted value with no closing quote. Lines
// that never look like assignments (comments, blanks, junk) are skipped
// silently and never produce a ParseError.
type ParseError struct {
	Line int    // 1-based line number where the assignment starts
	Text string // the offending line
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed line %d: %q", e.Line, e.Text)
}

// MissingEnvVarsError is returned by Load and LoadContext when safe mode
// finds keys in the example file that are not present in the effective
// configuration (the merged files overlaid with the process environment).
// Missing is sorted. Use errors.As to distinguish it from parse and read
// failures.
type MissingEnvVarsError struct {
	Missing []string
	Example string
}

func (e *MissingEnvVarsError) Error() string {
	return fmt.Sprintf(
		"missing required environment variables declared in %s: %s (define them in your env file or environment, or set AllowEmptyValues to accept empty values)",
		e.Example, strings.Join(e.Missing, ", "),
	)
}
