package parse

import "fmt"

// ParseError reports output that violates the tool's output contract
type ParseError struct {
	Mode   string // "ranking" or "cv"
	Line   string // offending line, if any
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("parse %s output: %s", e.Mode, e.Reason)
	}
	return fmt.Sprintf("parse %s output: %s: %q", e.Mode, e.Reason, e.Line)
}
