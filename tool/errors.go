package tool

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotASCII is wrapped by ToolError when stdout holds a byte outside 7-bit ASCII
var ErrNotASCII = errors.New("output is not 7-bit ASCII")

// ToolError reports a failed invocation: non-zero exit, timeout, start failure
// or undecodable output.
type ToolError struct {
	Args     []string
	ExitCode int    // -1 when the process did not exit on its own
	Stderr   string // trimmed captured standard error
	Timeout  bool
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	b.WriteString(strings.Join(e.Args, " "))
	switch {
	case e.Timeout:
		b.WriteString(": timeout")
	case e.ExitCode > 0:
		fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	}
	if e.Err != nil && !e.Timeout {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
