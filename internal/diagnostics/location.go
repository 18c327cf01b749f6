// Package diagnostics accumulates compiler errors and warnings with source
// locations, the way internal/errors does for the teacher compiler.
package diagnostics

import "fmt"

// Location identifies a point in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Severity distinguishes fatal diagnostics from advisory ones. Only Error
// severity affects the compiler's exit status (spec §7).
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}
