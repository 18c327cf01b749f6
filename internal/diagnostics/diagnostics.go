package diagnostics

import (
	"fmt"

	"github.com/google/uuid"
)

// Diagnostic is a single accumulated error or warning.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Location Location
	Message  string
	Data     map[string]any
}

// Diagnostics accumulates diagnostics across an entire compilation session,
// which may span many modules (spec §5: "Diagnostics are accumulated in
// insertion order; ordering between modules is the order in which errors
// are encountered").
//
// SessionID correlates every diagnostic emitted through one Compiler (its
// root module and every import it compiles), the way a request ID ties
// together a call chain.
type Diagnostics struct {
	SessionID uuid.UUID
	entries   []Diagnostic
}

// New creates an empty accumulator tagged with a fresh session ID.
func New() *Diagnostics {
	return &Diagnostics{SessionID: uuid.New()}
}

// Add appends a diagnostic as-is.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.entries = append(d.entries, diag)
}

// Errorf records an error-severity diagnostic.
func (d *Diagnostics) Errorf(code Code, loc Location, format string, args ...any) {
	d.entries = append(d.entries, newf(Error, code, loc, format, args...))
}

// Warnf records a warning-severity diagnostic.
func (d *Diagnostics) Warnf(code Code, loc Location, format string, args ...any) {
	d.entries = append(d.entries, newf(Warning, code, loc, format, args...))
}

func newf(sev Severity, code Code, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}

// All returns every diagnostic in insertion order.
func (d *Diagnostics) All() []Diagnostic { return d.entries }

// Errors returns only error-severity diagnostics, in insertion order.
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(Error)
}

// Warnings returns only warning-severity diagnostics, in insertion order.
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(Warning)
}

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, e := range d.entries {
		if e.Severity == sev {
			out = append(out, e)
		}
	}
	return out
}

// HasErrors reports whether any error-severity diagnostic was recorded.
// Pass implementations consult this to decide whether to skip lowering
// (spec §4.1: "if Diagnostics.errors? is true ... subsequent passes ...
// may be skipped").
func (d *Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

// ExitCode mirrors the CLI contract in spec §7: non-zero iff errors exist.
func (d *Diagnostics) ExitCode() int {
	if d.HasErrors() {
		return 1
	}
	return 0
}
