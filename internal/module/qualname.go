// Package module implements the Module data model and the per-module
// import bookkeeping the compiler driver coordinates (spec §3 "Module",
// "QualifiedName").
package module

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// QualifiedName is an ordered sequence of identifier segments (e.g.
// "std.string") that uniquely identifies a module (spec §3
// "QualifiedName").
//
// Segments are NFC-normalized at construction — the same normalization
// boundary the teacher's lexer applies to raw source bytes
// (internal/lexer/normalize.go), moved here since this spec treats lexing
// as an external collaborator: two import paths that are byte-different
// but Unicode-equivalent (e.g. a combining-character variant of an
// identifier) must still name the same module.
type QualifiedName struct {
	Segments []string
}

// NewQualifiedName builds a QualifiedName from path segments, normalizing
// each one.
func NewQualifiedName(segments ...string) QualifiedName {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = normalizeSegment(s)
	}
	return QualifiedName{Segments: out}
}

// FromDotted parses "std.string.builder"-style dotted notation.
func FromDotted(dotted string) QualifiedName {
	return NewQualifiedName(strings.Split(dotted, ".")...)
}

// FromFilePath derives a QualifiedName from a module's file path relative
// to a search root, e.g. "std/string.inko" -> "std.string" (spec §3
// "Derivable from file path and import path").
func FromFilePath(relPath string) QualifiedName {
	relPath = strings.TrimSuffix(relPath, ".inko")
	parts := strings.FieldsFunc(relPath, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return NewQualifiedName(parts...)
}

func normalizeSegment(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// String renders dotted notation, e.g. "std.string".
func (q QualifiedName) String() string { return strings.Join(q.Segments, ".") }

// IsStdlib reports whether this name's leading segment is "std" (spec §4.1
// step 2 "standard library imports resolve against the stdlib root rather
// than the project search path").
func (q QualifiedName) IsStdlib() bool {
	return len(q.Segments) > 0 && q.Segments[0] == "std"
}

// Equal reports whether two qualified names name the same module.
func (q QualifiedName) Equal(other QualifiedName) bool {
	if len(q.Segments) != len(other.Segments) {
		return false
	}
	for i := range q.Segments {
		if q.Segments[i] != other.Segments[i] {
			return false
		}
	}
	return true
}
