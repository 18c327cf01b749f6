package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsOrderingAndSeverity(t *testing.T) {
	d := New()
	require.False(t, d.HasErrors())

	d.Warnf(TIRUnusedLocal, Location{File: "a.inko", Line: 1, Column: 1}, "unused local %q", "x")
	d.Errorf(ResUndefinedMethod, Location{File: "a.inko", Line: 2, Column: 3}, "undefined method %q", "foo")
	d.Warnf(TIRUnreachableBlock, Location{File: "a.inko", Line: 5, Column: 1}, "unreachable block")

	assert.True(t, d.HasErrors())
	assert.Equal(t, 1, d.ExitCode())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, Warning, all[0].Severity)
	assert.Equal(t, Error, all[1].Severity)
	assert.Equal(t, Warning, all[2].Severity)

	errs := d.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, ResUndefinedMethod, errs[0].Code)

	warns := d.Warnings()
	require.Len(t, warns, 2)
}

func TestDiagnosticsReportsCarrySessionID(t *testing.T) {
	d := New()
	d.Errorf(TypeIncompatible, Location{File: "b.inko", Line: 1, Column: 1}, "bad type")

	reports := d.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, Schema, reports[0].Schema)
	assert.Equal(t, d.SessionID.String(), reports[0].Session)
	assert.Equal(t, "error", reports[0].Severity)

	js, err := d.ToJSON(false)
	require.NoError(t, err)
	assert.Contains(t, js, "TYP001")
}

func TestNoErrorsHasZeroExitCode(t *testing.T) {
	d := New()
	d.Warnf(TIRUnusedLocal, Location{}, "unused")
	assert.Equal(t, 0, d.ExitCode())
}
