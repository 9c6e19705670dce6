package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndError(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning(CodeTrimmedCategory, "category \"cat \" collides", "Animals", "classes[1]")
	d.AddError(CodeUnknownKind, "unknown kind \"BBx\"", "Sample", "box")
	d.AddInfo(CodeOverriddenDef, "root overrides import", "Sample", "")

	assert.True(t, d.HasErrors())
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{CodeUnknownKind}, d.Codes())
	assert.EqualError(t, d.Error(), `[Sample] box: [unknown_kind] unknown kind "BBx"`)
}

func TestDiagnostics_ErrorUnwrap(t *testing.T) {
	sentinel := errors.New("boom")

	var d Diagnostics
	d.Add(Diagnostic{Severity: SeverityError, Code: "x", Message: "m", Err: sentinel})

	assert.ErrorIs(t, d.Error(), sentinel)
}

func TestDiagnostic_StringWithSuggestions(t *testing.T) {
	diag := Diagnostic{
		Code:        CodeUnknownKind,
		Message:     `unknown kind "BBx"`,
		Document:    "sample.yaml",
		Definition:  "Sample",
		FieldPath:   "box",
		Suggestions: []string{"bbox"},
	}

	assert.Equal(t, `sample.yaml [Sample] box: [unknown_kind] unknown kind "BBx" (did you mean bbox?)`, diag.String())
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddError("a", "a", "", "")
	b.AddWarning("b", "b", "", "")
	b.AddInfo("c", "c", "", "")

	a.Merge(b)
	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
