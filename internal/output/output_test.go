package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer

	p := New(&buf, false)
	p.Success("compiled")
	p.Verbose("hidden")
	p.KeyValue("structs", 3)

	out := buf.String()
	assert.Contains(t, out, "compiled")
	assert.Contains(t, out, "structs:")
	assert.Contains(t, out, "3")
	assert.NotContains(t, out, "hidden")
}

func TestPrinter_Diagnostics(t *testing.T) {
	var d diagnostic.Diagnostics
	d.AddError(diagnostic.CodeUnknownKind, "unknown kind Bbx", "Sample", "box")
	d.AddWarning(diagnostic.CodeMissingSection, "no meta", "", "")
	d.AddInfo(diagnostic.CodeOverriddenDef, "overridden", "Shared", "")

	var buf bytes.Buffer
	New(&buf, true).Diagnostics(d)

	out := buf.String()
	assert.Contains(t, out, "unknown kind Bbx")
	assert.Contains(t, out, "no meta")
	assert.Contains(t, out, "overridden")

	buf.Reset()
	New(&buf, false).Warnings("#1 ", []errdefs.MissingFieldWarning{{Struct: "S", Path: "./label", Field: "label"}})
	assert.Contains(t, buf.String(), `#1 required field "label" of S missing at ./label`)
}
