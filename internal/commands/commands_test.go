package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaYAML = `
$dsdl-version: "0.5.0"
meta: {name: pets}
data: {sample-type: Sample}
Pets: {$def: class_domain, classes: [cat, dog]}
Object:
  $def: struct
  $fields: {label: "Label[dom=Pets]", box: BBox}
Sample:
  $def: struct
  $fields:
    objects: "List[etype=Object]"
    caption: "Text[optional=true]"
`

const samplesYAML = `
samples:
  - objects:
      - {label: cat, box: [1, 2, 3, 4]}
      - {label: dog, box: [5, 6, 7, 8]}
  - objects:
      - {label: dog, box: [0, 0, 1, 1]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func workspace(t *testing.T) (schema, samples string) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	return writeFile(t, dir, "schema.yaml", schemaYAML), writeFile(t, dir, "samples.yaml", samplesYAML)
}

func TestVersionAndKinds(t *testing.T) {
	workspace(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dsdl dev")

	out, err = run(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "bbox")
	assert.Contains(t, out, "label-map")
	assert.Contains(t, out, "class domain; media")
}

func TestCheck(t *testing.T) {
	schema, _ := workspace(t)

	out, err := run(t, "check", schema)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "sample type")

	bad := writeFile(t, filepath.Dir(schema), "bad.yaml", `
$dsdl-version: "0.5.0"
meta: {}
data: {sample-type: Sample}
Sample:
  $def: struct
  $fields: {box: Bbx, other: Missing}
`)

	out, err = run(t, "check", bad)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "unknown_kind")
	assert.Contains(t, out, "error(s)")
}

func TestValidate(t *testing.T) {
	schema, samples := workspace(t)

	out, err := run(t, "validate", schema, samples, "--mode", "strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Validating 2 sample(s) of Sample (strict mode)")
	assert.Contains(t, out, "2 sample(s) valid")

	out, err = run(t, "validate", schema, samples, "--dump", "--workers", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 values:")
	assert.Contains(t, out, "objects")

	bad := writeFile(t, filepath.Dir(samples), "bad.yaml", `
- objects: [{label: horse, box: [1, 2, 3, 4]}]
- objects: [{box: [1, 2, 3, 4]}]
`)

	out, err = run(t, "validate", schema, bad)
	require.ErrorIs(t, err, errValidateFailed)
	assert.Contains(t, out, "#0 ")
	assert.Contains(t, out, "horse")
	assert.Contains(t, out, `#1 required field "label" of Object missing at ./objects/0/label`)
	assert.Contains(t, out, "1 of 2 sample(s) failed")
}

func TestValidate_ConfigFile(t *testing.T) {
	schema, samples := workspace(t)
	writeFile(t, filepath.Dir(schema), "dsdl.yaml", "mode: lazy\nworkers: 2\n")

	out, err := run(t, "validate", schema, samples)
	require.NoError(t, err)
	assert.Contains(t, out, "(lazy mode)")
}

func TestQuery(t *testing.T) {
	schema, samples := workspace(t)

	out, err := run(t, "query", schema, samples, "--kind", "label")
	require.NoError(t, err)
	assert.Contains(t, out, "#0 ./objects/0/label")
	assert.Contains(t, out, "#0 ./objects/1/label")
	assert.Contains(t, out, "#1 ./objects/0/label")
	assert.NotContains(t, out, "/box")

	out, err = run(t, "query", schema, samples, "--pattern", "./objects/1/*", "--index", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "#0 ./objects/1/box")
	assert.NotContains(t, out, "#1 ")

	out, err = run(t, "query", schema, samples, "--path", "./objects/0/label", "-i", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "dog")

	_, err = run(t, "query", schema, samples, "--kind", "bbx")
	require.Error(t, err)

	_, err = run(t, "query", schema, samples, "--index", "5")
	require.Error(t, err)
}

func TestComparePaths(t *testing.T) {
	assert.Negative(t, comparePaths("./objects/2/box", "./objects/10/box"))
	assert.Positive(t, comparePaths("./b", "./a/x"))
	assert.Zero(t, comparePaths("./a/0", "a/0"))
}
