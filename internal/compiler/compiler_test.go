package compiler

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/registry"
)

func compileString(t *testing.T, src string, opts Options) (*registry.Registry, *Result, error) {
	t.Helper()

	reg := registry.New()
	res, err := CompileBytes(reg, "root.yaml", []byte(src), opts)

	return reg, res, err
}

func TestCompile_EndToEnd(t *testing.T) {
	reg, res, err := compileString(t, `
$dsdl-version: "0.5.0"
meta: {name: pets}
data:
  sample-type: Sample
defs:
  ClassDom:
    $def: class_domain
    classes: [cat, dog]
  Sample:
    $def: struct
    $fields:
      label: Label[dom=ClassDom]
      box: BBox
`, Options{})
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.IsValid())
	assert.Equal(t, []string{"Sample"}, res.Order)

	s, err := reg.Struct("Sample")
	require.NoError(t, err)
	assert.Equal(t, []string{"label", "box"}, s.MemberNames())

	label, _ := s.Member("label")
	assert.Equal(t, descriptor.KindLabel, label.Spec.Kind)
	assert.Equal(t, []string{"ClassDom"}, label.Spec.Domains())

	box, _ := s.Member("box")
	assert.Equal(t, descriptor.BBoxArgs{Mode: descriptor.BBoxXYWH}, box.Spec.Args)

	c, err := reg.Label("ClassDom::dog")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Index)

	require.NotNil(t, reg.SampleType())
	assert.Equal(t, "Sample", reg.SampleType().String())
	assert.Nil(t, reg.GlobalInfoType())
}

const paramSchema = `
$dsdl-version: "0.5.0"
meta: {}
data:
  sample-type: Sample[dom=%s]
defs:
  Colors: {$def: class_domain, classes: [red, green]}
  Shapes: {$def: class_domain, classes: [circle, square]}
  Entry:
    $def: struct
    $params: [dom]
    $fields:
      label: Label[dom=$dom]
  Sample:
    $def: struct
    $params: [dom]
    $fields:
      entries: List[etype=Entry[dom=$dom]]
      first: Entry[dom=$dom]
`

func TestCompile_ParameterPropagation(t *testing.T) {
	for _, dom := range []string{"Colors", "Shapes"} {
		t.Run(dom, func(t *testing.T) {
			src := bytes.ReplaceAll([]byte(paramSchema), []byte("%s"), []byte(dom))

			reg, res, err := compileString(t, string(src), Options{})
			require.NoError(t, err)
			assert.Equal(t, []string{"Sample", "Entry"}, res.Order)

			entry, err := reg.Struct("Entry")
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"dom": dom}, entry.Bindings)

			label, _ := entry.Member("label")
			assert.Equal(t, []string{dom}, label.Spec.Domains())

			sample, err := reg.Struct("Sample")
			require.NoError(t, err)

			entries, _ := sample.Member("entries")
			ref, ok := entries.Spec.StructRef()
			require.True(t, ok)
			assert.Equal(t, "Entry", ref.Name)
			assert.Equal(t, []descriptor.Binding{{Param: "dom", Value: dom}}, ref.Bindings)
		})
	}
}

func TestCompile_Cycle(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path []string
	}{
		{
			name: "direct",
			src: `
$dsdl-version: "1"
data: {sample-type: A}
defs:
  A: {$def: struct, $fields: {b: B}}
  B: {$def: struct, $fields: {a: A}}
`,
			path: []string{"A", "B", "A"},
		},
		{
			name: "through list",
			src: `
$dsdl-version: "1"
data: {sample-type: A}
defs:
  A: {$def: struct, $fields: {bs: "List[etype=B]"}}
  B: {$def: struct, $fields: {a: A}}
`,
			path: []string{"A", "B", "A"},
		},
		{
			name: "self",
			src: `
$dsdl-version: "1"
data: {sample-type: A}
defs:
  A: {$def: struct, $fields: {next: A}}
`,
			path: []string{"A", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _, err := compileString(t, tt.src, Options{})
			require.ErrorIs(t, err, errdefs.ErrDefineCycle)

			var ce *errdefs.CycleError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.path, ce.Path)

			assert.False(t, reg.HasStruct("A"))
			assert.False(t, reg.HasStruct("B"))
		})
	}
}

func TestCompile_AmbiguousParameter(t *testing.T) {
	src := `
$dsdl-version: "1"
data: {sample-type: "Sample"}
defs:
  Colors: {$def: class_domain, classes: [red]}
  Shapes: {$def: class_domain, classes: [circle]}
  Entry: {$def: struct, $params: [dom], $fields: {label: "Label[dom=$dom]"}}
  Sample:
    $def: struct
    $fields:
      a: Entry[dom=Colors]
      b: Entry[dom=%s]
`
	_, _, err := compileString(t, string(bytes.ReplaceAll([]byte(src), []byte("%s"), []byte("Shapes"))), Options{})
	require.ErrorIs(t, err, errdefs.ErrParameterResolution)

	reg, _, err := compileString(t, string(bytes.ReplaceAll([]byte(src), []byte("%s"), []byte("Colors"))), Options{})
	require.NoError(t, err)

	entry, err := reg.Struct("Entry")
	require.NoError(t, err)
	assert.Equal(t, "Colors", entry.Bindings["dom"])
}

func TestCompile_BindingsMustBeWrittenAlike(t *testing.T) {
	src := `
$dsdl-version: "1"
data: {sample-type: "Sample[dom=Colors]"}
defs:
  Colors: {$def: class_domain, classes: [red]}
  Entry: {$def: struct, $params: [dom], $fields: {label: "Label[dom=$dom]"}}
  Holder: {$def: struct, $params: [dom], $fields: {e: "Entry[dom=$dom]"}}
  Sample:
    $def: struct
    $params: [dom]
    $fields:
      h: Holder[dom=$dom]
      e: Entry[dom=%s]
`
	_, _, err := compileString(t, strings.ReplaceAll(src, "%s", "Colors"), Options{})
	require.ErrorIs(t, err, errdefs.ErrParameterResolution)
	assert.Contains(t, err.Error(), "$dom")

	reg, _, err := compileString(t, strings.ReplaceAll(src, "%s", "$dom"), Options{})
	require.NoError(t, err)

	entry, err := reg.Struct("Entry")
	require.NoError(t, err)
	assert.Equal(t, "Colors", entry.Bindings["dom"])
}

func TestCompile_UnresolvedParameter(t *testing.T) {
	_, _, err := compileString(t, `
$dsdl-version: "1"
data: {sample-type: Sample}
defs:
  Sample: {$def: struct, $params: [dom], $fields: {label: "Label[dom=$dom]"}}
`, Options{})
	require.ErrorIs(t, err, errdefs.ErrParameterResolution)
	assert.Contains(t, err.Error(), "dom")

	_, _, err = compileString(t, `
$dsdl-version: "1"
data: {sample-type: "Sample[dom=Nope]"}
defs:
  Sample: {$def: struct, $params: [dom], $fields: {label: "Label[dom=$dom]"}}
`, Options{})
	require.ErrorIs(t, err, errdefs.ErrParameterResolution)
}

func TestCompile_UnreachableGenericStaysUnresolved(t *testing.T) {
	reg, _, err := compileString(t, `
$dsdl-version: "1"
data: {sample-type: Sample}
defs:
  Sample: {$def: struct, $fields: {n: Int}}
  Spare: {$def: struct, $params: [dom], $fields: {label: "Label[dom=$dom]"}}
`, Options{})
	require.NoError(t, err)

	spare, err := reg.Struct("Spare")
	require.NoError(t, err)
	assert.Empty(t, spare.Bindings)

	label, _ := spare.Member("label")
	assert.Equal(t, []string{"$dom"}, label.Spec.Domains())
}

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"missing version", "data: {sample-type: S}\nS: {$def: struct, $fields: {a: Int}}\n", diagnostic.CodeMissingSection},
		{"missing data", "$dsdl-version: '1'\n", diagnostic.CodeMissingSection},
		{"missing def", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$fields: {a: Int}}\n", diagnostic.CodeMissingDefKind},
		{"unknown kind", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: Lable}}\n", diagnostic.CodeUnknownKind},
		{"reserved name", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: Int}}\nPolygon: {$def: struct, $fields: {a: Int}}\n", diagnostic.CodeReservedName},
		{"bad field name", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {1a: Int}}\n", diagnostic.CodeInvalidName},
		{"bad expr", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: 'BBox[mode'}}\n", diagnostic.CodeInvalidExpr},
		{"bad arg", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: 'BBox[mode=ltrb]'}}\n", diagnostic.CodeInvalidArgument},
		{"list without etype", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: List}}\n", diagnostic.CodeInvalidArgument},
		{"unknown domain", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: 'Label[dom=X]'}}\n", diagnostic.CodeUnknownDomain},
		{"unknown param", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: 'Label[dom=$x]'}}\n", diagnostic.CodeUnknownParam},
		{"unknown optional", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: Int}, $optional: [b]}\n", diagnostic.CodeUnknownOptional},
		{"unknown root", "$dsdl-version: '1'\ndata: {sample-type: T}\nS: {$def: struct, $fields: {a: Int}}\n", diagnostic.CodeUnknownStruct},
		{"duplicate category", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: Int}}\nD: {$def: class_domain, classes: [a, a]}\n", diagnostic.CodeDuplicateCategory},
		{"bad skeleton", "$dsdl-version: '1'\ndata: {sample-type: S}\nS: {$def: struct, $fields: {a: Int}}\nD: {$def: class_domain, classes: [a, b], skeleton: [[1, 3]]}\n", diagnostic.CodeInvalidSkeleton},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _, err := compileString(t, tt.src, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, errdefs.ErrDefineSyntax)

			_, res, err := compileString(t, tt.src, Options{ReportMode: true})
			require.NoError(t, err)
			assert.Contains(t, res.Diagnostics.Codes(), tt.code)
			assert.Empty(t, reg.Snapshot().Structs)
		})
	}
}

func TestCompile_UnknownKindSuggestion(t *testing.T) {
	_, _, err := compileString(t, `
$dsdl-version: "1"
data: {sample-type: Sample}
defs:
  Sample: {$def: struct, $fields: {box: BBoks, o: Objekt}}
  Object: {$def: struct, $fields: {n: Int}}
`, Options{})

	var de *errdefs.DefineError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Sample", de.Definition)
	assert.Equal(t, "box", de.Field)
	assert.Contains(t, de.Suggestions, "bbox")
}

func TestCompile_ReportModeCollectsEverything(t *testing.T) {
	reg, res, err := compileString(t, `
$dsdl-version: "1"
meta: {}
data: {sample-type: Sample}
defs:
  Colors: {$def: class_domain, classes: [red, " red", green]}
  Sample:
    $def: struct
    $fields:
      a: Lable[dom=Colors]
      b: BBox[mode=bad]
      c: Label[dom=Colours]
      d: Int
`, Options{ReportMode: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		diagnostic.CodeUnknownKind,
		diagnostic.CodeInvalidArgument,
		diagnostic.CodeUnknownDomain,
	}, res.Diagnostics.Codes())
	require.Len(t, res.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeTrimmedCategory, res.Diagnostics.Warnings[0].Code)
	assert.Equal(t, []string{"Colors"}, res.Diagnostics.Errors[2].Suggestions)

	assert.Error(t, res.Diagnostics.Error())
	assert.ErrorIs(t, res.Diagnostics.Error(), errdefs.ErrDefineSyntax)

	snap := reg.Snapshot()
	assert.Empty(t, snap.Structs)
	assert.Empty(t, snap.Domains)
}

func TestCompile_TrimmedCategoryWarning(t *testing.T) {
	var logs bytes.Buffer

	reg, res, err := compileString(t, `
$dsdl-version: "1"
meta: {}
data: {sample-type: S}
defs:
  D: {$def: class_domain, classes: [a, "a ", b], skeleton: [[1, 2]], palette: rgb}
  S: {$def: struct, $fields: {l: "Label[dom=D]"}}
`, Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics.Warnings, 1)
	assert.Contains(t, logs.String(), "after trimming")

	d, err := reg.Domain("D")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.Names())
	assert.Equal(t, [][2]int{{1, 2}}, d.Skeleton)
	assert.Equal(t, "rgb", d.Attributes["palette"])
}

func TestCompile_Imports(t *testing.T) {
	fsys := fstest.MapFS{
		"ds/root.yaml": {Data: []byte(`
$dsdl-version: "1"
$import: [classes, objects]
meta: {}
data: {sample-type: "Sample[dom=Colors]"}
Colors: {$def: class_domain, classes: [red, green, blue]}
Sample:
  $def: struct
  $params: [dom]
  $fields: {objects: "List[etype=Object[dom=$dom]]"}
`)},
		"ds/classes.yaml": {Data: []byte(`
Colors: {$def: class_domain, classes: [red]}
`)},
		"lib/objects.yaml": {Data: []byte(`
Object:
  $def: struct
  $params: [dom]
  $fields: {label: "Label[dom=$dom]", box: BBox}
`)},
	}

	reg := registry.New()
	res, err := Compile(reg, fsys, "ds/root.yaml", Options{ImportPaths: []string{"lib"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"ds/root.yaml", "ds/classes.yaml", "lib/objects.yaml"}, res.Documents)
	require.Len(t, res.Diagnostics.Infos, 1)
	assert.Equal(t, diagnostic.CodeOverriddenDef, res.Diagnostics.Infos[0].Code)

	colors, err := reg.Domain("Colors")
	require.NoError(t, err)
	assert.Equal(t, 3, colors.Len())

	obj, err := reg.Struct("Object")
	require.NoError(t, err)
	assert.Equal(t, "Colors", obj.Bindings["dom"])
	assert.Equal(t, "lib/objects.yaml", obj.Document)
}

func TestCompile_DuplicateAcrossImports(t *testing.T) {
	fsys := fstest.MapFS{
		"root.yaml": {Data: []byte(`
$dsdl-version: "1"
$import: [a, b]
data: {sample-type: S}
S: {$def: struct, $fields: {x: Int}}
`)},
		"a.yaml": {Data: []byte("D: {$def: class_domain, classes: [x]}\n")},
		"b.yaml": {Data: []byte("D: {$def: class_domain, classes: [y]}\n")},
	}

	reg := registry.New()
	_, err := Compile(reg, fsys, "root.yaml", Options{})
	require.ErrorIs(t, err, errdefs.ErrDuplicateDefinition)
	assert.Empty(t, reg.Snapshot().Domains)
}

func TestCompile_MissingImport(t *testing.T) {
	_, _, err := compileString(t, "$dsdl-version: '1'\n$import: [x]\ndata: {sample-type: S}\n", Options{})
	require.Error(t, err)

	_, err = Compile(registry.New(), fstest.MapFS{}, "missing.yaml", Options{})
	require.Error(t, err)

	res, err := Compile(registry.New(), fstest.MapFS{}, "missing.yaml", Options{ReportMode: true})
	require.NoError(t, err)
	assert.Equal(t, []string{diagnostic.CodeDocumentLoad}, res.Diagnostics.Codes())
}

func TestCompile_FlagsAndGlobalInfo(t *testing.T) {
	reg, res, err := compileString(t, `
$dsdl-version: "1"
data:
  sample-type: Sample
  global-info-type: Info
defs:
  Sample:
    $def: struct
    $fields:
      id: "UniqueID[id_type=uuid, is_attr=true]"
      tags: "List[etype=Str, ordered=true]"
      note: "Text[optional=true]"
  Info:
    $def: struct
    $fields: {created: "Date[fmt='%Y/%m/%d']"}
`, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sample", "Info"}, res.Order)
	require.NotNil(t, reg.GlobalInfoType())

	s, err := reg.Struct("Sample")
	require.NoError(t, err)

	id, _ := s.Member("id")
	assert.True(t, id.Spec.IsAttr)
	assert.Equal(t, descriptor.UniqueIDArgs{IDType: "uuid"}, id.Spec.Args)

	tags, _ := s.Member("tags")
	assert.Equal(t, descriptor.KindStr, tags.Spec.Elem().Kind)
	assert.True(t, tags.Spec.Args.(descriptor.ListArgs).Ordered)

	assert.Equal(t, []string{"id", "tags"}, s.Required())

	info, err := reg.Struct("Info")
	require.NoError(t, err)

	created, _ := info.Member("created")
	assert.Equal(t, descriptor.TimeArgs{Format: "%Y/%m/%d"}, created.Spec.Args)
}
