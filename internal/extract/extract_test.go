package extract

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsdl-go/internal/compiler"
	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/field"
	"dsdl-go/internal/instance"
	"dsdl-go/internal/registry"
)

const detectionSchema = `
$dsdl-version: "0.5.0"
meta: {name: detection}
data:
  sample-type: Sample
defs:
  Pets:
    $def: class_domain
    classes: [cat, dog]
  Object:
    $def: struct
    $fields:
      label: Label[dom=Pets]
      box: BBox
      note: Text[optional=true]
  Info:
    $def: struct
    $fields:
      width: Int
      height: Int
  Sample:
    $def: struct
    $fields:
      label: Label[dom=Pets]
      box: BBox
      objects: List[etype=Object]
      info: Info
      tags: List[etype=Str]
`

func setup(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.New()
	_, err := compiler.CompileBytes(reg, "detection.yaml", []byte(detectionSchema), compiler.Options{})
	require.NoError(t, err)

	return reg
}

func sampleData() map[string]any {
	return map[string]any{
		"label": "dog",
		"box":   []any{0, 0, 100, 50},
		"objects": []any{
			map[string]any{"label": "cat", "box": []any{1, 2, 3, 4}},
			map[string]any{"label": "dog", "box": []any{5, 6, 7, 8}},
		},
		"info": map[string]any{"width": 640, "height": 480},
		"tags": []any{"indoor", "night"},
	}
}

func newInstance(t *testing.T, reg *registry.Registry, raw map[string]any, mode instance.Mode) *instance.Instance {
	t.Helper()

	inst, err := instance.New(reg, "Sample", raw, mode)
	require.NoError(t, err)

	return inst
}

func labelNames(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.(field.Label).Name()
	}

	return out
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{".", nil},
		{"", nil},
		{"./a/b", []string{"a", "b"}},
		{"/a/b", []string{"a", "b"}},
		{"a/0/b", []string{"a", "0", "b"}},
		{"a.b.c", []string{"a", "b", "c"}},
		{"./objects/*/box/", []string{"objects", "*", "box"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePath("./a//b")
	require.Error(t, err)

	assert.Equal(t, ".", Canonical(nil))
	assert.Equal(t, "./a/0", Canonical([]string{"a", "0"}))
}

type failingResolver struct {
	StructResolver
	missing string
}

func (r failingResolver) Struct(name string) (*descriptor.Struct, error) {
	if name == r.missing {
		return nil, errdefs.NotFound(errdefs.ErrStructNotFound, name)
	}

	return r.StructResolver.Struct(name)
}

func TestFlatten_FailureIsNotCached(t *testing.T) {
	reg := setup(t)
	desc, err := reg.Struct("Sample")
	require.NoError(t, err)

	_, err = Flatten(failingResolver{StructResolver: reg, missing: "Object"}, desc)
	require.ErrorIs(t, err, errdefs.ErrStructNotFound)

	idx, err := Flatten(reg, desc)
	require.NoError(t, err)
	assert.Contains(t, idx.Paths(), "./objects/*/box")

	again, err := Flatten(failingResolver{StructResolver: reg, missing: "Object"}, desc)
	require.NoError(t, err)
	assert.Same(t, idx, again)
}

func TestFlatten(t *testing.T) {
	reg := setup(t)
	desc, err := reg.Struct("Sample")
	require.NoError(t, err)

	idx, err := Flatten(reg, desc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"./label",
		"./box",
		"./objects/*/label",
		"./objects/*/box",
		"./objects/*/note",
		"./info/width",
		"./info/height",
		"./tags/*",
	}, idx.Paths())

	again, err := Flatten(reg, desc)
	require.NoError(t, err)
	assert.Same(t, idx, again)

	assert.EqualValues(t, 2, idx.Select(descriptor.KindLabel).GetCardinality())
	assert.EqualValues(t, 4, idx.Select(descriptor.KindLabel, descriptor.KindBBox).GetCardinality())
	assert.EqualValues(t, idx.Len(), idx.Select().GetCardinality())
	assert.True(t, idx.Select(descriptor.KindVideo).IsEmpty())

	e, ok := idx.Entry("./tags/*")
	require.True(t, ok)
	assert.Equal(t, descriptor.KindStr, e.Kind)
	assert.Equal(t, []any{"a", "b"}, e.Expr.Get(map[string]any{"tags": []any{"a", "b"}}))
}

func TestValueAt(t *testing.T) {
	reg := setup(t)
	inst := newInstance(t, reg, sampleData(), instance.ModeEager)

	v, ok, err := ValueAt(inst, "./objects/1/box")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, field.BBox{X: 5, Y: 6, W: 7, H: 8}, v)

	v, ok, err = ValueAt(inst, "objects.0.label")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cat", v.(field.Label).Name())

	v, ok, err = ValueAt(inst, "./info/width")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 640, v)

	_, ok, err = ValueAt(inst, "./objects/7/box")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = ValueAt(inst, "./objects/0/note")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ValueAt(inst, "./objects/first/box")
	require.ErrorIs(t, err, errdefs.ErrAttributeNotFound)

	root, ok, err := ValueAt(inst, ".")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, inst, root)
}

func TestValueAt_LazyValidationError(t *testing.T) {
	reg := setup(t)

	raw := sampleData()
	raw["objects"].([]any)[0].(map[string]any)["box"] = []any{1, 2}

	inst := newInstance(t, reg, raw, instance.ModeLazy)

	_, _, err := ValueAt(inst, "./objects/0/box")
	require.ErrorIs(t, err, errdefs.ErrValidation)

	_, err = ExtractByKind(inst, descriptor.KindBBox)
	require.ErrorIs(t, err, errdefs.ErrValidation)
}

func TestExtractByKind_EndToEnd(t *testing.T) {
	reg := registry.New()
	_, err := compiler.CompileBytes(reg, "root.yaml", []byte(`
$dsdl-version: "0.5.0"
meta: {}
data: {sample-type: Sample}
ClassDom: {$def: class_domain, classes: [cat, dog]}
Sample:
  $def: struct
  $fields: {label: "Label[dom=ClassDom]", box: BBox}
`), compiler.Options{})
	require.NoError(t, err)

	inst, err := instance.New(reg, "Sample", map[string]any{"label": "cat", "box": []any{1, 2, 3, 4}}, instance.ModeEager)
	require.NoError(t, err)

	labels, err := ExtractByKind(inst, descriptor.KindLabel)
	require.NoError(t, err)
	require.Len(t, labels, 1)

	cat := labels["./label"].(field.Label)
	assert.Equal(t, "cat", cat.Name())
	assert.Equal(t, 1, cat.Index())

	box, _, err := ValueAt(inst, "./box")
	require.NoError(t, err)

	b := box.(field.BBox)
	assert.InDelta(t, 1, b.XMin(), 1e-9)
	assert.InDelta(t, 2, b.YMin(), 1e-9)
	assert.InDelta(t, 3, b.Width(), 1e-9)
	assert.InDelta(t, 4, b.Height(), 1e-9)
}

func TestExtractByKind_Labels(t *testing.T) {
	reg := setup(t)

	for _, mode := range []instance.Mode{instance.ModeLazy, instance.ModeEager, instance.ModeStrict} {
		t.Run(mode.String(), func(t *testing.T) {
			inst := newInstance(t, reg, sampleData(), mode)

			got, err := ExtractByKind(inst, descriptor.KindLabel)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				"./label":           "dog",
				"./objects/0/label": "cat",
				"./objects/1/label": "dog",
			}, labelNames(got))
		})
	}
}

func TestExtractByKind_RoundTrip(t *testing.T) {
	reg := setup(t)

	raw := sampleData()
	raw["objects"].([]any)[1].(map[string]any)["note"] = "occluded"

	inst := newInstance(t, reg, raw, instance.ModeEager)

	got, err := ExtractByKind(inst)
	require.NoError(t, err)

	paths := make([]string, 0, len(got))
	for p := range got {
		paths = append(paths, p)
	}

	assert.ElementsMatch(t, []string{
		"./label",
		"./box",
		"./objects/0/label",
		"./objects/0/box",
		"./objects/1/label",
		"./objects/1/box",
		"./objects/1/note",
		"./info/width",
		"./info/height",
		"./tags/0",
		"./tags/1",
	}, paths)

	for p, v := range got {
		want, ok, err := ValueAt(inst, p)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, v, p)
	}
}

func TestEngine_PatternCacheIsIdempotent(t *testing.T) {
	reg := setup(t)

	e, err := NewEngine()
	require.NoError(t, err)

	first, err := e.ValuesMatching(newInstance(t, reg, sampleData(), instance.ModeEager), "./objects/*/box")
	require.NoError(t, err)
	assert.Equal(t, Stats{Compiles: 1}, e.Stats())

	other := sampleData()
	other["objects"] = []any{map[string]any{"label": "dog", "box": []any{9, 9, 9, 9}}}

	second, err := e.ValuesMatching(newInstance(t, reg, other, instance.ModeEager), "./objects/*/box")
	require.NoError(t, err)
	assert.Equal(t, Stats{Compiles: 1, Hits: 1}, e.Stats())

	assert.Len(t, first, 2)
	assert.Contains(t, first, "./objects/1/box")
	assert.Equal(t, map[string]any{"./objects/0/box": field.BBox{X: 9, Y: 9, W: 9, H: 9}}, second)
}

func TestEngine_Patterns(t *testing.T) {
	reg := setup(t)
	inst := newInstance(t, reg, sampleData(), instance.ModeEager)

	e, err := NewEngine(WithCacheSize(8))
	require.NoError(t, err)

	t.Run("numeric segment selects one position", func(t *testing.T) {
		got, err := e.ValuesMatching(inst, "./objects/1/*")
		require.NoError(t, err)
		assert.Equal(t, "dog", got["./objects/1/label"].(field.Label).Name())
		assert.Contains(t, got, "./objects/1/box")
		assert.Len(t, got, 2)
		assert.EqualValues(t, 3, e.Stats().Magic)
	})

	t.Run("glob", func(t *testing.T) {
		got, err := e.ValuesMatching(inst, "./info/w*")
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.EqualValues(t, 640, got["./info/width"])
	})

	t.Run("kind filter", func(t *testing.T) {
		got, err := e.ValuesMatching(inst, "./*/*/*", descriptor.KindBBox)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Contains(t, got, "./objects/0/box")

		paths, err := e.MatchingPaths(reg, inst.Descriptor(), "./*/*/*", descriptor.KindBBox)
		require.NoError(t, err)
		assert.Equal(t, []string{"./objects/*/box"}, paths)
	})

	t.Run("list of leaves", func(t *testing.T) {
		got, err := e.ValuesMatching(inst, "./tags/?")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"./tags/0": "indoor", "./tags/1": "night"}, got)
	})

	t.Run("bad glob", func(t *testing.T) {
		_, err := e.ValuesMatching(inst, "./objects/[/box")
		require.ErrorIs(t, err, errdefs.ErrUnsupportedPattern)
	})
}

func TestEngine_GlobOnListPositions(t *testing.T) {
	reg := setup(t)

	raw := sampleData()
	objects := make([]any, 12)
	tags := make([]any, 12)

	for i := range objects {
		objects[i] = map[string]any{"label": "cat", "box": []any{i, i, 1, 1}}
		tags[i] = fmt.Sprintf("t%d", i)
	}

	raw["objects"] = objects
	raw["tags"] = tags

	inst := newInstance(t, reg, raw, instance.ModeEager)

	e, err := NewEngine()
	require.NoError(t, err)

	tests := []struct {
		pattern string
		want    []string
	}{
		{"./objects/?/box", []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}},
		{"./objects/[01]/box", []string{"0", "1"}},
		{"./objects/1*/box", []string{"1", "10", "11"}},
		{"./objects/??/box", []string{"10", "11"}},
		{"./objects/*/box", []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}},
		{"./objects/x*/box", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := e.ValuesMatching(inst, tt.pattern)
			require.NoError(t, err)

			want := make([]string, len(tt.want))
			for i, n := range tt.want {
				want[i] = "./objects/" + n + "/box"
			}

			assert.ElementsMatch(t, want, slices.Collect(maps.Keys(got)))
		})
	}

	got, err := e.ValuesMatching(inst, "./tags/?")
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.NotContains(t, got, "./tags/10")
	assert.Equal(t, "t9", got["./tags/9"])

	paths, err := e.MatchingPaths(reg, inst.Descriptor(), "./objects/1*/box")
	require.NoError(t, err)
	assert.Equal(t, []string{"./objects/1*/box"}, paths)
	assert.Zero(t, e.Stats().Magic)
}

func TestEngine_ConcurrentFill(t *testing.T) {
	reg := setup(t)
	inst := newInstance(t, reg, sampleData(), instance.ModeEager)

	e, err := NewEngine()
	require.NoError(t, err)

	const n = 16

	results := make([]map[string]any, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], _ = e.ValuesMatching(inst, "./objects/*/label")
		}()
	}

	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}

	st := e.Stats()
	assert.EqualValues(t, n, st.Compiles+st.Hits)
	assert.GreaterOrEqual(t, st.Compiles, int64(1))
}
