// Package dsdl compiles dataset annotation schemas, validates samples
// against them and extracts typed values from the validated samples.
//
// A typical caller compiles once and validates many samples:
//
//	reg := dsdl.NewRegistry()
//	if _, err := dsdl.CompileFile(reg, "schema/detection.yaml", dsdl.Options{}); err != nil {
//		return err
//	}
//
//	inst, err := dsdl.MakeInstance(reg, "Sample", raw, dsdl.ModeEager, dsdl.WithReader(media))
//	if err != nil {
//		return err
//	}
//
//	boxes, err := dsdl.ExtractByKind(inst, dsdl.KindBBox)
package dsdl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dsdl-go/internal/compiler"
	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/extract"
	"dsdl-go/internal/field"
	"dsdl-go/internal/instance"
	"dsdl-go/internal/registry"
)

type (
	Registry     = registry.Registry
	Options      = compiler.Options
	Result       = compiler.Result
	Diagnostics  = diagnostic.Diagnostics
	Instance     = instance.Instance
	Mode         = instance.Mode
	BatchOptions = instance.BatchOptions
	BatchResult  = instance.BatchResult
	Reader       = field.Reader
	ReaderFunc   = field.ReaderFunc
	Engine       = extract.Engine
	FieldKind    = descriptor.FieldKind
	Struct       = descriptor.Struct
	ClassDomain  = descriptor.ClassDomain
)

const (
	ModeLazy   = instance.ModeLazy
	ModeEager  = instance.ModeEager
	ModeStrict = instance.ModeStrict
)

const (
	KindBBox        = descriptor.KindBBox
	KindRotatedBBox = descriptor.KindRotatedBBox
	KindPolygon     = descriptor.KindPolygon
	KindLabel       = descriptor.KindLabel
	KindKeypoint    = descriptor.KindKeypoint
	KindLabelMap    = descriptor.KindLabelMap
	KindImage       = descriptor.KindImage
	KindText        = descriptor.KindText
)

var (
	WithReader = instance.WithReader
	WithLogger = instance.WithLogger
)

// NewRegistry returns an empty registry with the built-in field kinds.
func NewRegistry(opts ...registry.Option) *Registry {
	return registry.New(opts...)
}

// Compile compiles root, read from fsys, into reg.
func Compile(reg *Registry, fsys fs.FS, root string, opts Options) (*Result, error) {
	return compiler.Compile(reg, fsys, root, opts)
}

// CompileBytes compiles an in-memory document into reg.
func CompileBytes(reg *Registry, name string, data []byte, opts Options) (*Result, error) {
	return compiler.CompileBytes(reg, name, data, opts)
}

// CompileFile compiles a schema file from the local disk. Relative import
// paths are resolved against the working directory.
func CompileFile(reg *Registry, filename string, opts Options) (*Result, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}

	vol := filepath.VolumeName(abs)
	fsys := os.DirFS(vol + string(filepath.Separator))

	paths := make([]string, 0, len(opts.ImportPaths))
	for _, p := range opts.ImportPaths {
		ap, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}

		paths = append(paths, fsPath(vol, ap))
	}

	opts.ImportPaths = paths

	return compiler.Compile(reg, fsys, fsPath(vol, abs), opts)
}

// fsPath converts an absolute OS path to an fs.FS path below its volume root.
func fsPath(vol, abs string) string {
	return strings.TrimPrefix(filepath.ToSlash(strings.TrimPrefix(abs, vol)), "/")
}

// MakeInstance validates raw as an instance of the named struct.
func MakeInstance(reg *Registry, name string, raw map[string]any, mode Mode, opts ...instance.Option) (*Instance, error) {
	return instance.New(reg, name, raw, mode, opts...)
}

// MakeSample validates raw against the registry's sample type.
func MakeSample(reg *Registry, raw map[string]any, mode Mode, opts ...instance.Option) (*Instance, error) {
	st := reg.SampleType()
	if st == nil {
		return nil, fmt.Errorf("registry has no sample type")
	}

	ref, ok := st.StructRef()
	if !ok {
		return nil, fmt.Errorf("sample type %s is not a struct", st)
	}

	return instance.New(reg, ref.Name, raw, mode, opts...)
}

// ValidateBatch validates samples concurrently.
func ValidateBatch(ctx context.Context, reg *Registry, name string, samples []map[string]any, mode Mode, opts BatchOptions) ([]BatchResult, error) {
	return instance.ValidateBatch(ctx, reg, name, samples, mode, opts)
}

// ExtractByKind returns every value of the given kinds keyed by path.
func ExtractByKind(inst *Instance, kinds ...FieldKind) (map[string]any, error) {
	return extract.ExtractByKind(inst, kinds...)
}

// ValueAt returns the validated value at path.
func ValueAt(inst *Instance, path string) (any, bool, error) {
	return extract.ValueAt(inst, path)
}

// NewEngine returns a pattern engine with its own cache.
func NewEngine(opts ...extract.EngineOption) (*Engine, error) {
	return extract.NewEngine(opts...)
}

var defaultEngine = sync.OnceValues(func() (*Engine, error) { return extract.NewEngine() })

// ValuesMatching answers a pattern query through a process-wide engine.
func ValuesMatching(inst *Instance, pattern string, kinds ...FieldKind) (map[string]any, error) {
	e, err := defaultEngine()
	if err != nil {
		return nil, err
	}

	return e.ValuesMatching(inst, pattern, kinds...)
}

// ParseKinds maps kind names such as "bbox" or "Label" to field kinds.
func ParseKinds(reg *Registry, names ...string) ([]FieldKind, error) {
	out := make([]FieldKind, 0, len(names))

	for _, n := range names {
		k, err := reg.Fields().Lookup(n)
		if err != nil {
			return nil, err
		}

		out = append(out, k.Kind)
	}

	return out, nil
}
