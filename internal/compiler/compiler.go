package compiler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/diagnostic"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/registry"
	"dsdl-go/internal/schema"
)

// Options configures a compile run.
type Options struct {
	// ImportPaths are directories searched for imports after the
	// importing document's own directory.
	ImportPaths []string
	// ReportMode collects every problem instead of stopping at the first.
	ReportMode bool
	// FS resolves imports of documents passed to CompileBytes.
	FS     fs.FS
	Logger *slog.Logger
}

// Result is the outcome of a compile run.
type Result struct {
	// Structs are in topological order, referencing structs first.
	Structs []*descriptor.Struct
	Domains []*descriptor.ClassDomain
	// Order lists struct names in the same order as Structs.
	Order          []string
	SampleType     *descriptor.FieldSpec
	GlobalInfoType *descriptor.FieldSpec
	// Documents lists every loaded document, root first.
	Documents   []string
	Diagnostics diagnostic.Diagnostics
}

// Struct returns the compiled struct with the given name.
func (r *Result) Struct(name string) (*descriptor.Struct, bool) {
	for _, s := range r.Structs {
		if s.Name == name {
			return s, true
		}
	}

	return nil, false
}

// Compile loads root from fsys, compiles it with its imports and registers
// the result into reg.
func Compile(reg *registry.Registry, fsys fs.FS, root string, opts Options) (*Result, error) {
	c := newCompiler(reg, opts)
	loader := schema.NewLoader(fsys, opts.ImportPaths...)

	tree, err := loader.LoadTree(root)
	if tree == nil {
		return c.finish(c.report(root, withCode(diagnostic.CodeDocumentLoad, err)))
	}

	if err != nil {
		if rerr := c.report(root, withCode(diagnostic.CodeDocumentLoad, err)); rerr != nil {
			return nil, rerr
		}
	}

	return c.finish(c.run(tree))
}

// CompileBytes compiles an in-memory root document. Imports are resolved
// through opts.FS relative to name.
func CompileBytes(reg *registry.Registry, name string, data []byte, opts Options) (*Result, error) {
	c := newCompiler(reg, opts)

	doc, err := schema.Parse(data, name)
	if err != nil {
		return c.finish(c.report(name, withCode(diagnostic.CodeDocumentLoad, err)))
	}

	tree := &schema.Tree{Root: doc}

	switch {
	case opts.FS != nil:
		tree, err = schema.NewLoader(opts.FS, opts.ImportPaths...).LoadImports(doc)
	case len(doc.Imports) > 0:
		err = fmt.Errorf("document %s has imports but no file system was given", name)
	}

	if err != nil {
		if rerr := c.report(name, withCode(diagnostic.CodeDocumentLoad, err)); rerr != nil {
			return nil, rerr
		}
	}

	return c.finish(c.run(tree))
}

type compiler struct {
	reg  *registry.Registry
	opts Options
	log  *slog.Logger

	diags diagnostic.Diagnostics

	root   *schema.Document
	docs   []string
	defs   []*schema.Definition
	byName map[string]*schema.Definition

	structs     map[string]*descriptor.Struct
	structOrder []string
	domains     map[string]*descriptor.ClassDomain
	domainOrder []string

	sample, globalInfo *descriptor.FieldSpec
	order              []string
}

func newCompiler(reg *registry.Registry, opts Options) *compiler {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &compiler{
		reg:     reg,
		opts:    opts,
		log:     log,
		byName:  make(map[string]*schema.Definition),
		structs: make(map[string]*descriptor.Struct),
		domains: make(map[string]*descriptor.ClassDomain),
	}
}

func (c *compiler) run(tree *schema.Tree) error {
	steps := []func() error{
		func() error { return c.merge(tree) },
		c.validateNames,
		c.parseStructs,
		c.parseDomains,
		c.parseRoots,
		c.sortStructs,
		c.resolveParams,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	if c.diags.HasErrors() {
		return nil
	}

	return c.register()
}

func (c *compiler) finish(err error) (*Result, error) {
	if err != nil {
		return nil, err
	}

	res := &Result{
		Order:          c.order,
		SampleType:     c.sample,
		GlobalInfoType: c.globalInfo,
		Documents:      c.docs,
		Diagnostics:    c.diags,
	}

	for _, name := range c.order {
		res.Structs = append(res.Structs, c.structs[name])
	}

	for _, name := range c.domainOrder {
		res.Domains = append(res.Domains, c.domains[name])
	}

	if c.diags.HasErrors() {
		c.log.Info("schema has errors", "errors", len(c.diags.Errors), "warnings", len(c.diags.Warnings))
	} else {
		c.log.Info("compiled schema", "structs", len(res.Structs), "domains", len(res.Domains))
	}

	return res, nil
}

// codedError tags an error with its diagnostic code.
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func withCode(code string, err error) error {
	return &codedError{code: code, err: err}
}

// report records an error diagnostic. In normal mode it returns the error
// so the caller aborts; in report mode it returns nil.
func (c *compiler) report(doc string, err error) error {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Error(),
		Document: doc,
		Err:      err,
	}

	var ce *codedError
	if errors.As(err, &ce) {
		d.Code = ce.code
	}

	var de *errdefs.DefineError
	if errors.As(err, &de) {
		d.Definition = de.Definition
		d.FieldPath = de.Field
		d.Suggestions = de.Suggestions

		if de.Msg != "" {
			d.Message = de.Kind.Error() + ": " + de.Msg
		}
	}

	c.diags.Add(d)

	if c.opts.ReportMode {
		return nil
	}

	if doc != "" {
		return fmt.Errorf("%s: %w", doc, err)
	}

	return err
}

func (c *compiler) warn(code, doc, def, field, msg string) {
	c.diags.Add(diagnostic.Diagnostic{
		Severity:   diagnostic.SeverityWarning,
		Code:       code,
		Message:    msg,
		Definition: def,
		FieldPath:  field,
		Document:   doc,
	})
	c.log.Warn(msg, "document", doc, "definition", def, "field", field)
}

func (c *compiler) isStruct(name string) bool {
	d, ok := c.byName[name]

	return ok && d.Kind == schema.DefStruct
}

func (c *compiler) isDomain(name string) bool {
	if d, ok := c.byName[name]; ok {
		return d.Kind == schema.DefClassDomain
	}

	_, err := c.reg.Domain(name)

	return err == nil
}

func (c *compiler) namesOf(kind schema.DefKind) []string {
	var names []string

	for _, d := range c.defs {
		if d.Kind == kind {
			names = append(names, d.Name)
		}
	}

	return names
}
