package registry

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"dsdl-go/internal/common"
	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/field"
	"dsdl-go/internal/match"
)

// Registry holds every compiled definition of one schema context.
type Registry struct {
	mu sync.RWMutex

	fields  *field.Registry
	structs map[string]*descriptor.Struct
	domains map[string]*descriptor.ClassDomain
	labels  map[string]descriptor.Category

	sampleType     *descriptor.FieldSpec
	globalInfoType *descriptor.FieldSpec

	frozen bool
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for replace warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFields uses a custom field kind registry.
func WithFields(f *field.Registry) Option {
	return func(r *Registry) {
		if f != nil {
			r.fields = f
		}
	}
}

// New returns an empty registry with the built-in field kinds.
func New(opts ...Option) *Registry {
	r := &Registry{
		structs: make(map[string]*descriptor.Struct),
		domains: make(map[string]*descriptor.ClassDomain),
		labels:  make(map[string]descriptor.Category),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.fields == nil {
		r.fields = field.DefaultRegistry()
	}

	return r
}

// Fields returns the field kind registry.
func (r *Registry) Fields() *field.Registry {
	return r.fields
}

// Logger returns the registry logger.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// RegisterDomain adds or replaces a class domain and registers each of its
// categories under "Domain::name".
func (r *Registry) RegisterDomain(d *descriptor.ClassDomain) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register class domain %s: %w", d.Name, errdefs.ErrFrozen)
	}

	if old, ok := r.domains[d.Name]; ok {
		r.logger.Warn("replacing class domain", "name", d.Name, "old_document", old.Document, "new_document", d.Document)

		for _, c := range old.Categories {
			delete(r.labels, c.QualifiedName())
		}
	}

	r.domains[d.Name] = d

	for _, c := range d.Categories {
		r.labels[c.QualifiedName()] = c
	}

	return nil
}

// RegisterStruct adds or replaces a struct descriptor.
func (r *Registry) RegisterStruct(s *descriptor.Struct) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register struct %s: %w", s.Name, errdefs.ErrFrozen)
	}

	if old, ok := r.structs[s.Name]; ok {
		r.logger.Warn("replacing struct", "name", s.Name, "old_document", old.Document, "new_document", s.Document)
	}

	r.structs[s.Name] = s

	return nil
}

// SetRoots records the compiled sample and global-info types. Either may be nil.
func (r *Registry) SetRoots(sample, globalInfo *descriptor.FieldSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("set root types: %w", errdefs.ErrFrozen)
	}

	r.sampleType, r.globalInfoType = sample, globalInfo

	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.frozen
}

// Struct looks up a struct descriptor.
func (r *Registry) Struct(name string) (*descriptor.Struct, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.structs[name]; ok {
		return s, nil
	}

	return nil, errdefs.NotFound(errdefs.ErrStructNotFound, name, match.Suggest(name, common.SortedKeys(r.structs), 3)...)
}

// Domain looks up a class domain.
func (r *Registry) Domain(name string) (*descriptor.ClassDomain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, ok := r.domains[name]; ok {
		return d, nil
	}

	return nil, errdefs.NotFound(errdefs.ErrDomainNotFound, name, match.Suggest(name, common.SortedKeys(r.domains), 3)...)
}

// Label looks up a category by its qualified name "Domain::name".
func (r *Registry) Label(qualified string) (descriptor.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.labels[qualified]; ok {
		return c, nil
	}

	return descriptor.Category{}, errdefs.NotFound(errdefs.ErrLabelNotFound, qualified)
}

// HasStruct reports whether a struct is registered.
func (r *Registry) HasStruct(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.structs[name]

	return ok
}

// SampleType returns the compiled root sample type, or nil.
func (r *Registry) SampleType() *descriptor.FieldSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sampleType
}

// GlobalInfoType returns the compiled root global-info type, or nil.
func (r *Registry) GlobalInfoType() *descriptor.FieldSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.globalInfoType
}

// Snapshot lists the registered names.
type Snapshot struct {
	Structs []string
	Domains []string
	Labels  []string
	Kinds   []string
}

// Snapshot returns the sorted names of every table.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := r.fields.Names()
	slices.Sort(kinds)

	return Snapshot{
		Structs: common.SortedKeys(r.structs),
		Domains: common.SortedKeys(r.domains),
		Labels:  common.SortedKeys(r.labels),
		Kinds:   kinds,
	}
}
