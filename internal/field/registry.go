package field

import (
	"fmt"
	"slices"
	"sync"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/match"
)

// Reader fetches the bytes of an unstructured field by location.
type Reader interface {
	Read(location string) ([]byte, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(location string) ([]byte, error)

// Read implements Reader.
func (f ReaderFunc) Read(location string) ([]byte, error) { return f(location) }

// DomainResolver resolves class domains by name.
type DomainResolver interface {
	Domain(name string) (*descriptor.ClassDomain, error)
}

// Env carries the collaborators a validator may need.
type Env struct {
	Domains DomainResolver
	Reader  Reader
}

// Validator checks one raw value and returns its value object.
type Validator interface {
	Kind() descriptor.FieldKind
	Validate(raw any) (any, error)
}

// Kind is one entry of the field registry.
type Kind struct {
	// Name is the canonical kebab-case kind name.
	Name string
	Kind descriptor.FieldKind
	// Aliases are additional names accepted in type expressions.
	Aliases []string
	// ParseArgs builds the typed argument record. Nil means the kind
	// accepts no arguments.
	ParseArgs func(args RawArgs) (descriptor.Args, error)
	New       func(spec *descriptor.FieldSpec, env Env) (Validator, error)
}

// Registry maps normalized kind names to kind entries.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Kind
	byKind map[descriptor.FieldKind]*Kind
	names  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Kind),
		byKind: make(map[descriptor.FieldKind]*Kind),
	}
}

// Register adds a kind. Registering a name twice fails.
func (r *Registry) Register(k *Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, 1+len(k.Aliases))
	for _, n := range append([]string{k.Name}, k.Aliases...) {
		key := match.NormalizeIdent(n)
		if _, dup := r.byName[key]; dup {
			return fmt.Errorf("field kind %q: %w", n, errdefs.ErrDuplicateDefinition)
		}

		keys = append(keys, key)
	}

	for _, key := range keys {
		r.byName[key] = k
	}

	r.byKind[k.Kind] = k
	r.names = append(r.names, k.Name)

	return nil
}

// Lookup finds a kind by any spelling of its name.
func (r *Registry) Lookup(name string) (*Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if k, ok := r.byName[match.NormalizeIdent(name)]; ok {
		return k, nil
	}

	return nil, errdefs.NotFound(errdefs.ErrKindNotFound, name, match.Suggest(name, r.names, 3)...)
}

// ByKind finds the entry of a field kind.
func (r *Registry) ByKind(fk descriptor.FieldKind) (*Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if k, ok := r.byKind[fk]; ok {
		return k, nil
	}

	return nil, errdefs.NotFound(errdefs.ErrKindNotFound, fk.String())
}

// IsReserved reports whether name collides with a kind name.
func (r *Registry) IsReserved(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[match.NormalizeIdent(name)]

	return ok
}

// Names returns canonical kind names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.names)
}

// New builds the validator for a leaf or list spec.
func (r *Registry) New(spec *descriptor.FieldSpec, env Env) (Validator, error) {
	if spec.Kind == descriptor.KindStruct {
		return nil, fmt.Errorf("%s: struct members have no field validator", spec.KindName)
	}

	k, err := r.ByKind(spec.Kind)
	if err != nil {
		return nil, err
	}

	return k.New(spec, env)
}
