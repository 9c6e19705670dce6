package instance

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"dsdl-go/internal/common"
	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/field"
	"dsdl-go/internal/registry"
)

// RootPath is the canonical path of a sample root.
const RootPath = "."

// Option configures instance construction.
type Option func(*config)

type config struct {
	reader field.Reader
	logger *slog.Logger
}

// WithReader attaches the byte reader used by unstructured members.
func WithReader(r field.Reader) Option {
	return func(c *config) { c.reader = r }
}

// WithLogger sets the logger for missing-member warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// sample is state shared by every instance of one sample tree.
type sample struct {
	reg  *registry.Registry
	mode Mode
	env  field.Env
	log  *slog.Logger

	mu         sync.Mutex
	warnings   []errdefs.MissingFieldWarning
	warned     map[string]bool
	offenses   []errdefs.Offense
	validators map[*descriptor.FieldSpec]field.Validator
}

// Instance is one validated (or lazily validated) struct value.
type Instance struct {
	s    *sample
	desc *descriptor.Struct
	raw  map[string]any
	path string

	mu     sync.Mutex
	values map[string]any
}

// New validates raw as an instance of the named struct.
func New(reg *registry.Registry, name string, raw map[string]any, mode Mode, opts ...Option) (*Instance, error) {
	desc, err := reg.Struct(name)
	if err != nil {
		return nil, err
	}

	return NewFromDescriptor(reg, desc, raw, mode, opts...)
}

// NewFromDescriptor validates raw against an already resolved descriptor.
func NewFromDescriptor(reg *registry.Registry, desc *descriptor.Struct, raw map[string]any, mode Mode, opts ...Option) (*Instance, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &sample{
		reg:        reg,
		mode:       mode,
		env:        field.Env{Domains: reg, Reader: cfg.reader},
		log:        cfg.logger,
		warned:     make(map[string]bool),
		validators: make(map[*descriptor.FieldSpec]field.Validator),
	}

	inst, err := s.build(desc, raw, RootPath)
	if err != nil {
		return nil, err
	}

	if len(s.offenses) > 0 {
		return nil, &errdefs.StrictInterruptError{Struct: desc.Name, Offenses: s.offenses}
	}

	return inst, nil
}

func (s *sample) build(desc *descriptor.Struct, raw map[string]any, path string) (*Instance, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	inst := &Instance{s: s, desc: desc, raw: raw, path: path, values: make(map[string]any)}

	if s.mode == ModeLazy {
		return inst, nil
	}

	for _, m := range desc.Members {
		v, ok := present(raw, m.Name)
		if !ok {
			s.missing(inst, m)
			continue
		}

		val, err := s.validate(m.Spec, v, joinPath(path, m.Name))
		if err != nil {
			return nil, err
		}

		inst.values[m.Name] = val
	}

	if s.mode == ModeStrict {
		for _, key := range common.SortedKeys(raw) {
			if _, declared := desc.Member(key); !declared {
				s.offenses = append(s.offenses, errdefs.Offense{Kind: errdefs.OffenseExtraKey, Path: path, Name: key})
			}
		}
	}

	return inst, nil
}

// missing records an absent required member as a warning or, in strict
// mode, as an offense.
func (s *sample) missing(inst *Instance, m descriptor.Member) {
	if m.Spec.Optional {
		return
	}

	isStruct := m.Spec.Kind == descriptor.KindStruct

	if s.mode == ModeStrict {
		kind := errdefs.OffenseMissingField
		if isStruct {
			kind = errdefs.OffenseMissingStruct
		}

		s.offenses = append(s.offenses, errdefs.Offense{Kind: kind, Path: inst.path, Name: m.Name})

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := joinPath(inst.path, m.Name)
	if s.warned[key] {
		return
	}

	s.warned[key] = true

	w := errdefs.MissingFieldWarning{Struct: inst.desc.Name, Path: key, Field: m.Name, IsStruct: isStruct}
	s.warnings = append(s.warnings, w)
	s.log.Warn("missing required member", "struct", w.Struct, "path", w.Path, "field", w.Field)
}

// validate checks one raw member value against its spec.
func (s *sample) validate(spec *descriptor.FieldSpec, raw any, path string) (any, error) {
	switch {
	case spec.Kind == descriptor.KindStruct:
		ref := spec.Args.(descriptor.StructArgs)

		desc, err := s.reg.Struct(ref.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		m, ok := asMapping(raw)
		if !ok {
			return nil, errdefs.Invalidf(path, ref.Name, "expected a mapping, got %T", raw)
		}

		return s.build(desc, m, path)

	case spec.Kind == descriptor.KindList && isStructList(spec):
		seq, ok := raw.([]any)
		if !ok {
			return nil, errdefs.Invalidf(path, "list", "expected a list, got %T", raw)
		}

		out := make([]any, len(seq))

		for i, item := range seq {
			v, err := s.validate(spec.Elem(), item, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	default:
		v, err := s.validator(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		val, err := v.Validate(raw)
		if err != nil {
			return nil, field.AtPath(err, path)
		}

		return val, nil
	}
}

func (s *sample) validator(spec *descriptor.FieldSpec) (field.Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.validators[spec]; ok {
		return v, nil
	}

	v, err := s.reg.Fields().New(spec, s.env)
	if err != nil {
		return nil, err
	}

	s.validators[spec] = v

	return v, nil
}

func isStructList(spec *descriptor.FieldSpec) bool {
	_, ok := spec.StructRef()
	return ok
}

// present returns the raw value of key. A null value counts as absent.
func present(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}

			out[ks] = val
		}

		return out, true
	default:
		return nil, false
	}
}

func joinPath(base, name string) string {
	return base + "/" + name
}

// Get returns the validated value of a member. Declared members absent from
// the sample return nil. Undeclared keys present in the sample return their
// raw value; undeclared absent keys fail with errdefs.ErrAttributeNotFound.
func (i *Instance) Get(name string) (any, error) {
	v, _, err := i.Lookup(name)
	return v, err
}

// Lookup is Get with an explicit presence flag.
func (i *Instance) Lookup(name string) (any, bool, error) {
	m, declared := i.desc.Member(name)
	if !declared {
		if v, ok := i.raw[name]; ok {
			return v, true, nil
		}

		return nil, false, fmt.Errorf("%s has no member %q at %s: %w", i.desc.Name, name, i.path, errdefs.ErrAttributeNotFound)
	}

	i.mu.Lock()
	v, cached := i.values[name]
	i.mu.Unlock()

	if cached {
		return v, true, nil
	}

	raw, ok := present(i.raw, name)
	if !ok {
		if i.s.mode == ModeLazy {
			i.s.missing(i, *m)
		}

		return nil, false, nil
	}

	if i.s.mode != ModeLazy {
		// Eager instances validated every present member at construction.
		return nil, false, nil
	}

	val, err := i.s.validate(m.Spec, raw, joinPath(i.path, name))
	if err != nil {
		return nil, false, err
	}

	i.mu.Lock()
	if prev, ok := i.values[name]; ok {
		val = prev
	} else {
		i.values[name] = val
	}
	i.mu.Unlock()

	return val, true, nil
}

// Has reports whether the sample holds a value for name.
func (i *Instance) Has(name string) bool {
	if _, declared := i.desc.Member(name); !declared {
		_, ok := i.raw[name]
		return ok
	}

	_, ok := present(i.raw, name)

	return ok
}

// Members returns the declared member names in declaration order.
func (i *Instance) Members() []string { return i.desc.MemberNames() }

// Warnings returns the missing-member warnings recorded so far for the
// whole sample.
func (i *Instance) Warnings() []errdefs.MissingFieldWarning {
	i.s.mu.Lock()
	defer i.s.mu.Unlock()

	out := make([]errdefs.MissingFieldWarning, len(i.s.warnings))
	copy(out, i.s.warnings)

	return out
}

// Raw returns the unvalidated sample mapping.
func (i *Instance) Raw() map[string]any { return i.raw }

// Descriptor returns the struct descriptor of the instance.
func (i *Instance) Descriptor() *descriptor.Struct { return i.desc }

// Path returns the canonical path of the instance within its sample.
func (i *Instance) Path() string { return i.path }

// Mode returns the validation mode.
func (i *Instance) Mode() Mode { return i.s.mode }

// Registry returns the registry the instance was validated against.
func (i *Instance) Registry() *registry.Registry { return i.s.reg }

// Values validates (if needed) and returns every present declared member.
func (i *Instance) Values() (map[string]any, error) {
	out := make(map[string]any, len(i.desc.Members))

	for _, m := range i.desc.Members {
		v, ok, err := i.Lookup(m.Name)
		if err != nil {
			return nil, err
		}

		if ok {
			out[m.Name] = v
		}
	}

	return out, nil
}
