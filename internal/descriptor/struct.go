package descriptor

import "sync"

// Member is one declared field of a struct.
type Member struct {
	Name string
	Spec *FieldSpec
}

// Struct is the compiled representation of one struct declaration.
type Struct struct {
	Name string
	// Members keeps declaration order.
	Members []Member
	// Params are the declared generic parameter names.
	Params []string
	// Bindings is the resolved ParameterBinding: param name -> class domain.
	Bindings map[string]string
	// Cycle marks a participant of a definition cycle (report mode only).
	Cycle bool
	// Document is the schema file the struct was declared in.
	Document string

	memo sync.Map
}

// Member returns the member with the given name.
func (d *Struct) Member(name string) (*Member, bool) {
	for i := range d.Members {
		if d.Members[i].Name == name {
			return &d.Members[i], true
		}
	}

	return nil, false
}

// MemberNames returns member names in declaration order.
func (d *Struct) MemberNames() []string {
	names := make([]string, len(d.Members))
	for i, m := range d.Members {
		names[i] = m.Name
	}

	return names
}

// Structs maps each direct sub-struct member to the referenced struct name.
func (d *Struct) Structs() map[string]string {
	out := make(map[string]string)

	for _, m := range d.Members {
		if m.Spec.Kind != KindStruct {
			continue
		}

		if a, ok := m.Spec.Args.(StructArgs); ok {
			out[m.Name] = a.Name
		}
	}

	return out
}

// References returns every struct referenced by a member, directly or
// through list wrappers, in declaration order without repeats.
func (d *Struct) References() []string {
	var (
		refs []string
		seen = map[string]bool{}
	)

	for _, m := range d.Members {
		if a, ok := m.Spec.StructRef(); ok && !seen[a.Name] {
			seen[a.Name] = true
			refs = append(refs, a.Name)
		}
	}

	return refs
}

// Required returns the names of members that are not optional.
func (d *Struct) Required() []string {
	var names []string

	for _, m := range d.Members {
		if !m.Spec.Optional {
			names = append(names, m.Name)
		}
	}

	return names
}

// Memo returns the value cached under key, computing it with build on the
// first call. Concurrent first calls may all run build; the first stored
// value wins and every caller receives it.
func (d *Struct) Memo(key any, build func() any) any {
	if v, ok := d.Cached(key); ok {
		return v
	}

	return d.Store(key, build())
}

// Cached returns the value stored under key, if any.
func (d *Struct) Cached(key any) (any, bool) {
	return d.memo.Load(key)
}

// Store caches v under key unless a value is already there, and returns
// the value that ends up cached.
func (d *Struct) Store(key, v any) any {
	v, _ = d.memo.LoadOrStore(key, v)

	return v
}
