package descriptor

// FieldSpec is the compiled type of one struct member.
type FieldSpec struct {
	Kind FieldKind
	// KindName is the kind or struct name as written in the declaration.
	KindName string
	Args     Args
	Optional bool
	// IsAttr marks metadata rather than primary annotation.
	IsAttr bool
	// Expr is the raw type expression, kept for messages.
	Expr string
}

// Clone returns a deep copy of s.
func (s *FieldSpec) Clone() *FieldSpec {
	if s == nil {
		return nil
	}

	c := *s
	if s.Args != nil {
		c.Args = s.Args.clone()
	}

	return &c
}

// Elem returns the element spec of a list, or nil.
func (s *FieldSpec) Elem() *FieldSpec {
	if a, ok := s.Args.(ListArgs); ok {
		return a.Elem
	}

	return nil
}

// StructRef returns the struct reference of a struct member or of the
// innermost element of nested lists.
func (s *FieldSpec) StructRef() (StructArgs, bool) {
	cur := s
	for cur != nil && cur.Kind == KindList {
		cur = cur.Elem()
	}

	if cur == nil || cur.Kind != KindStruct {
		return StructArgs{}, false
	}

	a, ok := cur.Args.(StructArgs)

	return a, ok
}

// Domains returns the class domains of a domain-linked spec.
func (s *FieldSpec) Domains() []string {
	if a, ok := s.Args.(DomainArgs); ok {
		return a.Domains
	}

	return nil
}

// IsLeaf reports whether the spec holds a value rather than other members.
func (s *FieldSpec) IsLeaf() bool {
	return !s.Kind.IsContainer()
}

// Walk calls fn for s and every nested element spec, outermost first.
func (s *FieldSpec) Walk(fn func(*FieldSpec)) {
	for cur := s; cur != nil; cur = cur.Elem() {
		fn(cur)
	}
}

// String returns the kind name or struct name of the spec.
func (s *FieldSpec) String() string {
	if s.Kind == KindStruct {
		if a, ok := s.Args.(StructArgs); ok {
			return a.Name
		}
	}

	return s.Kind.String()
}
