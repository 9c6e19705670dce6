package extract

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring"
	"github.com/ohler55/ojg/jp"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
)

// Entry is one leaf of a flattened struct.
type Entry struct {
	Path     string
	Segments []string
	Spec     *descriptor.FieldSpec
	Kind     descriptor.FieldKind
	// Expr locates the entry in a raw sample mapping.
	Expr jp.Expr
}

// Index is the flattened path index of one struct descriptor.
type Index struct {
	Struct  *descriptor.Struct
	Entries []Entry

	byKind map[descriptor.FieldKind]*roaring.Bitmap
}

// StructResolver looks up declared structs by name.
type StructResolver interface {
	Struct(name string) (*descriptor.Struct, error)
}

type indexMemoKey struct{}

// Flatten returns the path index of desc, building it on first use. Only a
// successfully built index is cached on the descriptor; concurrent first
// calls keep whichever index was stored first.
func Flatten(structs StructResolver, desc *descriptor.Struct) (*Index, error) {
	if v, ok := desc.Cached(indexMemoKey{}); ok {
		return v.(*Index), nil
	}

	idx, err := buildIndex(structs, desc)
	if err != nil {
		return nil, err
	}

	return desc.Store(indexMemoKey{}, idx).(*Index), nil
}

func buildIndex(structs StructResolver, desc *descriptor.Struct) (*Index, error) {
	idx := &Index{Struct: desc, byKind: make(map[descriptor.FieldKind]*roaring.Bitmap)}

	if err := idx.walk(structs, desc, nil, []string{desc.Name}); err != nil {
		return nil, err
	}

	for i, e := range idx.Entries {
		bm, ok := idx.byKind[e.Kind]
		if !ok {
			bm = roaring.New()
			idx.byKind[e.Kind] = bm
		}

		bm.Add(uint32(i))
	}

	return idx, nil
}

func (idx *Index) walk(structs StructResolver, desc *descriptor.Struct, prefix, stack []string) error {
	for _, m := range desc.Members {
		if err := idx.add(structs, m.Spec, append(slices.Clip(prefix), m.Name), stack); err != nil {
			return err
		}
	}

	return nil
}

func (idx *Index) add(structs StructResolver, spec *descriptor.FieldSpec, segs, stack []string) error {
	switch spec.Kind {
	case descriptor.KindList:
		elem := spec.Elem()
		if elem == nil {
			return fmt.Errorf("%s: list without element type", Canonical(segs))
		}

		return idx.add(structs, elem, append(slices.Clip(segs), Wildcard), stack)

	case descriptor.KindStruct:
		ref := spec.Args.(descriptor.StructArgs)
		if at := slices.Index(stack, ref.Name); at >= 0 {
			return &errdefs.CycleError{Path: append(slices.Clone(stack[at:]), ref.Name)}
		}

		sub, err := structs.Struct(ref.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", Canonical(segs), err)
		}

		return idx.walk(structs, sub, segs, append(slices.Clip(stack), ref.Name))

	default:
		idx.Entries = append(idx.Entries, Entry{
			Path:     Canonical(segs),
			Segments: segs,
			Spec:     spec,
			Kind:     spec.Kind,
			Expr:     toExpr(segs),
		})

		return nil
	}
}

func toExpr(segs []string) jp.Expr {
	x := jp.R()
	for _, s := range segs {
		if s == Wildcard {
			x = x.W()
		} else {
			x = x.C(s)
		}
	}

	return x
}

// Len returns the number of leaf entries.
func (idx *Index) Len() int { return len(idx.Entries) }

// Entry returns the entry at a canonical path.
func (idx *Index) Entry(path string) (Entry, bool) {
	for _, e := range idx.Entries {
		if e.Path == path {
			return e, true
		}
	}

	return Entry{}, false
}

// Paths returns every canonical leaf path, in declaration order.
func (idx *Index) Paths() []string {
	out := make([]string, len(idx.Entries))
	for i, e := range idx.Entries {
		out[i] = e.Path
	}

	return out
}

// Select returns the ordinals of entries of the given kinds. No kinds
// selects every entry.
func (idx *Index) Select(kinds ...descriptor.FieldKind) *roaring.Bitmap {
	if len(kinds) == 0 {
		all := roaring.New()
		all.AddRange(0, uint64(len(idx.Entries)))

		return all
	}

	bms := make([]*roaring.Bitmap, 0, len(kinds))
	for _, k := range kinds {
		if bm, ok := idx.byKind[k]; ok {
			bms = append(bms, bm)
		}
	}

	return roaring.FastOr(bms...)
}

// Kinds returns the field kinds present in the index, in kind order.
func (idx *Index) Kinds() []descriptor.FieldKind {
	out := make([]descriptor.FieldKind, 0, len(idx.byKind))
	for k := range idx.byKind {
		out = append(out, k)
	}

	slices.Sort(out)

	return out
}
