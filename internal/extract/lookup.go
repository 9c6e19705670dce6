package extract

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/ohler55/ojg/jp"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
	"dsdl-go/internal/instance"
)

// ValueAt returns the validated value at path. Numeric segments index
// lists. The flag is false when the sample holds no data there.
func ValueAt(inst *instance.Instance, path string) (any, bool, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, false, err
	}

	return valueAt(inst, segs)
}

func valueAt(inst *instance.Instance, segs []string) (any, bool, error) {
	var cur any = inst

	for i, seg := range segs {
		next, ok, err := step(cur, seg, segs[:i])
		if err != nil || !ok {
			return nil, false, err
		}

		cur = next
	}

	return cur, true, nil
}

// step descends one segment from cur.
func step(cur any, seg string, at []string) (any, bool, error) {
	switch v := cur.(type) {
	case *instance.Instance:
		return v.Lookup(seg)

	case []any:
		n, ok := isIndex(seg)
		if !ok {
			return nil, false, fmt.Errorf("%s is a list, segment %q is not an index: %w", Canonical(at), seg, errdefs.ErrAttributeNotFound)
		}

		if n >= len(v) {
			return nil, false, nil
		}

		return v[n], true, nil

	default:
		return nil, false, fmt.Errorf("%s holds a %T value, cannot descend into %q: %w", Canonical(at), cur, seg, errdefs.ErrAttributeNotFound)
	}
}

// expand resolves segs against cur, fanning out over list wildcards and
// list globs, and stores every present value in out keyed by its concrete
// path.
func expand(cur any, segs, concrete []string, out map[string]any) error {
	if len(segs) == 0 {
		if cur != nil {
			out[Canonical(concrete)] = cur
		}

		return nil
	}

	seg := segs[0]

	if seg == Wildcard || isGlob(seg) {
		list, ok := cur.([]any)
		if !ok {
			return nil
		}

		for i, item := range list {
			if !matchIndex(seg, i) {
				continue
			}

			if err := expand(item, segs[1:], append(slices.Clip(concrete), strconv.Itoa(i)), out); err != nil {
				return err
			}
		}

		return nil
	}

	next, ok, err := step(cur, seg, concrete)
	if err != nil || !ok {
		return err
	}

	return expand(next, segs[1:], append(slices.Clip(concrete), seg), out)
}

// ExtractByKind returns every validated value of the given kinds keyed by
// concrete canonical path. No kinds extracts every leaf.
func ExtractByKind(inst *instance.Instance, kinds ...descriptor.FieldKind) (map[string]any, error) {
	idx, err := Flatten(inst.Registry(), inst.Descriptor())
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	raw := inst.Raw()

	it := idx.Select(kinds...).Iterator()
	for it.HasNext() {
		e := idx.Entries[it.Next()]

		for _, loc := range e.Expr.Locate(raw, 0) {
			segs := locationSegments(loc)

			v, ok, err := valueAt(inst, segs)
			if err != nil {
				return nil, err
			}

			if ok && v != nil {
				out[Canonical(segs)] = v
			}
		}
	}

	return out, nil
}

func locationSegments(loc jp.Expr) []string {
	segs := make([]string, 0, len(loc))

	for _, frag := range loc {
		switch f := frag.(type) {
		case jp.Child:
			segs = append(segs, string(f))
		case jp.Nth:
			segs = append(segs, strconv.Itoa(int(f)))
		}
	}

	return segs
}
