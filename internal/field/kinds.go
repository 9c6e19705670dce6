package field

import (
	"fmt"
	"strconv"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
)

// DefaultRegistry returns a new registry holding every built-in kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, k := range builtins(r) {
		if err := r.Register(k); err != nil {
			panic(err)
		}
	}

	return r
}

func builtins(r *Registry) []*Kind {
	return []*Kind{
		{Name: "bbox", Kind: descriptor.KindBBox, ParseArgs: parseBBoxArgs, New: newBBoxValidator},
		{Name: "rotated-bbox", Kind: descriptor.KindRotatedBBox, ParseArgs: parseRotatedBBoxArgs, New: newRotatedBBoxValidator},
		{Name: "polygon", Kind: descriptor.KindPolygon, New: simple(validatePolygon)},
		{Name: "coord", Kind: descriptor.KindCoord, New: simple(validateCoord)},
		{Name: "coord3d", Kind: descriptor.KindCoord3D, New: simple(validateCoord3D)},
		{Name: "interval", Kind: descriptor.KindInterval, New: simple(validateInterval)},
		{Name: "image-shape", Kind: descriptor.KindImageShape, New: simple(validateImageShape)},
		{Name: "label", Kind: descriptor.KindLabel, ParseArgs: parseDomainArgs, New: newLabelValidator},
		{Name: "keypoint", Kind: descriptor.KindKeypoint, ParseArgs: parseSingleDomainArgs, New: newKeypointValidator},
		{Name: "label-map", Kind: descriptor.KindLabelMap, ParseArgs: parseSingleDomainArgs, New: newMediaValidator},
		{Name: "instance-map", Kind: descriptor.KindInstanceMap, New: newMediaValidator},
		{Name: "image", Kind: descriptor.KindImage, New: newMediaValidator},
		{Name: "video", Kind: descriptor.KindVideo, New: newMediaValidator},
		{Name: "point-cloud", Kind: descriptor.KindPointCloud, ParseArgs: parsePointCloudArgs, New: newMediaValidator},
		{Name: "text", Kind: descriptor.KindText, New: simple(validateText)},
		{Name: "str", Kind: descriptor.KindStr, Aliases: []string{"string"}, New: simple(validateStr)},
		{Name: "int", Kind: descriptor.KindInt, Aliases: []string{"integer"}, New: simple(validateInt)},
		{Name: "num", Kind: descriptor.KindNum, Aliases: []string{"number", "float"}, New: simple(validateNum)},
		{Name: "bool", Kind: descriptor.KindBool, Aliases: []string{"boolean"}, New: simple(validateBool)},
		{Name: "date", Kind: descriptor.KindDate, ParseArgs: timeArgsParser(DefaultDateFormat), New: newTimeValidator},
		{Name: "time", Kind: descriptor.KindTime, ParseArgs: timeArgsParser(DefaultTimeFormat), New: newTimeValidator},
		{Name: "unique-id", Kind: descriptor.KindUniqueID, ParseArgs: parseUniqueIDArgs, New: newUniqueIDValidator},
		{Name: "list", Kind: descriptor.KindList, New: r.newListValidator},
	}
}

// Parse builds the typed argument record of a leaf kind.
func (k *Kind) Parse(args RawArgs) (descriptor.Args, error) {
	if k.ParseArgs == nil {
		return parseNoArgs(args)
	}

	return k.ParseArgs(args)
}

type listValidator struct {
	elem Validator
}

// newListValidator handles lists whose innermost element is a leaf kind.
// Lists of structs are expanded by the instance layer.
func (r *Registry) newListValidator(spec *descriptor.FieldSpec, env Env) (Validator, error) {
	elem := spec.Elem()
	if elem == nil {
		return nil, fmt.Errorf("list field: %w: missing element type", errdefs.ErrDefineSyntax)
	}

	if _, ok := spec.StructRef(); ok {
		return nil, fmt.Errorf("list of %s: struct elements have no field validator", elem)
	}

	ev, err := r.New(elem, env)
	if err != nil {
		return nil, err
	}

	return &listValidator{elem: ev}, nil
}

func (v *listValidator) Kind() descriptor.FieldKind { return descriptor.KindList }

func (v *listValidator) Validate(raw any) (any, error) {
	seq, ok := toSeq(raw)
	if !ok {
		return nil, invalid("list", "expected a list, got %s", describe(raw))
	}

	out := make([]any, len(seq))

	for i, item := range seq {
		val, err := v.elem.Validate(item)
		if err != nil {
			return nil, AtPath(err, strconv.Itoa(i))
		}

		out[i] = val
	}

	return out, nil
}
