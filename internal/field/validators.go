package field

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"

	"dsdl-go/internal/descriptor"
)

// funcValidator adapts a plain function to Validator.
type funcValidator struct {
	kind descriptor.FieldKind
	fn   func(raw any) (any, error)
}

func (v funcValidator) Kind() descriptor.FieldKind    { return v.kind }
func (v funcValidator) Validate(raw any) (any, error) { return v.fn(raw) }

func simple(fn func(raw any) (any, error)) func(*descriptor.FieldSpec, Env) (Validator, error) {
	return func(spec *descriptor.FieldSpec, _ Env) (Validator, error) {
		return funcValidator{kind: spec.Kind, fn: fn}, nil
	}
}

func newBBoxValidator(spec *descriptor.FieldSpec, _ Env) (Validator, error) {
	mode := descriptor.BBoxXYWH
	if a, ok := spec.Args.(descriptor.BBoxArgs); ok && a.Mode != "" {
		mode = a.Mode
	}

	return funcValidator{kind: descriptor.KindBBox, fn: func(raw any) (any, error) {
		n, err := numbers("bbox", raw, 4)
		if err != nil {
			return nil, err
		}

		b := BBox{X: n[0], Y: n[1], W: n[2], H: n[3]}
		if mode == descriptor.BBoxXYXY {
			b.W, b.H = n[2]-n[0], n[3]-n[1]
		}

		if b.W < 0 || b.H < 0 {
			return nil, invalid("bbox", "negative size %gx%g (mode %s)", b.W, b.H, mode)
		}

		return b, nil
	}}, nil
}

func newRotatedBBoxValidator(spec *descriptor.FieldSpec, _ Env) (Validator, error) {
	args := descriptor.RotatedBBoxArgs{Mode: descriptor.RotatedXYWHT, Measure: descriptor.MeasureRadian}
	if a, ok := spec.Args.(descriptor.RotatedBBoxArgs); ok {
		args = a
	}

	return funcValidator{kind: descriptor.KindRotatedBBox, fn: func(raw any) (any, error) {
		if args.Mode == descriptor.RotatedXYXYXYXY {
			n, err := numbers("rotated-bbox", raw, 8)
			if err != nil {
				return nil, err
			}

			var pts [4]Coord
			for i := range pts {
				pts[i] = Coord{X: n[2*i], Y: n[2*i+1]}
			}

			return rotatedFromPoints(pts), nil
		}

		n, err := numbers("rotated-bbox", raw, 5)
		if err != nil {
			return nil, err
		}

		if n[2] < 0 || n[3] < 0 {
			return nil, invalid("rotated-bbox", "negative size %gx%g", n[2], n[3])
		}

		angle := n[4]
		if args.Measure == descriptor.MeasureDegree {
			angle = angle * math.Pi / 180
		}

		return RotatedBBox{CX: n[0], CY: n[1], W: n[2], H: n[3], Angle: angle}, nil
	}}, nil
}

func validatePolygon(raw any) (any, error) {
	const kind = "polygon"

	seq, ok := toSeq(raw)
	if !ok || len(seq) == 0 {
		return nil, invalid(kind, "expected a non-empty list of points, got %s", describe(raw))
	}

	// A single ring is a list of [x, y]; several rings nest one level deeper.
	rings := [][]any{seq}

	if first, ok := toSeq(seq[0]); ok && len(first) > 0 {
		if _, nested := toSeq(first[0]); nested {
			rings = rings[:0]

			for i, r := range seq {
				ring, ok := toSeq(r)
				if !ok {
					return nil, invalid(kind, "ring %d: expected a list of points", i)
				}

				rings = append(rings, ring)
			}
		}
	}

	p := Polygon{Rings: make([][]Coord, 0, len(rings))}

	for ri, ring := range rings {
		if len(ring) < 3 {
			return nil, invalid(kind, "ring %d: expected at least 3 points, got %d", ri, len(ring))
		}

		pts := make([]Coord, len(ring))

		for i, pt := range ring {
			n, err := numbers(kind, pt, 2)
			if err != nil {
				return nil, invalid(kind, "ring %d point %d: expected [x, y]", ri, i)
			}

			pts[i] = Coord{X: n[0], Y: n[1]}
		}

		p.Rings = append(p.Rings, pts)
	}

	return p, nil
}

func validateCoord(raw any) (any, error) {
	n, err := numbers("coord", raw, 2)
	if err != nil {
		return nil, err
	}

	return Coord{X: n[0], Y: n[1]}, nil
}

func validateCoord3D(raw any) (any, error) {
	n, err := numbers("coord3d", raw, 3)
	if err != nil {
		return nil, err
	}

	return Coord3D{X: n[0], Y: n[1], Z: n[2]}, nil
}

func validateInterval(raw any) (any, error) {
	n, err := numbers("interval", raw, 2)
	if err != nil {
		return nil, err
	}

	if n[0] > n[1] {
		return nil, invalid("interval", "start %g is after end %g", n[0], n[1])
	}

	return Interval{Start: n[0], End: n[1]}, nil
}

func validateImageShape(raw any) (any, error) {
	const kind = "image-shape"

	seq, ok := toSeq(raw)
	if !ok || len(seq) != 2 {
		return nil, invalid(kind, "expected [height, width], got %s", describe(raw))
	}

	var dims [2]int

	for i, v := range seq {
		n, ok := toInt(v)
		if !ok || n <= 0 {
			return nil, invalid(kind, "element %d: expected a positive integer", i)
		}

		dims[i] = int(n)
	}

	return ImageShape{Height: dims[0], Width: dims[1]}, nil
}

func validateText(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalid("text", "expected a string, got %s", describe(raw))
	}

	return Text{Value: s}, nil
}

func validateStr(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalid("str", "expected a string, got %s", describe(raw))
	}

	return s, nil
}

func validateInt(raw any) (any, error) {
	if _, isBool := raw.(bool); !isBool {
		if n, ok := toInt(raw); ok {
			return n, nil
		}
	}

	return nil, invalid("int", "expected an integer, got %s", describe(raw))
}

func validateNum(raw any) (any, error) {
	if f, ok := toFloat(raw); ok {
		return f, nil
	}

	return nil, invalid("num", "expected a number, got %s", describe(raw))
}

func validateBool(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, invalid("bool", "expected a boolean, got %s", describe(raw))
	}

	return b, nil
}

func newTimeValidator(spec *descriptor.FieldSpec, _ Env) (Validator, error) {
	format := DefaultDateFormat
	if spec.Kind == descriptor.KindTime {
		format = DefaultTimeFormat
	}

	if a, ok := spec.Args.(descriptor.TimeArgs); ok && a.Format != "" {
		format = a.Format
	}

	kind := spec.Kind

	return funcValidator{kind: kind, fn: func(raw any) (any, error) {
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			t, err := strftime.Parse(format, v)
			if err != nil {
				return nil, invalid(kind.String(), "%q does not match format %q", v, format)
			}

			return t, nil
		default:
			return nil, invalid(kind.String(), "expected a string, got %s", describe(raw))
		}
	}}, nil
}

func newUniqueIDValidator(spec *descriptor.FieldSpec, _ Env) (Validator, error) {
	idType := IDTypeAny
	if a, ok := spec.Args.(descriptor.UniqueIDArgs); ok && a.IDType != "" {
		idType = a.IDType
	}

	return funcValidator{kind: descriptor.KindUniqueID, fn: func(raw any) (any, error) {
		const kind = "unique-id"

		id := UniqueID{IDType: idType}

		switch v := raw.(type) {
		case string:
			if v == "" {
				return nil, invalid(kind, "empty identifier")
			}

			id.Value = v
		case bool:
			return nil, invalid(kind, "expected a string or integer, got bool")
		default:
			n, ok := toInt(raw)
			if !ok {
				return nil, invalid(kind, "expected a string or integer, got %s", describe(raw))
			}

			id.Value = strconv.FormatInt(n, 10)
		}

		switch idType {
		case IDTypeUUID:
			u, err := uuid.Parse(id.Value)
			if err != nil {
				return nil, invalid(kind, "%q is not a UUID: %v", id.Value, err)
			}

			id.UUID = u
		case IDTypeInt:
			if _, err := strconv.ParseInt(id.Value, 10, 64); err != nil {
				return nil, invalid(kind, "%q is not an integer identifier", id.Value)
			}
		}

		return id, nil
	}}, nil
}
