package descriptor

import (
	"slices"
	"strings"
)

// ParamMarker prefixes a value that refers to a parameter of the enclosing struct.
const ParamMarker = "$"

// IsParamRef reports whether v is an indirection such as "$dom".
func IsParamRef(v string) bool {
	return strings.HasPrefix(v, ParamMarker) && len(v) > len(ParamMarker)
}

// ParamName strips the marker from a parameter reference.
func ParamName(v string) string {
	return strings.TrimPrefix(v, ParamMarker)
}

// Args is the typed argument record of a field kind. The set of
// implementations is closed.
type Args interface {
	clone() Args
}

// NoArgs is used by kinds that take no arguments.
type NoArgs struct{}

func (NoArgs) clone() Args { return NoArgs{} }

// BBox coordinate layouts.
const (
	BBoxXYWH = "xywh"
	BBoxXYXY = "xyxy"
)

// BBoxArgs configures the bbox kind.
type BBoxArgs struct {
	Mode string
}

func (a BBoxArgs) clone() Args { return a }

// Rotated box layouts and angle measures.
const (
	RotatedXYWHT    = "xywht"
	RotatedXYXYXYXY = "xyxyxyxy"
	MeasureRadian   = "radian"
	MeasureDegree   = "degree"
)

// RotatedBBoxArgs configures the rotated-bbox kind.
type RotatedBBoxArgs struct {
	Mode    string
	Measure string
}

func (a RotatedBBoxArgs) clone() Args { return a }

// DomainArgs names the class domains of label, keypoint and label-map
// fields. Entries may be parameter references until resolution.
type DomainArgs struct {
	Domains []string
}

func (a DomainArgs) clone() Args { return DomainArgs{Domains: slices.Clone(a.Domains)} }

// Unresolved returns the parameter references still present in the args.
func (a DomainArgs) Unresolved() []string {
	var refs []string

	for _, d := range a.Domains {
		if IsParamRef(d) {
			refs = append(refs, d)
		}
	}

	return refs
}

// TimeArgs configures date and time kinds. Format is a strftime pattern.
type TimeArgs struct {
	Format string
}

func (a TimeArgs) clone() Args { return a }

// UniqueIDArgs configures the unique-id kind.
type UniqueIDArgs struct {
	IDType string
}

func (a UniqueIDArgs) clone() Args { return a }

// PointCloudArgs configures the point-cloud kind. Dims is the number of
// float32 values per point in the binary layout.
type PointCloudArgs struct {
	Dims int
}

func (a PointCloudArgs) clone() Args { return a }

// ListArgs configures the list kind.
type ListArgs struct {
	Elem    *FieldSpec
	Ordered bool
}

func (a ListArgs) clone() Args {
	return ListArgs{Elem: a.Elem.Clone(), Ordered: a.Ordered}
}

// Binding assigns a value to one generic parameter of a referenced struct.
type Binding struct {
	Param string
	Value string
}

// StructArgs describes a reference to another declared struct.
type StructArgs struct {
	Name     string
	Bindings []Binding
}

func (a StructArgs) clone() Args {
	return StructArgs{Name: a.Name, Bindings: slices.Clone(a.Bindings)}
}

// Binding returns the value bound to param.
func (a StructArgs) Binding(param string) (string, bool) {
	for _, b := range a.Bindings {
		if b.Param == param {
			return b.Value, true
		}
	}

	return "", false
}

// BindingKey renders the bindings as a stable string, e.g. "dom=$dom,x=Y".
func (a StructArgs) BindingKey() string {
	parts := make([]string, 0, len(a.Bindings))
	for _, b := range a.Bindings {
		parts = append(parts, b.Param+"="+b.Value)
	}

	slices.Sort(parts)

	return strings.Join(parts, ",")
}
