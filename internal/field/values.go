package field

import (
	"math"

	"github.com/google/uuid"

	"dsdl-go/internal/descriptor"
)

// BBox is an axis-aligned box stored as top-left corner and size.
type BBox struct {
	X, Y, W, H float64
}

func (b BBox) XMin() float64   { return b.X }
func (b BBox) YMin() float64   { return b.Y }
func (b BBox) XMax() float64   { return b.X + b.W }
func (b BBox) YMax() float64   { return b.Y + b.H }
func (b BBox) Width() float64  { return b.W }
func (b BBox) Height() float64 { return b.H }
func (b BBox) Area() float64   { return b.W * b.H }

// XYXY returns [xmin, ymin, xmax, ymax].
func (b BBox) XYXY() [4]float64 { return [4]float64{b.X, b.Y, b.XMax(), b.YMax()} }

// XYWH returns [xmin, ymin, width, height].
func (b BBox) XYWH() [4]float64 { return [4]float64{b.X, b.Y, b.W, b.H} }

// Coord is a 2D point.
type Coord struct {
	X, Y float64
}

// Coord3D is a 3D point.
type Coord3D struct {
	X, Y, Z float64
}

// RotatedBBox is a box rotated around its center. Angle is in radians.
type RotatedBBox struct {
	CX, CY, W, H float64
	Angle        float64
}

// Points returns the four corners, counter-clockwise from the top-left
// corner of the unrotated box.
func (r RotatedBBox) Points() [4]Coord {
	sin, cos := math.Sincos(r.Angle)
	hw, hh := r.W/2, r.H/2

	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}

	var out [4]Coord
	for i, c := range corners {
		out[i] = Coord{
			X: r.CX + c[0]*cos - c[1]*sin,
			Y: r.CY + c[0]*sin + c[1]*cos,
		}
	}

	return out
}

// Degrees returns the angle in degrees.
func (r RotatedBBox) Degrees() float64 { return r.Angle * 180 / math.Pi }

func rotatedFromPoints(p [4]Coord) RotatedBBox {
	cx := (p[0].X + p[1].X + p[2].X + p[3].X) / 4
	cy := (p[0].Y + p[1].Y + p[2].Y + p[3].Y) / 4

	return RotatedBBox{
		CX:    cx,
		CY:    cy,
		W:     math.Hypot(p[1].X-p[0].X, p[1].Y-p[0].Y),
		H:     math.Hypot(p[2].X-p[1].X, p[2].Y-p[1].Y),
		Angle: math.Atan2(p[1].Y-p[0].Y, p[1].X-p[0].X),
	}
}

// Polygon is one or more closed rings of points.
type Polygon struct {
	Rings [][]Coord
}

// Points returns the points of every ring in order.
func (p Polygon) Points() []Coord {
	var out []Coord
	for _, r := range p.Rings {
		out = append(out, r...)
	}

	return out
}

// Area returns the summed absolute shoelace area of the rings.
func (p Polygon) Area() float64 {
	var total float64

	for _, ring := range p.Rings {
		var s float64

		for i := range ring {
			j := (i + 1) % len(ring)
			s += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
		}

		total += math.Abs(s) / 2
	}

	return total
}

// Interval is a closed range with Start <= End.
type Interval struct {
	Start, End float64
}

// Length returns End - Start.
func (i Interval) Length() float64 { return i.End - i.Start }

// ImageShape is an image size in pixels.
type ImageShape struct {
	Height, Width int
}

// Label is a reference to a category of a class domain.
type Label struct {
	Category descriptor.Category
}

func (l Label) Name() string   { return l.Category.Name }
func (l Label) Index() int     { return l.Category.Index }
func (l Label) Domain() string { return l.Category.Domain }
func (l Label) String() string { return l.Category.Name }

// Keypoint visibility flags.
const (
	KeypointNotLabeled = 0
	KeypointOccluded   = 1
	KeypointVisible    = 2
)

// Keypoint is one annotated point of a keypoint set.
type Keypoint struct {
	Category descriptor.Category
	X, Y     float64
	Visible  int
}

// Keypoints holds one point per category of the class domain.
type Keypoints struct {
	Domain *descriptor.ClassDomain
	Points []Keypoint
}

// Skeleton returns the point pairs joined by the domain skeleton.
func (k Keypoints) Skeleton() [][2]Keypoint {
	out := make([][2]Keypoint, 0, len(k.Domain.Skeleton))

	for _, e := range k.Domain.Skeleton {
		if e[0] < 1 || e[0] > len(k.Points) || e[1] < 1 || e[1] > len(k.Points) {
			continue
		}

		out = append(out, [2]Keypoint{k.Points[e[0]-1], k.Points[e[1]-1]})
	}

	return out
}

// Text wraps free-form text.
type Text struct {
	Value string
}

func (t Text) String() string { return t.Value }

// UniqueID is an identifier value. UUID is set for id_type=uuid.
type UniqueID struct {
	Value  string
	IDType string
	UUID   uuid.UUID
}

func (u UniqueID) String() string { return u.Value }
