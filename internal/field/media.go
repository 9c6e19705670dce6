package field

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"sync"

	// decoders for Media.Decode
	_ "image/jpeg"
	_ "image/png"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
)

// Media is an unstructured value that lives outside the sample. Nothing
// is read until Bytes, Decode, RGBA or Points is called.
type Media struct {
	Kind     descriptor.FieldKind
	Location string
	// Dims is the number of float32 values per point of a point cloud.
	Dims int

	reader Reader
	decode func() (image.Image, error)
}

func newMedia(kind descriptor.FieldKind, location string, r Reader, dims int) *Media {
	m := &Media{Kind: kind, Location: location, Dims: dims, reader: r}
	m.decode = sync.OnceValues(m.decodeImage)

	return m
}

func (m *Media) String() string { return m.Location }

// Bytes reads the raw content.
func (m *Media) Bytes() ([]byte, error) {
	if m.reader == nil {
		return nil, errdefs.ErrReaderMissing
	}

	data, err := m.reader.Read(m.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", m.Kind, m.Location, err)
	}

	return data, nil
}

// Decode decodes image content (png or jpeg). The result is cached.
func (m *Media) Decode() (image.Image, error) {
	switch m.Kind {
	case descriptor.KindImage, descriptor.KindLabelMap, descriptor.KindInstanceMap:
		return m.decode()
	default:
		return nil, fmt.Errorf("%s %s cannot be decoded as an image", m.Kind, m.Location)
	}
}

func (m *Media) decodeImage() (image.Image, error) {
	data, err := m.Bytes()
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", m.Location, err)
	}

	return img, nil
}

// RGBA decodes the image and converts it to an RGBA pixel array.
func (m *Media) RGBA() (*image.RGBA, error) {
	img, err := m.Decode()
	if err != nil {
		return nil, err
	}

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}

	b := img.Bounds()
	out := image.NewRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}

	return out, nil
}

// Points reads a point cloud stored as little-endian float32 rows of Dims values.
func (m *Media) Points() ([][]float32, error) {
	if m.Kind != descriptor.KindPointCloud {
		return nil, fmt.Errorf("%s %s is not a point cloud", m.Kind, m.Location)
	}

	data, err := m.Bytes()
	if err != nil {
		return nil, err
	}

	row := m.Dims * 4
	if row == 0 || len(data)%row != 0 {
		return nil, fmt.Errorf("point cloud %s: %d bytes is not a multiple of %d", m.Location, len(data), row)
	}

	out := make([][]float32, len(data)/row)

	for i := range out {
		pt := make([]float32, m.Dims)
		for j := range pt {
			off := i*row + j*4
			pt[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		}

		out[i] = pt
	}

	return out, nil
}

// LabelMap is a segmentation map whose pixel values are 1-based category
// indices of its class domain. Zero is background.
type LabelMap struct {
	*Media
	Domain *descriptor.ClassDomain
}

// LabelAt returns the category of the pixel at (x, y).
func (l *LabelMap) LabelAt(x, y int) (Label, bool, error) {
	img, err := l.Decode()
	if err != nil {
		return Label{}, false, err
	}

	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return Label{}, false, fmt.Errorf("label map %s: pixel (%d,%d) out of bounds %v", l.Location, x, y, img.Bounds())
	}

	var idx int

	switch im := img.(type) {
	case *image.Paletted:
		idx = int(im.ColorIndexAt(x, y))
	case *image.Gray:
		idx = int(im.GrayAt(x, y).Y)
	case *image.Gray16:
		idx = int(im.Gray16At(x, y).Y)
	default:
		r, _, _, _ := img.At(x, y).RGBA()
		idx = int(r >> 8)
	}

	cat, ok := l.Domain.At(idx)
	if !ok {
		return Label{}, false, nil
	}

	return Label{Category: cat}, true, nil
}

type mediaValidator struct {
	kind   descriptor.FieldKind
	reader Reader
	dims   int
	domain *descriptor.ClassDomain
}

func (v *mediaValidator) Kind() descriptor.FieldKind { return v.kind }

func (v *mediaValidator) Validate(raw any) (any, error) {
	loc, ok := raw.(string)
	if !ok || loc == "" {
		return nil, invalid(v.kind.String(), "expected a non-empty location string, got %s", describe(raw))
	}

	m := newMedia(v.kind, loc, v.reader, v.dims)

	if v.kind == descriptor.KindLabelMap {
		return &LabelMap{Media: m, Domain: v.domain}, nil
	}

	return m, nil
}

func newMediaValidator(spec *descriptor.FieldSpec, env Env) (Validator, error) {
	v := &mediaValidator{kind: spec.Kind}

	if spec.Kind.IsDomainLinked() {
		doms, err := resolveDomains(spec, env)
		if err != nil {
			return nil, err
		}

		v.domain = doms[0]
	}

	if env.Reader == nil {
		return nil, fmt.Errorf("%s field: %w", spec.Kind, errdefs.ErrReaderMissing)
	}

	v.reader = env.Reader

	if a, ok := spec.Args.(descriptor.PointCloudArgs); ok {
		v.dims = a.Dims
	}

	return v, nil
}
