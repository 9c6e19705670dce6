package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsdl-go/internal/descriptor"
	"dsdl-go/internal/errdefs"
)

func TestDefaultRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name string
		want descriptor.FieldKind
	}{
		{"BBox", descriptor.KindBBox},
		{"bbox", descriptor.KindBBox},
		{"b_box", descriptor.KindBBox},
		{"RotatedBBox", descriptor.KindRotatedBBox},
		{"LabelMap", descriptor.KindLabelMap},
		{"label_map", descriptor.KindLabelMap},
		{"Coord3D", descriptor.KindCoord3D},
		{"UniqueID", descriptor.KindUniqueID},
		{"PointCloud", descriptor.KindPointCloud},
		{"List", descriptor.KindList},
		{"String", descriptor.KindStr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := r.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, k.Kind)
			assert.Equal(t, tt.want.String(), k.Name)
		})
	}
}

func TestRegistry_LookupMissing(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Lookup("lable")
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrKindNotFound)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)

	var nf *errdefs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Suggestions, "label")
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := DefaultRegistry()

	err := r.Register(&Kind{Name: "BBox", Kind: descriptor.KindBBox})
	assert.ErrorIs(t, err, errdefs.ErrDuplicateDefinition)

	assert.True(t, r.IsReserved("Polygon"))
	assert.False(t, r.IsReserved("Sample"))
	assert.Len(t, r.Names(), 23)
}

func TestKind_Parse(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		kind    string
		args    RawArgs
		want    descriptor.Args
		wantErr bool
	}{
		{"bbox", nil, descriptor.BBoxArgs{Mode: "xywh"}, false},
		{"bbox", RawArgs{"mode": {"xyxy"}}, descriptor.BBoxArgs{Mode: "xyxy"}, false},
		{"bbox", RawArgs{"mode": {"ltrb"}}, nil, true},
		{"bbox", RawArgs{"dom": {"A"}}, nil, true},
		{"rotated-bbox", RawArgs{"measure": {"degree"}}, descriptor.RotatedBBoxArgs{Mode: "xywht", Measure: "degree"}, false},
		{"label", RawArgs{"dom": {"A", "B", "A"}}, descriptor.DomainArgs{Domains: []string{"A", "B"}}, false},
		{"label", nil, nil, true},
		{"keypoint", RawArgs{"dom": {"A", "B"}}, nil, true},
		{"date", nil, descriptor.TimeArgs{Format: DefaultDateFormat}, false},
		{"time", RawArgs{"fmt": {"%H:%M"}}, descriptor.TimeArgs{Format: "%H:%M"}, false},
		{"unique-id", RawArgs{"id_type": {"uuid"}}, descriptor.UniqueIDArgs{IDType: "uuid"}, false},
		{"point-cloud", nil, descriptor.PointCloudArgs{Dims: 4}, false},
		{"point-cloud", RawArgs{"dims": {"2"}}, nil, true},
		{"polygon", nil, descriptor.NoArgs{}, false},
		{"polygon", RawArgs{"mode": {"x"}}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			k, err := r.Lookup(tt.kind)
			require.NoError(t, err)

			got, err := k.Parse(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
