package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BBox", "bbox"},
		{"bbox", "bbox"},
		{"b_box", "bbox"},
		{"LabelMap", "labelmap"},
		{"label-map", "labelmap"},
		{"PointCloud", "pointcloud"},
		{"point_cloud", "pointcloud"},
		{"RotatedBBox", "rotatedbbox"},
		{"UniqueID", "uniqueid"},
		{"", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestKebabIdent(t *testing.T) {
	assert.Equal(t, "label-map", KebabIdent("LabelMap"))
	assert.Equal(t, "point-cloud", KebabIdent("point_cloud"))
	assert.Equal(t, "image-shape", KebabIdent("ImageShape"))
	assert.Equal(t, "text", KebabIdent("Text"))
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"rotated", "b", "box"}, TokenizeIdent("RotatedBBox"))
	assert.Equal(t, []string{"xml", "parser"}, TokenizeIdent("XMLParser"))
	assert.Nil(t, TokenizeIdent(""))
}
