package descriptor

//go:generate go tool stringer -type=FieldKind -linecomment -output=kind_string.go

// FieldKind enumerates the closed vocabulary of field kinds.
type FieldKind int

const (
	KindInvalid     FieldKind = iota // invalid
	KindBBox                         // bbox
	KindRotatedBBox                  // rotated-bbox
	KindPolygon                      // polygon
	KindCoord                        // coord
	KindCoord3D                      // coord3d
	KindInterval                     // interval
	KindImageShape                   // image-shape
	KindLabel                        // label
	KindKeypoint                     // keypoint
	KindLabelMap                     // label-map
	KindInstanceMap                  // instance-map
	KindImage                        // image
	KindVideo                        // video
	KindPointCloud                   // point-cloud
	KindText                         // text
	KindStr                          // str
	KindInt                          // int
	KindNum                          // num
	KindBool                         // bool
	KindDate                         // date
	KindTime                         // time
	KindUniqueID                     // unique-id
	KindList                         // list
	KindStruct                       // struct
)

// IsDomainLinked reports whether values of the kind reference a class domain.
func (k FieldKind) IsDomainLinked() bool {
	switch k {
	case KindLabel, KindKeypoint, KindLabelMap:
		return true
	default:
		return false
	}
}

// IsUnstructured reports whether values of the kind live outside the sample
// and must be fetched through a byte reader.
func (k FieldKind) IsUnstructured() bool {
	switch k {
	case KindImage, KindVideo, KindPointCloud, KindLabelMap, KindInstanceMap:
		return true
	default:
		return false
	}
}

// IsContainer reports whether the kind wraps other members (list or struct).
func (k FieldKind) IsContainer() bool {
	return k == KindList || k == KindStruct
}
