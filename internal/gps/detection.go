package gps

import (
	"fmt"
	"math"

	"github.com/mapstamp/geotext/internal/merge"
	"github.com/mapstamp/geotext/internal/ocr"
	"github.com/mapstamp/geotext/internal/pattern"
	"github.com/mapstamp/geotext/internal/score"
)

// BoundingBox locates a detection in the image, in pixels.
type BoundingBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func boxOf(b ocr.Bounds) BoundingBox {
	return BoundingBox{X: b.X1, Y: b.Y1, W: b.Dx(), H: b.Dy()}
}

// Detection is one validated, scored GPS coordinate reading. Coordinates
// are WGS-84 decimal degrees.
type Detection struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Score is the continuous confidence in [0, 1]; Class is its ordinal
	// bucket.
	Score float64     `json:"confidence_score"`
	Class score.Class `json:"confidence_class"`

	// Kind names the coordinate notation the value was parsed from.
	Kind pattern.Kind `json:"format_kind"`

	// SourceText is the exact matched substring.
	SourceText string `json:"source_text"`

	// Box is the bounding box of the source segment.
	Box BoundingBox `json:"bounding_box"`

	// Notes is the ordered audit trail: parse ambiguities, precision
	// findings, blacklist overrides, collapsed duplicates.
	Notes []string `json:"validation_notes"`

	// Segment references the merged segment the detection came from.
	Segment *merge.MergedSegment `json:"-"`
}

// DMSString renders the detection in conventional degree-minute-second
// notation, e.g. `N 40° 42' 46.080", W 74° 0' 21.600"`.
func (d *Detection) DMSString() string {
	return fmt.Sprintf("%s, %s",
		dmsAxis(d.Latitude, "N", "S"),
		dmsAxis(d.Longitude, "E", "W"))
}

func dmsAxis(v float64, pos, neg string) string {
	hemi := pos
	if v < 0 {
		hemi = neg
	}
	abs := math.Abs(v)
	deg := int(abs)
	minFloat := (abs - float64(deg)) * 60
	min := int(minFloat)
	sec := (minFloat - float64(min)) * 60
	return fmt.Sprintf(`%s %d° %d' %.3f"`, hemi, deg, min, sec)
}

// ExtractionResult is the complete output for one image.
type ExtractionResult struct {
	// Detections is ordered by descending confidence.
	Detections []Detection `json:"detections"`

	// Segments are the merged text segments, retained for overlay
	// rendering and debugging.
	Segments []merge.MergedSegment `json:"segments"`

	// Stats counts rejected candidates per rule name, plus collapsed
	// near-duplicates under "near_duplicate".
	Stats map[string]int `json:"stats"`
}
