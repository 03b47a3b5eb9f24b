package ocr

import "image"

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// BoundsOf converts an image.Rectangle to Bounds.
func BoundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rect converts the bounds to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Dx returns the width in pixels.
func (b Bounds) Dx() int { return b.X2 - b.X1 }

// Dy returns the height in pixels.
func (b Bounds) Dy() int { return b.Y2 - b.Y1 }

// Area returns the covered area in square pixels, never negative.
func (b Bounds) Area() int {
	if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
		return 0
	}
	return b.Dx() * b.Dy()
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		X1: minInt(b.X1, o.X1),
		Y1: minInt(b.Y1, o.Y1),
		X2: maxInt(b.X2, o.X2),
		Y2: maxInt(b.Y2, o.Y2),
	}
}

// Intersect returns the overlapping region of b and o. The result has zero
// Area when the two bounds do not intersect.
func (b Bounds) Intersect(o Bounds) Bounds {
	return Bounds{
		X1: maxInt(b.X1, o.X1),
		Y1: maxInt(b.Y1, o.Y1),
		X2: minInt(b.X2, o.X2),
		Y2: minInt(b.Y2, o.Y2),
	}
}

// FullImage is the Region value of segments recognized from the whole frame
// rather than a region of interest.
const FullImage = -1

// TextSegment is one recognized text line from a single pass over a single
// region. Segments are immutable once produced.
type TextSegment struct {
	// Text is the recognized line content.
	Text string `json:"text"`

	// Bounds is the bounding box in original-image pixel coordinates,
	// regardless of any region cropping or upscaling applied during
	// recognition.
	Bounds Bounds `json:"bounds"`

	// Confidence is the engine's recognition confidence (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Pass is the index of the recognition pass that produced this segment.
	Pass int `json:"pass"`

	// Region is the index of the region of interest this segment came
	// from, or FullImage for whole-frame passes.
	Region int `json:"region"`
}

// PassParams tunes a single recognition pass.
type PassParams struct {
	// MinGlyphSize is the smallest glyph height, in pixels, the pass
	// should still resolve. Small values trigger upscaling before the
	// engine runs.
	MinGlyphSize int `json:"min_glyph_size"`

	// Threshold is the minimum per-line confidence (0.0 to 1.0); lines
	// below it are dropped.
	Threshold float64 `json:"threshold"`
}

// DefaultPasses returns the standard full-image pass ladder: a strict pass
// for clean text followed by two increasingly permissive ones.
func DefaultPasses() []PassParams {
	return []PassParams{
		{MinGlyphSize: 10, Threshold: 0.8},
		{MinGlyphSize: 5, Threshold: 0.6},
		{MinGlyphSize: 3, Threshold: 0.4},
	}
}

// ROIPass returns the aggressive configuration used on regions of interest,
// where coordinate text tends to be small and low-contrast.
func ROIPass() PassParams {
	return PassParams{MinGlyphSize: 2, Threshold: 0.3}
}

// DefaultROIs returns the corner, edge and center-strip regions where
// coordinate overlays usually appear, proportional to the image size.
func DefaultROIs(width, height int) []image.Rectangle {
	return []image.Rectangle{
		image.Rect(0, 0, width/3, height/4),                    // top-left
		image.Rect(width*2/3, 0, width, height/4),              // top-right
		image.Rect(width/3, 0, width*2/3, height/6),            // top-center
		image.Rect(0, height*3/4, width/3, height),             // bottom-left
		image.Rect(width*2/3, height*3/4, width, height),       // bottom-right
		image.Rect(width/3, height*5/6, width*2/3, height),     // bottom-center
		image.Rect(0, height/3, width/6, height*2/3),           // left-middle
		image.Rect(width*5/6, height/3, width, height*2/3),     // right-middle
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
