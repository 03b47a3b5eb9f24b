// Package overlay renders extraction results onto a copy of the source
// image for visual review: every merged text segment gets a neutral frame,
// every detection a frame colored by its confidence class.
package overlay

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/mapstamp/geotext/internal/gps"
	"github.com/mapstamp/geotext/internal/score"
)

// Options controls overlay rendering.
type Options struct {
	// Thickness is the frame line width in pixels.
	Thickness int

	// DrawSegments also frames merged segments that produced no
	// detection.
	DrawSegments bool
}

// DefaultOptions returns the standard rendering options.
func DefaultOptions() Options {
	return Options{Thickness: 2, DrawSegments: true}
}

// classColor maps a confidence class to a frame color. Hues run from green
// (HIGH) through amber to red (LOW) in HCL space, which keeps perceived
// brightness even across classes.
func classColor(c score.Class) color.Color {
	var hue float64
	switch c {
	case score.High:
		hue = 135
	case score.MediumHigh:
		hue = 90
	case score.Medium:
		hue = 45
	default:
		hue = 12
	}
	return colorful.Hcl(hue, 0.7, 0.55).Clamped()
}

var segmentGray = color.NRGBA{R: 160, G: 160, B: 160, A: 255}

// Render draws the extraction result over img and returns the annotated
// copy. The source image is never modified.
func Render(img image.Image, result *gps.ExtractionResult, opts Options) *image.NRGBA {
	if opts.Thickness < 1 {
		opts.Thickness = 1
	}
	out := imaging.Clone(img)

	if opts.DrawSegments {
		for _, seg := range result.Segments {
			drawFrame(out, seg.Bounds.Rect(), segmentGray, opts.Thickness)
		}
	}
	for _, det := range result.Detections {
		r := image.Rect(det.Box.X, det.Box.Y, det.Box.X+det.Box.W, det.Box.Y+det.Box.H)
		drawFrame(out, r, classColor(det.Class), opts.Thickness)
	}
	return out
}

// drawFrame draws a rectangular outline clipped to the image bounds.
func drawFrame(img *image.NRGBA, r image.Rectangle, c color.Color, thickness int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < thickness; t++ {
		top := r.Min.Y + t
		bottom := r.Max.Y - 1 - t
		for x := r.Min.X; x < r.Max.X; x++ {
			if top < r.Max.Y {
				img.Set(x, top, c)
			}
			if bottom >= r.Min.Y && bottom != top {
				img.Set(x, bottom, c)
			}
		}
		left := r.Min.X + t
		right := r.Max.X - 1 - t
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if left < r.Max.X {
				img.Set(left, y, c)
			}
			if right >= r.Min.X && right != left {
				img.Set(right, y, c)
			}
		}
	}
}
