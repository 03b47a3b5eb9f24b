package ocr

import (
	"context"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Recognizer performs text recognition with Tesseract. The zero value is
// not usable; construct one with NewRecognizer.
//
// A Recognizer is safe for concurrent use. Calls sharing one language set
// are serialized by the client cache because a Tesseract handle is not
// re-entrant; callers that need more throughput can run several Recognizers
// with distinct Engine tags.
type Recognizer struct {
	// Languages are Tesseract language codes, e.g. "eng". Multiple
	// languages are combined into one model load.
	Languages []string

	// Engine distinguishes otherwise identical configurations in the
	// client cache, the analog of a device tag ("cpu" by default).
	Engine string

	cache *ClientCache
}

// NewRecognizer creates a Recognizer with its own client cache. With no
// languages given it defaults to English.
func NewRecognizer(languages ...string) *Recognizer {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Recognizer{
		Languages: languages,
		Engine:    "cpu",
		cache:     NewClientCache(),
	}
}

// Cache exposes the recognizer's client cache for explicit lifecycle
// control (Evict, Clear).
func (r *Recognizer) Cache() *ClientCache { return r.cache }

// Recognize runs one recognition pass over img, or over a sub-region when
// region is non-empty, and returns the recognized text lines.
//
// Bounding boxes are always in original-image coordinates: region cropping
// and small-glyph upscaling are undone before segments are returned. Lines
// whose confidence falls below params.Threshold are dropped. The Pass and
// Region fields of the returned segments are zero values; the caller stamps
// them, since only it knows which pass and region it is driving.
//
// The engine is not preemptible. Cancellation is checked before the call;
// an in-flight recognition runs to completion and its result is discarded
// by the caller.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image, region image.Rectangle, params PassParams) ([]TextSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	offsetX, offsetY := 0, 0
	src := img
	if !region.Empty() {
		src = imaging.Crop(img, region)
		offsetX, offsetY = region.Min.X, region.Min.Y
	}

	prepared, scale := prepare(src, params)

	tmpPath, err := saveTemp(prepared)
	if err != nil {
		return nil, &RecognitionError{Op: "write temp image", Err: err}
	}
	defer os.Remove(tmpPath)

	var boxes []gosseract.BoundingBox
	key := CacheKey(r.Languages, r.Engine)
	err = r.cache.withClient(key, r.Languages, func(client *gosseract.Client) error {
		if err := client.SetImage(tmpPath); err != nil {
			return &RecognitionError{Op: "set image", Err: err}
		}
		// Set on every call: the cached client keeps variables across
		// calls, and a pass without an explicit size must get the engine
		// default back, not the previous pass's value.
		if err := client.SetVariable(gosseract.SettableVariable("textord_min_xheight"), strconv.Itoa(minXHeight(params))); err != nil {
			return &RecognitionError{Op: "set glyph size", Err: err}
		}
		var err error
		boxes, err = client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
		if err != nil {
			return &RecognitionError{Op: "recognize", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	segments := make([]TextSegment, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		confidence := box.Confidence / 100.0
		if confidence < params.Threshold {
			continue
		}
		segments = append(segments, TextSegment{
			Text: text,
			Bounds: Bounds{
				X1: box.Box.Min.X/scale + offsetX,
				Y1: box.Box.Min.Y/scale + offsetY,
				X2: box.Box.Max.X/scale + offsetX,
				Y2: box.Box.Max.Y/scale + offsetY,
			},
			Confidence: confidence,
			Region:     FullImage,
		})
	}
	return segments, nil
}

// defaultMinXHeight is Tesseract's default for textord_min_xheight, the
// floor for resolvable glyph height.
const defaultMinXHeight = 10

// minXHeight resolves the glyph-size floor for a pass. Non-positive values
// mean "engine default".
func minXHeight(params PassParams) int {
	if params.MinGlyphSize > 0 {
		return params.MinGlyphSize
	}
	return defaultMinXHeight
}

// saveTemp writes img to a temporary PNG and returns its path. Tesseract
// consumes file paths, not in-memory images.
func saveTemp(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "geotext-ocr-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
