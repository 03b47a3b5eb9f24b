// Package ocr adapts the Tesseract engine (via gosseract/v2) for multi-pass
// coordinate recognition.
//
// The package produces TextSegment values: recognized line text with a pixel
// bounding box, a confidence score in [0, 1], and the pass/region indices
// stamped by the caller. Everything downstream (merging, parsing, scoring)
// consumes segments and never touches the engine.
//
// # Prerequisites
//
// Tesseract must be installed on the system together with the language data
// for every requested language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Multi-Pass Recognition
//
// Coordinate overlays are often small, low-contrast text burned into a photo
// corner, so a single recognition pass misses many of them. DefaultPasses
// returns a descending ladder of thresholds: a conservative pass for clean
// text, then progressively more permissive passes that tolerate smaller
// glyphs and lower word confidence. ROIPass is a very aggressive
// configuration intended for the small corner/edge regions returned by
// DefaultROIs, where coordinate text usually lives.
//
// # Client Cache
//
// Creating and configuring a Tesseract client is expensive relative to a
// single recognition call. ClientCache keeps one initialized client per
// language-set/engine key with a read-mostly lock, loads lazily on first
// use, and serializes recognition calls per client because a Tesseract
// handle is not re-entrant. Evict and Clear release native resources
// explicitly.
package ocr
