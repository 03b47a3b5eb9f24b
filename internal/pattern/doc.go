// Package pattern matches GPS coordinate notations inside noisy OCR text.
//
// The package is built around a declarative registry of coordinate formats.
// Each format is data: a compiled recognizer with capture groups, a priority
// rank (1-10, higher = more explicit/labeled notation), and a normalization
// function that converts the captured groups to signed decimal degrees
// (WGS-84).
//
// # Matching Rules
//
// Formats are evaluated in descending priority order. Once a character span
// of the input has been claimed by a higher-priority match, lower-priority
// formats may not re-claim an overlapping span. Disjoint spans within one
// string match independently, so a single OCR segment can yield several
// candidates.
//
// # Glyph Tolerance
//
// OCR output rarely contains clean typography, so the recognizers accept a
// family of glyphs for each DMS marker:
//
//   - degrees:  ° º ˚ o 0 or the token "deg"/"degrees"
//   - minutes:  ' ′ or the token "min"
//   - seconds:  " ″ '' or the token "sec"
//
// # Hemisphere Handling
//
// Direction letters (N/S/E/W, case-insensitive) are authoritative over any
// numeric sign. When a numeric sign contradicts a hemisphere letter the
// candidate is kept, the hemisphere wins, and a note is recorded so that
// downstream scoring can demote confidence.
package pattern
