// Package gps is the front door of the extraction pipeline: it drives
// multi-pass recognition over an image, funnels the recognized text through
// merging, pattern matching, validation and scoring, and assembles the
// final ranked list of geocoded detections.
//
// # Pipeline
//
// For one image, Extract runs the configured full-frame passes plus an
// aggressive pass over each region of interest, then:
//
//  1. merges overlapping segments from all passes/regions (package merge)
//  2. matches coordinate notations in each merged segment (package pattern)
//  3. rejects out-of-range values and non-GPS shapes (package validate)
//  4. scores and classifies the survivors (package score)
//  5. deduplicates near-identical points and ranks by confidence
//
// The per-image pipeline is pure, synchronous computation; the only
// latency lives in the recognition engine. Processor runs a bounded worker
// pool over a batch of images, isolates failures per item, and discards
// results of recognitions that outlived a cancellation.
package gps
