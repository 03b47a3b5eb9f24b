package gps

import (
	"context"
	"fmt"
	"image"
	"sort"

	"github.com/mapstamp/geotext/internal/merge"
	"github.com/mapstamp/geotext/internal/ocr"
	"github.com/mapstamp/geotext/internal/pattern"
	"github.com/mapstamp/geotext/internal/score"
	"github.com/mapstamp/geotext/internal/validate"
)

// Engine is the external text-recognition adapter. ocr.Recognizer is the
// production implementation; tests substitute fakes.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, region image.Rectangle, params ocr.PassParams) ([]ocr.TextSegment, error)
}

// StatNearDuplicate counts detections collapsed by proximity dedup.
const StatNearDuplicate = "near_duplicate"

// Config collects the tunables of the whole pipeline.
type Config struct {
	Merge    merge.Config    `json:"merge"`
	Validate validate.Config `json:"validate"`
	Score    score.Config    `json:"score"`

	// Epsilon is the proximity radius in degrees within which two
	// detections are the same physical point.
	Epsilon float64 `json:"epsilon"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Merge:    merge.DefaultConfig(),
		Validate: validate.DefaultConfig(),
		Score:    score.DefaultConfig(),
		Epsilon:  1e-4,
	}
}

// Extractor runs the extraction pipeline for single images.
type Extractor struct {
	engine    Engine
	registry  *pattern.Registry
	validator *validate.Validator
	scorer    *score.Scorer
	cfg       Config
}

// New creates an Extractor around a recognition engine. Zero-valued config
// sections fall back to their package defaults.
func New(engine Engine, cfg Config) *Extractor {
	if cfg.Merge == (merge.Config{}) {
		cfg.Merge = merge.DefaultConfig()
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = 1e-4
	}
	return &Extractor{
		engine:    engine,
		registry:  pattern.DefaultRegistry(),
		validator: validate.New(cfg.Validate),
		scorer:    score.New(cfg.Score),
		cfg:       cfg,
	}
}

// Extract recognizes and extracts GPS coordinates from one image.
//
// passes configures the full-frame recognition ladder; nil means
// ocr.DefaultPasses. rois lists regions of interest that get an extra
// aggressive pass; nil means ocr.DefaultROIs for the image size, and an
// empty non-nil slice disables region passes entirely.
//
// Recognition engine failures abort only this image. Cancellation is
// honored between stages; results of recognitions that finish after
// cancellation are discarded.
func (e *Extractor) Extract(ctx context.Context, img image.Image, passes []ocr.PassParams, rois []image.Rectangle) (*ExtractionResult, error) {
	if passes == nil {
		passes = ocr.DefaultPasses()
	}
	if rois == nil {
		b := img.Bounds()
		rois = ocr.DefaultROIs(b.Dx(), b.Dy())
	}

	var segments []ocr.TextSegment
	for pi, params := range passes {
		segs, err := e.engine.Recognize(ctx, img, image.Rectangle{}, params)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", pi, err)
		}
		for _, s := range segs {
			s.Pass = pi
			s.Region = ocr.FullImage
			segments = append(segments, s)
		}
	}
	roiParams := ocr.ROIPass()
	for ri, roi := range rois {
		segs, err := e.engine.Recognize(ctx, img, roi, roiParams)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", ri, err)
		}
		for _, s := range segs {
			s.Pass = len(passes)
			s.Region = ri
			segments = append(segments, s)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return e.ExtractFromSegments(segments), nil
}

// ExtractFromSegments runs the pure half of the pipeline (merge, parse,
// validate, score, assemble) over already recognized segments. It is
// deterministic and requires no engine.
func (e *Extractor) ExtractFromSegments(segments []ocr.TextSegment) *ExtractionResult {
	mergedSegs := merge.Merge(segments, e.cfg.Merge)
	stats := make(map[string]int)

	var detections []Detection
	for i := range mergedSegs {
		seg := &mergedSegs[i]
		for _, cand := range e.registry.Match(seg.Text) {
			verdict := e.validator.Check(cand, seg.Text)
			if !verdict.OK {
				stats[verdict.Rule]++
				continue
			}
			sc, class := e.scorer.Score(cand, seg.Confidence, seg.Text, verdict)
			notes := append(append([]string{}, cand.Notes...), verdict.Notes...)
			detections = append(detections, Detection{
				Latitude:   cand.Lat,
				Longitude:  cand.Lon,
				Score:      sc,
				Class:      class,
				Kind:       cand.Kind,
				SourceText: cand.Text,
				Box:        boxOf(seg.Bounds),
				Notes:      notes,
				Segment:    seg,
			})
		}
	}

	detections = e.assemble(detections, stats)
	return &ExtractionResult{
		Detections: detections,
		Segments:   mergedSegs,
		Stats:      stats,
	}
}

// assemble deduplicates detections by coordinate proximity and ranks them
// by descending confidence. When two detections name the same point the
// higher-confidence one survives and absorbs provenance.
func (e *Extractor) assemble(detections []Detection, stats map[string]int) []Detection {
	sort.SliceStable(detections, func(i, j int) bool {
		if detections[i].Score != detections[j].Score {
			return detections[i].Score > detections[j].Score
		}
		return detections[i].SourceText < detections[j].SourceText
	})

	kept := detections[:0:0]
	for _, d := range detections {
		dup := false
		for k := range kept {
			if samePoint(kept[k], d, e.cfg.Epsilon) {
				kept[k].Notes = append(kept[k].Notes,
					fmt.Sprintf("near-duplicate %q collapsed", d.SourceText))
				stats[StatNearDuplicate]++
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, d)
		}
	}
	return kept
}

func samePoint(a, b Detection, eps float64) bool {
	return abs(a.Latitude-b.Latitude) <= eps && abs(a.Longitude-b.Longitude) <= eps
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
