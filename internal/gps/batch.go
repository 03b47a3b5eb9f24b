package gps

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mapstamp/geotext/internal/ocr"
)

// ItemResult is the outcome for one image of a batch. Exactly one of
// Result and Err is set.
type ItemResult struct {
	Path   string            `json:"path"`
	Result *ExtractionResult `json:"result,omitempty"`
	Err    error             `json:"-"`
}

// Processor runs extraction over a batch of image files on a bounded
// worker pool.
//
// Failures are isolated per item: an unreadable image or an engine failure
// fills that item's Err and the batch continues. Cancelling the context
// stops scheduling new items; recognitions already in flight run to
// completion but their results are discarded.
type Processor struct {
	Extractor *Extractor

	// Workers bounds the number of images processed concurrently.
	// Values below 1 mean sequential processing.
	Workers int

	// Passes overrides the full-frame pass ladder; nil uses defaults.
	Passes []ocr.PassParams

	// DisableROIs turns off the extra region-of-interest passes.
	DisableROIs bool

	// Images caches decoded images for the batch. Nil means a private
	// cache per Run call. Callers that render overlays should share one
	// cache so each image is decoded once.
	Images *ImageCache

	// Progress, when set, is called after each finished item with the
	// number of completed items and the batch size. It must be safe for
	// concurrent use.
	Progress func(done, total int)
}

// Run processes every path and returns one result per input, in input
// order.
func (p *Processor) Run(ctx context.Context, paths []string) []ItemResult {
	results := make([]ItemResult, len(paths))

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	cache := p.Images
	if cache == nil {
		cache = NewImageCache()
		defer cache.Clear()
	}

	var done atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = p.processOne(ctx, cache, path)
			if p.Progress != nil {
				p.Progress(int(done.Add(1)), len(paths))
			}
			return nil
		})
	}
	g.Wait()
	return results
}

func (p *Processor) processOne(ctx context.Context, cache *ImageCache, path string) ItemResult {
	if err := ctx.Err(); err != nil {
		return ItemResult{Path: path, Err: err}
	}

	img, err := cache.Load(path)
	if err != nil {
		return ItemResult{Path: path, Err: fmt.Errorf("invalid image: %w", err)}
	}

	var rois []image.Rectangle
	if p.DisableROIs {
		rois = []image.Rectangle{}
	}

	result, err := p.Extractor.Extract(ctx, img, p.Passes, rois)
	if cerr := ctx.Err(); cerr != nil {
		// The engine is not preemptible; drop whatever it produced
		// after cancellation.
		return ItemResult{Path: path, Err: cerr}
	}
	if err != nil {
		return ItemResult{Path: path, Err: err}
	}
	return ItemResult{Path: path, Result: result}
}
