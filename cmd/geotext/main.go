// Command geotext extracts GPS coordinates from text burned into images:
// screenshots of navigation apps, dashcam footage stills, camera overlays.
// Results are printed as JSON; optionally every image gets an annotated
// overlay copy for review.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mapstamp/geotext/internal/gps"
	"github.com/mapstamp/geotext/internal/ocr"
	"github.com/mapstamp/geotext/internal/overlay"
)

// Version is set by ldflags during build.
var Version = "dev"

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(b []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(b))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

type options struct {
	languages  []string
	workers    int
	overlayDir string
	noROI      bool
	quiet      bool
}

// itemJSON is the serialized per-image record.
type itemJSON struct {
	Path       string          `json:"path"`
	Detections []gps.Detection `json:"detections,omitempty"`
	Stats      map[string]int  `json:"stats,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func main() {
	opts := options{}

	root := &cobra.Command{
		Use:     "geotext [flags] image...",
		Short:   "extract GPS coordinates from text in images",
		Version: Version,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd, args, opts)
		},
	}

	root.Flags().StringSliceVarP(&opts.languages, "lang", "l", []string{"eng"}, "Tesseract language codes")
	root.Flags().IntVarP(&opts.workers, "workers", "w", 2, "images processed concurrently")
	root.Flags().StringVar(&opts.overlayDir, "overlay-dir", "", "write annotated overlay images to this directory")
	root.Flags().BoolVar(&opts.noROI, "no-roi", false, "skip the extra region-of-interest passes")
	root.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "no progress output")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, paths []string, opts options) error {
	extractor := gps.New(ocr.NewRecognizer(opts.languages...), gps.DefaultConfig())

	// One cache for the whole batch: extraction decodes each image, overlay
	// rendering reuses the decoded frame instead of reading it again.
	images := gps.NewImageCache()
	defer images.Clear()

	processor := &gps.Processor{
		Extractor:   extractor,
		Workers:     opts.workers,
		DisableROIs: opts.noROI,
		Images:      images,
	}

	var bar *progressbar.ProgressBar
	if !opts.quiet && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		processor.Progress = func(done, total int) { _ = bar.Set(done) }
	}

	results := processor.Run(cmd.Context(), paths)
	if bar != nil {
		_ = bar.Finish()
	}

	items := make([]itemJSON, 0, len(results))
	failures := 0
	for _, r := range results {
		item := itemJSON{Path: r.Path}
		switch {
		case r.Err != nil:
			item.Error = r.Err.Error()
			failures++
			log.Printf("%s: %v", r.Path, r.Err)
		default:
			item.Detections = r.Result.Detections
			item.Stats = r.Result.Stats
			if opts.overlayDir != "" {
				if err := writeOverlay(r, opts.overlayDir, images); err != nil {
					log.Printf("%s: overlay: %v", r.Path, err)
				}
			}
		}
		images.Evict(r.Path)
		items = append(items, item)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	if failures == len(paths) {
		return fmt.Errorf("all %d images failed", failures)
	}
	return nil
}

func writeOverlay(r gps.ItemResult, dir string, images *gps.ImageCache) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	img, err := images.Load(r.Path)
	if err != nil {
		return err
	}
	annotated := overlay.Render(img, r.Result, overlay.DefaultOptions())

	base := filepath.Base(r.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".overlay.png"
	return imaging.Save(annotated, filepath.Join(dir, base))
}
