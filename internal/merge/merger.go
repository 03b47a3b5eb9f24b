// Package merge consolidates overlapping text segments from multiple
// recognition passes and regions into deduplicated merged segments.
//
// Two segments belong together when their bounding boxes overlap beyond an
// IoU threshold, or when their normalized texts are nearly identical; the
// latter catches repeated decodes of the same screen text at different
// recognition thresholds. Grouping is computed over connected components
// (union-find), so chains of pairwise overlaps land in a single group, and
// the result does not depend on input order.
package merge

import (
	"sort"
	"strings"

	"github.com/mapstamp/geotext/internal/ocr"
)

// Config holds the overlap thresholds for merging.
type Config struct {
	// IoUThreshold is the minimum intersection-over-union of two bounding
	// boxes for them to be considered the same detection.
	IoUThreshold float64 `json:"iou_threshold"`

	// TextSimilarity is the minimum normalized text similarity for two
	// segments to be considered repeated decodes of the same text.
	TextSimilarity float64 `json:"text_similarity"`
}

// DefaultConfig returns the standard merge thresholds.
func DefaultConfig() Config {
	return Config{IoUThreshold: 0.3, TextSimilarity: 0.8}
}

// MergedSegment is the union of a connected group of overlapping segments.
type MergedSegment struct {
	// Text is the canonical reading: the highest-confidence member's text.
	Text string `json:"text"`

	// Bounds is the union of all member bounding boxes.
	Bounds ocr.Bounds `json:"bounds"`

	// Confidence is the maximum member confidence.
	Confidence float64 `json:"confidence"`

	// Passes lists the distinct pass indices that contributed, ascending.
	Passes []int `json:"passes"`

	// Members retains every contributing segment for overlay rendering.
	Members []ocr.TextSegment `json:"members"`
}

// Merge groups overlapping segments into merged segments. The output is
// deterministic and independent of the input order: groups are connected
// components of the overlap relation, the canonical text is chosen by
// confidence with stable tie-breaking, and the result is sorted in reading
// order.
func Merge(segments []ocr.TextSegment, cfg Config) []MergedSegment {
	if len(segments) == 0 {
		return nil
	}

	parent := make([]int, len(segments))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < len(segments); i++ {
		for j := i + 1; j < len(segments); j++ {
			if related(segments[i], segments[j], cfg) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]ocr.TextSegment)
	for i, seg := range segments {
		root := find(i)
		groups[root] = append(groups[root], seg)
	}

	out := make([]MergedSegment, 0, len(groups))
	for _, members := range groups {
		out = append(out, merged(members))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Bounds.Y1 != b.Bounds.Y1 {
			return a.Bounds.Y1 < b.Bounds.Y1
		}
		if a.Bounds.X1 != b.Bounds.X1 {
			return a.Bounds.X1 < b.Bounds.X1
		}
		return a.Text < b.Text
	})
	return out
}

// related reports whether two segments are decodes of the same on-screen
// text. Very short strings are excluded from the similarity branch; a
// stray "N" in one corner must not attract an "N" in another.
func related(a, b ocr.TextSegment, cfg Config) bool {
	if IoU(a.Bounds, b.Bounds) > cfg.IoUThreshold {
		return true
	}
	na, nb := normalize(a.Text), normalize(b.Text)
	if len(na) < 4 || len(nb) < 4 {
		return false
	}
	return similarity(na, nb) > cfg.TextSimilarity
}

func merged(members []ocr.TextSegment) MergedSegment {
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Pass != b.Pass {
			return a.Pass < b.Pass
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Bounds.Y1 != b.Bounds.Y1 {
			return a.Bounds.Y1 < b.Bounds.Y1
		}
		if a.Bounds.X1 != b.Bounds.X1 {
			return a.Bounds.X1 < b.Bounds.X1
		}
		return a.Text < b.Text
	})

	canonical := members[0]
	bounds := members[0].Bounds
	passes := map[int]bool{}
	for _, m := range members {
		bounds = bounds.Union(m.Bounds)
		passes[m.Pass] = true
		if better(m, canonical) {
			canonical = m
		}
	}

	passList := make([]int, 0, len(passes))
	for p := range passes {
		passList = append(passList, p)
	}
	sort.Ints(passList)

	return MergedSegment{
		Text:       canonical.Text,
		Bounds:     bounds,
		Confidence: canonical.Confidence,
		Passes:     passList,
		Members:    members,
	}
}

// better decides whether a should replace b as the canonical member. The
// ordering is total so canonical selection cannot depend on input order.
func better(a, b ocr.TextSegment) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if len(a.Text) != len(b.Text) {
		return len(a.Text) > len(b.Text)
	}
	if a.Text != b.Text {
		return a.Text < b.Text
	}
	if a.Bounds.Y1 != b.Bounds.Y1 {
		return a.Bounds.Y1 < b.Bounds.Y1
	}
	return a.Bounds.X1 < b.Bounds.X1
}

// IoU computes intersection-over-union of two bounding boxes.
func IoU(a, b ocr.Bounds) float64 {
	inter := a.Intersect(b).Area()
	if inter == 0 {
		return 0
	}
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// similarity is the ratio of positionally matching bytes to the length of
// the longer string, after normalization. Cheap, but adequate for decodes
// of the same text that differ in a glyph or two.
func similarity(a, b string) float64 {
	longer, shorter := a, b
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	if len(longer) == 0 {
		return 1
	}
	matches := 0
	for i := 0; i < len(shorter); i++ {
		if longer[i] == shorter[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(longer))
}
