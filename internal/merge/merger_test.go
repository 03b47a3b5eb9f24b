package merge

import (
	"math"
	"reflect"
	"testing"

	"github.com/mapstamp/geotext/internal/ocr"
)

func seg(text string, conf float64, pass, x1, y1, x2, y2 int) ocr.TextSegment {
	return ocr.TextSegment{
		Text:       text,
		Bounds:     ocr.Bounds{X1: x1, Y1: y1, X2: x2, Y2: y2},
		Confidence: conf,
		Pass:       pass,
		Region:     ocr.FullImage,
	}
}

func TestIoU(t *testing.T) {
	cases := []struct {
		name string
		a, b ocr.Bounds
		want float64
	}{
		{"identical", ocr.Bounds{0, 0, 100, 30}, ocr.Bounds{0, 0, 100, 30}, 1.0},
		{"disjoint", ocr.Bounds{0, 0, 10, 10}, ocr.Bounds{20, 20, 30, 30}, 0.0},
		{"half overlap x", ocr.Bounds{0, 0, 100, 30}, ocr.Bounds{50, 0, 150, 30}, 1.0 / 3.0},
		{"touching edges", ocr.Bounds{0, 0, 10, 10}, ocr.Bounds{10, 0, 20, 10}, 0.0},
		{"degenerate", ocr.Bounds{5, 5, 5, 5}, ocr.Bounds{0, 0, 10, 10}, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IoU(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("IoU = %v, want %v", got, tc.want)
			}
			if got := IoU(tc.b, tc.a); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("IoU reversed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMerge_OverlapGroup(t *testing.T) {
	got := Merge([]ocr.TextSegment{
		seg("GPS: 14.5995, 120.9842", 0.72, 0, 0, 0, 200, 30),
		seg("GPS: 14.5995, 120.9842", 0.91, 1, 2, 1, 202, 31),
	}, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("got %d merged segments, want 1", len(got))
	}
	m := got[0]
	if m.Confidence != 0.91 {
		t.Errorf("Confidence = %v, want highest member 0.91", m.Confidence)
	}
	if want := (ocr.Bounds{X1: 0, Y1: 0, X2: 202, Y2: 31}); m.Bounds != want {
		t.Errorf("Bounds = %+v, want union %+v", m.Bounds, want)
	}
	if !reflect.DeepEqual(m.Passes, []int{0, 1}) {
		t.Errorf("Passes = %v, want [0 1]", m.Passes)
	}
	if len(m.Members) != 2 {
		t.Errorf("Members = %d, want 2", len(m.Members))
	}
}

func TestMerge_Transitive(t *testing.T) {
	// A overlaps B and B overlaps C beyond the threshold, but A and C
	// barely touch. Connected components must still put all three in one
	// group.
	a := seg("40.7128, -74.0060", 0.8, 0, 0, 0, 100, 30)
	b := seg("40.7128, -74.0060", 0.7, 1, 50, 0, 150, 30)
	c := seg("40.7128, -74.0060", 0.6, 2, 90, 0, 190, 30)
	if IoU(a.Bounds, c.Bounds) > DefaultConfig().IoUThreshold {
		t.Fatal("fixture error: a and c should not overlap directly")
	}
	got := Merge([]ocr.TextSegment{a, b, c}, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("got %d merged segments, want 1 transitive group", len(got))
	}
	if len(got[0].Members) != 3 {
		t.Errorf("Members = %d, want 3", len(got[0].Members))
	}
}

func TestMerge_TextSimilarityBranch(t *testing.T) {
	// Same text decoded in disjoint boxes (e.g. a region pass re-reading an
	// overlay strip) merges on the similarity branch alone.
	got := Merge([]ocr.TextSegment{
		seg("GPS: 14.5995, 120.9842", 0.9, 0, 0, 0, 200, 30),
		seg("GPS: 14.5995, 120.9842", 0.5, 3, 500, 400, 700, 430),
	}, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("got %d merged segments, want 1", len(got))
	}
	if got[0].Text != "GPS: 14.5995, 120.9842" || got[0].Confidence != 0.9 {
		t.Errorf("canonical = %q @ %v", got[0].Text, got[0].Confidence)
	}
}

func TestMerge_SimilarityNormalizesWhitespaceAndCase(t *testing.T) {
	got := Merge([]ocr.TextSegment{
		seg("gps:  14.5995, 120.9842", 0.6, 0, 0, 0, 200, 30),
		seg("GPS: 14.5995, 120.9842", 0.9, 1, 500, 400, 700, 430),
	}, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("got %d merged segments, want 1", len(got))
	}
	if got[0].Text != "GPS: 14.5995, 120.9842" {
		t.Errorf("canonical text = %q, want the higher-confidence decode", got[0].Text)
	}
}

func TestMerge_ShortTextsNeverMergeBySimilarity(t *testing.T) {
	// Identical short fragments in different corners are distinct text.
	got := Merge([]ocr.TextSegment{
		seg("N", 0.9, 0, 0, 0, 10, 10),
		seg("N", 0.9, 0, 900, 600, 910, 610),
	}, DefaultConfig())
	if len(got) != 2 {
		t.Fatalf("got %d merged segments, want 2 separate ones", len(got))
	}
}

func TestMerge_DistinctStaysDistinct(t *testing.T) {
	got := Merge([]ocr.TextSegment{
		seg("GPS: 14.5995, 120.9842", 0.9, 0, 0, 0, 200, 30),
		seg("ISO 400 f/2.8 1/250s", 0.9, 0, 0, 500, 200, 530),
	}, DefaultConfig())
	if len(got) != 2 {
		t.Fatalf("got %d merged segments, want 2", len(got))
	}
}

func TestMerge_OrderInsensitive(t *testing.T) {
	segments := []ocr.TextSegment{
		seg("GPS: 14.5995, 120.9842", 0.72, 0, 0, 0, 200, 30),
		seg("GPS: 14.5995, 120.9842", 0.91, 1, 2, 1, 202, 31),
		seg("ISO 400", 0.8, 0, 0, 500, 80, 530),
		seg("40.7128, -74.0060", 0.6, 2, 300, 300, 460, 330),
	}
	forward := Merge(segments, DefaultConfig())

	reversed := make([]ocr.TextSegment, len(segments))
	for i, s := range segments {
		reversed[len(segments)-1-i] = s
	}
	backward := Merge(reversed, DefaultConfig())

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("merge depends on input order:\nforward:  %+v\nbackward: %+v", forward, backward)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	first := Merge([]ocr.TextSegment{
		seg("GPS: 14.5995, 120.9842", 0.72, 0, 0, 0, 200, 30),
		seg("GPS: 14.5995, 120.9842", 0.91, 1, 2, 1, 202, 31),
	}, DefaultConfig())
	if len(first) != 1 {
		t.Fatalf("setup: got %d merged segments, want 1", len(first))
	}

	// Feeding the canonical segment back through produces itself.
	again := Merge([]ocr.TextSegment{{
		Text:       first[0].Text,
		Bounds:     first[0].Bounds,
		Confidence: first[0].Confidence,
		Pass:       0,
		Region:     ocr.FullImage,
	}}, DefaultConfig())
	if len(again) != 1 || again[0].Text != first[0].Text || again[0].Bounds != first[0].Bounds {
		t.Errorf("re-merge changed the segment: %+v", again)
	}
}

func TestMerge_Empty(t *testing.T) {
	if got := Merge(nil, DefaultConfig()); got != nil {
		t.Errorf("Merge(nil) = %+v, want nil", got)
	}
}

func TestMerge_ReadingOrder(t *testing.T) {
	got := Merge([]ocr.TextSegment{
		seg("bottom", 0.9, 0, 0, 500, 100, 530),
		seg("top right", 0.9, 0, 600, 10, 700, 40),
		seg("top left", 0.9, 0, 0, 10, 100, 40),
	}, DefaultConfig())
	if len(got) != 3 {
		t.Fatalf("got %d merged segments, want 3", len(got))
	}
	want := []string{"top left", "top right", "bottom"}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("position %d = %q, want %q", i, got[i].Text, w)
		}
	}
}
