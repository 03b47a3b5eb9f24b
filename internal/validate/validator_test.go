package validate

import (
	"strings"
	"testing"

	"github.com/mapstamp/geotext/internal/pattern"
)

// candidate parses segment and returns its single coordinate candidate, so
// span offsets always match what the validator sees.
func candidate(t *testing.T, segment string) pattern.Candidate {
	t.Helper()
	got := pattern.DefaultRegistry().Match(segment)
	if len(got) != 1 {
		t.Fatalf("fixture %q produced %d candidates, want 1: %+v", segment, len(got), got)
	}
	return got[0]
}

func TestCheck_HardRejections(t *testing.T) {
	cases := []struct {
		name    string
		segment string
		rule    string
	}{
		{"latitude out of range", "91.0001, 45.1234", RuleLatRange},
		{"longitude out of range", "45.1234, 180.0001", RuleLonRange},
		{"null island", "0.0, 0.0", RuleNullIsland},
		{"trivial integer pair", "1.0, 2.0", RuleTrivialPair},
	}
	v := New(Config{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := candidate(t, tc.segment)
			got := v.Check(c, tc.segment)
			if got.OK {
				t.Fatalf("Check(%q) accepted, want rejection by %q", tc.segment, tc.rule)
			}
			if got.Rule != tc.rule {
				t.Errorf("Rule = %q, want %q", got.Rule, tc.rule)
			}
		})
	}
}

func TestCheck_RangeBoundaryInclusive(t *testing.T) {
	// Exactly 90 / 180 are valid poles and antimeridian values.
	segment := "90.0000, 180.0000"
	got := New(Config{}).Check(candidate(t, segment), segment)
	if !got.OK {
		t.Errorf("Check(%q) rejected by %q, want accept", segment, got.Rule)
	}
}

func TestCheck_PrecisionPolicy(t *testing.T) {
	t.Run("bare low precision demotes", func(t *testing.T) {
		segment := "40.71, -74.00"
		got := New(Config{}).Check(candidate(t, segment), segment)
		if !got.OK {
			t.Fatalf("rejected by %q, want soft demotion", got.Rule)
		}
		if !got.DemoteLow {
			t.Error("DemoteLow = false, want true for a 2-decimal bare pair")
		}
	})

	t.Run("hard policy rejects", func(t *testing.T) {
		segment := "40.71, -74.00"
		got := New(Config{HardPrecision: true}).Check(candidate(t, segment), segment)
		if got.OK || got.Rule != RulePrecision {
			t.Errorf("got %+v, want rejection by %q", got, RulePrecision)
		}
	})

	t.Run("full precision passes", func(t *testing.T) {
		segment := "40.7128, -74.0060"
		got := New(Config{}).Check(candidate(t, segment), segment)
		if !got.OK || got.DemoteLow {
			t.Errorf("got %+v, want plain accept", got)
		}
	})

	t.Run("hemisphere letters exempt", func(t *testing.T) {
		segment := "N 40.71, W 74.00"
		got := New(Config{}).Check(candidate(t, segment), segment)
		if !got.OK || got.DemoteLow {
			t.Errorf("got %+v, want accept without demotion", got)
		}
	})

	t.Run("nearby label exempts", func(t *testing.T) {
		segment := "waypoint 40.71, -74.00"
		got := New(Config{}).Check(candidate(t, segment), segment)
		if !got.OK || got.DemoteLow {
			t.Errorf("got %+v, want accept without demotion", got)
		}
		if !got.Labeled {
			t.Error("Labeled = false, want true")
		}
	})
}

func TestCheck_Blacklist(t *testing.T) {
	cases := []struct {
		name    string
		segment string
		rule    string
	}{
		{"iso", "ISO 400, 14.5995, 120.9842", "iso"},
		{"time", "12:30:45 40.7128, -74.0060", "time"},
		{"filesize", "24.5 MB 40.7128, -74.0060", "filesize"},
		{"electrical", "240 VOLTS 40.7128, -74.0060", "electrical"},
		{"temperature", "23.5 °C 40.7128, -74.0060", "temperature"},
		{"fstop", "f/2.8 40.7128, -74.0060", "fstop"},
		{"camera", "focal length 40.7128, -74.0060", "camera"},
	}
	v := New(Config{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := candidate(t, tc.segment)
			got := v.Check(c, tc.segment)
			if got.OK {
				t.Fatalf("Check(%q) accepted, want rejection by %q", tc.segment, tc.rule)
			}
			if got.Rule != tc.rule {
				t.Errorf("Rule = %q, want %q", got.Rule, tc.rule)
			}
		})
	}
}

func TestCheck_HemisphereLettersAreNotUnits(t *testing.T) {
	// W as West must not trip the electrical-unit rule.
	segment := "40.7128 N, 74.0060 W"
	got := New(Config{}).Check(candidate(t, segment), segment)
	if !got.OK {
		t.Errorf("rejected by %q, want accept", got.Rule)
	}
}

func TestCheck_LabelOverridesBlacklist(t *testing.T) {
	segment := "ISO 400, GPS: 14.5995, 120.9842"
	got := New(Config{}).Check(candidate(t, segment), segment)
	if !got.OK {
		t.Fatalf("rejected by %q, want label override", got.Rule)
	}
	if !got.Labeled {
		t.Error("Labeled = false, want true")
	}
	found := false
	for _, n := range got.Notes {
		if strings.Contains(n, `"iso"`) && strings.Contains(n, "overridden") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing override note, got %v", got.Notes)
	}
}

func TestCheck_BlacklistWindowIsBounded(t *testing.T) {
	// A blacklisted token far outside the context window has no effect.
	segment := "ISO 400" + strings.Repeat(" pad", 15) + " 14.5995, 120.9842"
	got := New(Config{}).Check(candidate(t, segment), segment)
	if !got.OK {
		t.Errorf("rejected by %q, want accept: token is outside the window", got.Rule)
	}
}

func TestCheck_DefaultsApplied(t *testing.T) {
	v := New(Config{})
	if v.cfg.Window != 40 || v.cfg.LabelWindow != 4 || v.cfg.MinUnlabeledDecimals != 4 {
		t.Errorf("defaulted config = %+v", v.cfg)
	}
}

func TestContextWindow(t *testing.T) {
	s := "abcdefghij"
	if got := contextWindow(s, 4, 6, 2); got != "cdefgh" {
		t.Errorf("contextWindow = %q, want %q", got, "cdefgh")
	}
	if got := contextWindow(s, 0, 2, 5); got != "abcdefg" {
		t.Errorf("contextWindow clamped left = %q", got)
	}
	if got := contextWindow(s, 8, 10, 5); got != "defghij" {
		t.Errorf("contextWindow clamped right = %q", got)
	}
}
