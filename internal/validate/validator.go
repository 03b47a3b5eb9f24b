// Package validate rejects coordinate candidates that are out of range or
// that look like some other numeric artifact: timestamps, camera settings,
// file sizes, serial numbers and similar shapes that contaminate OCR text.
//
// Rejections are benign and expected; each carries a stable rule name that
// the assembler aggregates into per-rule statistics. An explicit GPS label
// near the candidate always wins over a nearby blacklisted token.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/mapstamp/geotext/internal/pattern"
)

// Config tunes the validator.
type Config struct {
	// Window is how many characters of context on each side of the
	// candidate are examined by the blacklist and label rules.
	Window int `json:"window"`

	// LabelWindow is the token distance within which an explicit GPS
	// label overrides a blacklist hit.
	LabelWindow int `json:"label_window"`

	// MinUnlabeledDecimals is the precision floor for bare decimal pairs
	// with no label or hemisphere letter.
	MinUnlabeledDecimals int `json:"min_unlabeled_decimals"`

	// HardPrecision rejects candidates below the precision floor instead
	// of demoting them to the lowest confidence class.
	HardPrecision bool `json:"hard_precision"`
}

// DefaultConfig returns the standard validation thresholds.
func DefaultConfig() Config {
	return Config{
		Window:               40,
		LabelWindow:          4,
		MinUnlabeledDecimals: 4,
	}
}

// Verdict is the validator's decision for one candidate.
type Verdict struct {
	// OK is false when the candidate must be discarded.
	OK bool

	// Rule names the rule that rejected the candidate. Empty when OK.
	Rule string

	// DemoteLow caps the candidate at the lowest confidence class
	// without rejecting it (precision shortfall under the soft policy).
	DemoteLow bool

	// Labeled reports an explicit GPS label near the candidate.
	Labeled bool

	// Notes documents soft findings for the audit trail.
	Notes []string
}

// Validator applies range checks, the precision policy and the
// false-positive blacklist.
type Validator struct {
	cfg       Config
	blacklist []blacklistRule
}

// New creates a Validator. Zero config fields fall back to defaults.
func New(cfg Config) *Validator {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.LabelWindow <= 0 {
		cfg.LabelWindow = def.LabelWindow
	}
	if cfg.MinUnlabeledDecimals <= 0 {
		cfg.MinUnlabeledDecimals = def.MinUnlabeledDecimals
	}
	return &Validator{cfg: cfg, blacklist: defaultBlacklist()}
}

// Check validates a candidate against its source segment text.
func (v *Validator) Check(c pattern.Candidate, segment string) Verdict {
	if math.Abs(c.Lat) > 90 {
		return Verdict{Rule: RuleLatRange}
	}
	if math.Abs(c.Lon) > 180 {
		return Verdict{Rule: RuleLonRange}
	}
	if c.Lat == 0 && c.Lon == 0 {
		// 0,0 is the classic uninitialized-device value.
		return Verdict{Rule: RuleNullIsland}
	}
	if isTrivialPair(c.Lat, c.Lon) {
		return Verdict{Rule: RuleTrivialPair}
	}

	window := contextWindow(segment, c.Start, c.End, v.cfg.Window)
	verdict := Verdict{OK: true, Labeled: v.labelNear(segment, c)}

	if c.Kind == pattern.KindPureDecimal && !c.Hemisphere && !verdict.Labeled &&
		c.Decimals < v.cfg.MinUnlabeledDecimals {
		if v.cfg.HardPrecision {
			return Verdict{Rule: RulePrecision}
		}
		verdict.DemoteLow = true
		verdict.Notes = append(verdict.Notes, fmt.Sprintf(
			"unlabeled pair with %d decimal digits (floor %d)", c.Decimals, v.cfg.MinUnlabeledDecimals))
	}

	upper := strings.ToUpper(window)
	for _, rule := range v.blacklist {
		if !rule.re.MatchString(upper) {
			continue
		}
		if verdict.Labeled {
			verdict.Notes = append(verdict.Notes,
				fmt.Sprintf("blacklist rule %q overridden by GPS label", rule.Name))
			continue
		}
		return Verdict{Rule: rule.Name}
	}
	return verdict
}

// contextWindow slices up to pad characters on each side of [start, end).
func contextWindow(s string, start, end, pad int) string {
	from := start - pad
	if from < 0 {
		from = 0
	}
	to := end + pad
	if to > len(s) {
		to = len(s)
	}
	if from > len(s) {
		from = len(s)
	}
	return s[from:to]
}

// labelNear reports an explicit GPS label token inside the candidate text
// or within the configured token distance on either side of it.
func (v *Validator) labelNear(segment string, c pattern.Candidate) bool {
	if containsLabelToken(c.Text) {
		return true
	}
	before := strings.Fields(segment[:clamp(c.Start, len(segment))])
	if len(before) > v.cfg.LabelWindow {
		before = before[len(before)-v.cfg.LabelWindow:]
	}
	after := strings.Fields(segment[clamp(c.End, len(segment)):])
	if len(after) > v.cfg.LabelWindow {
		after = after[:v.cfg.LabelWindow]
	}
	return containsLabelToken(strings.Join(before, " ")) ||
		containsLabelToken(strings.Join(after, " "))
}

func containsLabelToken(s string) bool {
	for _, tok := range strings.Fields(strings.ToUpper(s)) {
		tok = strings.Trim(tok, ".,:;()[]")
		if labelTokens[tok] {
			return true
		}
	}
	return false
}

// isTrivialPair flags small integer pairs like "1.0, 2.0", which are almost
// always figure numbering or version-like values, not coordinates.
func isTrivialPair(lat, lon float64) bool {
	return lat == math.Trunc(lat) && lon == math.Trunc(lon) &&
		math.Abs(lat) < 10 && math.Abs(lon) < 10
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
