// Package score turns a validated coordinate candidate into a continuous
// confidence score and an ordinal confidence class.
//
// The score blends how explicit the matched notation was (matcher
// priority), how sure the recognizer was about the text, the numeric
// precision of the values, and the surrounding vocabulary: GPS-flavored
// keywords reinforce, metadata-flavored keywords demote without rejecting.
package score

import (
	"strings"

	"github.com/mapstamp/geotext/internal/pattern"
	"github.com/mapstamp/geotext/internal/validate"
)

// Class is the ordinal confidence bucket of a detection.
type Class int

const (
	Low Class = iota
	Medium
	MediumHigh
	High
)

// String returns the stable serialization name of the class.
func (c Class) String() string {
	switch c {
	case High:
		return "HIGH"
	case MediumHigh:
		return "MEDIUM_HIGH"
	case Medium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// MarshalJSON serializes the class as its enum string.
func (c Class) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Thresholds maps a continuous score to a Class. Scores are compared in
// descending order, so Medium <= MediumHigh <= High must hold.
type Thresholds struct {
	High       float64 `json:"high"`
	MediumHigh float64 `json:"medium_high"`
	Medium     float64 `json:"medium"`
}

// DefaultThresholds returns the standard class boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.85, MediumHigh: 0.65, Medium: 0.4}
}

// Classify buckets a score.
func (t Thresholds) Classify(score float64) Class {
	switch {
	case score >= t.High:
		return High
	case score >= t.MediumHigh:
		return MediumHigh
	case score >= t.Medium:
		return Medium
	default:
		return Low
	}
}

// Config holds the scoring weights and class thresholds.
type Config struct {
	// PriorityWeight scales the normalized matcher priority (0-1).
	PriorityWeight float64 `json:"priority_weight"`

	// RecognitionWeight scales the segment's OCR confidence.
	RecognitionWeight float64 `json:"recognition_weight"`

	// PrecisionWeight scales the decimal-precision bonus.
	PrecisionWeight float64 `json:"precision_weight"`

	// KeywordBonus is added when a reinforcing keyword appears in the
	// context window; KeywordPenalty is subtracted for suppressing ones.
	KeywordBonus   float64 `json:"keyword_bonus"`
	KeywordPenalty float64 `json:"keyword_penalty"`

	// ConflictPenalty is subtracted when the numeric sign contradicted
	// the hemisphere letter during parsing.
	ConflictPenalty float64 `json:"conflict_penalty"`

	Thresholds Thresholds `json:"thresholds"`
}

// DefaultConfig returns the standard weights. They are tuned so that a
// labeled, precise pair on a confidently recognized segment lands in HIGH,
// and a bare low-precision pair cannot climb past MEDIUM.
func DefaultConfig() Config {
	return Config{
		PriorityWeight:    0.5,
		RecognitionWeight: 0.25,
		PrecisionWeight:   0.15,
		KeywordBonus:      0.15,
		KeywordPenalty:    0.15,
		ConflictPenalty:   0.2,
		Thresholds:        DefaultThresholds(),
	}
}

// reinforcing vocabulary raises confidence; suppressing vocabulary lowers
// it without rejecting (rejection is the validator's call).
var (
	reinforcing = []string{
		"GPS", "COORD", "LAT", "LON", "LATITUDE", "LONGITUDE",
		"LOCATION", "POSITION", "WAYPOINT", "GEOCODED", "MAP",
	}
	suppressing = []string{
		"ISO", "SHUTTER", "APERTURE", "EXPOSURE", "FOCAL",
		"SERIAL", "MODEL", "VERSION", "CODEC", "BITRATE",
	}
)

// Scorer computes confidence scores. Construct with New.
type Scorer struct {
	cfg Config
}

// New creates a Scorer. A zero-valued config is replaced with defaults.
func New(cfg Config) *Scorer {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// Score rates a validated candidate. recognition is the OCR confidence of
// the segment the candidate came from, window its surrounding text, and
// verdict the validator's decision for it.
func (s *Scorer) Score(c pattern.Candidate, recognition float64, window string, verdict validate.Verdict) (float64, Class) {
	cfg := s.cfg

	score := cfg.PriorityWeight * float64(c.Priority) / 10.0
	score += cfg.RecognitionWeight * clamp01(recognition)

	decimals := c.Decimals
	if decimals > 6 {
		decimals = 6
	}
	score += cfg.PrecisionWeight * float64(decimals) / 6.0

	upper := strings.ToUpper(window)
	if containsAny(upper, reinforcing) {
		score += cfg.KeywordBonus
	}
	if containsAny(upper, suppressing) {
		score -= cfg.KeywordPenalty
	}

	if hasConflict(c, verdict) {
		score -= cfg.ConflictPenalty
	}

	score = clamp01(score)
	class := cfg.Thresholds.Classify(score)
	if verdict.DemoteLow && class > Low {
		class = Low
	}
	return score, class
}

// hasConflict reports a sign/hemisphere contradiction recorded at parse or
// validation time.
func hasConflict(c pattern.Candidate, verdict validate.Verdict) bool {
	for _, n := range c.Notes {
		if strings.Contains(n, "sign/hemisphere conflict") {
			return true
		}
	}
	for _, n := range verdict.Notes {
		if strings.Contains(n, "sign/hemisphere conflict") {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
