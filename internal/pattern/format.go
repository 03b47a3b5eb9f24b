package pattern

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a coordinate notation family.
type Kind int

const (
	KindUnknown Kind = iota

	// KindLabeledDecimal is a decimal pair introduced by an explicit label,
	// e.g. "GPS: 14.5995, 120.9842" or "LAT: 40.7128 N LON: 74.0060 W".
	KindLabeledDecimal

	// KindLabeledDMS is a labeled degree-minute-second pair,
	// e.g. "LAT: 40° 26' 46\" N, LON: 79° 58' 56\" W".
	KindLabeledDMS

	// KindCommaFormattedDMS is the strict comma-separated DMS form,
	// e.g. `N 9° 38' 42.861", E 125° 32' 58.411"`.
	KindCommaFormattedDMS

	// KindDMSWithDirection is a loose DMS pair with hemisphere letters,
	// direction-first or direction-last.
	KindDMSWithDirection

	// KindDegreesMinutes is a degrees + decimal-minutes pair with
	// hemisphere letters, e.g. "N 40° 26.77' E 79° 58.93'".
	KindDegreesMinutes

	// KindDecimalWithDirection is a decimal pair with hemisphere letters,
	// e.g. "N 40.7128, W 74.0060" or "40.7128N 74.0060W".
	KindDecimalWithDirection

	// KindPureDecimal is a bare decimal pair with no label or direction.
	// It is the least trustworthy form and subject to the precision policy.
	KindPureDecimal
)

var kindNames = map[Kind]string{
	KindUnknown:              "Unknown",
	KindLabeledDecimal:       "LabeledDecimal",
	KindLabeledDMS:           "LabeledDMS",
	KindCommaFormattedDMS:    "CommaFormattedDMS",
	KindDMSWithDirection:     "DMSWithDirection",
	KindDegreesMinutes:       "DegreesMinutes",
	KindDecimalWithDirection: "DecimalWithDirection",
	KindPureDecimal:          "PureDecimal",
}

// String returns the stable serialization name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MarshalJSON serializes the kind as its enum string.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Glyph tolerance fragments shared by the format table. The degree class
// accepts "o" and "0" because Tesseract frequently decodes ° as either.
const (
	degTok = `(?:[°º˚o0]|deg(?:rees?)?)`
	degOpt = `(?:\s*(?:[°º˚]|deg(?:rees?)?))?`
	minTok = `(?:['′]|min\.?)`
	secTok = `(?:["″]|''|sec\.?)`
	numSep = `(?:\s*,\s*|\s+)`

	// decNum2/decNum3 capture signed decimal degree values for latitude
	// (two integer digits) and longitude (three).
	decNum2 = `([+-]?\d{1,2}(?:\.\d{1,8})?)`
	decNum3 = `([+-]?\d{1,3}(?:\.\d{1,8})?)`
)

// dmsPart captures a degree/minute/second triple with glyph tolerance.
// Minutes and seconds may be separated by marker glyphs or plain whitespace.
func dmsPart(maxDegDigits int) string {
	d := strconv.Itoa(maxDegDigits)
	return `(\d{1,` + d + `})\s*` + degTok + `\s*(\d{1,2})\s*(?:` + minTok + `\s*|\s)(\d{1,2}(?:\.\d+)?)\s*(?:` + secTok + `)?`
}

// dmPart captures a degree + decimal-minutes pair.
func dmPart(maxDegDigits int) string {
	d := strconv.Itoa(maxDegDigits)
	return `(\d{1,` + d + `})\s*` + degTok + `\s*(\d{1,2}(?:\.\d+)?)\s*(?:` + minTok + `)?`
}

// parsed is the successful output of a format's normalize function.
type parsed struct {
	lat, lon   float64
	hemisphere bool
	notes      []string
}

// Format is one entry in the registry: a recognizer plus its normalization.
type Format struct {
	Kind     Kind
	Priority int

	re *regexp.Regexp

	// bounded formats begin with a digit or sign and need a left guard so
	// they cannot start inside a longer digit run. The guard consumes one
	// character, so the whole notation is wrapped in capture group 1 and
	// sub-group indices are shifted by one at match time.
	bounded bool

	// normalize converts capture groups to decimal degrees. sub(0) is the
	// full matched notation, sub(n) the n-th capture group ("" if absent).
	normalize func(sub func(int) string) (parsed, error)
}

func compile(core string, bounded bool) *regexp.Regexp {
	if bounded {
		return regexp.MustCompile(`(?i)(?:^|[^0-9.+-])(` + core + `)`)
	}
	return regexp.MustCompile(`(?i)` + core)
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// countDecimals returns the smallest fractional-digit count among the
// decimal numbers in s, or 0 when s contains no decimal point.
func countDecimals(s string) int {
	min := -1
	for _, m := range decimalRun.FindAllString(s, -1) {
		n := len(m) - strings.Index(m, ".") - 1
		if min < 0 || n < min {
			min = n
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

var decimalRun = regexp.MustCompile(`\d+\.\d+`)

// dmsToDecimal converts a degree/minute/second triple to decimal degrees.
// Minute or second values of 60 or more are not a coordinate.
func dmsToDecimal(d, m, s float64) (float64, error) {
	if m >= 60 || s >= 60 {
		return 0, fmt.Errorf("pattern: minutes/seconds out of range: %v' %v\"", m, s)
	}
	return d + m/60 + s/3600, nil
}

// applyHemisphere resolves a raw signed number against a hemisphere letter.
// The hemisphere is authoritative: N/E force positive, S/W force negative.
// The returned flag reports a contradiction between an explicit numeric
// sign and the letter.
func applyHemisphere(raw, hemi string) (value float64, conflict bool) {
	v := math.Abs(parseNum(raw))
	switch strings.ToUpper(hemi) {
	case "S", "W":
		return -v, strings.HasPrefix(raw, "+")
	default:
		return v, strings.HasPrefix(raw, "-")
	}
}

func conflictNote(axis, hemi string) string {
	return fmt.Sprintf("sign/hemisphere conflict on %s: hemisphere %s kept", axis, strings.ToUpper(hemi))
}

// signDMS applies a hemisphere letter to an unsigned DMS value.
func signDMS(v float64, hemi string) float64 {
	switch strings.ToUpper(hemi) {
	case "S", "W":
		return -v
	}
	return v
}
