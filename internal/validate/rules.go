package validate

import "regexp"

// Rule names surfaced in rejection statistics. Hard rules reject on the
// candidate's own values; blacklist rules reject on the shape of the
// surrounding text.
const (
	RuleLatRange    = "lat_range"
	RuleLonRange    = "lon_range"
	RulePrecision   = "precision"
	RuleNullIsland  = "null_island"
	RuleTrivialPair = "trivial_pair"
)

// blacklistRule is a named recognizer for a non-GPS numeric shape. A hit in
// the candidate's context window suppresses the candidate unless an explicit
// GPS label is closer (labels win over coincidental proximity).
type blacklistRule struct {
	Name string
	re   *regexp.Regexp
}

// defaultBlacklist covers the numeric shapes that most often masquerade as
// coordinates in photo overlays and metadata dumps. All patterns run
// against the upper-cased context window.
func defaultBlacklist() []blacklistRule {
	mk := func(name, expr string) blacklistRule {
		return blacklistRule{Name: name, re: regexp.MustCompile(expr)}
	}
	return []blacklistRule{
		mk("time", `\d{1,2}:\d{2}(?::\d{2})?(?:\s*(?:AM|PM))?`),
		mk("date", `\d{2,4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}/\d{1,2}/\d{2,4}`),
		mk("filesize", `[\d.,]+\s*(?:KB|MB|GB|TB|KBPS|MBPS|GBPS)\b`),
		mk("currency", `[$€£¥]\s*[\d,.]+`),
		mk("measurement", `\b[\d.]+\s*(?:MM|CM|KM|IN|FT|YD|MI)\b`),
		mk("percentage", `[\d.]+\s*(?:%|PERCENT)\b`),
		// Full unit words only: bare "V"/"A"/"W" would collide with
		// hemisphere letters next to coordinate values.
		mk("electrical", `\b[\d.]+\s*(?:VOLTS?|AMPS?|WATTS?|OHMS?)\b`),
		mk("iso", `\bISO\s*\d+`),
		mk("fstop", `\bF[/\\]\d+(?:\.\d+)?`),
		mk("megapixel", `\b\d+\s*(?:MP|MEGAPIXELS?|MPX)\b`),
		mk("temperature", `[\d.]+\s*°\s*[CF]\b`),
		mk("serial", `\b(?:SERIAL|MODEL|VERSION|S/N)\s*[:#]?\s*[\w.-]+`),
		mk("camera", `\b(?:FOCAL\s*LENGTH|SHUTTER\s*SPEED|APERTURE|EXPOSURE(?:\s*BIAS)?|WHITE\s*BALANCE)\b`),
		mk("media", `\b(?:RESOLUTION|DPI|BIT\s*RATE|BITRATE|FRAME\s*RATE|FRAMERATE|CODEC|SAMPLE\s*RATE|ASPECT\s*RATIO|DURATION)\b`),
	}
}

// labelTokens are explicit GPS markers. Within the configured token window
// they override any blacklist hit and exempt a candidate from the unlabeled
// precision policy.
var labelTokens = map[string]bool{
	"GPS":         true,
	"COORD":       true,
	"COORDS":      true,
	"COORDINATE":  true,
	"COORDINATES": true,
	"LAT":         true,
	"LATITUDE":    true,
	"LON":         true,
	"LONG":        true,
	"LONGITUDE":   true,
	"LOCATION":    true,
	"POSITION":    true,
	"WAYPOINT":    true,
	"GEOCODED":    true,
}
