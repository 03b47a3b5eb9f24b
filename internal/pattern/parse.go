package pattern

import (
	"sort"
	"strings"
)

// Candidate is a coordinate reading extracted from one text segment.
// Values are signed decimal degrees (WGS-84) but are not yet range-checked;
// validation is a separate stage.
type Candidate struct {
	// Text is the exact matched substring.
	Text string `json:"text"`

	// Start and End delimit the matched span within the source string
	// (byte offsets, half-open).
	Start int `json:"start"`
	End   int `json:"end"`

	Kind     Kind `json:"-"`
	Priority int  `json:"priority"`

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Hemisphere reports whether a direction letter fixed at least one
	// sign. Candidates with hemisphere markers are exempt from the
	// unlabeled precision policy.
	Hemisphere bool `json:"hemisphere"`

	// Decimals is the smallest fractional-digit count among the numbers
	// in the match. Used by the precision policy and the scorer.
	Decimals int `json:"decimals"`

	// Notes carries parse ambiguities such as sign/hemisphere conflicts.
	Notes []string `json:"notes,omitempty"`
}

type span struct{ start, end int }

func overlapsAny(claimed []span, s span) bool {
	for _, c := range claimed {
		if s.start < c.end && c.start < s.end {
			return true
		}
	}
	return false
}

// Match runs the registry against text and returns every candidate whose
// span was not already claimed by a higher-priority format. Candidates are
// returned in order of appearance.
func (r *Registry) Match(text string) []Candidate {
	var claimed []span
	var out []Candidate

	for _, f := range r.formats {
		for _, m := range f.re.FindAllStringSubmatchIndex(text, -1) {
			base := 0
			if f.bounded {
				base = 1
			}
			sub := func(i int) string {
				i += base
				if 2*i+1 >= len(m) || m[2*i] < 0 {
					return ""
				}
				return text[m[2*i]:m[2*i+1]]
			}
			s := span{m[2*base], m[2*base+1]}
			if overlapsAny(claimed, s) {
				continue
			}
			p, err := f.normalize(sub)
			if err != nil {
				continue
			}
			matched := text[s.start:s.end]
			claimed = append(claimed, s)
			out = append(out, Candidate{
				Text:       strings.TrimSpace(matched),
				Start:      s.start,
				End:        s.end,
				Kind:       f.Kind,
				Priority:   f.Priority,
				Lat:        p.lat,
				Lon:        p.lon,
				Hemisphere: p.hemisphere,
				Decimals:   countDecimals(matched),
				Notes:      p.notes,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Priority > out[j].Priority
	})
	return out
}
