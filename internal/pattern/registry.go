package pattern

import "sort"

// Registry is an ordered table of coordinate formats. The zero value is not
// usable; construct one with NewRegistry or use DefaultRegistry.
type Registry struct {
	formats []Format
}

// NewRegistry builds a registry from the given formats, ordered by
// descending priority. Formats with equal priority keep their given order,
// so stricter recognizers should be listed before looser ones.
func NewRegistry(formats []Format) *Registry {
	sorted := make([]Format, len(formats))
	copy(sorted, formats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Registry{formats: sorted}
}

// DefaultRegistry returns the built-in format table covering labeled decimal
// pairs, labeled and unlabeled DMS, degree-minute, decimal-with-direction
// and bare decimal notations.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultFormats())
}

func defaultFormats() []Format {
	return []Format{
		{
			// GPS: 14.5995, 120.9842 / COORDINATES (40.7, -74.0)
			Kind:     KindLabeledDecimal,
			Priority: 10,
			re: compile(`\b(?:GPS|COORD(?:INATES?)?|LOCATION|POSITION)\b[:\s]*\(?\s*`+
				decNum2+degOpt+numSep+decNum3+degOpt+`\s*\)?`, false),
			normalize: func(sub func(int) string) (parsed, error) {
				return parsed{lat: parseNum(sub(1)), lon: parseNum(sub(2))}, nil
			},
		},
		{
			// LAT: 40.7128 N, LON: 74.0060 W
			Kind:     KindLabeledDecimal,
			Priority: 9,
			re: compile(`\b(?:LATITUDE|LAT)\b[.:\s]*`+decNum2+degOpt+`\s*([NS])?\s*,?\s*`+
				`\b(?:LONGITUDE|LONG|LON)\b[.:\s]*`+decNum3+degOpt+`\s*([EW])?`, false),
			normalize: normDecimalPair(1, 2, 3, 4),
		},
		{
			// LAT: 40° 26' 46" N, LON: 79° 58' 56" W
			Kind:     KindLabeledDMS,
			Priority: 9,
			re: compile(`\b(?:LATITUDE|LAT)\b[.:\s]*`+dmsPart(2)+`\s*([NS])?\s*,?\s*`+
				`\b(?:LONGITUDE|LONG|LON)\b[.:\s]*`+dmsPart(3)+`\s*([EW])?`, false),
			normalize: normDMSPair(1, 4, 5, 8, false),
		},
		{
			// N 9° 38' 42.861", E 125° 32' 58.411"  (strict glyphs, comma required)
			Kind:     KindCommaFormattedDMS,
			Priority: 9,
			re: compile(`\b([NS])\s+(\d{1,2})°\s+(\d{1,2})'\s+(\d{1,2}(?:\.\d+)?)"\s*,\s*`+
				`([EW])\s+(\d{1,3})°\s+(\d{1,2})'\s+(\d{1,2}(?:\.\d+)?)"`, false),
			normalize: normDMSPair(2, 1, 6, 5, false),
		},
		{
			// N 40° 26' 46" E 79° 58' 56"
			Kind:     KindDMSWithDirection,
			Priority: 8,
			re: compile(`\b([NS])\s*`+dmsPart(2)+`\s*,?\s*([EW])\s*`+dmsPart(3), false),
			normalize: normDMSPair(2, 1, 6, 5, false),
		},
		{
			// 40° 26' 46" N, 79° 58' 56" W
			Kind:     KindDMSWithDirection,
			Priority: 8,
			re:       compile(dmsPart(2)+`\s*([NS])\b\s*,?\s*`+dmsPart(3)+`\s*([EW])\b`, true),
			normalize: normDMSPair(1, 4, 5, 8, false),
		},
		{
			// N 40° 26.77' E 79° 58.93'
			Kind:     KindDegreesMinutes,
			Priority: 8,
			re: compile(`\b([NS])\s*`+dmPart(2)+`\s*,?\s*([EW])\s*`+dmPart(3), false),
			normalize: normDMSPair(2, 1, 5, 4, true),
		},
		{
			// 40° 26.77' N, 79° 58.93' W
			Kind:     KindDegreesMinutes,
			Priority: 8,
			re:       compile(dmPart(2)+`\s*([NS])\b\s*,?\s*`+dmPart(3)+`\s*([EW])\b`, true),
			normalize: normDMSPair(1, 3, 4, 6, true),
		},
		{
			// N 40.7128, W 74.0060
			Kind:     KindDecimalWithDirection,
			Priority: 7,
			re: compile(`\b([NS])\s*`+decNum2+degOpt+`\s*,?\s*([EW])\s*`+decNum3+degOpt, false),
			normalize: normDecimalPair(2, 1, 4, 3),
		},
		{
			// 40.7128N, 74.0060W
			Kind:     KindDecimalWithDirection,
			Priority: 7,
			re:       compile(decNum2+degOpt+`\s*([NS])\b\s*,?\s*`+decNum3+degOpt+`\s*([EW])\b`, true),
			normalize: normDecimalPair(1, 2, 3, 4),
		},
		{
			// 14.5995, 120.9842 (bare decimals, least trustworthy)
			Kind:     KindPureDecimal,
			Priority: 5,
			re:       compile(`([+-]?\d{1,2}\.\d{1,8})\b`+degOpt+numSep+`([+-]?\d{1,3}\.\d{1,8})\b`+degOpt, true),
			normalize: func(sub func(int) string) (parsed, error) {
				return parsed{lat: parseNum(sub(1)), lon: parseNum(sub(2))}, nil
			},
		},
	}
}

// normDecimalPair builds a normalizer for decimal lat/lon groups with
// optional hemisphere letter groups (0 index = group absent).
func normDecimalPair(latIdx, latHemi, lonIdx, lonHemi int) func(sub func(int) string) (parsed, error) {
	return func(sub func(int) string) (parsed, error) {
		p := parsed{lat: parseNum(sub(latIdx)), lon: parseNum(sub(lonIdx))}
		if h := sub(latHemi); h != "" {
			p.hemisphere = true
			var conflict bool
			p.lat, conflict = applyHemisphere(sub(latIdx), h)
			if conflict {
				p.notes = append(p.notes, conflictNote("latitude", h))
			}
		}
		if h := sub(lonHemi); h != "" {
			p.hemisphere = true
			var conflict bool
			p.lon, conflict = applyHemisphere(sub(lonIdx), h)
			if conflict {
				p.notes = append(p.notes, conflictNote("longitude", h))
			}
		}
		return p, nil
	}
}

// normDMSPair builds a normalizer for DMS (or, with dm set, degree +
// decimal-minutes) pairs. latIdx/lonIdx point at the degrees group of each
// triple; hemisphere group indices may reference optional groups.
func normDMSPair(latIdx, latHemi, lonIdx, lonHemi int, dm bool) func(sub func(int) string) (parsed, error) {
	value := func(sub func(int) string, idx int) (float64, error) {
		d := parseNum(sub(idx))
		m := parseNum(sub(idx + 1))
		if dm {
			return dmsToDecimal(d, m, 0)
		}
		return dmsToDecimal(d, m, parseNum(sub(idx+2)))
	}
	return func(sub func(int) string) (parsed, error) {
		lat, err := value(sub, latIdx)
		if err != nil {
			return parsed{}, err
		}
		lon, err := value(sub, lonIdx)
		if err != nil {
			return parsed{}, err
		}
		p := parsed{lat: lat, lon: lon}
		if h := sub(latHemi); h != "" {
			p.hemisphere = true
			p.lat = signDMS(lat, h)
		}
		if h := sub(lonHemi); h != "" {
			p.hemisphere = true
			p.lon = signDMS(lon, h)
		}
		return p, nil
	}
}
