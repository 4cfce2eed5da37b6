package geocode

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dublinAreas maps postal-district spellings to their short forms, plus the
// Irish-language and county variants. Two-digit districts come first so the
// single-digit entries never clip them.
var dublinAreas = []struct{ from, to string }{
	{"DUBLIN 10", "D10"}, {"DUBLIN 11", "D11"}, {"DUBLIN 12", "D12"},
	{"DUBLIN 13", "D13"}, {"DUBLIN 14", "D14"}, {"DUBLIN 15", "D15"},
	{"DUBLIN 16", "D16"}, {"DUBLIN 17", "D17"}, {"DUBLIN 18", "D18"},
	{"DUBLIN 20", "D20"}, {"DUBLIN 22", "D22"}, {"DUBLIN 24", "D24"},
	{"DUBLIN 1", "D1"}, {"DUBLIN 2", "D2"}, {"DUBLIN 3", "D3"},
	{"DUBLIN 4", "D4"}, {"DUBLIN 5", "D5"}, {"DUBLIN 6", "D6"},
	{"DUBLIN 7", "D7"}, {"DUBLIN 8", "D8"}, {"DUBLIN 9", "D9"},
	{"BAC", "DUBLIN"},
	{"BAILE ATHA CLIATH", "DUBLIN"},
	{"CO. DUBLIN", "COUNTY DUBLIN"},
	{"CO DUBLIN", "COUNTY DUBLIN"},
}

// streetAbbrevs expands the usual register abbreviations, word-bounded.
var streetAbbrevs = []struct{ from, to string }{
	{"RD", "ROAD"}, {"ST", "STREET"}, {"AVE", "AVENUE"}, {"APTS", "APARTMENTS"},
	{"DR", "DRIVE"}, {"LN", "LANE"}, {"CT", "COURT"}, {"CRES", "CRESCENT"},
	{"SQ", "SQUARE"}, {"PK", "PARK"}, {"GDNS", "GARDENS"}, {"APT", "APARTMENT"},
}

var (
	propertyPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(APT|APARTMENT|UNIT|NO\.|FLAT)\s*\.?\s*\d+\s*,?\s*`),
		regexp.MustCompile(`^\d+[A-Z]?\s*,?\s*`),
		regexp.MustCompile(`(?i)APT\.?\s*\d+\s*-?\s*`),
	}

	commaSpaceRe    = regexp.MustCompile(`\s+,\s+`)
	multiSpaceRe    = regexp.MustCompile(`\s+`)
	emptyElementRe  = regexp.MustCompile(`,\s*,`)
	leadingCommaRe  = regexp.MustCompile(`^\s*,\s*`)
	trailingCommaRe = regexp.MustCompile(`\s*,\s*$`)
	postalTokenRe   = regexp.MustCompile(`\bD\d{1,2}\b`)

	planningMarkers = []string{
		" on lands at ",
		" the application site consists of ",
		" the lands comprise of ",
	}

	planningRemove = []*regexp.Regexp{
		regexp.MustCompile(`\([^)]*\)`),
		regexp.MustCompile(`(?i)Protected Structure`),
		regexp.MustCompile(`(?i)Site to the rear of`),
		regexp.MustCompile(`(?i)Site to the north of`),
		regexp.MustCompile(`(?i)Public grass verge`),
		regexp.MustCompile(`(?i)Former`),
		regexp.MustCompile(`(?i)The application site`),
		regexp.MustCompile(`\b[A-Z]\d{2}\s*[A-Z0-9]{4}\b`), // Eircode
		regexp.MustCompile(`(?i)Co\.\s*Dublin`),
		regexp.MustCompile(`&\s*\.\.\.`),
		regexp.MustCompile(`(?i)Within the curtilage of`),
		regexp.MustCompile(`(?i)[^,]*\b(Service Station|Public House)\b`),
	}

	junctionRoadRe = regexp.MustCompile(`(?i)([^,]+(?:Road|Street|Avenue|Lane))`)
	streetRe       = regexp.MustCompile(`(?i)([^,]+(?:Road|Street|Avenue|Lane|Rise|Park|Place|Drive|Grove|Way))`)

	simplifyDublinRe = regexp.MustCompile(`(?i),.*Dublin`)
	firstTwoPartsRe  = regexp.MustCompile(`^([^,]+,[^,]+)`)
	headToDublinRe   = regexp.MustCompile(`(?is)(.*?),.*?(Dublin.*)`)
)

var titleCaser = cases.Title(language.English)

// CleanAddress normalizes a raw address for geocoding using the cleaner for
// the given variant.
func CleanAddress(raw string, v Variant) string {
	if v == VariantPlanning {
		return cleanPlanning(raw)
	}
	return cleanProperty(raw)
}

// cleanProperty normalizes a Property Price Register address: unit prefixes
// dropped, abbreviations expanded, postal districts standardized, Dublin and
// Ireland appended when missing.
func cleanProperty(raw string) string {
	addr := strings.ToUpper(strings.TrimSpace(raw))
	if addr == "" {
		return ""
	}

	for _, re := range propertyPrefixes {
		addr = re.ReplaceAllString(addr, "")
	}

	for _, ab := range streetAbbrevs {
		re := regexp.MustCompile(`\b` + ab.from + `\b`)
		addr = re.ReplaceAllString(addr, ab.to)
	}

	addr = commaSpaceRe.ReplaceAllString(addr, ", ")
	addr = multiSpaceRe.ReplaceAllString(addr, " ")

	for _, area := range dublinAreas {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(area.from) + `\b`)
		addr = re.ReplaceAllString(addr, area.to)
	}

	if !strings.Contains(addr, "DUBLIN") && !postalTokenRe.MatchString(addr) {
		addr += ", DUBLIN"
	}
	if !strings.Contains(addr, "IRELAND") {
		addr += ", IRELAND"
	}

	return titleCaser.String(strings.ToLower(addr))
}

// cleanPlanning normalizes a planning-application site description, which is
// prose rather than a postal address: long descriptions are truncated at
// known markers and non-address phrases are stripped.
func cleanPlanning(raw string) string {
	addr := strings.TrimSpace(raw)
	if addr == "" {
		return ""
	}

	lower := strings.ToLower(addr)
	for _, marker := range planningMarkers {
		if idx := strings.Index(lower, marker); idx >= 0 {
			addr = addr[:idx]
			lower = lower[:idx]
		}
	}

	for _, re := range planningRemove {
		addr = re.ReplaceAllString(addr, "")
	}

	if strings.Contains(strings.ToLower(addr), "junction") {
		if roads := junctionRoadRe.FindAllString(addr, -1); len(roads) > 0 {
			for i := range roads {
				roads[i] = strings.TrimSpace(roads[i])
			}
			addr = strings.Join(roads, " and ")
		}
	}

	addr = multiSpaceRe.ReplaceAllString(addr, " ")
	addr = emptyElementRe.ReplaceAllString(addr, ",")
	addr = leadingCommaRe.ReplaceAllString(addr, "")
	addr = trailingCommaRe.ReplaceAllString(addr, "")

	upper := strings.ToUpper(addr)
	if !strings.Contains(upper, "DUBLIN") && !postalTokenRe.MatchString(upper) {
		addr += ", Dublin"
	}
	if !strings.Contains(strings.ToUpper(addr), "IRELAND") {
		addr += ", Ireland"
	}

	return strings.TrimSpace(addr)
}

// Variants returns the fallback search strings for a cleaned address, most
// specific first, de-duplicated.
func Variants(cleaned string, v Variant) []string {
	if cleaned == "" {
		return nil
	}

	candidates := []string{cleaned}
	candidates = append(candidates, simplifyDublinRe.ReplaceAllString(cleaned, ", Dublin"))

	if v == VariantPlanning {
		if m := headToDublinRe.FindStringSubmatch(cleaned); m != nil {
			candidates = append(candidates, strings.TrimSpace(m[1])+", "+strings.TrimSpace(m[2]))
		}
		if m := streetRe.FindString(cleaned); m != "" {
			candidates = append(candidates, strings.TrimSpace(m)+", Dublin, Ireland")
		}
	} else {
		if m := firstTwoPartsRe.FindStringSubmatch(cleaned); m != nil {
			candidates = append(candidates, m[1]+", Dublin, Ireland")
		}
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
