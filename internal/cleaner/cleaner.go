// Package cleaner applies the fixed row filters and field parsers used by
// both datasets: coordinate validation against the Dublin bounding box,
// price-string extraction, and planning-status classification.
package cleaner

import (
	"strconv"
	"strings"

	"github.com/dublin-research/dublin-geo/internal/model"
)

// Dublin bounding box. Rows outside it are dropped, not reported.
const (
	MinLat = 53.1
	MaxLat = 53.6
	MinLon = -6.5
	MaxLon = -6.0
)

// ValidCoordinates reports whether a coordinate pair is present, non-zero
// and inside the Dublin bounding box. Missing values decode to zero, so the
// zero check covers both.
func ValidCoordinates(lat, lon float64) bool {
	if lat == 0 || lon == 0 {
		return false
	}
	return lat >= MinLat && lat <= MaxLat && lon >= MinLon && lon <= MaxLon
}

// FilterCoordinates retains rows with valid coordinates and returns the
// number dropped.
func FilterCoordinates(points []model.Point) (kept []model.Point, dropped int) {
	kept = make([]model.Point, 0, len(points))
	for _, p := range points {
		if !ValidCoordinates(p.Latitude, p.Longitude) {
			dropped++
			continue
		}
		kept = append(kept, p)
	}
	return kept, dropped
}

// ParsePrice strips every character except digits and periods from a price
// string and parses the remainder. Malformed input yields ok=false; the row
// still counts toward sale totals, it is only excluded from the median.
func ParsePrice(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// StatusFlags holds the planning-status classification for one case. The
// substring flags are independent of each other; Rejected is the combined
// outcome used for the rejection rate.
type StatusFlags struct {
	Rejected  bool
	Refused   bool
	Withdrawn bool
	Invalid   bool
}

// ClassifyStatus classifies a planning case from its status text. A case is
// rejected iff the status contains "refuse" or "withdrawn", matched
// case-insensitively.
func ClassifyStatus(status string) StatusFlags {
	lower := strings.ToLower(status)
	f := StatusFlags{
		Refused:   strings.Contains(lower, "refuse"),
		Withdrawn: strings.Contains(lower, "withdrawn"),
		Invalid:   strings.Contains(lower, "invalid"),
	}
	f.Rejected = f.Refused || f.Withdrawn
	return f
}
