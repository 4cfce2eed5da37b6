// Package geocode resolves Dublin street addresses to coordinates through
// Nominatim, with address normalization tuned separately for Property Price
// Register rows and planning-case site descriptions, and a persistent cache
// in front of the provider.
package geocode

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
)

// Variant selects which address cleaner applies.
type Variant string

const (
	// VariantProperty cleans Property Price Register addresses.
	VariantProperty Variant = "property"
	// VariantPlanning cleans planning-application site descriptions.
	VariantPlanning Variant = "planning"
)

// Result is one geocoding outcome.
type Result struct {
	Latitude    float64
	Longitude   float64
	Matched     bool
	DisplayName string
	Source      string
}

// Provider represents a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Box is the verification bounding box a result must fall inside to count
// as a match. The planning box is wider than the property one, matching the
// original workflow.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains reports whether a coordinate falls inside the box.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// VerificationBox returns the Dublin-area sanity box for a variant.
func VerificationBox(v Variant) Box {
	if v == VariantPlanning {
		return Box{MinLat: 52.8, MaxLat: 53.8, MinLon: -6.6, MaxLon: -5.9}
	}
	return Box{MinLat: 52.9, MaxLat: 53.7, MinLon: -6.5, MaxLon: -6.0}
}

// CacheKey returns SHA-256 hex of the variant-scoped normalized address.
func CacheKey(v Variant, address string) string {
	normalized := string(v) + "|" + strings.ToLower(strings.TrimSpace(address))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}
