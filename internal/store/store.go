// Package store persists geocoding results between runs so repeated
// addresses never hit the geocoder twice.
package store

import "context"

// CachedResult is one cached geocode outcome. Misses are cached too
// (Matched=false) so known-bad addresses are not retried.
type CachedResult struct {
	Latitude  float64
	Longitude float64
	Matched   bool
}

// GeocodeCache is the persistence interface for geocode results, keyed by a
// hash of the normalized address.
type GeocodeCache interface {
	Get(ctx context.Context, key string) (*CachedResult, bool, error)
	Put(ctx context.Context, key string, result CachedResult) error
	Migrate(ctx context.Context) error
	Close() error
}
