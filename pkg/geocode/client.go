package geocode

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/store"
)

// Client fronts a Provider with address cleaning, fallback variants, a
// verification box, and a persistent cache.
type Client struct {
	provider Provider
	cache    store.GeocodeCache
	variant  Variant
	box      Box

	hits      int
	misses    int
	unmatched int
}

// NewClient creates a geocoding client for the given variant. cache may be
// nil, in which case every lookup goes to the provider.
func NewClient(provider Provider, cache store.GeocodeCache, variant Variant) *Client {
	return &Client{
		provider: provider,
		cache:    cache,
		variant:  variant,
		box:      VerificationBox(variant),
	}
}

// Lookup geocodes a raw address. The cleaned address is checked against the
// cache first; on a cache miss each fallback variant is tried in order until
// the provider returns a coordinate inside the verification box. Unmatched
// outcomes are cached too, so known-bad addresses cost one provider round
// trip ever.
func (c *Client) Lookup(ctx context.Context, raw string) (*Result, error) {
	cleaned := CleanAddress(raw, c.variant)
	if cleaned == "" {
		c.unmatched++
		return &Result{Matched: false}, nil
	}

	key := CacheKey(c.variant, cleaned)
	if c.cache != nil {
		cached, found, err := c.cache.Get(ctx, key)
		if err != nil {
			return nil, eris.Wrap(err, "geocode: cache get")
		}
		if found {
			c.hits++
			if !cached.Matched {
				c.unmatched++
				return &Result{Matched: false, Source: "cache"}, nil
			}
			return &Result{
				Latitude:  cached.Latitude,
				Longitude: cached.Longitude,
				Matched:   true,
				Source:    "cache",
			}, nil
		}
	}
	c.misses++

	result, err := c.resolve(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		entry := store.CachedResult{Matched: result.Matched}
		if result.Matched {
			entry.Latitude = result.Latitude
			entry.Longitude = result.Longitude
		}
		if err := c.cache.Put(ctx, key, entry); err != nil {
			return nil, eris.Wrap(err, "geocode: cache put")
		}
	}
	if !result.Matched {
		c.unmatched++
	}
	return result, nil
}

// resolve tries each fallback variant against the provider. Results outside
// the verification box are treated as wrong-place matches and skipped.
func (c *Client) resolve(ctx context.Context, cleaned string) (*Result, error) {
	for _, candidate := range Variants(cleaned, c.variant) {
		result, err := c.provider.Geocode(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !result.Matched {
			continue
		}
		if !c.box.Contains(result.Latitude, result.Longitude) {
			zap.L().Debug("geocode result outside verification box",
				zap.String("query", candidate),
				zap.Float64("lat", result.Latitude),
				zap.Float64("lon", result.Longitude))
			continue
		}
		return result, nil
	}
	return &Result{Matched: false, Source: c.provider.Name()}, nil
}

// Stats reports cache hits, cache misses, and unmatched lookups so far.
func (c *Client) Stats() (hits, misses, unmatched int) {
	return c.hits, c.misses, c.unmatched
}
