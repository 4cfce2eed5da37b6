// Package spatial assigns geocoded points to constituency polygons. All
// geometry is projected to ITM first so the boundary tolerance is a real
// distance in meters.
package spatial

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/itm"
	"github.com/dublin-research/dublin-geo/internal/model"
	"github.com/dublin-research/dublin-geo/internal/shape"
)

// DefaultTolerance is the boundary tolerance in meters, equivalent to the
// 1m polygon buffer the original workflow applied before matching.
const DefaultTolerance = 1.0

// projectedRegion holds one region's rings in ITM coordinates. The first
// ring of each polygon is the exterior; any further rings are holes.
type projectedRegion struct {
	name     string
	polygons [][][]float64 // polygon -> ring -> flat XY coords
	bounds   *geom.Bounds
}

// Matcher performs point-in-polygon assignment with a boundary tolerance.
type Matcher struct {
	regions   []projectedRegion
	tolerance float64
	ambiguous int
}

// NewMatcher projects the region geometries to ITM and prepares them for
// matching. Region order is preserved: under overlap the earliest region in
// the shapefile wins, and the overlap is counted (see Ambiguous).
func NewMatcher(regions []shape.Region, tolerance float64) *Matcher {
	m := &Matcher{tolerance: tolerance}
	for _, r := range regions {
		pr := projectedRegion{name: r.Name, bounds: geom.NewBounds(geom.XY)}
		for i := 0; i < r.Geometry.NumPolygons(); i++ {
			poly := r.Geometry.Polygon(i)
			rings := make([][]float64, 0, poly.NumLinearRings())
			for j := 0; j < poly.NumLinearRings(); j++ {
				rings = append(rings, projectRing(poly.LinearRing(j).FlatCoords()))
			}
			if len(rings) == 0 {
				continue
			}
			pr.polygons = append(pr.polygons, rings)
			pr.bounds.Extend(geom.NewLineStringFlat(geom.XY, rings[0]))
		}
		m.regions = append(m.regions, pr)
	}
	return m
}

// projectRing converts a flat WGS84 lon/lat ring to flat ITM easting/northing.
func projectRing(flat []float64) []float64 {
	out := make([]float64, len(flat))
	for i := 0; i+1 < len(flat); i += 2 {
		e, n := itm.Forward(flat[i+1], flat[i])
		out[i] = e
		out[i+1] = n
	}
	return out
}

// Match assigns each cleaned point to at most one region. Points no region
// claims come back with an empty region name. Every region is tested for
// every point so overlapping claims can be counted rather than silently
// resolved; assignment itself stays first-match for determinism.
func (m *Matcher) Match(points []model.Point) []model.Matched {
	matched := make([]model.Matched, 0, len(points))
	for _, p := range points {
		e, n := itm.Forward(p.Latitude, p.Longitude)
		coord := geom.Coord{e, n}

		var first string
		var claims int
		for _, r := range m.regions {
			if !m.withinBounds(r.bounds, e, n) {
				continue
			}
			if m.contains(r, coord) {
				claims++
				if first == "" {
					first = r.name
				}
			}
		}
		if claims > 1 {
			m.ambiguous++
		}
		matched = append(matched, model.Matched{Point: p, Region: first})
	}

	if m.ambiguous > 0 {
		zap.L().Warn("spatial: points claimed by multiple constituencies; first match kept",
			zap.Int("ambiguous", m.ambiguous),
		)
	}
	return matched
}

// Ambiguous returns how many points intersected more than one buffered
// region across all Match calls.
func (m *Matcher) Ambiguous() int {
	return m.ambiguous
}

// withinBounds is a cheap envelope pre-check, padded by the tolerance.
func (m *Matcher) withinBounds(b *geom.Bounds, e, n float64) bool {
	return e >= b.Min(0)-m.tolerance && e <= b.Max(0)+m.tolerance &&
		n >= b.Min(1)-m.tolerance && n <= b.Max(1)+m.tolerance
}

// contains reports whether the point lies in any of the region's polygons:
// inside the exterior ring and outside every hole, or within the boundary
// tolerance of any ring.
func (m *Matcher) contains(r projectedRegion, coord geom.Coord) bool {
	for _, rings := range r.polygons {
		inside := xy.IsPointInRing(geom.XY, coord, rings[0])
		if inside {
			inHole := false
			for _, hole := range rings[1:] {
				if xy.IsPointInRing(geom.XY, coord, hole) {
					inHole = true
					break
				}
			}
			if !inHole {
				return true
			}
		}
		if m.tolerance > 0 {
			for _, ring := range rings {
				if xy.DistanceFromPointToLineString(geom.XY, coord, ring) <= m.tolerance {
					return true
				}
			}
		}
	}
	return false
}

// Split separates matched from unmatched points.
func Split(matched []model.Matched) (assigned, unmatched []model.Matched) {
	for _, p := range matched {
		if p.Region == "" {
			unmatched = append(unmatched, p)
		} else {
			assigned = append(assigned, p)
		}
	}
	return assigned, unmatched
}
