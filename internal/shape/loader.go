// Package shape loads electoral-constituency polygons from an ESRI
// shapefile into go-geom multipolygons.
package shape

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Region is one constituency polygon with the attributes the pipeline uses.
// Geometry is in WGS84 (lon/lat order).
type Region struct {
	Name     string
	County   string
	Geometry *geom.MultiPolygon
}

// LoadOptions selects the attribute fields and the county filter.
type LoadOptions struct {
	NameField   string // attribute holding the constituency name
	CountyField string // attribute holding the county; optional
	County      string // keep only regions whose county matches (case-insensitive); empty = keep all
}

// Load reads a polygon shapefile and returns the regions matching the county
// filter, in file order. Records with missing names or unsupported
// geometries are skipped.
func Load(path string, opts LoadOptions) ([]Region, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shape: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, opts.NameField)
	if nameIdx < 0 {
		return nil, eris.Errorf("shape: name field %q not found in %s", opts.NameField, path)
	}

	countyIdx := -1
	if opts.CountyField != "" {
		countyIdx = fieldIndex(reader, opts.CountyField)
		if countyIdx < 0 && opts.County != "" {
			return nil, eris.Errorf("shape: county field %q not found in %s", opts.CountyField, path)
		}
	}

	var regions []Region
	var skipped int

	for reader.Next() {
		_, s := reader.Shape()

		name := attribute(reader, nameIdx)
		if name == "" {
			skipped++
			continue
		}

		county := ""
		if countyIdx >= 0 {
			county = attribute(reader, countyIdx)
		}
		if opts.County != "" && !strings.EqualFold(county, opts.County) {
			continue
		}

		poly, ok := s.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		regions = append(regions, Region{Name: name, County: county, Geometry: mp})
	}

	if skipped > 0 {
		zap.L().Debug("shape: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(regions) == 0 {
		return nil, eris.Errorf("shape: no regions loaded from %s (county filter %q)", path, opts.County)
	}

	return regions, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
// Each part becomes a single-ring polygon, matching the shapefile part model.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("shape: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("shape: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if
// not found. Shapefile field names are fixed-width and NUL padded.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

func attribute(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}
