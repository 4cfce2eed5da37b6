package shape

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture writes a two-record polygon shapefile: one Dublin constituency
// (unit square at the origin) and one Kildare constituency shifted east.
func writeFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "constituencies.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	fields := []shp.Field{
		shp.StringField("CON_NAME", 50),
		shp.StringField("COUNTY", 30),
	}
	w.SetFields(fields)

	square := func(minX, minY float64) *shp.Polygon {
		pts := []shp.Point{
			{X: minX, Y: minY},
			{X: minX, Y: minY + 1},
			{X: minX + 1, Y: minY + 1},
			{X: minX + 1, Y: minY},
			{X: minX, Y: minY},
		}
		return &shp.Polygon{
			Box:       shp.Box{MinX: minX, MinY: minY, MaxX: minX + 1, MaxY: minY + 1},
			NumParts:  1,
			NumPoints: int32(len(pts)),
			Parts:     []int32{0},
			Points:    pts,
		}
	}

	w.Write(square(0, 0))
	w.WriteAttribute(0, 0, "Dublin Central")
	w.WriteAttribute(0, 1, "DUBLIN")

	w.Write(square(5, 0))
	w.WriteAttribute(1, 0, "Kildare North")
	w.WriteAttribute(1, 1, "KILDARE")

	w.Close()
	return path
}

func TestLoadCountyFilter(t *testing.T) {
	path := writeFixture(t)

	regions, err := Load(path, LoadOptions{
		NameField:   "CON_NAME",
		CountyField: "COUNTY",
		County:      "Dublin",
	})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "Dublin Central", regions[0].Name)
	assert.Equal(t, "DUBLIN", regions[0].County)
	assert.Equal(t, 1, regions[0].Geometry.NumPolygons())
}

func TestLoadNoFilter(t *testing.T) {
	path := writeFixture(t)

	regions, err := Load(path, LoadOptions{NameField: "con_name", CountyField: "county"})
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}

func TestLoadMissingNameField(t *testing.T) {
	path := writeFixture(t)

	_, err := Load(path, LoadOptions{NameField: "NOPE"})
	assert.Error(t, err)
}

func TestLoadFilterExcludesAll(t *testing.T) {
	path := writeFixture(t)

	_, err := Load(path, LoadOptions{
		NameField:   "CON_NAME",
		CountyField: "COUNTY",
		County:      "Cork",
	})
	assert.Error(t, err)
}

func TestPolygonToMultiPolygon(t *testing.T) {
	p := &shp.Polygon{
		NumParts:  2,
		NumPoints: 10,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0},
			{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 3}, {X: 3, Y: 3},
		},
	}

	mp := polygonToMultiPolygon(p)
	require.NotNil(t, mp)
	assert.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 4326, mp.SRID())
}

func TestPolygonToMultiPolygonEmpty(t *testing.T) {
	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}
