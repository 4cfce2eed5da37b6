package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/dublin-research/dublin-geo/internal/shape"
)

func box(t *testing.T, name string, minLon, minLat, maxLon, maxLat float64) shape.Region {
	t.Helper()

	ring := geom.NewLinearRingFlat(geom.XY, []float64{
		minLon, minLat,
		minLon, maxLat,
		maxLon, maxLat,
		maxLon, minLat,
		minLon, minLat,
	})
	poly := geom.NewPolygon(geom.XY)
	require.NoError(t, poly.Push(ring))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(poly))
	return shape.Region{Name: name, Geometry: mp}
}

func testRegions(t *testing.T) []shape.Region {
	t.Helper()
	return []shape.Region{
		box(t, "West", -6.40, 53.20, -6.30, 53.30),
		box(t, "Mid", -6.30, 53.20, -6.20, 53.30),
		box(t, "East", -6.20, 53.20, -6.10, 53.30),
	}
}

func TestChoropleth(t *testing.T) {
	var buf bytes.Buffer
	values := map[string]float64{"West": 250000, "Mid": 400000, "East": 600000}

	err := Choropleth(&buf, testRegions(t), values, Options{
		Title:        "Median sale price",
		LegendFormat: "%.0f",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
	assert.Contains(t, out, "Median sale price")
	assert.Contains(t, out, "<title>West</title>")
	assert.Contains(t, out, "<title>East</title>")
	// Lowest and highest ramp colors both appear.
	assert.Contains(t, out, sequentialRamp[0])
	assert.Contains(t, out, sequentialRamp[len(sequentialRamp)-1])
	assert.Contains(t, out, "250000")
}

func TestChoroplethMissingRegionSentinel(t *testing.T) {
	var buf bytes.Buffer
	values := map[string]float64{"West": 1, "East": 2}

	err := Choropleth(&buf, testRegions(t), values, Options{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), MissingFill)
}

func TestChoroplethNoValues(t *testing.T) {
	var buf bytes.Buffer
	err := Choropleth(&buf, testRegions(t), nil, Options{})
	require.Error(t, err)
}

func TestChoroplethNoRegions(t *testing.T) {
	var buf bytes.Buffer
	err := Choropleth(&buf, nil, map[string]float64{"West": 1}, Options{})
	require.Error(t, err)
}

func TestBivariate(t *testing.T) {
	var buf bytes.Buffer
	x := map[string]float64{"West": 1, "Mid": 2, "East": 3}
	y := map[string]float64{"West": 30, "Mid": 20, "East": 10}

	err := Bivariate(&buf, testRegions(t), x, y, Options{
		XLabel: "median price",
		YLabel: "rejection rate",
	})
	require.NoError(t, err)

	out := buf.String()
	// West is low-x high-y, East is high-x low-y.
	assert.Contains(t, out, bivariatePalette[6])
	assert.Contains(t, out, bivariatePalette[2])
	assert.Contains(t, out, "median price")
	assert.Contains(t, out, "rejection rate")
	// All nine legend cells are drawn.
	for _, color := range bivariatePalette {
		assert.Contains(t, out, color)
	}
}

func TestBivariateRegionMissingOneStat(t *testing.T) {
	var buf bytes.Buffer
	x := map[string]float64{"West": 1, "Mid": 2, "East": 3}
	y := map[string]float64{"West": 30, "East": 10} // Mid missing

	err := Bivariate(&buf, testRegions(t), x, y, Options{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), MissingFill)
}

func TestBivariateDisjointStats(t *testing.T) {
	var buf bytes.Buffer
	err := Bivariate(&buf, testRegions(t),
		map[string]float64{"West": 1},
		map[string]float64{"East": 2},
		Options{})
	require.Error(t, err)
}

func TestClassOf(t *testing.T) {
	breaks := []float64{10, 20, 30, 40}
	tests := []struct {
		v    float64
		want int
	}{
		{5, 0}, {10, 0}, {15, 1}, {25, 2}, {40, 3}, {41, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classOf(tt.v, breaks), "value %v", tt.v)
	}
}

func TestPathDataClosesRings(t *testing.T) {
	rings := [][][2]float64{
		{{0, 0}, {10, 0}, {10, 10}, {0, 0}},
		{{2, 2}, {4, 2}, {4, 4}, {2, 2}},
	}
	d := pathData(rings)
	assert.Equal(t, 2, strings.Count(d, "M"))
	assert.Equal(t, 2, strings.Count(d, "Z"))
}
