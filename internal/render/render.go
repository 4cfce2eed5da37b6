// Package render draws constituency choropleths as SVG. Polygons are
// projected to Irish Transverse Mercator before drawing so the map keeps
// true ground proportions.
package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/aggregate"
	"github.com/dublin-research/dublin-geo/internal/itm"
	"github.com/dublin-research/dublin-geo/internal/shape"
)

// MissingFill is the sentinel color for regions with no joined statistic.
const MissingFill = "#d9d9d9"

const (
	margin       = 40.0
	legendSwatch = 22
)

// sequentialRamp is a five-class blues ramp for single-variable maps.
var sequentialRamp = []string{"#eff3ff", "#bdd7e7", "#6baed6", "#3182bd", "#08519c"}

// bivariatePalette is the 3x3 grid, row-major from low-low to high-high
// (x advances within a row, y across rows).
var bivariatePalette = []string{
	"#e8e8e8", "#ace4e4", "#5ac8c8",
	"#dfb0d6", "#a5add3", "#5698b9",
	"#be64ac", "#8c62aa", "#3b4994",
}

// Options configures one rendered map.
type Options struct {
	Width        int
	Height       int
	Title        string
	LegendFormat string // fmt verb for legend boundaries, default %.1f
	XLabel       string // bivariate only
	YLabel       string // bivariate only
}

func (o *Options) defaults() {
	if o.Width <= 0 {
		o.Width = 900
	}
	if o.Height <= 0 {
		o.Height = 900
	}
	if o.LegendFormat == "" {
		o.LegendFormat = "%.1f"
	}
}

// projectedRegion is one polygon set in canvas coordinates.
type projectedRegion struct {
	name  string
	rings [][][2]float64
}

// project maps every polygon vertex through the ITM projection and then
// scales the whole layer into the canvas, preserving aspect and flipping the
// y axis (SVG y grows downward, northing grows upward).
func project(regions []shape.Region, width, height int) ([]projectedRegion, error) {
	if len(regions) == 0 {
		return nil, eris.New("render: no regions to draw")
	}

	type itmRegion struct {
		name  string
		rings [][][2]float64
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	projected := make([]itmRegion, 0, len(regions))
	for _, region := range regions {
		pr := itmRegion{name: region.Name}
		for i := 0; i < region.Geometry.NumPolygons(); i++ {
			poly := region.Geometry.Polygon(i)
			for j := 0; j < poly.NumLinearRings(); j++ {
				flat := poly.LinearRing(j).FlatCoords()
				ring := make([][2]float64, 0, len(flat)/2)
				for k := 0; k+1 < len(flat); k += 2 {
					e, n := itm.Forward(flat[k+1], flat[k])
					ring = append(ring, [2]float64{e, n})
					minX, maxX = math.Min(minX, e), math.Max(maxX, e)
					minY, maxY = math.Min(minY, n), math.Max(maxY, n)
				}
				pr.rings = append(pr.rings, ring)
			}
		}
		projected = append(projected, pr)
	}

	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 || spanY <= 0 {
		return nil, eris.New("render: degenerate layer extent")
	}
	scale := math.Min((float64(width)-2*margin)/spanX, (float64(height)-2*margin)/spanY)

	out := make([]projectedRegion, 0, len(projected))
	for _, pr := range projected {
		cr := projectedRegion{name: pr.name}
		for _, ring := range pr.rings {
			canvasRing := make([][2]float64, len(ring))
			for i, pt := range ring {
				canvasRing[i] = [2]float64{
					margin + (pt[0]-minX)*scale,
					float64(height) - margin - (pt[1]-minY)*scale,
				}
			}
			cr.rings = append(cr.rings, canvasRing)
		}
		out = append(out, cr)
	}
	return out, nil
}

// pathData renders all rings of a region as one path; evenodd fill keeps
// holes empty.
func pathData(rings [][][2]float64) string {
	var b strings.Builder
	for _, ring := range rings {
		for i, pt := range ring {
			if i == 0 {
				fmt.Fprintf(&b, "M%.1f %.1f", pt[0], pt[1])
			} else {
				fmt.Fprintf(&b, " L%.1f %.1f", pt[0], pt[1])
			}
		}
		b.WriteString(" Z ")
	}
	return strings.TrimSpace(b.String())
}

// Choropleth draws a single-variable quantile-classed map. Regions absent
// from values get the sentinel fill and are excluded from class boundaries.
func Choropleth(w io.Writer, regions []shape.Region, values map[string]float64, opts Options) error {
	opts.defaults()

	projected, err := project(regions, opts.Width, opts.Height)
	if err != nil {
		return err
	}

	present := make([]float64, 0, len(values))
	for _, region := range regions {
		if v, ok := values[region.Name]; ok {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return eris.New("render: no region has a value to classify")
	}
	sort.Float64s(present)

	// Class boundaries at the 20/40/60/80th percentiles of joined regions.
	breaks := make([]float64, 0, len(sequentialRamp)-1)
	for i := 1; i < len(sequentialRamp); i++ {
		breaks = append(breaks, aggregate.Quantile(present, float64(i)/float64(len(sequentialRamp))))
	}

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	drawTitle(canvas, opts)

	missing := 0
	for _, region := range projected {
		fill := MissingFill
		if v, ok := values[region.name]; ok {
			fill = sequentialRamp[classOf(v, breaks)]
		} else {
			missing++
		}
		drawRegion(canvas, region, fill)
	}
	if missing > 0 {
		zap.L().Warn("regions without statistics drawn with sentinel fill",
			zap.Int("missing", missing))
	}

	drawSequentialLegend(canvas, opts, present[0], breaks, present[len(present)-1])
	canvas.End()
	return nil
}

// Bivariate draws the 3x3 tertile-classed two-variable map. Only regions
// present in both statistics are classed; the rest get the sentinel fill.
func Bivariate(w io.Writer, regions []shape.Region, xValues, yValues map[string]float64, opts Options) error {
	opts.defaults()

	projected, err := project(regions, opts.Width, opts.Height)
	if err != nil {
		return err
	}

	joinedX := make(map[string]float64)
	joinedY := make(map[string]float64)
	for _, region := range regions {
		x, okX := xValues[region.Name]
		y, okY := yValues[region.Name]
		if okX && okY {
			joinedX[region.Name] = x
			joinedY[region.Name] = y
		}
	}
	if len(joinedX) == 0 {
		return eris.New("render: no region has both statistics")
	}

	xClasses := aggregate.Tertiles(joinedX)
	yClasses := aggregate.Tertiles(joinedY)

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	drawTitle(canvas, opts)

	missing := 0
	for _, region := range projected {
		fill := MissingFill
		if xc, ok := xClasses[region.name]; ok {
			fill = bivariatePalette[aggregate.BivariateClass(xc, yClasses[region.name])]
		} else {
			missing++
		}
		drawRegion(canvas, region, fill)
	}
	if missing > 0 {
		zap.L().Warn("regions without statistics drawn with sentinel fill",
			zap.Int("missing", missing))
	}

	drawBivariateLegend(canvas, opts)
	canvas.End()
	return nil
}

func classOf(v float64, breaks []float64) int {
	for i, b := range breaks {
		if v <= b {
			return i
		}
	}
	return len(breaks)
}

func drawTitle(canvas *svg.SVG, opts Options) {
	if opts.Title == "" {
		return
	}
	canvas.Text(opts.Width/2, 24, opts.Title,
		"text-anchor:middle;font-family:sans-serif;font-size:16px;fill:#222")
}

func drawRegion(canvas *svg.SVG, region projectedRegion, fill string) {
	canvas.Group()
	canvas.Title(region.name)
	canvas.Path(pathData(region.rings),
		fmt.Sprintf("fill:%s;fill-rule:evenodd;stroke:#555;stroke-width:0.6", fill))
	canvas.Gend()
}

func drawSequentialLegend(canvas *svg.SVG, opts Options, min float64, breaks []float64, max float64) {
	x := opts.Width - 180
	y := opts.Height - (len(sequentialRamp)+1)*(legendSwatch+4) - 10

	edges := append(append([]float64{min}, breaks...), max)
	for i, color := range sequentialRamp {
		sy := y + i*(legendSwatch+4)
		canvas.Rect(x, sy, legendSwatch, legendSwatch,
			fmt.Sprintf("fill:%s;stroke:#555;stroke-width:0.5", color))
		label := fmt.Sprintf(opts.LegendFormat+" – "+opts.LegendFormat, edges[i], edges[i+1])
		canvas.Text(x+legendSwatch+8, sy+legendSwatch-6, label,
			"font-family:sans-serif;font-size:11px;fill:#222")
	}
	sy := y + len(sequentialRamp)*(legendSwatch+4)
	canvas.Rect(x, sy, legendSwatch, legendSwatch,
		fmt.Sprintf("fill:%s;stroke:#555;stroke-width:0.5", MissingFill))
	canvas.Text(x+legendSwatch+8, sy+legendSwatch-6, "no data",
		"font-family:sans-serif;font-size:11px;fill:#222")
}

// drawBivariateLegend draws the 3x3 grid with the x statistic increasing
// rightward and the y statistic increasing upward.
func drawBivariateLegend(canvas *svg.SVG, opts Options) {
	x0 := opts.Width - 3*legendSwatch - 90
	y0 := opts.Height - 3*legendSwatch - 60

	for yc := 0; yc < 3; yc++ {
		for xc := 0; xc < 3; xc++ {
			color := bivariatePalette[aggregate.BivariateClass(xc, yc)]
			sx := x0 + xc*legendSwatch
			sy := y0 + (2-yc)*legendSwatch
			canvas.Rect(sx, sy, legendSwatch, legendSwatch,
				fmt.Sprintf("fill:%s;stroke:#555;stroke-width:0.5", color))
		}
	}

	xLabel := opts.XLabel
	if xLabel == "" {
		xLabel = "x"
	}
	yLabel := opts.YLabel
	if yLabel == "" {
		yLabel = "y"
	}
	canvas.Text(x0+3*legendSwatch/2, y0+3*legendSwatch+16, xLabel+" →",
		"text-anchor:middle;font-family:sans-serif;font-size:11px;fill:#222")
	canvas.TranslateRotate(x0-8, y0+3*legendSwatch/2, -90)
	canvas.Text(0, 0, yLabel+" →",
		"text-anchor:middle;font-family:sans-serif;font-size:11px;fill:#222")
	canvas.Gend()
}
