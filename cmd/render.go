package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/fetcher"
	"github.com/dublin-research/dublin-geo/internal/render"
	"github.com/dublin-research/dublin-geo/internal/shape"
)

var renderCmd = &cobra.Command{
	Use:   "render <shapefile>",
	Short: "Draw a choropleth or bivariate SVG map",
	Long: `Joins one or two aggregate statistics CSVs onto the constituency polygons
and renders an SVG map. With --stats2 the two variables are tertile-classed
into a 3x3 bivariate grid; otherwise a single-variable quantile choropleth is
drawn. Constituencies without statistics get a gray fill.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		statsPath, _ := cmd.Flags().GetString("stats")
		column, _ := cmd.Flags().GetString("column")
		stats2Path, _ := cmd.Flags().GetString("stats2")
		column2, _ := cmd.Flags().GetString("column2")
		out, _ := cmd.Flags().GetString("out")
		title, _ := cmd.Flags().GetString("title")
		legendFormat, _ := cmd.Flags().GetString("legend-format")
		nameField, _ := cmd.Flags().GetString("name-field")
		countyField, _ := cmd.Flags().GetString("county-field")
		county, _ := cmd.Flags().GetString("county")
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")

		if statsPath == "" {
			return eris.New("render: --stats is required")
		}
		if width == 0 {
			width = cfg.Render.Width
		}
		if height == 0 {
			height = cfg.Render.Height
		}

		log := zap.L().With(zap.String("command", "render"))

		regions, err := shape.Load(args[0], shape.LoadOptions{
			NameField:   nameField,
			CountyField: countyField,
			County:      county,
		})
		if err != nil {
			return eris.Wrap(err, "render: load shapefile")
		}

		values, err := loadStatColumn(statsPath, column)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrap(err, "render: create output")
		}
		defer f.Close() //nolint:errcheck

		opts := render.Options{
			Width:        width,
			Height:       height,
			Title:        title,
			LegendFormat: legendFormat,
		}

		if stats2Path != "" {
			values2, err := loadStatColumn(stats2Path, column2)
			if err != nil {
				return err
			}
			opts.XLabel = column
			opts.YLabel = column2
			if err := render.Bivariate(f, regions, values, values2, opts); err != nil {
				return err
			}
			log.Info("rendered bivariate map",
				zap.String("x", column), zap.String("y", column2), zap.String("out", out))
		} else {
			if err := render.Choropleth(f, regions, values, opts); err != nil {
				return err
			}
			log.Info("rendered choropleth",
				zap.String("column", column), zap.String("out", out))
		}

		fmt.Printf("Rendered %d constituencies -> %s\n", len(regions), out)
		return nil
	},
}

// loadStatColumn reads region -> value pairs from an aggregate CSV. Rows with
// an unparseable value are skipped so NA regions fall back to the sentinel
// fill.
func loadStatColumn(path, column string) (map[string]float64, error) {
	table, err := fetcher.ReadCSV(path, fetcher.CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, eris.Wrapf(err, "render: read stats %s", path)
	}

	regionIdx := table.ColumnIndex("region")
	valueIdx := table.ColumnIndex(column)
	if regionIdx < 0 {
		return nil, eris.Errorf("render: %s has no region column", path)
	}
	if valueIdx < 0 {
		return nil, eris.Errorf("render: %s has no %q column", path, column)
	}

	values := make(map[string]float64, len(table.Rows))
	for _, row := range table.Rows {
		region := fetcher.Cell(row, regionIdx)
		if region == "" {
			continue
		}
		v, err := strconv.ParseFloat(fetcher.Cell(row, valueIdx), 64)
		if err != nil {
			zap.L().Warn("skipping unparseable statistic",
				zap.String("region", region), zap.String("value", fetcher.Cell(row, valueIdx)))
			continue
		}
		values[region] = v
	}
	return values, nil
}

func init() {
	renderCmd.Flags().String("stats", "", "aggregate statistics CSV (required)")
	renderCmd.Flags().String("column", "median_price", "statistic column to map")
	renderCmd.Flags().String("stats2", "", "second statistics CSV for a bivariate map")
	renderCmd.Flags().String("column2", "rejection_rate", "statistic column in --stats2")
	renderCmd.Flags().String("out", "map.svg", "output SVG path")
	renderCmd.Flags().String("title", "", "map title")
	renderCmd.Flags().String("legend-format", "", "fmt verb for legend labels (default %.1f)")
	renderCmd.Flags().String("name-field", "ENGLISH", "shapefile attribute holding the constituency name")
	renderCmd.Flags().String("county-field", "COUNTY", "shapefile attribute holding the county")
	renderCmd.Flags().String("county", "DUBLIN", "county filter (empty = keep all)")
	renderCmd.Flags().Int("width", 0, "canvas width (default: from config)")
	renderCmd.Flags().Int("height", 0, "canvas height (default: from config)")
	rootCmd.AddCommand(renderCmd)
}
