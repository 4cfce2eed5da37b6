package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dublin-research/dublin-geo/internal/aggregate"
	"github.com/dublin-research/dublin-geo/internal/cleaner"
	"github.com/dublin-research/dublin-geo/internal/fetcher"
	"github.com/dublin-research/dublin-geo/internal/model"
	"github.com/dublin-research/dublin-geo/internal/shape"
	"github.com/dublin-research/dublin-geo/internal/spatial"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input.csv> <shapefile>",
	Short: "Join geocoded points to constituencies and aggregate",
	Long: `Reads a geocoded CSV and a constituency shapefile, drops rows with missing
or out-of-range coordinates, assigns each point to a constituency (first
containing polygon wins, 1 m boundary tolerance), aggregates per region, and
writes the statistics CSV plus a YAML run summary.

--dataset property computes sale counts and median prices; --dataset planning
computes application totals and rejection rates.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		started := time.Now().UTC()

		dataset, _ := cmd.Flags().GetString("dataset")
		out, _ := cmd.Flags().GetString("out")
		unmatchedOut, _ := cmd.Flags().GetString("unmatched-out")
		summaryOut, _ := cmd.Flags().GetString("summary-out")
		nameField, _ := cmd.Flags().GetString("name-field")
		countyField, _ := cmd.Flags().GetString("county-field")
		county, _ := cmd.Flags().GetString("county")
		latCol, _ := cmd.Flags().GetString("lat-column")
		lonCol, _ := cmd.Flags().GetString("lon-column")
		valueCol, _ := cmd.Flags().GetString("value-column")
		tolerance, _ := cmd.Flags().GetFloat64("tolerance")

		if dataset != "property" && dataset != "planning" {
			return eris.Errorf("unknown dataset %q (want property or planning)", dataset)
		}
		if valueCol == "" {
			if dataset == "property" {
				valueCol = "price"
			} else {
				valueCol = "status"
			}
		}

		log := zap.L().With(zap.String("command", "analyze"), zap.String("dataset", dataset))

		regions, err := shape.Load(args[1], shape.LoadOptions{
			NameField:   nameField,
			CountyField: countyField,
			County:      county,
		})
		if err != nil {
			return eris.Wrap(err, "analyze: load shapefile")
		}
		log.Info("loaded constituency polygons", zap.Int("regions", len(regions)))

		table, err := fetcher.ReadCSV(args[0], fetcher.CSVOptions{TrimSpace: true})
		if err != nil {
			return eris.Wrap(err, "analyze: read input")
		}
		points, err := tableToPoints(table, latCol, lonCol, valueCol)
		if err != nil {
			return err
		}

		cleaned, dropped := cleaner.FilterCoordinates(points)
		log.Info("cleaned coordinates",
			zap.Int("input_rows", len(points)),
			zap.Int("kept", len(cleaned)),
			zap.Int("dropped", dropped),
		)

		matcher := spatial.NewMatcher(regions, tolerance)
		matched := matcher.Match(cleaned)
		assigned, unmatched := spatial.Split(matched)
		log.Info("spatial join finished",
			zap.Int("matched", len(assigned)),
			zap.Int("unmatched", len(unmatched)),
			zap.Int("ambiguous", matcher.Ambiguous()),
		)

		var statsRows int
		if dataset == "property" {
			stats := aggregate.Property(assigned)
			statsRows = len(stats)
			printPropertyStats(stats)
			if err := writeStatsCSV(out, stats); err != nil {
				return err
			}
		} else {
			stats := aggregate.Planning(assigned)
			statsRows = len(stats)
			printPlanningStats(stats)
			if err := writeStatsCSV(out, stats); err != nil {
				return err
			}
		}

		if unmatchedOut != "" && len(unmatched) > 0 {
			rows := make([][]string, 0, len(unmatched))
			for _, p := range unmatched {
				rows = append(rows, p.Raw)
			}
			if err := fetcher.WriteCSV(unmatchedOut, table.Header, rows); err != nil {
				return eris.Wrap(err, "analyze: write unmatched rows")
			}
			log.Info("wrote unmatched rows", zap.String("path", unmatchedOut), zap.Int("rows", len(rows)))
		}

		summary := model.RunSummary{
			RunID:       uuid.NewString(),
			Dataset:     dataset,
			StartedAt:   started.Format(time.RFC3339),
			FinishedAt:  time.Now().UTC().Format(time.RFC3339),
			Shapefile:   args[1],
			Input:       args[0],
			InputRows:   len(points),
			CleanedRows: len(cleaned),
			DroppedRows: dropped,
			Matched:     len(assigned),
			Unmatched:   len(unmatched),
			Ambiguous:   matcher.Ambiguous(),
			Regions:     len(regions),
			StatsRows:   statsRows,
		}
		if err := writeSummary(summaryOut, summary); err != nil {
			return err
		}

		fmt.Printf("Wrote %d region statistics -> %s (summary: %s)\n", statsRows, out, summaryOut)
		return nil
	},
}

// tableToPoints extracts coordinates and the value column from a generic CSV
// table. Unparseable coordinates become zero and fall to the cleaner.
func tableToPoints(table *fetcher.Table, latCol, lonCol, valueCol string) ([]model.Point, error) {
	latIdx := table.ColumnIndex(latCol)
	lonIdx := table.ColumnIndex(lonCol)
	valIdx := table.ColumnIndex(valueCol)
	if latIdx < 0 || lonIdx < 0 {
		return nil, eris.Errorf("analyze: input needs %q and %q columns", latCol, lonCol)
	}
	if valIdx < 0 {
		return nil, eris.Errorf("analyze: input has no %q column", valueCol)
	}

	points := make([]model.Point, 0, len(table.Rows))
	for i, row := range table.Rows {
		lat, _ := strconv.ParseFloat(fetcher.Cell(row, latIdx), 64)
		lon, _ := strconv.ParseFloat(fetcher.Cell(row, lonIdx), 64)
		points = append(points, model.Point{
			Row:       i + 1,
			Latitude:  lat,
			Longitude: lon,
			Value:     fetcher.Cell(row, valIdx),
			Raw:       row,
		})
	}
	return points, nil
}

// writeStatsCSV marshals the aggregate rows with csvutil.
func writeStatsCSV(path string, stats any) error {
	data, err := csvutil.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "analyze: marshal stats")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "analyze: write stats")
	}
	return nil
}

func writeSummary(path string, summary model.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "analyze: marshal summary")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "analyze: write summary")
	}
	return nil
}

func printPropertyStats(stats []model.PropertyStats) {
	fmt.Printf("%-40s %8s %14s\n", "Constituency", "Sales", "Median Price")
	fmt.Println(strings.Repeat("-", 64))
	for _, s := range stats {
		fmt.Printf("%-40s %8d %14.0f\n", s.Region, s.Sales, s.MedianPrice)
	}
}

func printPlanningStats(stats []model.PlanningStats) {
	fmt.Printf("%-40s %8s %9s %7s %8s %10s %8s\n",
		"Constituency", "Total", "Rejected", "Rate%", "Refused", "Withdrawn", "Invalid")
	fmt.Println(strings.Repeat("-", 96))
	for _, s := range stats {
		fmt.Printf("%-40s %8d %9d %7.1f %8d %10d %8d\n",
			s.Region, s.TotalApplications, s.Rejected, s.RejectionRate,
			s.Refused, s.Withdrawn, s.Invalid)
	}
}

func init() {
	analyzeCmd.Flags().String("dataset", "property", "dataset semantics: property or planning")
	analyzeCmd.Flags().String("out", "stats.csv", "aggregate statistics CSV path")
	analyzeCmd.Flags().String("unmatched-out", "", "optional CSV of rows no constituency claimed")
	analyzeCmd.Flags().String("summary-out", "run_summary.yaml", "YAML run summary path")
	analyzeCmd.Flags().String("name-field", "ENGLISH", "shapefile attribute holding the constituency name")
	analyzeCmd.Flags().String("county-field", "COUNTY", "shapefile attribute holding the county")
	analyzeCmd.Flags().String("county", "DUBLIN", "county filter (empty = keep all)")
	analyzeCmd.Flags().String("lat-column", "latitude", "latitude column name")
	analyzeCmd.Flags().String("lon-column", "longitude", "longitude column name")
	analyzeCmd.Flags().String("value-column", "", "statistic column (default: price or status by dataset)")
	analyzeCmd.Flags().Float64("tolerance", spatial.DefaultTolerance, "boundary tolerance in metres")
	rootCmd.AddCommand(analyzeCmd)
}
