package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/fetcher"
	"github.com/dublin-research/dublin-geo/internal/store"
	"github.com/dublin-research/dublin-geo/pkg/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <input.csv>",
	Short: "Geocode an address column through Nominatim",
	Long: `Reads a CSV, geocodes the address column through Nominatim with a persistent
cache, and writes the input back out with latitude and longitude columns
appended. Unmatched rows get empty coordinates.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out, _ := cmd.Flags().GetString("out")
		addressCol, _ := cmd.Flags().GetString("address-column")
		dataset, _ := cmd.Flags().GetString("dataset")
		limit, _ := cmd.Flags().GetInt("limit")
		latin1, _ := cmd.Flags().GetBool("latin1")

		variant, err := datasetVariant(dataset)
		if err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "geocode"))

		table, err := fetcher.ReadCSV(args[0], fetcher.CSVOptions{Latin1: latin1, TrimSpace: true})
		if err != nil {
			return eris.Wrap(err, "geocode: read input")
		}
		idx := table.ColumnIndex(addressCol)
		if idx < 0 {
			return eris.Errorf("geocode: input has no %q column", addressCol)
		}

		cache, err := store.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return eris.Wrap(err, "geocode: open cache")
		}
		defer cache.Close() //nolint:errcheck
		if err := cache.Migrate(ctx); err != nil {
			return eris.Wrap(err, "geocode: migrate cache")
		}

		provider := geocode.NewNominatim(geocode.NominatimOptions{
			BaseURL:    cfg.Nominatim.BaseURL,
			UserAgent:  cfg.Nominatim.UserAgent,
			Email:      cfg.Nominatim.Email,
			RatePerSec: cfg.Nominatim.RatePerSec,
			Timeout:    time.Duration(cfg.Nominatim.TimeoutSecs) * time.Second,
		})
		client := geocode.NewClient(provider, cache, variant)

		rows := table.Rows
		if limit > 0 && limit < len(rows) {
			rows = rows[:limit]
		}
		log.Info("geocoding addresses",
			zap.String("dataset", dataset),
			zap.Int("rows", len(rows)),
			zap.String("column", addressCol),
		)

		header := append(append([]string{}, table.Header...), "latitude", "longitude")
		outRows := make([][]string, 0, len(rows))
		matched := 0
		for i, row := range rows {
			result, err := client.Lookup(ctx, fetcher.Cell(row, idx))
			if err != nil {
				return eris.Wrapf(err, "geocode: row %d", i+1)
			}

			lat, lon := "", ""
			if result.Matched {
				matched++
				lat = strconv.FormatFloat(result.Latitude, 'f', 6, 64)
				lon = strconv.FormatFloat(result.Longitude, 'f', 6, 64)
			}
			outRows = append(outRows, append(append([]string{}, row...), lat, lon))

			if (i+1)%100 == 0 {
				log.Info("geocoding progress", zap.Int("done", i+1), zap.Int("total", len(rows)))
			}
		}

		if err := fetcher.WriteCSV(out, header, outRows); err != nil {
			return eris.Wrap(err, "geocode: write output")
		}

		hits, misses, unmatched := client.Stats()
		log.Info("geocoding finished",
			zap.Int("cache_hits", hits),
			zap.Int("cache_misses", misses),
			zap.Int("unmatched", unmatched),
		)

		rate := 0.0
		if len(rows) > 0 {
			rate = 100 * float64(matched) / float64(len(rows))
		}
		fmt.Printf("Geocoded %d/%d rows (%.1f%%) -> %s\n", matched, len(rows), rate, out)
		return nil
	},
}

// datasetVariant maps the --dataset flag onto an address-cleaner variant.
func datasetVariant(dataset string) (geocode.Variant, error) {
	switch dataset {
	case "property":
		return geocode.VariantProperty, nil
	case "planning":
		return geocode.VariantPlanning, nil
	default:
		return "", eris.Errorf("unknown dataset %q (want property or planning)", dataset)
	}
}

func init() {
	geocodeCmd.Flags().String("out", "geocoded.csv", "output CSV path")
	geocodeCmd.Flags().String("address-column", "address", "name of the address column")
	geocodeCmd.Flags().String("dataset", "property", "address cleaner to use: property or planning")
	geocodeCmd.Flags().Int("limit", 0, "geocode at most N rows (0 = all)")
	geocodeCmd.Flags().Bool("latin1", false, "input CSV is Latin-1 encoded")
	rootCmd.AddCommand(geocodeCmd)
}
