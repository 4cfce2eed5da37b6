package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>...",
	Short: "Scrape An Bord Pleanála case listings to CSV",
	Long: `Fetches one or more case-listing pages, parses the case cards, de-duplicates
by case reference, and writes the result as CSV.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out, _ := cmd.Flags().GetString("out")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		rate, _ := cmd.Flags().GetFloat64("rate")

		if concurrency == 0 {
			concurrency = cfg.Scrape.Concurrency
		}
		if rate == 0 {
			rate = cfg.Scrape.RatePerSec
		}

		log := zap.L().With(zap.String("command", "scrape"))
		log.Info("scraping case listings",
			zap.Int("pages", len(args)),
			zap.Int("concurrency", concurrency),
			zap.Float64("rate_per_sec", rate),
		)

		client := &http.Client{Timeout: time.Duration(cfg.Scrape.TimeoutSecs) * time.Second}
		scraper := scrape.NewScraper(client, rate)

		cases, err := scraper.ScrapeAll(ctx, args, concurrency)
		if err != nil {
			return eris.Wrap(err, "scrape")
		}

		data, err := csvutil.Marshal(cases)
		if err != nil {
			return eris.Wrap(err, "scrape: marshal cases")
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return eris.Wrap(err, "scrape: write output")
		}

		fmt.Printf("Scraped %d cases from %d pages -> %s\n", len(cases), len(args), out)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().String("out", "cases.csv", "output CSV path")
	scrapeCmd.Flags().Int("concurrency", 0, "parallel page fetches (default: from config)")
	scrapeCmd.Flags().Float64("rate", 0, "requests per second (default: from config)")
	rootCmd.AddCommand(scrapeCmd)
}
