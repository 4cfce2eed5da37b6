package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dublin-geo",
	Short: "Dublin housing and planning geospatial analysis",
	Long:  "Merges property price and planning-case data, geocodes addresses, joins points to electoral constituencies, and renders choropleth maps.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
