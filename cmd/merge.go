package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/merge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <dir>",
	Short: "Concatenate register CSV/XLSX files into one UTF-8 CSV",
	Long: `Reads every .csv and .xlsx file in a directory, decodes Latin-1 register
exports, and writes a single UTF-8 CSV. The first file's header wins; files
with a different column count are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		log := zap.L().With(zap.String("command", "merge"))
		log.Info("merging register files", zap.String("dir", args[0]), zap.String("out", out))

		report, err := merge.Directory(args[0], out)
		if err != nil {
			return eris.Wrap(err, "merge")
		}

		fmt.Printf("Merged %d files (%d skipped), %d rows -> %s\n",
			report.FilesRead, report.FilesSkipped, report.Rows, out)
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("out", "merged.csv", "output CSV path")
	rootCmd.AddCommand(mergeCmd)
}
