// Package merge concatenates raw Property Price Register exports into a
// single UTF-8 CSV.
package merge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/dublin-research/dublin-geo/internal/fetcher"
)

// Report summarizes a merge run.
type Report struct {
	FilesRead    int
	FilesSkipped int
	Rows         int
}

// Directory merges every .csv and .xlsx file in dir into a single CSV at
// out. CSV inputs are read as Latin-1, the way the register publishes them.
// The first readable file defines the header; later files must match its
// column count or they are skipped with a warning, matching the original
// workflow's per-file error tolerance.
func Directory(dir, out string) (*Report, error) {
	log := zap.L().With(zap.String("component", "merge"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "merge: read directory %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".csv" || ext == ".xlsx" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, eris.Errorf("merge: no CSV or XLSX files found in %s", dir)
	}

	var report Report
	var header []string
	var rows [][]string

	for _, path := range paths {
		table, err := readAny(path)
		if err != nil {
			log.Warn("skipping unreadable input", zap.String("path", path), zap.Error(err))
			report.FilesSkipped++
			continue
		}

		if header == nil {
			header = table.Header
		} else if len(table.Header) != len(header) {
			log.Warn("skipping input with mismatched columns",
				zap.String("path", path),
				zap.Int("want", len(header)),
				zap.Int("got", len(table.Header)),
			)
			report.FilesSkipped++
			continue
		}

		rows = append(rows, table.Rows...)
		report.FilesRead++
		log.Info("merged input", zap.String("path", path), zap.Int("rows", len(table.Rows)))
	}

	if header == nil {
		return nil, eris.Errorf("merge: no readable inputs in %s", dir)
	}

	if err := fetcher.WriteCSV(out, header, rows); err != nil {
		return nil, eris.Wrap(err, "merge: write output")
	}

	report.Rows = len(rows)
	return &report, nil
}

func readAny(path string) (*fetcher.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fetcher.ReadXLSX(path)
	}
	return fetcher.ReadCSV(path, fetcher.CSVOptions{Latin1: true})
}
