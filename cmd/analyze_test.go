package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dublin-research/dublin-geo/internal/fetcher"
)

func TestTableToPoints(t *testing.T) {
	table := &fetcher.Table{
		Header: []string{"address", "price", "latitude", "longitude"},
		Rows: [][]string{
			{"1 Main St", "€250,000", "53.35", "-6.26"},
			{"2 Main St", "€300,000", "", ""},
			{"3 Main St", "€100,000", "not-a-number", "-6.26"},
		},
	}

	points, err := tableToPoints(table, "latitude", "longitude", "price")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 1, points[0].Row)
	assert.InDelta(t, 53.35, points[0].Latitude, 1e-9)
	assert.Equal(t, "€250,000", points[0].Value)
	assert.Equal(t, table.Rows[0], points[0].Raw)

	// Missing and unparseable coordinates come through as zero for the
	// cleaner to drop.
	assert.Zero(t, points[1].Latitude)
	assert.Zero(t, points[2].Latitude)
}

func TestTableToPointsMissingColumns(t *testing.T) {
	table := &fetcher.Table{Header: []string{"address"}, Rows: nil}

	_, err := tableToPoints(table, "latitude", "longitude", "price")
	require.Error(t, err)

	table.Header = []string{"latitude", "longitude"}
	_, err = tableToPoints(table, "latitude", "longitude", "price")
	require.Error(t, err)
}

func TestLoadStatColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	csv := "region,sales,median_price\n" +
		"Dublin Central,120,350000\n" +
		"Dublin Bay North,90,410000\n" +
		",5,100000\n" +
		"Dublin West,10,n/a\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	values, err := loadStatColumn(path, "median_price")
	require.NoError(t, err)

	// The blank region and the unparseable value are skipped.
	assert.Equal(t, map[string]float64{
		"Dublin Central":   350000,
		"Dublin Bay North": 410000,
	}, values)
}

func TestLoadStatColumnMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, os.WriteFile(path, []byte("region,sales\nA,1\n"), 0o644))

	_, err := loadStatColumn(path, "median_price")
	require.Error(t, err)
}
