// Package aggregate groups matched points by constituency and computes the
// per-region statistics and quantile classifications behind the maps.
package aggregate

import (
	"sort"

	"github.com/dublin-research/dublin-geo/internal/cleaner"
	"github.com/dublin-research/dublin-geo/internal/model"
)

// Property aggregates matched property sales per region: row count and
// median cleaned price. Rows whose price fails to parse still count toward
// Sales but are excluded from the median. Null-region rows are skipped.
func Property(points []model.Matched) []model.PropertyStats {
	type acc struct {
		count  int
		prices []float64
	}
	byRegion := make(map[string]*acc)

	for _, p := range points {
		if p.Region == "" {
			continue
		}
		a := byRegion[p.Region]
		if a == nil {
			a = &acc{}
			byRegion[p.Region] = a
		}
		a.count++
		if v, ok := cleaner.ParsePrice(p.Value); ok {
			a.prices = append(a.prices, v)
		}
	}

	stats := make([]model.PropertyStats, 0, len(byRegion))
	for region, a := range byRegion {
		stats = append(stats, model.PropertyStats{
			Region:      region,
			Sales:       a.count,
			MedianPrice: Median(a.prices),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Region < stats[j].Region })
	return stats
}

// Planning aggregates matched planning cases per region: total, rejected,
// rejection rate and the independent sub-category counts.
func Planning(points []model.Matched) []model.PlanningStats {
	byRegion := make(map[string]*model.PlanningStats)

	for _, p := range points {
		if p.Region == "" {
			continue
		}
		s := byRegion[p.Region]
		if s == nil {
			s = &model.PlanningStats{Region: p.Region}
			byRegion[p.Region] = s
		}
		s.TotalApplications++

		flags := cleaner.ClassifyStatus(p.Value)
		if flags.Rejected {
			s.Rejected++
		}
		if flags.Refused {
			s.Refused++
		}
		if flags.Withdrawn {
			s.Withdrawn++
		}
		if flags.Invalid {
			s.Invalid++
		}
	}

	stats := make([]model.PlanningStats, 0, len(byRegion))
	for _, s := range byRegion {
		if s.TotalApplications > 0 {
			s.RejectionRate = 100 * float64(s.Rejected) / float64(s.TotalApplications)
		}
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Region < stats[j].Region })
	return stats
}

// Median returns the middle value of xs (mean of the middle two for even
// lengths), or 0 for an empty slice. The input is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
