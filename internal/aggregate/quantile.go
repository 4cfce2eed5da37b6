package aggregate

import "sort"

// Quantile returns the q-th empirical quantile (0..1) of sorted values using
// linear interpolation between order statistics.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n == 1:
		return sorted[0]
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Tertiles bins each region's value into class 0, 1 or 2 at the empirical
// 33rd/66th percentiles. Boundaries are computed over exactly the regions
// present in the map, so regions dropped by the join never influence the
// cut points.
func Tertiles(values map[string]float64) map[string]int {
	if len(values) == 0 {
		return map[string]int{}
	}

	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		sorted = append(sorted, v)
	}
	sort.Float64s(sorted)

	lower := Quantile(sorted, 1.0/3.0)
	upper := Quantile(sorted, 2.0/3.0)

	classes := make(map[string]int, len(values))
	for region, v := range values {
		switch {
		case v <= lower:
			classes[region] = 0
		case v <= upper:
			classes[region] = 1
		default:
			classes[region] = 2
		}
	}
	return classes
}

// BivariateClass combines two tertile classes into one of 9 joint classes,
// row-major: x class 0..2 across, y class 0..2 up.
func BivariateClass(xClass, yClass int) int {
	return yClass*3 + xClass
}
