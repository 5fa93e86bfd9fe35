package issues

import "sort"

// Mean returns the arithmetic mean, or nil for an empty input. Callers
// serialize the nil straight into reports as an absent value instead of
// special-casing empty groups.
func Mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// Median returns the middle value (average of the two middle values for an
// even count), or nil for an empty input.
func Median(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 0 {
		m = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		m = sorted[mid]
	}
	return &m
}

// Min returns the smallest value, or nil for an empty input.
func Min(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return &m
}

// Max returns the largest value, or nil for an empty input.
func Max(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return &m
}

// Sum returns the total, or nil for an empty input.
func Sum(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return &sum
}

// meanOrZero is Mean for callers that want a plain number for arithmetic.
func meanOrZero(values []float64) float64 {
	if m := Mean(values); m != nil {
		return *m
	}
	return 0
}
