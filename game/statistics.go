package game

import (
	"math"
	"sort"
)

// Sum ...
func Sum(data []float64) (result float64) {
	for _, v := range data {
		result += v
	}
	return result
}

// Mean ...
func Mean(data []float64) float64 {
	count := float64(len(data))
	if count == 0 {
		return 0
	}
	return Sum(data) / count
}

// Median sorts a copy of data and returns its middle value.
func Median(data []float64) float64 {
	return Percentile(data, 0.5)
}

// Percentile returns the value under which the fraction p of data falls, using the nearest rank.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}

// Variance ...
func Variance(data []float64) (variance float64) {
	count := float64(len(data))
	if count == 0 {
		return 0.0
	}
	mean := Sum(data) / count

	for _, number := range data {
		variance += math.Pow(number-mean, 2)
	}
	return variance / count
}

// StandardDeviation ...
func StandardDeviation(data []float64) float64 {
	return math.Sqrt(Variance(data))
}
