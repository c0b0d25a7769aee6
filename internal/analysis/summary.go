package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Stats holds descriptive statistics over the raw (non-deduplicated) number set.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	// Mode is nil when every value occurs exactly once.
	Mode     []float64 `json:"mode"`
	Range    float64   `json:"range"`
	StdDev   float64   `json:"std_dev"`
	Skewness float64   `json:"skewness"`
	Kurtosis float64   `json:"kurtosis"` // excess kurtosis
}

// Summarize computes descriptive statistics. It returns nil for an empty set.
// Standard deviation is the population form; skewness and kurtosis are 0 when it is 0.
func Summarize(numbers []float64) *Stats {
	if len(numbers) == 0 {
		return nil
	}
	data := stats.Float64Data(numbers)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	mn, _ := stats.Min(data)
	mx, _ := stats.Max(data)
	var sd float64
	// constant sets are degenerate even when rounding leaves a tiny residual variance
	if mx != mn {
		sd, _ = stats.StandardDeviationPopulation(data)
	}

	st := &Stats{
		Mean:   mean,
		Median: median,
		Mode:   Mode(numbers),
		Range:  mx - mn,
		StdDev: sd,
	}
	st.Skewness, st.Kurtosis = shape(numbers, mean, sd)
	return st
}

// Mode returns the most frequent values in ascending order, or nil when all values are unique.
func Mode(numbers []float64) []float64 {
	if len(numbers) == 0 {
		return nil
	}
	freq := make(map[float64]int, len(numbers))
	maxCnt := 0
	for _, n := range numbers {
		freq[n]++
		if freq[n] > maxCnt {
			maxCnt = freq[n]
		}
	}
	var modes []float64
	for v, c := range freq {
		if c == maxCnt {
			modes = append(modes, v)
		}
	}
	if len(modes) == len(numbers) {
		return nil
	}
	sort.Float64s(modes)
	return modes
}

// shape returns the third standardized moment and the fourth minus 3.
func shape(numbers []float64, mean, sd float64) (skew, kurt float64) {
	if sd == 0 {
		return 0, 0
	}
	var m3, m4 float64
	for _, x := range numbers {
		z := (x - mean) / sd
		z2 := z * z
		m3 += z2 * z
		m4 += z2 * z2
	}
	n := float64(len(numbers))
	skew = m3 / n
	kurt = m4/n - 3
	if math.IsNaN(skew) || math.IsInf(skew, 0) {
		skew = 0
	}
	if math.IsNaN(kurt) || math.IsInf(kurt, 0) {
		kurt = 0
	}
	return skew, kurt
}
