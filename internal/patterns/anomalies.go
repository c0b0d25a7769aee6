package patterns

import (
	"github.com/montanaflynn/stats"
)

const minSamples = 3

// Outliers lists values further than two population standard deviations from the mean.
type Outliers struct {
	Anomalies []float64 `json:"anomalies"`
	Threshold float64   `json:"threshold"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
}

// Clusters is a gap-based grouping estimate over the sorted values.
type Clusters struct {
	PotentialClusters int     `json:"potential_clusters"`
	AverageGap        float64 `json:"average_gap"`
	LargeGaps         int     `json:"large_gaps"`
}

// DetectOutliers flags |x-mean| > 2σ in input order. It returns nil for fewer than three values.
func DetectOutliers(numbers []float64) *Outliers {
	if len(numbers) < minSamples {
		return nil
	}
	data := stats.Float64Data(numbers)
	mean, _ := stats.Mean(data)
	mn, _ := stats.Min(data)
	mx, _ := stats.Max(data)
	var sd float64
	if mx != mn {
		sd, _ = stats.StandardDeviationPopulation(data)
	}
	out := &Outliers{
		Anomalies: []float64{},
		Threshold: 2 * sd,
		Mean:      mean,
		StdDev:    sd,
	}
	for _, x := range numbers {
		d := x - mean
		if d < 0 {
			d = -d
		}
		if d > out.Threshold {
			out.Anomalies = append(out.Anomalies, x)
		}
	}
	return out
}

// DetectClusters treats sorted gaps wider than twice the average gap as cluster boundaries.
// It returns nil for fewer than three values.
func DetectClusters(numbers []float64) *Clusters {
	if len(numbers) < minSamples {
		return nil
	}
	s := sortedCopy(numbers)
	gaps := make([]float64, 0, len(s)-1)
	for i := 1; i < len(s); i++ {
		gaps = append(gaps, s[i]-s[i-1])
	}
	avg, _ := stats.Mean(gaps)

	c := &Clusters{AverageGap: avg}
	for _, g := range gaps {
		if g > 2*avg {
			c.LargeGaps++
		}
	}
	c.PotentialClusters = c.LargeGaps + 1
	return c
}
