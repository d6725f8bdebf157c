package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

var (
	// ErrEmptyValueSet indicates statistics were requested over zero values.
	ErrEmptyValueSet = errors.New("empty value set")
	// ErrPercentileOutOfRange indicates p is outside [0, 100].
	ErrPercentileOutOfRange = errors.New("percentile out of range")
)

// DefaultPercentileStep is the spacing of the percentile table.
const DefaultPercentileStep = 5

// Statistics summarizes a numeric sequence. All four fields are always set together.
type Statistics struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Median float64 `yaml:"median"`
	Mean   float64 `yaml:"mean"`
}

// PercentilePoint is one row of a percentile table.
type PercentilePoint struct {
	Label string  `yaml:"label"`
	P     float64 `yaml:"p"`
	Value float64 `yaml:"value"`
}

// Spread holds dispersion figures reported next to the summary.
type Spread struct {
	Count    int     `yaml:"count"`
	Sum      float64 `yaml:"sum"`
	StdDev   float64 `yaml:"std_dev"`
	Variance float64 `yaml:"variance"`
}

// Summarize computes min, max, median and mean. values is left untouched;
// sorting happens on a private copy.
func Summarize(values []float64) (Statistics, error) {
	if len(values) == 0 {
		return Statistics{}, ErrEmptyValueSet
	}
	sorted := sortedCopy(values)
	n := len(sorted)

	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2] + sorted[n/2-1]) / 2
	}
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return Statistics{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: median,
		Mean:   sum / float64(n),
	}, nil
}

// Percentile returns the p-th percentile (0..100) using linear interpolation
// between the closest ranks, matching numpy's default "linear" method.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyValueSet
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: %v", ErrPercentileOutOfRange, p)
	}
	return quantile(sortedCopy(values), p/100), nil
}

// PercentileTable evaluates the percentiles 0, step, 2*step, ... up to 100.
// 100 is always the last point even when step does not divide it.
func PercentileTable(values []float64, step int) ([]PercentilePoint, error) {
	if len(values) == 0 {
		return nil, ErrEmptyValueSet
	}
	if step < 1 || step > 100 {
		return nil, fmt.Errorf("%w: step %d", ErrPercentileOutOfRange, step)
	}
	sorted := sortedCopy(values)
	var out []PercentilePoint
	for p := 0; ; p += step {
		if p > 100 {
			p = 100
		}
		out = append(out, PercentilePoint{
			Label: fmt.Sprintf("%d%%", p),
			P:     float64(p),
			Value: quantile(sorted, float64(p)/100),
		})
		if p == 100 {
			break
		}
	}
	return out, nil
}

// Describe reports sample standard deviation and variance.
func Describe(values []float64) (Spread, error) {
	if len(values) == 0 {
		return Spread{}, ErrEmptyValueSet
	}
	s := stats.Sample{Xs: values}
	return Spread{
		Count:    len(values),
		Sum:      s.Sum(),
		StdDev:   s.StdDev(),
		Variance: s.Variance(),
	}, nil
}

func sortedCopy(values []float64) []float64 {
	cp := make([]float64, len(values))
	copy(cp, values)
	sort.Float64s(cp)
	return cp
}

// quantile expects sorted input and q in [0, 1].
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	a, b := sorted[lo], sorted[lo+1]
	w := pos - float64(lo)
	diff := b - a
	// interpolate from the nearer end to keep the result inside [a, b]
	if w >= 0.5 {
		return b - diff*(1-w)
	}
	return a + diff*w
}
