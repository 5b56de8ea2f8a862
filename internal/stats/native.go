package stats

import (
	"context"
	"math"
	"sort"

	"github.com/sheetchart/backend/internal/models"
	"github.com/shopspring/decimal"
)

// NativeEngine computes statistics in process. Sum and mean are accumulated in decimal so
// that inputs such as 0.1 + 0.2 add up exactly.
type NativeEngine struct{}

func NewNativeEngine() *NativeEngine {
	return &NativeEngine{}
}

func (e *NativeEngine) Name() string {
	return EngineNative
}

func (e *NativeEngine) Compute(_ context.Context, values []float64) (*models.StatsResult, error) {
	n := len(values)
	if n == 0 {
		return nil, &models.EmptyColumnError{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := decimal.Zero
	for _, v := range sorted {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	mean := sum.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
	min, max := sorted[0], sorted[n-1]
	// rounding in the division must not push the mean outside the sample
	mean = math.Min(math.Max(mean, min), max)

	return &models.StatsResult{
		Count:  n,
		Mean:   mean,
		Median: Quantile(sorted, 0.5),
		Std:    sampleStd(sorted, mean),
		Min:    min,
		Max:    max,
		Sum:    sum.InexactFloat64(),
		Q25:    Quantile(sorted, 0.25),
		Q75:    Quantile(sorted, 0.75),
	}, nil
}

// Quantile returns the p-quantile of sorted using linear interpolation between closest ranks.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// sampleStd is the n-1 standard deviation; a single value has zero spread.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
