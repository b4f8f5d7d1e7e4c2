// Package stats holds the small numeric helpers shared by the pipeline stages:
// interpolated quantiles, IQR fences and lenient number parsing.
package stats

import (
	"math"
	"sort"
)

// IQRMultiplier is the Tukey fence width used for outlier detection.
const IQRMultiplier = 1.5

// Quantile returns the q-th quantile of an ascending slice using linear
// interpolation between the two closest ranks (pos = q*(n-1)).
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Fence is the closed interval [Q1 - 1.5*IQR, Q3 + 1.5*IQR] of one sample.
type Fence struct {
	Q1    float64
	Q3    float64
	Lower float64
	Upper float64
}

// NewFence computes the IQR fence of vals. The input is not modified.
// A sample with IQR == 0 collapses the fence to a single point.
func NewFence(vals []float64) Fence {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	q1 := Quantile(cp, 0.25)
	q3 := Quantile(cp, 0.75)
	iqr := q3 - q1
	return Fence{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}
}

// IQR returns Q3 - Q1.
func (f Fence) IQR() float64 { return f.Q3 - f.Q1 }

// Outside reports whether v lies strictly below Lower or strictly above Upper.
func (f Fence) Outside(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// Round rounds v to the given number of decimals, halves away from zero.
func Round(v float64, decimals int) float64 {
	if decimals < 0 {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Bounds returns the minimum and maximum of vals; ok is false for empty input.
func Bounds(vals []float64) (lo, hi float64, ok bool) {
	if len(vals) == 0 {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}
