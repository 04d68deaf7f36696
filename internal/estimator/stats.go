package estimator

import (
	"math"
	"sort"
	"time"
)

// annualBasisDays is the day-count basis used to annualize return variance.
const annualBasisDays = 360

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd is the n-1 standard deviation.
func sampleStd(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// rms is the root mean square, the zero-mean volatility estimate.
func rms(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var ss float64
	for _, x := range xs {
		ss += x * x
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// quantileHigher returns the q-th quantile rounding up to the next observed
// value rather than interpolating between two observations.
func quantileHigher(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	rank := q * float64(len(sorted)-1)
	idx := int(math.Ceil(rank))
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// quantileLinear returns the q-th quantile with linear interpolation between
// adjacent observations.
func quantileLinear(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// clipUpper caps every value at the threshold, in place.
func clipUpper(xs []float64, threshold float64) {
	for i, x := range xs {
		if x > threshold {
			xs[i] = threshold
		}
	}
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

// seasonalDistance is the circular month distance between two months of the
// year, in 0..6.
func seasonalDistance(a, b time.Month) float64 {
	d := math.Abs(float64(a) - float64(b))
	if d > 6 {
		d = 12 - d
	}
	return d
}

// monthEnd returns the last calendar day of t's month.
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// prevMonthEnd returns the last month-end strictly before t.
func prevMonthEnd(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 0, -1)
}

// monthEndsBetween lists the month-end dates falling inside [from, to].
func monthEndsBetween(from, to time.Time) []time.Time {
	var out []time.Time
	for me := monthEnd(from); !me.After(to); me = monthEnd(me.AddDate(0, 0, 1)) {
		if !me.Before(from) {
			out = append(out, me)
		}
	}
	return out
}

// EvalWindow reports the [start, end] date range shaper and volatility runs
// consume: evalDate itself when it falls on a month-end, otherwise the
// month-end before it, back 12*lookbackYears months to a month start.
func EvalWindow(evalDate time.Time, lookbackYears int) (start, end time.Time) {
	end = prevMonthEnd(evalDate.AddDate(0, 0, 1))
	return windowStart(end, lookbackYears), end
}

// windowStart steps back 12*lookbackYears month starts from the window end.
// For end 2024-06-30 and two years of lookback the window opens 2022-07-01.
func windowStart(end time.Time, lookbackYears int) time.Time {
	first := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(12*lookbackYears - 1), 0)
}
