package estimator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"lmp-shapers/internal/market"
	"lmp-shapers/internal/series"
)

// VolCell identifies one volatility matrix entry.
type VolCell struct {
	MonthEnd time.Time
	Block    market.Label
}

// VolMatrix holds annualized realized volatility per (month-end, peak block)
// over a window. Month-ends with no computable returns for a block are
// absent from Values.
type VolMatrix struct {
	Market    market.Market
	MonthEnds []time.Time
	Blocks    []market.Label
	Values    map[VolCell]float64
}

// Lookup returns the volatility for a cell, reporting whether it exists.
func (v *VolMatrix) Lookup(monthEnd time.Time, block market.Label) (float64, bool) {
	val, ok := v.Values[VolCell{MonthEnd: monthEnd, Block: block}]
	return val, ok
}

// EstimateCashVol computes annualized realized volatility of daily block
// prices on a 360-day basis.
//
// The series is classified and aggregated to one mean price per (date, peak
// block). Days without an observation for a block are dropped, not filled;
// log-price differences between consecutive available days are scaled by
// sqrt(elapsedDays/360) to annualize the unevenly spaced samples. Monthly
// figures group by calendar month-end: RMS of the scaled returns under the
// zero-mean assumption, sample standard deviation otherwise.
func EstimateCashVol(s series.Series, m market.Market, start, end time.Time, zeroMean bool) (*VolMatrix, error) {
	desc, err := market.Lookup(m)
	if err != nil {
		return nil, err
	}
	if !desc.Vol {
		return nil, fmt.Errorf("%w: cash vol not defined for %s", market.ErrUnsupportedMarket, m)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: window start %s not before end %s", ErrInvalidParameter,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	s = s.Between(start, end)
	if len(s) == 0 {
		return nil, ErrNoData
	}

	type dayKey struct {
		date  time.Time
		block market.Label
	}
	sums := map[dayKey]float64{}
	counts := map[dayKey]int{}

	for _, o := range s {
		label, err := market.Classify(o.Date, o.Hour, m)
		if err != nil {
			return nil, err
		}
		k := dayKey{date: o.Date, block: label}
		sums[k] += o.Price
		counts[k]++
	}

	matrix := &VolMatrix{
		Market:    m,
		MonthEnds: monthEndsBetween(start, end),
		Blocks:    desc.Labels,
		Values:    map[VolCell]float64{},
	}
	inRange := map[time.Time]bool{}
	for _, me := range matrix.MonthEnds {
		inRange[me] = true
	}

	for _, block := range desc.Labels {
		var days []time.Time
		for k := range sums {
			if k.block == block {
				days = append(days, k.date)
			}
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
		if len(days) < 2 {
			continue
		}

		// Scaled log returns grouped by the month-end of the return date.
		grouped := map[time.Time][]float64{}
		for i := 1; i < len(days); i++ {
			prev, cur := days[i-1], days[i]
			prevPrice := sums[dayKey{date: prev, block: block}] / float64(counts[dayKey{date: prev, block: block}])
			curPrice := sums[dayKey{date: cur, block: block}] / float64(counts[dayKey{date: cur, block: block}])
			dt := cur.Sub(prev).Hours() / 24 / annualBasisDays
			r := (math.Log(curPrice) - math.Log(prevPrice)) / math.Sqrt(dt)
			me := monthEnd(cur)
			grouped[me] = append(grouped[me], r)
		}

		for me, returns := range grouped {
			if !inRange[me] {
				continue
			}
			var vol float64
			if zeroMean {
				vol = rms(returns)
			} else {
				vol = sampleStd(returns)
			}
			if math.IsNaN(vol) {
				continue
			}
			matrix.Values[VolCell{MonthEnd: me, Block: block}] = vol
		}
	}

	return matrix, nil
}
