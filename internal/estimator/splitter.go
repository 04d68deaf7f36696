package estimator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"lmp-shapers/internal/calendar"
	"lmp-shapers/internal/market"
	"lmp-shapers/internal/series"
)

// kernelBandwidth is the seasonal Gaussian kernel bandwidth in months, per
// the risk methodology paper.
const kernelBandwidth = 0.5

// decayHalfLifeDays converts observation age into half-life units.
const decayHalfLifeDays = 365.0

// Splitter maps each target month 1-12 to the ratio of the weighted 2x16
// block average price to the weighted Off block average price.
type Splitter map[time.Month]float64

// SplitterWindow reports the [start, end] date range a splitter estimation
// will consume for the given evaluation date: the month-end strictly before
// evalDate, back 12*lookbackYears months to a month start. Callers fetching
// raw rows should extend one day below start so timezone re-basing can
// back-fill the first hours.
func SplitterWindow(evalDate time.Time, lookbackYears int) (start, end time.Time) {
	end = prevMonthEnd(evalDate)
	return windowStart(end, lookbackYears), end
}

// EstimateSplitter computes seasonal 2x16/Off ratios using Gaussian-kernel
// seasonal weighting and half-life decay over daily block prices.
//
// Each day in the window gets one mean 2x16 price (where qualifying hours
// exist) and one mean Off price. Day weights combine the seasonal kernel,
// the age decay 0.5^(years+1), and for the Off leg a day-type weight of 1
// for full 24-off-hour days and 1/3 for 8-off-hour weekdays. A day missing
// one category is excluded only from that category's sums.
func EstimateSplitter(s series.Series, m market.Market, evalDate time.Time, lookbackYears int, clipQuantile float64) (Splitter, error) {
	desc, err := market.Lookup(m)
	if err != nil {
		return nil, err
	}
	if !desc.Splitter {
		return nil, fmt.Errorf("%w: splitter not defined for %s", market.ErrUnsupportedMarket, m)
	}
	if lookbackYears < 1 {
		return nil, fmt.Errorf("%w: lookback %d years below one", ErrInvalidParameter, lookbackYears)
	}
	if clipQuantile <= 0 || clipQuantile > 1 {
		return nil, fmt.Errorf("%w: clip quantile %v outside (0,1]", ErrInvalidParameter, clipQuantile)
	}

	start, end := SplitterWindow(evalDate, lookbackYears)
	s = s.Between(start, end)
	if len(s) == 0 {
		return nil, ErrNoData
	}

	prices := s.Prices()
	clipUpper(prices, quantileHigher(prices, clipQuantile))

	// One mean price per (date, category): the 2x16 label on one side and
	// the collapsed Off block on the other.
	twoSixteenSum := map[time.Time]float64{}
	twoSixteenN := map[time.Time]int{}
	offSum := map[time.Time]float64{}
	offN := map[time.Time]int{}

	for i, o := range s {
		label, err := market.Classify(o.Date, o.Hour, m)
		if err != nil {
			return nil, err
		}
		if label == market.Label2x16 {
			twoSixteenSum[o.Date] += prices[i]
			twoSixteenN[o.Date]++
		}
		collapsed, err := market.Collapse(label, m)
		if err != nil {
			return nil, err
		}
		if collapsed == market.LabelOff {
			offSum[o.Date] += prices[i]
			offN[o.Date]++
		}
	}

	seen := map[time.Time]bool{}
	var days []time.Time
	for _, o := range s {
		if !seen[o.Date] {
			seen[o.Date] = true
			days = append(days, o.Date)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	result := make(Splitter, 12)
	for target := time.January; target <= time.December; target++ {
		var sumW216, sumP216, sumWOff, sumPOff float64
		for _, d := range days {
			kernel := normPDF(seasonalDistance(d.Month(), target) / kernelBandwidth)
			decay := decayFactor(d, evalDate)

			if n := twoSixteenN[d]; n > 0 {
				w := kernel * decay
				sumW216 += w
				sumP216 += w * twoSixteenSum[d] / float64(n)
			}
			if n := offN[d]; n > 0 {
				w := kernel * decay * offDayWeight(d)
				sumWOff += w
				sumPOff += w * offSum[d] / float64(n)
			}
		}
		if sumW216 == 0 || sumWOff == 0 {
			return nil, fmt.Errorf("%w: no 2x16 or off-peak days for month %d", ErrNoData, target)
		}
		result[target] = (sumP216 / sumW216) / (sumPOff / sumWOff)
	}

	return result, nil
}

// decayFactor halves an observation's weight per year of age, shifted one
// half-life so even the freshest day is discounted.
func decayFactor(day, evalDate time.Time) float64 {
	years := evalDate.Sub(day).Abs().Hours() / 24 / decayHalfLifeDays
	return math.Pow(0.5, years+1)
}

// offDayWeight reflects the fractional off-peak coverage of the day: full
// 24-hour coverage on weekends and holidays, 8 night hours otherwise.
func offDayWeight(d time.Time) float64 {
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday || calendar.IsHoliday(d) {
		return 1
	}
	return 1.0 / 3.0
}
