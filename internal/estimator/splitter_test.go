package estimator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmp-shapers/internal/market"
	"lmp-shapers/internal/series"
)

// splitterSeries builds hourly PJM prices over the full splitter window for
// evalDate, pricing each hour via the supplied function.
func splitterSeries(t *testing.T, evalDate time.Time, lookback int, price func(d time.Time, label market.Label) float64) series.Series {
	t.Helper()
	start, end := SplitterWindow(evalDate, lookback)
	var s series.Series
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for h := 1; h <= 24; h++ {
			label, err := market.Classify(d, h, market.PJM)
			require.NoError(t, err)
			s = append(s, series.Observation{Date: d, Hour: h, Price: price(d, label)})
		}
	}
	return s
}

func TestSplitterWindow(t *testing.T) {
	eval := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)
	start, end := SplitterWindow(eval, 2)
	assert.Equal(t, time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), end)

	// Evaluating on a month-end still steps back to the prior month-end.
	start, end = SplitterWindow(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), 1)
	assert.Equal(t, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestSplitterFlatPricesGiveUnitRatio(t *testing.T) {
	eval := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)
	s := splitterSeries(t, eval, 2, func(time.Time, market.Label) float64 { return 35 })

	split, err := EstimateSplitter(s, market.PJM, eval, 2, 1)
	require.NoError(t, err)
	require.Len(t, split, 12)

	// Whatever the kernel and decay weights, identical daily prices in both
	// categories produce a ratio of exactly 1.
	for month, ratio := range split {
		assert.InDelta(t, 1.0, ratio, 1e-9, "month %d", month)
	}
}

func TestSplitterRespondsToWeekendPremium(t *testing.T) {
	eval := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)
	s := splitterSeries(t, eval, 2, func(d time.Time, label market.Label) float64 {
		if label == market.Label2x16 {
			return 60 // weekend daytime premium over all other off-peak hours
		}
		return 20
	})

	split, err := EstimateSplitter(s, market.PJM, eval, 2, 1)
	require.NoError(t, err)

	for month, ratio := range split {
		assert.Greater(t, ratio, 1.0, "month %d", month)
	}
}

func TestSplitterSeasonalKernelWeighting(t *testing.T) {
	eval := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)

	// Weekend daytime premium only during summer months: target months near
	// summer must see a higher splitter than winter targets.
	s := splitterSeries(t, eval, 2, func(d time.Time, label market.Label) float64 {
		if label == market.Label2x16 && (d.Month() >= time.June && d.Month() <= time.August) {
			return 80
		}
		return 20
	})

	split, err := EstimateSplitter(s, market.PJM, eval, 2, 1)
	require.NoError(t, err)

	assert.Greater(t, split[time.July], split[time.January])
	assert.Greater(t, split[time.July], split[time.April])
}

func TestSplitterDecayFavorsRecentYears(t *testing.T) {
	eval := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)

	// Recent year carries a weekend premium, the older year does not: the
	// result must sit closer to the recent regime than a plain average.
	cut := time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC)
	s := splitterSeries(t, eval, 2, func(d time.Time, label market.Label) float64 {
		if label == market.Label2x16 && !d.Before(cut) {
			return 40
		}
		return 20
	})

	split, err := EstimateSplitter(s, market.PJM, eval, 2, 1)
	require.NoError(t, err)
	for _, ratio := range split {
		assert.Greater(t, ratio, 1.15)
	}
}

func TestSplitterIsDeterministic(t *testing.T) {
	eval := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	s := splitterSeries(t, eval, 1, func(d time.Time, label market.Label) float64 {
		return 20 + float64(d.Day()) + float64(len(label))
	})

	first, err := EstimateSplitter(s, market.PJM, eval, 1, 0.95)
	require.NoError(t, err)
	second, err := EstimateSplitter(s, market.PJM, eval, 1, 0.95)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitterPreconditions(t *testing.T) {
	eval := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)
	d := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	s := series.Series{{Date: d, Hour: 12, Price: 30}}

	_, err := EstimateSplitter(s, market.CAISO, eval, 2, 1)
	assert.ErrorIs(t, err, market.ErrUnsupportedMarket)

	_, err = EstimateSplitter(s, market.ERCOT, eval, 2, 1)
	assert.ErrorIs(t, err, market.ErrUnsupportedMarket)

	_, err = EstimateSplitter(s, market.PJM, eval, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = EstimateSplitter(s, market.PJM, eval, 2, 1.01)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = EstimateSplitter(nil, market.PJM, eval, 2, 1)
	assert.ErrorIs(t, err, ErrNoData)

	// Observations entirely outside the window count as no data.
	old := series.Series{{Date: time.Date(2010, time.June, 1, 0, 0, 0, 0, time.UTC), Hour: 12, Price: 30}}
	_, err = EstimateSplitter(old, market.PJM, eval, 2, 1)
	assert.ErrorIs(t, err, ErrNoData)
}
