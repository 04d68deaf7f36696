package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lmp-shapers/internal/market"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fullDay(d time.Time, base float64) Series {
	s := make(Series, 0, 24)
	for h := 1; h <= 24; h++ {
		s = append(s, Observation{Date: d, Hour: h, Price: base + float64(h)})
	}
	return s
}

func TestConvertESTToEPTSummerShift(t *testing.T) {
	// In July, EPT is UTC-4 while EST stays UTC-5: every hour moves forward
	// by one, pushing HE24 onto the next date.
	in := fullDay(day(2024, time.July, 10), 0)
	out, err := Convert(in, market.EST, market.EPT)
	require.NoError(t, err)
	require.Len(t, out, 24)

	assert.Equal(t, day(2024, time.July, 10), out[0].Date)
	assert.Equal(t, 2, out[0].Hour)
	assert.Equal(t, in[0].Price, out[0].Price)

	last := out[len(out)-1]
	assert.Equal(t, day(2024, time.July, 11), last.Date)
	assert.Equal(t, 1, last.Hour)
}

func TestConvertESTToEPTWinterIdentity(t *testing.T) {
	// In January EPT and EST coincide.
	in := fullDay(day(2024, time.January, 10), 10)
	out, err := Convert(in, market.EST, market.EPT)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestConvertRoundTripOutsideDSTDays(t *testing.T) {
	for _, d := range []time.Time{
		day(2024, time.February, 15),
		day(2024, time.June, 1),
		day(2024, time.October, 20),
	} {
		in := fullDay(d, 100)
		there, err := Convert(in, market.EST, market.EPT)
		require.NoError(t, err)
		back, err := Convert(there, market.EPT, market.EST)
		require.NoError(t, err)
		assert.Equal(t, in, back, "round trip for %s", d.Format("2006-01-02"))
	}
}

func TestConvertSpringForwardDrops23Hours(t *testing.T) {
	// 2024-03-10 springs forward in America/New_York. Feeding the two days
	// around the transition through EST->EPT leaves the transition date with
	// 23 wall-clock slots; the missing slot is passed through unreconciled.
	in := append(fullDay(day(2024, time.March, 10), 0), fullDay(day(2024, time.March, 11), 0)...)
	out, err := Convert(in, market.EST, market.EPT)
	require.NoError(t, err)

	counts := map[time.Time]int{}
	for _, o := range out {
		counts[o.Date]++
	}
	assert.Equal(t, 23, counts[day(2024, time.March, 10)])
}

func TestConvertFallBackDoublesAnHour(t *testing.T) {
	// 2024-11-03 falls back: the EPT date gains a 25th slot (HE2 doubled).
	// The prior EST day is included because its HE24 back-fills the target
	// date's first slot.
	in := append(fullDay(day(2024, time.November, 2), 0), fullDay(day(2024, time.November, 3), 0)...)
	out, err := Convert(in, market.EST, market.EPT)
	require.NoError(t, err)

	hours := map[int]int{}
	for _, o := range out {
		if o.Date.Equal(day(2024, time.November, 3)) {
			hours[o.Hour]++
		}
	}
	total := 0
	for _, n := range hours {
		total += n
	}
	assert.Equal(t, 25, total)
	assert.Equal(t, 2, hours[2])
}

func TestConvertSameConventionCopies(t *testing.T) {
	in := fullDay(day(2024, time.July, 10), 0)
	out, err := Convert(in, market.EPT, market.EPT)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out[0].Price = -1
	assert.NotEqual(t, in[0].Price, out[0].Price)
}

func TestSeriesSortAndBetween(t *testing.T) {
	s := Series{
		{Date: day(2024, time.July, 11), Hour: 1, Price: 3},
		{Date: day(2024, time.July, 10), Hour: 2, Price: 2},
		{Date: day(2024, time.July, 10), Hour: 1, Price: 1},
	}
	s.Sort()
	assert.Equal(t, 1.0, s[0].Price)
	assert.Equal(t, 2.0, s[1].Price)
	assert.Equal(t, 3.0, s[2].Price)

	sub := s.Between(day(2024, time.July, 10), day(2024, time.July, 10))
	assert.Len(t, sub, 2)
}
