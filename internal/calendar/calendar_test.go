package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHolidays2024(t *testing.T) {
	hols := Holidays(2024)
	require.Len(t, hols, 6)

	want := []time.Time{
		day(2024, time.January, 1),    // Monday, no shift
		day(2024, time.May, 27),       // last Monday of May
		day(2024, time.July, 4),       // Thursday, no shift
		day(2024, time.September, 2),  // first Monday of September
		day(2024, time.November, 28),  // fourth Thursday of November
		day(2024, time.December, 25),  // Wednesday, no shift
	}
	assert.Equal(t, want, hols)
}

func TestSundayHolidaysObservedMonday(t *testing.T) {
	// 2022-12-25 and 2023-01-01 both fall on a Sunday.
	assert.True(t, IsHoliday(day(2022, time.December, 26)))
	assert.False(t, IsHoliday(day(2022, time.December, 25)))

	assert.True(t, IsHoliday(day(2023, time.January, 2)))
	assert.False(t, IsHoliday(day(2023, time.January, 1)))

	// 2021-07-04 was a Sunday, observed 2021-07-05.
	assert.True(t, IsHoliday(day(2021, time.July, 5)))
	assert.False(t, IsHoliday(day(2021, time.July, 4)))
}

func TestThanksgivingRule(t *testing.T) {
	// Spot-check several years against known dates.
	cases := map[int]time.Time{
		2021: day(2021, time.November, 25),
		2022: day(2022, time.November, 24),
		2023: day(2023, time.November, 23),
		2024: day(2024, time.November, 28),
	}
	for year, want := range cases {
		assert.Equal(t, want, thanksgivingDay(year), "year %d", year)
	}
}

func TestDSTDates(t *testing.T) {
	assert.Equal(t, day(2024, time.March, 10), SpringDST(2024))
	assert.Equal(t, day(2024, time.November, 3), FallDST(2024))
	assert.Equal(t, day(2023, time.March, 12), SpringDST(2023))
	assert.Equal(t, day(2023, time.November, 5), FallDST(2023))
}

func TestHolidaysMemoized(t *testing.T) {
	first := Holidays(2030)
	second := Holidays(2030)
	require.Equal(t, first, second)

	// Cached slice is reused, not recomputed.
	assert.Same(t, &first[0], &second[0])
}

func TestIsHolidayIgnoresClockTime(t *testing.T) {
	noon := time.Date(2024, time.July, 4, 12, 30, 0, 0, time.UTC)
	assert.True(t, IsHoliday(noon))
}
