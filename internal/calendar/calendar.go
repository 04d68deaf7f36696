// Package calendar computes the NERC holiday set and DST transition dates
// used by peak-block classification. All functions are pure; per-year results
// are memoized. Holiday rules follow the NAESB definitions
// (https://www.naesb.org//pdf/weq_iiptf050504w6.pdf).
package calendar

import (
	"sync"
	"time"
)

// holidayCache memoizes the six-holiday set per year. Recomputation on a
// racing miss is deterministic and idempotent, so sync.Map needs no extra
// locking.
var holidayCache sync.Map // int -> []time.Time

// Holidays returns the six NERC holidays observed in the given year:
// New Year's Day, Memorial Day, Independence Day, Labor Day, Thanksgiving,
// and Christmas. New Year's, Independence Day, and Christmas shift to the
// following Monday when they fall on a Sunday.
func Holidays(year int) []time.Time {
	if cached, ok := holidayCache.Load(year); ok {
		return cached.([]time.Time)
	}
	hols := []time.Time{
		newYearsDay(year),
		memorialDay(year),
		independenceDay(year),
		laborDay(year),
		thanksgivingDay(year),
		christmasDay(year),
	}
	holidayCache.Store(year, hols)
	return hols
}

// IsHoliday reports whether the calendar date of d is a NERC holiday.
// Only the year/month/day of d are considered.
func IsHoliday(d time.Time) bool {
	for _, h := range Holidays(d.Year()) {
		if h.Month() == d.Month() && h.Day() == d.Day() {
			return true
		}
	}
	return false
}

// SpringDST returns the second Sunday of March, when US clocks spring
// forward. Documented for consumers; timezone conversion itself relies on
// the IANA database rather than this date.
func SpringDST(year int) time.Time {
	return nthWeekday(year, time.March, time.Sunday, 2)
}

// FallDST returns the first Sunday of November, when US clocks fall back.
func FallDST(year int) time.Time {
	return nthWeekday(year, time.November, time.Sunday, 1)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the nth occurrence of the weekday within the month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := date(year, month, 1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

// lastWeekday returns the final occurrence of the weekday within the month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := date(year, month+1, 1).AddDate(0, 0, -1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// observed shifts Sunday holidays to the following Monday.
func observed(d time.Time) time.Time {
	if d.Weekday() == time.Sunday {
		return d.AddDate(0, 0, 1)
	}
	return d
}

func newYearsDay(year int) time.Time {
	return observed(date(year, time.January, 1))
}

func memorialDay(year int) time.Time {
	return lastWeekday(year, time.May, time.Monday)
}

func independenceDay(year int) time.Time {
	return observed(date(year, time.July, 4))
}

func laborDay(year int) time.Time {
	return nthWeekday(year, time.September, time.Monday, 1)
}

func thanksgivingDay(year int) time.Time {
	return nthWeekday(year, time.November, time.Thursday, 4)
}

func christmasDay(year int) time.Time {
	return observed(date(year, time.December, 25))
}
