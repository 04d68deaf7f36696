// Package series holds the hourly price table the estimators consume and the
// timezone re-basing between market time conventions.
package series

import (
	"sort"
	"time"
)

// Observation is one hourly price row. Date carries the calendar date at
// midnight UTC; Hour is the hour-ending in 1..24, expressed in the series'
// declared time convention. At most one observation exists per (date, hour).
type Observation struct {
	Date  time.Time
	Hour  int
	Price float64
}

// Series is an ordered hourly price table for one pricing node.
type Series []Observation

// Sort orders the series by (date, hour) in place.
func (s Series) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if !s[i].Date.Equal(s[j].Date) {
			return s[i].Date.Before(s[j].Date)
		}
		return s[i].Hour < s[j].Hour
	})
}

// Prices returns the price column.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Price
	}
	return out
}

// Between returns the sub-series with from <= date <= to.
func (s Series) Between(from, to time.Time) Series {
	out := make(Series, 0, len(s))
	for _, o := range s {
		if o.Date.Before(from) || o.Date.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
