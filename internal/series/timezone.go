package series

import (
	"time"

	"lmp-shapers/internal/market"
)

// Convert re-expresses a series from one time convention into another.
//
// Each hour-ending 1..24 is reduced to a 0..23 civil hour, combined with the
// date into a naive timestamp, localized to the source convention, converted
// to the target convention's wall clock, and split back into (date,
// hour-ending). The fixed source conventions used here (EST/CST/PST) never
// observe DST, so localization is unambiguous.
//
// In a DST-observing target zone the spring-forward day comes back with 23
// hour slots and the fall-back day with 25 (one slot doubled). No gap-filling
// or de-duplication is performed; callers that need a dense grid must
// reconcile downstream.
func Convert(s Series, from, to market.Convention) (Series, error) {
	if from == to {
		out := make(Series, len(s))
		copy(out, s)
		return out, nil
	}

	srcLoc, err := from.Location()
	if err != nil {
		return nil, err
	}
	dstLoc, err := to.Location()
	if err != nil {
		return nil, err
	}

	out := make(Series, 0, len(s))
	for _, o := range s {
		// HE h covers the hour beginning at civil hour h-1.
		naive := time.Date(o.Date.Year(), o.Date.Month(), o.Date.Day(), o.Hour-1, 0, 0, 0, srcLoc)
		local := naive.In(dstLoc)
		out = append(out, Observation{
			Date:  Day(local),
			Hour:  local.Hour() + 1,
			Price: o.Price,
		})
	}
	return out, nil
}
