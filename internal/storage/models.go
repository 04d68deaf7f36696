package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"lmp-shapers/internal/series"
)

// LMPRow is one persisted hourly price observation. Price is scanned as an
// exact decimal from the numeric column; estimation converts to float64 at
// the series boundary.
type LMPRow struct {
	PriceDate time.Time
	Hour      int
	Price     decimal.Decimal
}

// ToSeries converts raw rows into the hourly series the estimators consume,
// normalising dates to midnight UTC.
func ToSeries(rows []LMPRow) series.Series {
	out := make(series.Series, 0, len(rows))
	for _, r := range rows {
		price, _ := r.Price.Float64()
		out = append(out, series.Observation{
			Date:  series.Day(r.PriceDate),
			Hour:  r.Hour,
			Price: price,
		})
	}
	return out
}
