// Package estimator implements the shaper, splitter, and cash-volatility/PVM
// estimations over in-memory hourly price series. Every estimate is a pure,
// single-shot computation: parameters are validated up front, empty inputs
// surface as ErrNoData, and nothing is cached between calls.
package estimator

import (
	"fmt"
	"time"

	"lmp-shapers/internal/market"
	"lmp-shapers/internal/series"
)

// ShaperMode selects hourly or time-block shaper output.
type ShaperMode string

const (
	ModeHourly ShaperMode = "hourly"
	ModeBlock  ShaperMode = "block"
)

// Bucket addresses one shaper column: an hour-ending in hourly mode, or a
// named sub-block (WD_1..WD_4, WE_1..WE_4, WN_1) in block mode.
type Bucket struct {
	Hour int
	Sub  string
}

// HourBucket addresses hour-ending h.
func HourBucket(h int) Bucket { return Bucket{Hour: h} }

// SubBucket addresses a named time block.
func SubBucket(name string) Bucket { return Bucket{Sub: name} }

func (b Bucket) String() string {
	if b.Sub != "" {
		return b.Sub
	}
	return fmt.Sprintf("%d", b.Hour)
}

// ShaperCell identifies one entry of a shaper.
type ShaperCell struct {
	Month  time.Month
	Block  market.Label
	Bucket Bucket
}

// Shaper holds hourly-mean / block-mean price ratios keyed by
// (month, peak block, bucket). Cells with no observations in the window are
// absent from the map, never zero.
type Shaper struct {
	Market market.Market
	Mode   ShaperMode
	Ratios map[ShaperCell]float64
}

// Lookup returns the ratio for a cell, reporting whether it was observed.
func (s *Shaper) Lookup(month time.Month, block market.Label, b Bucket) (float64, bool) {
	v, ok := s.Ratios[ShaperCell{Month: month, Block: block, Bucket: b}]
	return v, ok
}

// shaperMarkets are the markets the shaper methodology is defined for.
func shaperSupported(m market.Market, mode ShaperMode) error {
	desc, err := market.Lookup(m)
	if err != nil {
		return err
	}
	if !desc.Shaper {
		return fmt.Errorf("%w: shaper not defined for %s", market.ErrUnsupportedMarket, m)
	}
	switch mode {
	case ModeHourly:
	case ModeBlock:
		if !desc.BlockShaper {
			return fmt.Errorf("%w: block-mode shaper not defined for %s", market.ErrUnsupportedMarket, m)
		}
	default:
		return fmt.Errorf("%w: unknown shaper mode %q", ErrInvalidParameter, mode)
	}
	return nil
}

// EstimateShaper computes the intra-block hourly profile of the series:
// mean price per (month, peak block, hour) divided by mean price per
// (month, peak block). Prices are winsorized at the clip quantile first.
// In block mode the 16 on-peak hours collapse into four named 4-hour
// sub-blocks and the night hours into WN_1.
func EstimateShaper(s series.Series, m market.Market, mode ShaperMode, clipQuantile float64) (*Shaper, error) {
	if err := shaperSupported(m, mode); err != nil {
		return nil, err
	}
	if clipQuantile <= 0 || clipQuantile > 1 {
		return nil, fmt.Errorf("%w: clip quantile %v outside (0,1]", ErrInvalidParameter, clipQuantile)
	}
	if len(s) == 0 {
		return nil, ErrNoData
	}

	prices := s.Prices()
	clipUpper(prices, quantileHigher(prices, clipQuantile))

	type hourKey struct {
		month time.Month
		block market.Label
		hour  int
	}
	type blockKey struct {
		month time.Month
		block market.Label
	}

	hourSum := map[hourKey]float64{}
	hourN := map[hourKey]int{}
	blockSum := map[blockKey]float64{}
	blockN := map[blockKey]int{}

	for i, o := range s {
		label, err := market.Classify(o.Date, o.Hour, m)
		if err != nil {
			return nil, err
		}
		hk := hourKey{month: o.Date.Month(), block: label, hour: o.Hour}
		bk := blockKey{month: hk.month, block: label}
		hourSum[hk] += prices[i]
		hourN[hk]++
		blockSum[bk] += prices[i]
		blockN[bk]++
	}

	hourly := make(map[ShaperCell]float64, len(hourSum))
	for hk, sum := range hourSum {
		bk := blockKey{month: hk.month, block: hk.block}
		blockMean := blockSum[bk] / float64(blockN[bk])
		cell := ShaperCell{Month: hk.month, Block: hk.block, Bucket: HourBucket(hk.hour)}
		hourly[cell] = (sum / float64(hourN[hk])) / blockMean
	}

	if mode == ModeHourly {
		return &Shaper{Market: m, Mode: mode, Ratios: hourly}, nil
	}

	desc, _ := market.Lookup(m)
	return &Shaper{Market: m, Mode: mode, Ratios: collapseToSubBlocks(hourly, desc)}, nil
}

// collapseToSubBlocks folds hourly ratios into the named 4-hour sub-blocks.
// Each sub-block ratio is the plain mean of its constituent hourly ratios,
// over the hours actually observed.
func collapseToSubBlocks(hourly map[ShaperCell]float64, desc market.Descriptor) map[ShaperCell]float64 {
	sums := map[ShaperCell]float64{}
	counts := map[ShaperCell]int{}

	for cell, ratio := range hourly {
		name, ok := subBlockName(cell.Block, cell.Bucket.Hour, desc.PeakStart)
		if !ok {
			continue
		}
		out := ShaperCell{Month: cell.Month, Block: cell.Block, Bucket: SubBucket(name)}
		sums[out] += ratio
		counts[out]++
	}

	blocks := make(map[ShaperCell]float64, len(sums))
	for cell, sum := range sums {
		blocks[cell] = sum / float64(counts[cell])
	}
	return blocks
}

// subBlockName maps an on-peak hour to its 4-hour sub-block, counted from
// the market's on-peak window start: WD_1..WD_4 for 5x16, WE_1..WE_4 for
// 2x16. All 7x8 hours share the single WN_1 night bucket.
func subBlockName(block market.Label, hour, peakStart int) (string, bool) {
	if block == market.Label7x8 {
		return "WN_1", true
	}

	var prefix string
	switch block {
	case market.Label5x16:
		prefix = "WD"
	case market.Label2x16:
		prefix = "WE"
	default:
		return "", false
	}

	idx := (hour - peakStart) / 4
	if idx < 0 || idx > 3 {
		return "", false
	}
	return fmt.Sprintf("%s_%d", prefix, idx+1), true
}
