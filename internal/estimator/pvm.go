package estimator

import (
	"fmt"
	"math"
	"time"

	"lmp-shapers/internal/market"
)

// PVMTable maps month-of-year and peak block to an averaged volatility
// multiplier, with a grand-average row across months appended.
type PVMTable struct {
	Blocks []market.Label
	Months map[time.Month]map[market.Label]float64
	Avg    map[market.Label]float64
}

// PVMResult pairs the nodal and hub multiplier tables:
// node[m,b] = nodeVol[m,b] / hubVol[m,b] and hub[m,b] = hubVol[m,b] /
// hubVol[m,"5x16"].
type PVMResult struct {
	Node *PVMTable
	Hub  *PVMTable
}

// PVM derives price-volatility multipliers from a node's and its reference
// hub's cash volatility matrices. Each ratio series is winsorized per block
// at the upper quantile (linear interpolation), averaged by calendar
// month-of-year, and topped with a grand-average row.
func PVM(nodeVol, hubVol *VolMatrix, clipQuantile float64) (*PVMResult, error) {
	if clipQuantile <= 0 || clipQuantile > 1 {
		return nil, fmt.Errorf("%w: clip quantile %v outside (0,1]", ErrInvalidParameter, clipQuantile)
	}
	if nodeVol == nil || hubVol == nil || len(nodeVol.Values) == 0 || len(hubVol.Values) == 0 {
		return nil, ErrNoData
	}

	blocks := hubVol.Blocks

	// Ratio matrices over the hub's month-end axis.
	nodeRatios := map[VolCell]float64{}
	hubRatios := map[VolCell]float64{}
	for _, me := range hubVol.MonthEnds {
		base, ok := hubVol.Lookup(me, market.Label5x16)
		for _, b := range blocks {
			hub, hubOK := hubVol.Lookup(me, b)
			if !hubOK {
				continue
			}
			if node, nodeOK := nodeVol.Lookup(me, b); nodeOK && hub != 0 {
				nodeRatios[VolCell{MonthEnd: me, Block: b}] = node / hub
			}
			if ok && base != 0 {
				hubRatios[VolCell{MonthEnd: me, Block: b}] = hub / base
			}
		}
	}
	if len(nodeRatios) == 0 {
		return nil, ErrNoData
	}

	node := averageByMonth(winsorizePerBlock(nodeRatios, blocks, clipQuantile), blocks)
	hub := averageByMonth(winsorizePerBlock(hubRatios, blocks, clipQuantile), blocks)
	return &PVMResult{Node: node, Hub: hub}, nil
}

// winsorizePerBlock clips each block's ratio series at its own upper
// quantile.
func winsorizePerBlock(ratios map[VolCell]float64, blocks []market.Label, q float64) map[VolCell]float64 {
	out := make(map[VolCell]float64, len(ratios))
	for _, b := range blocks {
		var vals []float64
		for cell, v := range ratios {
			if cell.Block == b {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		threshold := quantileLinear(vals, q)
		for cell, v := range ratios {
			if cell.Block != b {
				continue
			}
			out[cell] = math.Min(v, threshold)
		}
	}
	return out
}

// averageByMonth folds month-end rows into month-of-year averages and
// appends the grand average across the month rows.
func averageByMonth(ratios map[VolCell]float64, blocks []market.Label) *PVMTable {
	type key struct {
		month time.Month
		block market.Label
	}
	sums := map[key]float64{}
	counts := map[key]int{}
	for cell, v := range ratios {
		k := key{month: cell.MonthEnd.Month(), block: cell.Block}
		sums[k] += v
		counts[k]++
	}

	table := &PVMTable{
		Blocks: blocks,
		Months: map[time.Month]map[market.Label]float64{},
		Avg:    map[market.Label]float64{},
	}
	for k, sum := range sums {
		row, ok := table.Months[k.month]
		if !ok {
			row = map[market.Label]float64{}
			table.Months[k.month] = row
		}
		row[k.block] = sum / float64(counts[k])
	}

	for _, b := range blocks {
		var sum float64
		var n int
		for _, row := range table.Months {
			if v, ok := row[b]; ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			table.Avg[b] = sum / float64(n)
		}
	}
	return table
}
