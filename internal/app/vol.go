package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"lmp-shapers/internal/estimator"
	"lmp-shapers/internal/market"
)

// Vol runs a cash volatility estimation and renders the month-end by
// peak-block matrix of annualized volatilities.
func (a *App) Vol(ctx context.Context, opts VolOptions) error {
	m, err := market.Parse(opts.Market)
	if err != nil {
		return err
	}
	desc, err := market.Lookup(m)
	if err != nil {
		return err
	}

	node, err := a.resolveNode(m, desc, opts.Node)
	if err != nil {
		return err
	}

	lookback, _ := a.defaults(opts.LookbackYears, 0)
	start, end := estimator.EvalWindow(opts.EvalDate, lookback)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := a.loadSeries(ctx, store, node, desc, start, end)
	if err != nil {
		return err
	}

	a.Logger.Info().
		Str("market", string(m)).
		Str("node", node).
		Bool("zero_mean", opts.ZeroMean).
		Time("window_start", start).
		Time("window_end", end).
		Msg("estimating cash volatility")

	matrix, err := estimator.EstimateCashVol(s, m, start, end, opts.ZeroMean)
	if err != nil {
		return err
	}

	renderVol(node, matrix)

	if opts.CSVPath != "" {
		if err := writeVolCSV(opts.CSVPath, node, matrix); err != nil {
			return err
		}
	}
	return nil
}

func renderVol(node string, matrix *estimator.VolMatrix) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer writer.Flush()

	fmt.Fprintf(writer, "%s %s cash volatility\t\n", matrix.Market, node)
	fmt.Fprint(writer, "Month end")
	for _, b := range matrix.Blocks {
		fmt.Fprintf(writer, "\t%s", b)
	}
	fmt.Fprintln(writer)

	for _, me := range matrix.MonthEnds {
		fmt.Fprint(writer, me.Format("2006-01-02"))
		for _, b := range matrix.Blocks {
			if v, ok := matrix.Lookup(me, b); ok {
				fmt.Fprintf(writer, "\t%.4f", v)
			} else {
				fmt.Fprint(writer, "\t-")
			}
		}
		fmt.Fprintln(writer)
	}
}

func writeVolCSV(path, node string, matrix *estimator.VolMatrix) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"market", "node", "month_end", "block", "vol"}); err != nil {
		return err
	}
	for _, me := range matrix.MonthEnds {
		for _, b := range matrix.Blocks {
			v, ok := matrix.Lookup(me, b)
			if !ok {
				continue
			}
			record := []string{
				string(matrix.Market),
				node,
				me.Format("2006-01-02"),
				string(b),
				strconv.FormatFloat(v, 'f', 6, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	return writer.Error()
}
