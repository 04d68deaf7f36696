package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"lmp-shapers/internal/estimator"
	"lmp-shapers/internal/market"
)

// Splitter runs a splitter estimation and renders the twelve seasonal
// 2x16/Off ratios.
func (a *App) Splitter(ctx context.Context, opts SplitterOptions) error {
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

	lookback, clip := a.defaults(opts.LookbackYears, opts.ClipQuantile)
	start, end := estimator.SplitterWindow(opts.EvalDate, lookback)

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
		Time("window_start", start).
		Time("window_end", end).
		Msg("estimating splitter")

	splitter, err := estimator.EstimateSplitter(s, m, opts.EvalDate, lookback, clip)
	if err != nil {
		return err
	}

	renderSplitter(m, splitter)

	if opts.CSVPath != "" {
		if err := writeSplitterCSV(opts.CSVPath, m, splitter); err != nil {
			return err
		}
	}
	return nil
}

func renderSplitter(m market.Market, splitter estimator.Splitter) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer writer.Flush()

	fmt.Fprintf(writer, "%s 2x16 / Off splitter\t\n", m)
	fmt.Fprintln(writer, "Month\tRatio")
	for mo := time.January; mo <= time.December; mo++ {
		fmt.Fprintf(writer, "%s\t%.4f\n", mo.String()[:3], splitter[mo])
	}
}

func writeSplitterCSV(path string, m market.Market, splitter estimator.Splitter) error {
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

	if err := writer.Write([]string{"market", "month", "ratio"}); err != nil {
		return err
	}
	for mo := time.January; mo <= time.December; mo++ {
		record := []string{
			string(m),
			strconv.Itoa(int(mo)),
			strconv.FormatFloat(splitter[mo], 'f', 6, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}
