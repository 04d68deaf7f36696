package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"lmp-shapers/internal/estimator"
	"lmp-shapers/internal/market"
)

// Shaper runs a shaper estimation and renders the resulting hourly (or
// sub-block) profile per month and peak block.
func (a *App) Shaper(ctx context.Context, opts ShaperOptions) error {
	m, err := market.Parse(opts.Market)
	if err != nil {
		return err
	}
	desc, err := market.Lookup(m)
	if err != nil {
		return err
	}

	mode, err := parseShaperMode(opts.Mode)
	if err != nil {
		return err
	}

	node, err := a.resolveNode(m, desc, opts.Node)
	if err != nil {
		return err
	}

	lookback, clip := a.defaults(opts.LookbackYears, opts.ClipQuantile)
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
		Str("mode", string(mode)).
		Time("window_start", start).
		Time("window_end", end).
		Msg("estimating shaper")

	shaper, err := estimator.EstimateShaper(s, m, mode, clip)
	if err != nil {
		return err
	}

	renderShaper(shaper, desc)

	if opts.CSVPath != "" {
		if err := writeShaperCSV(opts.CSVPath, shaper, desc); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		if mode != estimator.ModeHourly {
			return fmt.Errorf("--png requires hourly mode")
		}
		if err := writeShaperPNG(opts.PNGPath, shaper, desc); err != nil {
			return err
		}
	}
	return nil
}

func parseShaperMode(s string) (estimator.ShaperMode, error) {
	switch estimator.ShaperMode(s) {
	case "", estimator.ModeHourly:
		return estimator.ModeHourly, nil
	case estimator.ModeBlock:
		return estimator.ModeBlock, nil
	}
	return "", fmt.Errorf("unknown shaper mode %q (hourly or block)", s)
}

// shaperBuckets lists the row order for one peak block.
func shaperBuckets(shaper *estimator.Shaper, desc market.Descriptor, block market.Label) []estimator.Bucket {
	if shaper.Mode == estimator.ModeHourly {
		out := make([]estimator.Bucket, 0, 24)
		for h := 1; h <= 24; h++ {
			out = append(out, estimator.HourBucket(h))
		}
		return out
	}

	switch block {
	case market.Label5x16:
		return subBuckets("WD", 4)
	case market.Label2x16:
		return subBuckets("WE", 4)
	case market.Label7x8:
		return subBuckets("WN", 1)
	}
	return nil
}

func subBuckets(prefix string, n int) []estimator.Bucket {
	out := make([]estimator.Bucket, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, estimator.SubBucket(fmt.Sprintf("%s_%d", prefix, i)))
	}
	return out
}

func renderShaper(shaper *estimator.Shaper, desc market.Descriptor) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer writer.Flush()

	for _, block := range desc.Labels {
		fmt.Fprintf(writer, "%s %s shaper (%s)\t\n", shaper.Market, block, shaper.Mode)
		fmt.Fprint(writer, "Bucket")
		for mo := time.January; mo <= time.December; mo++ {
			fmt.Fprintf(writer, "\t%s", mo.String()[:3])
		}
		fmt.Fprintln(writer)

		for _, b := range shaperBuckets(shaper, desc, block) {
			line := b.String()
			any := false
			for mo := time.January; mo <= time.December; mo++ {
				if v, ok := shaper.Lookup(mo, block, b); ok {
					line += "\t" + strconv.FormatFloat(v, 'f', 4, 64)
					any = true
				} else {
					line += "\t-"
				}
			}
			if any {
				fmt.Fprintln(writer, line)
			}
		}
		fmt.Fprintln(writer)
	}
}

func writeShaperCSV(path string, shaper *estimator.Shaper, desc market.Descriptor) error {
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

	if err := writer.Write([]string{"market", "mode", "month", "block", "bucket", "ratio"}); err != nil {
		return err
	}

	for mo := time.January; mo <= time.December; mo++ {
		for _, block := range desc.Labels {
			for _, b := range shaperBuckets(shaper, desc, block) {
				v, ok := shaper.Lookup(mo, block, b)
				if !ok {
					continue
				}
				record := []string{
					string(shaper.Market),
					string(shaper.Mode),
					strconv.Itoa(int(mo)),
					string(block),
					b.String(),
					strconv.FormatFloat(v, 'f', 6, 64),
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}

	return writer.Error()
}

// writeShaperPNG charts the 24-hour weekday profile of each month: on-peak
// hours carry the weekday peak block's ratios, the rest the night block's.
func writeShaperPNG(path string, shaper *estimator.Shaper, desc market.Descriptor) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	peak, night := weekdayBlocks(desc)

	var seriesList []chart.Series
	for mo := time.January; mo <= time.December; mo++ {
		var xs, ys []float64
		for h := 1; h <= 24; h++ {
			block := night
			if h >= desc.PeakStart && h <= desc.PeakEnd {
				block = peak
			}
			if v, ok := shaper.Lookup(mo, block, estimator.HourBucket(h)); ok {
				xs = append(xs, float64(h))
				ys = append(ys, v)
			}
		}
		if len(xs) == 0 {
			continue
		}
		seriesList = append(seriesList, chart.ContinuousSeries{
			Name:    mo.String()[:3],
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name: "Hour ending",
		},
		YAxis: chart.YAxis{
			Name: "Hourly / block mean",
		},
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

// weekdayBlocks picks the labels that together cover a full weekday.
func weekdayBlocks(desc market.Descriptor) (peak, night market.Label) {
	if desc.SaturdayPeak {
		return market.Label6x16Weekday, market.LabelOffNight
	}
	return market.Label5x16, market.Label7x8
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
