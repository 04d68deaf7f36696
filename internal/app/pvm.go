package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"lmp-shapers/internal/estimator"
	"lmp-shapers/internal/market"
	"lmp-shapers/internal/refmap"
	"lmp-shapers/internal/storage"
)

// PVM runs price-volatility multiplier estimations: one node against its
// reference hub, or with All set every mapped node of the market.
func (a *App) PVM(ctx context.Context, opts PVMOptions) error {
	m, err := market.Parse(opts.Market)
	if err != nil {
		return err
	}
	desc, err := market.Lookup(m)
	if err != nil {
		return err
	}
	if !desc.Vol {
		return fmt.Errorf("%w: cash vol not defined for %s", market.ErrUnsupportedMarket, m)
	}

	lookback, clip := a.defaults(opts.LookbackYears, opts.ClipQuantile)
	start, end := estimator.EvalWindow(opts.EvalDate, lookback)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	run := pvmRun{
		app:      a,
		store:    store,
		market:   m,
		desc:     desc,
		start:    start,
		end:      end,
		clip:     clip,
		zeroMean: opts.ZeroMean,
		csvPath:  opts.CSVPath,
		hubVols:  map[string]*estimator.VolMatrix{},
	}

	if !opts.All {
		node, err := a.resolveNode(m, desc, opts.Node)
		if err != nil {
			return err
		}
		hub := opts.Hub
		if hub == "" {
			hub = a.Config.HubNode(string(m), desc.HubNode)
		}
		if hub == "" {
			return fmt.Errorf("no reference hub for %s; pass --hub", m)
		}
		return run.one(ctx, node, hub)
	}

	mappings, err := refmap.Load(a.Config.RefMap.Path, a.Config.RefMap.Sheet)
	if err != nil {
		return err
	}
	mapped := refmap.ForMarket(mappings, m)
	if len(mapped) == 0 {
		return fmt.Errorf("reference map has no nodes for %s", m)
	}

	var failed int
	for _, nm := range mapped {
		hub, err := refmap.Backbone(nm)
		if err != nil {
			a.Logger.Warn().Err(err).Str("node", nm.NodeID).Msg("skipping node without backbone")
			failed++
			continue
		}
		if err := run.one(ctx, nm.NodeID, hub); err != nil {
			if errors.Is(err, estimator.ErrNoData) {
				a.Logger.Warn().Str("node", nm.NodeID).Msg("insufficient data; skipping node")
				failed++
				continue
			}
			return err
		}
	}

	a.Logger.Info().
		Int("nodes", len(mapped)).
		Int("skipped", failed).
		Msg("batch multiplier run complete")
	return nil
}

// pvmRun caches hub volatility matrices so a batch run estimates each
// backbone once.
type pvmRun struct {
	app      *App
	store    storage.LMPStore
	market   market.Market
	desc     market.Descriptor
	start    time.Time
	end      time.Time
	clip     float64
	zeroMean bool
	csvPath  string
	hubVols  map[string]*estimator.VolMatrix
}

func (r *pvmRun) one(ctx context.Context, node, hub string) error {
	hubVol, err := r.vol(ctx, hub)
	if err != nil {
		return fmt.Errorf("hub %s: %w", hub, err)
	}
	r.hubVols[hub] = hubVol

	nodeVol, err := r.vol(ctx, node)
	if err != nil {
		return fmt.Errorf("node %s: %w", node, err)
	}

	r.app.Logger.Info().
		Str("market", string(r.market)).
		Str("node", node).
		Str("hub", hub).
		Msg("estimating price-volatility multipliers")

	result, err := estimator.PVM(nodeVol, hubVol, r.clip)
	if err != nil {
		return err
	}

	renderPVM(node, hub, result)

	if r.csvPath != "" {
		if err := writePVMCSV(r.csvPath, r.market, node, hub, result); err != nil {
			return err
		}
	}
	return nil
}

func (r *pvmRun) vol(ctx context.Context, node string) (*estimator.VolMatrix, error) {
	if cached, ok := r.hubVols[node]; ok {
		return cached, nil
	}
	s, err := r.app.loadSeries(ctx, r.store, node, r.desc, r.start, r.end)
	if err != nil {
		return nil, err
	}
	return estimator.EstimateCashVol(s, r.market, r.start, r.end, r.zeroMean)
}

func renderPVM(node, hub string, result *estimator.PVMResult) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer writer.Flush()

	renderPVMTable(writer, fmt.Sprintf("%s / %s nodal multiplier", node, hub), result.Node)
	renderPVMTable(writer, fmt.Sprintf("%s block multiplier", hub), result.Hub)
}

func renderPVMTable(writer *tabwriter.Writer, title string, table *estimator.PVMTable) {
	fmt.Fprintf(writer, "%s\t\n", title)
	fmt.Fprint(writer, "Month")
	for _, b := range table.Blocks {
		fmt.Fprintf(writer, "\t%s", b)
	}
	fmt.Fprintln(writer)

	for mo := time.January; mo <= time.December; mo++ {
		row, ok := table.Months[mo]
		if !ok {
			continue
		}
		fmt.Fprint(writer, mo.String()[:3])
		for _, b := range table.Blocks {
			if v, ok := row[b]; ok {
				fmt.Fprintf(writer, "\t%.4f", v)
			} else {
				fmt.Fprint(writer, "\t-")
			}
		}
		fmt.Fprintln(writer)
	}

	fmt.Fprint(writer, "Avg")
	for _, b := range table.Blocks {
		if v, ok := table.Avg[b]; ok {
			fmt.Fprintf(writer, "\t%.4f", v)
		} else {
			fmt.Fprint(writer, "\t-")
		}
	}
	fmt.Fprintln(writer)
	fmt.Fprintln(writer)
}

func writePVMCSV(path string, m market.Market, node, hub string, result *estimator.PVMResult) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	// Batch runs append rows for every node into one file.
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if info.Size() == 0 {
		if err := writer.Write([]string{"market", "node", "hub", "table", "month", "block", "multiplier"}); err != nil {
			return err
		}
	}

	write := func(table string, t *estimator.PVMTable) error {
		for mo := time.January; mo <= time.December; mo++ {
			row, ok := t.Months[mo]
			if !ok {
				continue
			}
			for _, b := range t.Blocks {
				v, ok := row[b]
				if !ok {
					continue
				}
				record := []string{
					string(m), node, hub, table,
					strconv.Itoa(int(mo)),
					string(b),
					strconv.FormatFloat(v, 'f', 6, 64),
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
		for _, b := range t.Blocks {
			v, ok := t.Avg[b]
			if !ok {
				continue
			}
			record := []string{
				string(m), node, hub, table, "avg",
				string(b),
				strconv.FormatFloat(v, 'f', 6, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write("node", result.Node); err != nil {
		return err
	}
	if err := write("hub", result.Hub); err != nil {
		return err
	}
	return writer.Error()
}
