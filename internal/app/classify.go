package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"lmp-shapers/internal/market"
)

// Classify prints the peak-block label of every hour of one date, with the
// collapsed traded block alongside. Useful for checking holiday and DST
// handling against the contract calendar.
func (a *App) Classify(_ context.Context, opts ClassifyOptions) error {
	m, err := market.Parse(opts.Market)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer writer.Flush()

	fmt.Fprintf(writer, "%s %s (%s)\t\n", m, opts.Date.Format("2006-01-02"), opts.Date.Weekday())
	fmt.Fprintln(writer, "HE\tBlock\tTraded")

	for h := 1; h <= 24; h++ {
		label, err := market.Classify(opts.Date, h, m)
		if err != nil {
			return err
		}
		collapsed, err := market.Collapse(label, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\n", h, label, collapsed)
	}
	return nil
}
