package cli

import (
	"github.com/spf13/cobra"

	"lmp-shapers/internal/app"
)

var (
	splitterMarket   string
	splitterNode     string
	splitterDate     string
	splitterLookback int
	splitterClip     float64
	splitterCSVPath  string
)

var splitterCmd = &cobra.Command{
	Use:   "splitter",
	Short: "Estimate seasonal 2x16/Off block price ratios for a pricing node",
	RunE: func(cmd *cobra.Command, args []string) error {
		evalDate, err := parseDate(splitterDate)
		if err != nil {
			return err
		}

		return getApp().Splitter(cmd.Context(), app.SplitterOptions{
			Market:        splitterMarket,
			Node:          splitterNode,
			EvalDate:      evalDate,
			LookbackYears: splitterLookback,
			ClipQuantile:  splitterClip,
			CSVPath:       splitterCSVPath,
		})
	},
}

func init() {
	splitterCmd.Flags().StringVar(&splitterMarket, "market", "", "Market identifier (PJM, ISONE, MISO, SPP)")
	splitterCmd.Flags().StringVar(&splitterNode, "node", "", "Pricing node (defaults to the market hub)")
	splitterCmd.Flags().StringVar(&splitterDate, "date", "", "Evaluation date YYYY-MM-DD (defaults to today)")
	splitterCmd.Flags().IntVar(&splitterLookback, "lookback", 0, "Lookback window in years (defaults to config)")
	splitterCmd.Flags().Float64Var(&splitterClip, "clip", 0, "Winsorization quantile in (0,1] (defaults to config)")
	splitterCmd.Flags().StringVar(&splitterCSVPath, "csv", "", "Path to write CSV output")
	_ = splitterCmd.MarkFlagRequired("market")
}
