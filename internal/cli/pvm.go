package cli

import (
	"github.com/spf13/cobra"

	"lmp-shapers/internal/app"
)

var (
	pvmMarket   string
	pvmNode     string
	pvmHub      string
	pvmAll      bool
	pvmDate     string
	pvmLookback int
	pvmClip     float64
	pvmZeroMean bool
	pvmCSVPath  string
)

var pvmCmd = &cobra.Command{
	Use:   "pvm",
	Short: "Estimate price-volatility multipliers against the reference hub",
	RunE: func(cmd *cobra.Command, args []string) error {
		evalDate, err := parseDate(pvmDate)
		if err != nil {
			return err
		}

		return getApp().PVM(cmd.Context(), app.PVMOptions{
			Market:        pvmMarket,
			Node:          pvmNode,
			Hub:           pvmHub,
			All:           pvmAll,
			EvalDate:      evalDate,
			LookbackYears: pvmLookback,
			ClipQuantile:  pvmClip,
			ZeroMean:      pvmZeroMean,
			CSVPath:       pvmCSVPath,
		})
	},
}

func init() {
	pvmCmd.Flags().StringVar(&pvmMarket, "market", "", "Market identifier (PJM, ISONE, MISO, ERCOT, SPP)")
	pvmCmd.Flags().StringVar(&pvmNode, "node", "", "Pricing node (defaults to the market hub)")
	pvmCmd.Flags().StringVar(&pvmHub, "hub", "", "Reference hub node (defaults to the market hub)")
	pvmCmd.Flags().BoolVar(&pvmAll, "all", false, "Run every node mapped to the market in the reference map")
	pvmCmd.Flags().StringVar(&pvmDate, "date", "", "Evaluation date YYYY-MM-DD (defaults to today)")
	pvmCmd.Flags().IntVar(&pvmLookback, "lookback", 0, "Lookback window in years (defaults to config)")
	pvmCmd.Flags().Float64Var(&pvmClip, "clip", 0, "Ratio winsorization quantile in (0,1] (defaults to config)")
	pvmCmd.Flags().BoolVar(&pvmZeroMean, "zero-mean", true, "Use zero-mean RMS instead of sample standard deviation")
	pvmCmd.Flags().StringVar(&pvmCSVPath, "csv", "", "Path to write CSV output (appends in batch runs)")
	_ = pvmCmd.MarkFlagRequired("market")
}
