package cli

import (
	"github.com/spf13/cobra"

	"lmp-shapers/internal/app"
)

var (
	volMarket   string
	volNode     string
	volDate     string
	volLookback int
	volZeroMean bool
	volCSVPath  string
)

var volCmd = &cobra.Command{
	Use:   "vol",
	Short: "Estimate annualized cash volatility per month-end and peak block",
	RunE: func(cmd *cobra.Command, args []string) error {
		evalDate, err := parseDate(volDate)
		if err != nil {
			return err
		}

		return getApp().Vol(cmd.Context(), app.VolOptions{
			Market:        volMarket,
			Node:          volNode,
			EvalDate:      evalDate,
			LookbackYears: volLookback,
			ZeroMean:      volZeroMean,
			CSVPath:       volCSVPath,
		})
	},
}

func init() {
	volCmd.Flags().StringVar(&volMarket, "market", "", "Market identifier (PJM, ISONE, MISO, ERCOT, SPP)")
	volCmd.Flags().StringVar(&volNode, "node", "", "Pricing node (defaults to the market hub)")
	volCmd.Flags().StringVar(&volDate, "date", "", "Evaluation date YYYY-MM-DD (defaults to today)")
	volCmd.Flags().IntVar(&volLookback, "lookback", 0, "Lookback window in years (defaults to config)")
	volCmd.Flags().BoolVar(&volZeroMean, "zero-mean", true, "Use zero-mean RMS instead of sample standard deviation")
	volCmd.Flags().StringVar(&volCSVPath, "csv", "", "Path to write CSV output")
	_ = volCmd.MarkFlagRequired("market")
}
