package cli

import (
	"github.com/spf13/cobra"

	"lmp-shapers/internal/app"
)

var (
	shaperMarket   string
	shaperNode     string
	shaperMode     string
	shaperDate     string
	shaperLookback int
	shaperClip     float64
	shaperCSVPath  string
	shaperPNGPath  string
)

var shaperCmd = &cobra.Command{
	Use:   "shaper",
	Short: "Estimate monthly hourly-profile shapers for a pricing node",
	RunE: func(cmd *cobra.Command, args []string) error {
		evalDate, err := parseDate(shaperDate)
		if err != nil {
			return err
		}

		return getApp().Shaper(cmd.Context(), app.ShaperOptions{
			Market:        shaperMarket,
			Node:          shaperNode,
			Mode:          shaperMode,
			EvalDate:      evalDate,
			LookbackYears: shaperLookback,
			ClipQuantile:  shaperClip,
			CSVPath:       shaperCSVPath,
			PNGPath:       shaperPNGPath,
		})
	},
}

func init() {
	shaperCmd.Flags().StringVar(&shaperMarket, "market", "", "Market identifier (PJM, ISONE, MISO, SPP, CAISO)")
	shaperCmd.Flags().StringVar(&shaperNode, "node", "", "Pricing node (defaults to the market hub)")
	shaperCmd.Flags().StringVar(&shaperMode, "mode", "hourly", "Shaper mode: hourly or block")
	shaperCmd.Flags().StringVar(&shaperDate, "date", "", "Evaluation date YYYY-MM-DD (defaults to today)")
	shaperCmd.Flags().IntVar(&shaperLookback, "lookback", 0, "Lookback window in years (defaults to config)")
	shaperCmd.Flags().Float64Var(&shaperClip, "clip", 0, "Winsorization quantile in (0,1] (defaults to config)")
	shaperCmd.Flags().StringVar(&shaperCSVPath, "csv", "", "Path to write CSV output")
	shaperCmd.Flags().StringVar(&shaperPNGPath, "png", "", "Path to write PNG profile chart (hourly mode)")
	_ = shaperCmd.MarkFlagRequired("market")
}
