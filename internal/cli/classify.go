package cli

import (
	"github.com/spf13/cobra"

	"lmp-shapers/internal/app"
)

var (
	classifyMarket string
	classifyDate   string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show the peak-block label of every hour of one date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(classifyDate)
		if err != nil {
			return err
		}

		return getApp().Classify(cmd.Context(), app.ClassifyOptions{
			Market: classifyMarket,
			Date:   date,
		})
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyMarket, "market", "", "Market identifier")
	classifyCmd.Flags().StringVar(&classifyDate, "date", "", "Date YYYY-MM-DD (defaults to today)")
	_ = classifyCmd.MarkFlagRequired("market")
}
