package cmd

import (
	"interest/core"

	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "pull current prices for every mapped mint",
	Run: func(cmd *cobra.Command, args []string) {
		oracleSrv := provideOracleService()

		pulls := oracleSrv.PullAllPrices(cmd.Context())
		for mint, pull := range pulls {
			if pull.Err != nil {
				cmd.PrintErrln(mint, "error:", pull.Err)
				continue
			}

			cmd.Println(mint, pull.Price.Format(core.PriceDecimals))
		}
	},
}

func init() {
	rootCmd.AddCommand(priceCmd)
}
