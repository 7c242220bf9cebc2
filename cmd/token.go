package cmd

import (
	"interest/core"
	"interest/pkg/number"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "token operations",
}

// governing command, only the authority's instruction will be accepted
var tokenStartCmd = &cobra.Command{
	Use:   "start",
	Short: "register a collateral mint with its initial price",
	Run: func(cmd *cobra.Command, args []string) {
		tokenMint, e := cmd.Flags().GetString("mint")
		if e != nil || tokenMint == "" {
			panic("invalid mint")
		}

		priceStr, e := cmd.Flags().GetString("price")
		if e != nil {
			panic(e)
		}
		price, e := number.Parse(priceStr, core.PriceDecimals)
		if e != nil || !price.IsPositive() {
			panic("invalid price")
		}
		raw, ok := price.Uint64()
		if !ok {
			panic("price out of range")
		}

		runner := newActionRunner()
		defer runner.close()

		ins, e := provideBuilder(runner.wallet).StartToken(tokenMint, raw)
		if e != nil {
			panic(e)
		}

		if err := runner.run(cmd, ins, "start_token", tokenMint, priceStr, false); err != nil {
			cmd.PrintErrln("start token failed:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenStartCmd)

	tokenStartCmd.Flags().StringP("mint", "m", "", "token mint")
	tokenStartCmd.Flags().StringP("price", "p", "", "initial USD price")
}
