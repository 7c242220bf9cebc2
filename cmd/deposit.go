package cmd

import (
	"interest/core"
	"interest/pkg/number"

	"github.com/spf13/cobra"
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "lock collateral into the program",
	Run: func(cmd *cobra.Command, args []string) {
		tokenMint, e := cmd.Flags().GetString("mint")
		if e != nil || tokenMint == "" {
			panic("invalid mint")
		}

		amountStr, e := cmd.Flags().GetString("amount")
		if e != nil {
			panic(e)
		}
		amount, e := number.Parse(amountStr, core.TokenDecimals)
		if e != nil || !amount.IsPositive() {
			panic("invalid amount")
		}
		raw, ok := amount.Uint64()
		if !ok {
			panic("amount out of range")
		}

		runner := newActionRunner()
		defer runner.close()

		ins, e := provideBuilder(runner.wallet).DepositCollateral(tokenMint, raw)
		if e != nil {
			panic(e)
		}

		if err := runner.run(cmd, ins, "deposit_collateral", tokenMint, amountStr, true); err != nil {
			cmd.PrintErrln("deposit failed:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(depositCmd)
	depositCmd.Flags().StringP("mint", "m", "", "collateral token mint")
	depositCmd.Flags().StringP("amount", "q", "", "amount")
}
