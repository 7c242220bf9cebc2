package cmd

import (
	"interest/core"
	"interest/pkg/number"
	engineservice "interest/service/engine"

	"github.com/spf13/cobra"
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "release deposited collateral",
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

		ctx := cmd.Context()
		oracleSrv := provideOracleService()

		engine, e := runner.engineSrv.FetchEngine(ctx)
		if e != nil {
			panic(e)
		}

		hf, e := runner.engineSrv.PreviewWithdraw(ctx, engine, runner.wallet.Address(), tokenMint, amount)
		if e != nil {
			cmd.PrintErrln("withdraw refused, projected health factor", hf, ":", e)
			return
		}

		price, e := oracleSrv.GetPriceForMint(ctx, tokenMint)
		if e != nil {
			panic(e)
		}
		priceRaw, ok := price.Uint64()
		if !ok || priceRaw == 0 {
			panic("invalid price")
		}

		fee := engineservice.WithdrawFee(engine, amount, price)
		cmd.Println("withdraw fee:", fee.Format(core.TokenDecimals))

		ins, e := provideBuilder(runner.wallet).WithdrawCollateral(tokenMint, raw, priceRaw)
		if e != nil {
			panic(e)
		}

		if err := runner.run(cmd, ins, "withdraw_collateral", tokenMint, amountStr, true); err != nil {
			cmd.PrintErrln("withdraw failed:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(withdrawCmd)
	withdrawCmd.Flags().StringP("mint", "m", "", "collateral token mint")
	withdrawCmd.Flags().StringP("amount", "q", "", "collateral amount to withdraw")
}
