package cmd

import (
	"interest/core"
	"interest/pkg/number"

	"github.com/spf13/cobra"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "mint DSC against deposited collateral",
	Long:  "mint DSC against deposited collateral. The command previews the resulting health factor before submitting and refuses to send a doomed instruction.",
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

		hf, e := runner.engineSrv.PreviewMint(ctx, engine, runner.wallet.Address(), tokenMint, amount)
		if e != nil {
			cmd.PrintErrln("mint refused, projected health factor", hf, ":", e)
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

		ins, e := provideBuilder(runner.wallet).MintDsc(tokenMint, raw, priceRaw)
		if e != nil {
			panic(e)
		}

		if err := runner.run(cmd, ins, "mint_dsc", tokenMint, amountStr, true); err != nil {
			cmd.PrintErrln("mint failed:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mintCmd)
	mintCmd.Flags().StringP("mint", "m", "", "collateral token mint")
	mintCmd.Flags().StringP("amount", "q", "", "DSC amount to mint")
}
