package cmd

import (
	"interest/core"
	"interest/pkg/number"

	"github.com/spf13/cobra"
)

var hfCmd = &cobra.Command{
	Use:   "hf",
	Short: "recompute and upload a health factor",
	Run: func(cmd *cobra.Command, args []string) {
		tokenMint, e := cmd.Flags().GetString("mint")
		if e != nil || tokenMint == "" {
			panic("invalid mint")
		}

		user, e := cmd.Flags().GetString("user")
		if e != nil {
			panic(e)
		}

		wallet := provideWallet()
		if user == "" {
			user = wallet.Address()
		}

		ledger := provideLedger(wallet)
		oracleSrv := provideOracleService()
		engineSrv := provideEngineService(ledger, oracleSrv, wallet)

		// --onchain asks the program itself to recompute at a fresh
		// price instead of computing client side and uploading
		if onchain, _ := cmd.Flags().GetBool("onchain"); onchain {
			ctx := cmd.Context()

			price, err := oracleSrv.GetPriceForMint(ctx, tokenMint)
			if err != nil {
				cmd.PrintErrln("pull price failed:", err)
				return
			}
			priceRaw, ok := price.Uint64()
			if !ok || priceRaw == 0 {
				cmd.PrintErrln("invalid price")
				return
			}

			ins, err := provideBuilder(wallet).GetHf(tokenMint, priceRaw)
			if err != nil {
				panic(err)
			}

			signature, err := ledger.Submit(ctx, ins)
			if err != nil {
				cmd.PrintErrln("get hf failed:", err)
				return
			}
			if err := ledger.WaitConfirmed(ctx, signature); err != nil {
				cmd.PrintErrln("get hf unconfirmed:", err)
				return
			}

			cmd.Println(provideSystem().ExplorerTx(signature))
			return
		}

		signature, hf, err := engineSrv.UploadHealthFactor(cmd.Context(), user, tokenMint)
		if err != nil {
			cmd.PrintErrln("upload health factor failed:", err)
			return
		}

		if hf == core.HealthFactorInfinity {
			cmd.Println("health factor: ∞ (no debt)")
		} else {
			cmd.Println("health factor:", number.FromUint64(hf).Format(core.RatioDecimals))
		}
		cmd.Println(provideSystem().ExplorerTx(signature))
	},
}

func init() {
	rootCmd.AddCommand(hfCmd)
	hfCmd.Flags().StringP("mint", "m", "", "collateral token mint")
	hfCmd.Flags().StringP("user", "u", "", "user address, the wallet when unset")
	hfCmd.Flags().Bool("onchain", false, "let the program recompute instead of uploading")
}
