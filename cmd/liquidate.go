package cmd

import (
	"encoding/json"

	"interest/core"
	"interest/pkg/number"

	"github.com/spf13/cobra"
)

var liquidateCmd = &cobra.Command{
	Use:   "liquidate",
	Short: "repay an undercollateralized user's debt and seize collateral",
	Run: func(cmd *cobra.Command, args []string) {
		user, e := cmd.Flags().GetString("user")
		if e != nil || user == "" {
			panic("invalid user")
		}

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
		debtToCover, ok := amount.Uint64()
		if !ok {
			panic("amount out of range")
		}

		database := provideDatabase()
		defer database.Close()

		wallet := provideWallet()
		ledger := provideLedger(wallet)
		oracleSrv := provideOracleService()
		engineSrv := provideEngineService(ledger, oracleSrv, wallet)
		poolSrv := providePoolService(ledger)
		positionSrv := providePositionService(ledger, poolSrv, engineSrv, oracleSrv)
		liquidationSrv := provideLiquidationService(ledger, engineSrv, positionSrv, oracleSrv, wallet)

		result, err := liquidationSrv.Liquidate(cmd.Context(), user, tokenMint, debtToCover)
		if err != nil {
			cmd.PrintErrln("liquidate failed:", err)
			return
		}

		out, _ := json.MarshalIndent(result, "", "    ")
		cmd.Println(string(out))
		cmd.Println(provideSystem().ExplorerTx(result.PrimarySignature))
	},
}

func init() {
	rootCmd.AddCommand(liquidateCmd)
	liquidateCmd.Flags().StringP("user", "u", "", "target user address")
	liquidateCmd.Flags().StringP("mint", "m", "", "collateral token mint")
	liquidateCmd.Flags().StringP("amount", "q", "", "DSC amount of debt to cover")
}
