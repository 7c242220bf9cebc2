package cmd

import (
	"interest/core"
	"interest/pkg/number"

	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "list live positions joined from chain state",
	Run: func(cmd *cobra.Command, args []string) {
		user, e := cmd.Flags().GetString("user")
		if e != nil {
			panic(e)
		}

		wallet := provideWallet()
		ledger := provideLedger(wallet)
		oracleSrv := provideOracleService()
		engineSrv := provideEngineService(ledger, oracleSrv, wallet)
		poolSrv := providePoolService(ledger)
		positionSrv := providePositionService(ledger, poolSrv, engineSrv, oracleSrv)

		ctx := cmd.Context()

		var (
			positions []*core.Position
			err       error
		)
		if user != "" {
			positions, err = positionSrv.UserPositions(ctx, user)
		} else {
			positions, err = positionSrv.Combine(ctx)
		}
		if err != nil {
			cmd.PrintErrln("combine positions failed:", err)
			return
		}

		for _, pos := range positions {
			line := pos.Deposit.User + " " + pos.Deposit.TokenMint +
				" collateral " + number.FromUint64(pos.Deposit.TokenAmount).Format(core.TokenDecimals)

			if pos.UserData != nil {
				line += " borrowed " + number.FromUint64(pos.UserData.BorrowedAmount).
					Mul(number.FromUint64(core.DebtUnitsPerDsc)).
					Format(core.TokenDecimals)

				if pos.FreshHealthFactor == core.HealthFactorInfinity {
					line += " hf ∞"
				} else {
					line += " hf " + number.FromUint64(pos.FreshHealthFactor).Format(core.RatioDecimals)
				}
			}

			if !pos.ActionReady() {
				line += " (incomplete)"
			}

			cmd.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	positionsCmd.Flags().StringP("user", "u", "", "filter by user address")
}
