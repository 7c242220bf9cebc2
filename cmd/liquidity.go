package cmd

import (
	"interest/core"
	"interest/pkg/number"

	"github.com/spf13/cobra"
)

var liquidityCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "liquidity pool operations",
}

var liquidityGiveCmd = &cobra.Command{
	Use:   "give",
	Short: "add tokens to a liquidity pool",
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

		ins, e := provideBuilder(runner.wallet).GiveLiquidity(tokenMint, raw)
		if e != nil {
			panic(e)
		}

		if err := runner.run(cmd, ins, "give_liquidity", tokenMint, amountStr, false); err != nil {
			cmd.PrintErrln("give liquidity failed:", err)
		}
	},
}

var liquidityRedeemCmd = &cobra.Command{
	Use:   "redeem",
	Short: "withdraw the whole pool share plus earnings",
	Run: func(cmd *cobra.Command, args []string) {
		tokenMint, e := cmd.Flags().GetString("mint")
		if e != nil || tokenMint == "" {
			panic("invalid mint")
		}

		runner := newActionRunner()
		defer runner.close()

		ins, e := provideBuilder(runner.wallet).RedeemLiquidity(tokenMint)
		if e != nil {
			panic(e)
		}

		if err := runner.run(cmd, ins, "redeem_liquidity", tokenMint, "", false); err != nil {
			cmd.PrintErrln("redeem liquidity failed:", err)
		}
	},
}

var liquidityEarningsCmd = &cobra.Command{
	Use:   "earnings",
	Short: "show a provider's share of collected fees",
	Run: func(cmd *cobra.Command, args []string) {
		user, e := cmd.Flags().GetString("user")
		if e != nil {
			panic(e)
		}

		ctx := cmd.Context()
		wallet := provideWallet()
		if user == "" {
			user = wallet.Address()
		}

		ledger := provideLedger(wallet)
		oracleSrv := provideOracleService()
		engineSrv := provideEngineService(ledger, oracleSrv, wallet)
		poolSrv := providePoolService(ledger)
		positionSrv := providePositionService(ledger, poolSrv, engineSrv, oracleSrv)

		lps, e := positionSrv.AllLps(ctx)
		if e != nil {
			panic(e)
		}

		for _, lp := range lps {
			if lp.User != user {
				continue
			}

			pool, e := poolSrv.FindPool(ctx, lp.TokenMint)
			if e != nil {
				cmd.PrintErrln("no pool for", lp.TokenMint, ":", e)
				continue
			}

			earnings := poolSrv.ShareEarnings(pool, lp)
			cmd.Println(lp.TokenMint,
				"staked", number.FromUint64(lp.TokenAmount).Format(core.TokenDecimals),
				"earnings", number.FromUint64(earnings).Format(core.TokenDecimals))
		}
	},
}

func init() {
	rootCmd.AddCommand(liquidityCmd)
	liquidityCmd.AddCommand(liquidityGiveCmd, liquidityRedeemCmd, liquidityEarningsCmd)

	liquidityGiveCmd.Flags().StringP("mint", "m", "", "token mint")
	liquidityGiveCmd.Flags().StringP("amount", "q", "", "amount")
	liquidityRedeemCmd.Flags().StringP("mint", "m", "", "token mint")
	liquidityEarningsCmd.Flags().StringP("user", "u", "", "provider address, the wallet when unset")
	liquidityEarningsCmd.Flags().StringP("mint", "m", "", "token mint")
}
