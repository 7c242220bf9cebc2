package cmd

import (
	"encoding/json"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "engine operations",
}

var engineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "print the engine parameters",
	Run: func(cmd *cobra.Command, args []string) {
		wallet := provideWallet()
		ledger := provideLedger(wallet)
		oracleSrv := provideOracleService()
		engineSrv := provideEngineService(ledger, oracleSrv, wallet)

		engine, err := engineSrv.FetchEngine(cmd.Context())
		if err != nil {
			cmd.PrintErrln("fetch engine failed:", err)
			return
		}

		out, _ := json.MarshalIndent(engine, "", "    ")
		cmd.Println(string(out))
	},
}

// governing command, only the authority's instruction will be accepted
var engineStartCmd = &cobra.Command{
	Use:   "start",
	Short: "initialize the engine parameters",
	Run: func(cmd *cobra.Command, args []string) {
		threshold := cast.ToUint64(cmd.Flag("threshold").Value.String())
		minHf := cast.ToUint64(cmd.Flag("min-hf").Value.String())
		bonus := cast.ToUint64(cmd.Flag("bonus").Value.String())
		fee := cast.ToUint64(cmd.Flag("fee").Value.String())

		if threshold == 0 || threshold > 100 {
			panic("threshold must sit in (0, 100]")
		}

		runner := newActionRunner()
		defer runner.close()

		ins, e := provideBuilder(runner.wallet).StartEngine(threshold, minHf, bonus, fee)
		if e != nil {
			panic(e)
		}

		if err := runner.run(cmd, ins, "start_engine", "", "", false); err != nil {
			cmd.PrintErrln("start engine failed:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(engineCmd)
	engineCmd.AddCommand(engineShowCmd, engineStartCmd)

	engineStartCmd.Flags().String("threshold", "50", "liquidation threshold percent")
	engineStartCmd.Flags().String("min-hf", "1000000", "minimum health factor, 1e6 scaled")
	engineStartCmd.Flags().String("bonus", "10", "liquidation bonus percent")
	engineStartCmd.Flags().String("fee", "5000", "withdraw fee, 1e8 scaled fraction")
}
