package cmd

import (
	"sync"

	"interest/worker"
	"interest/worker/liquidator"
	"interest/worker/pricesync"
	"interest/worker/retrier"
	"interest/worker/scanner"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "interest job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		wallet := provideWallet()
		ledger := provideLedger(wallet)
		oracleSrv := provideOracleService()
		engineSrv := provideEngineService(ledger, oracleSrv, wallet)
		poolSrv := providePoolService(ledger)
		positionSrv := providePositionService(ledger, poolSrv, engineSrv, oracleSrv)

		positionStore := providePositionStore(database)
		priceStore := providePriceStore(database)
		transactionStore := provideTransactionStore(database)
		propertyStore := providePropertyStore(database)

		priceJob := pricesync.New(provideConfig(), database, oracleSrv, priceStore)
		if err := priceJob.Start(); err != nil {
			log.Panicln("start price sync:", err)
		}
		defer priceJob.Stop()

		workers := []worker.Worker{
			scanner.New(database, positionSrv, engineSrv, positionStore, oracleSrv, propertyStore),
			retrier.New(database, engineSrv, transactionStore, positionStore),
		}

		if cfg.Liquidator.Enabled {
			liquidationSrv := provideLiquidationService(ledger, engineSrv, positionSrv, oracleSrv, wallet)
			workers = append(workers, liquidator.New(provideConfig(), database, liquidationSrv, transactionStore))
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
