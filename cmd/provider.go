package cmd

import (
	"interest/config"
	"interest/core"
	assetservice "interest/service/asset"
	engineservice "interest/service/engine"
	ledgerservice "interest/service/ledger"
	liquidationservice "interest/service/liquidation"
	oracleservice "interest/service/oracle"
	poolservice "interest/service/pool"
	positionservice "interest/service/position"
	walletservice "interest/service/wallet"
	positionstore "interest/store/position"
	pricestore "interest/store/price"
	transactionstore "interest/store/transaction"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *config.Config {
	return &cfg
}

func provideSystem() *core.System {
	return &core.System{
		ProgramID:   cfg.Ledger.ProgramID,
		DscMint:     cfg.Ledger.DscMint,
		ExplorerURL: cfg.App.ExplorerURL,
		Version:     rootCmd.Version,
	}
}

func provideWallet() core.IWallet {
	w, err := walletservice.New(cfg.Wallet.KeystorePath)
	if err != nil {
		panic(err)
	}

	return w
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return positionstore.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return pricestore.New(db)
}

func provideTransactionStore(db *db.DB) core.ITransactionStore {
	return transactionstore.New(db)
}

// ------------------service------------------------------------

func provideLedger(wallet core.IWallet) core.ILedger {
	return ledgerservice.New(provideConfig(), wallet)
}

func provideBuilder(wallet core.IWallet) *ledgerservice.Builder {
	return ledgerservice.NewBuilder(cfg.Ledger.ProgramID, wallet.Address())
}

func provideOracleService() core.IOracleService {
	return oracleservice.New(provideConfig())
}

func provideAssetService() core.IAssetService {
	return assetservice.New(provideConfig())
}

func provideEngineService(ledger core.ILedger, oracle core.IOracleService, wallet core.IWallet) core.IEngineService {
	return engineservice.New(provideConfig(), ledger, oracle, wallet)
}

func providePoolService(ledger core.ILedger) core.IPoolService {
	return poolservice.New(provideConfig(), ledger)
}

func providePositionService(ledger core.ILedger, pools core.IPoolService, engines core.IEngineService, oracle core.IOracleService) core.IPositionService {
	return positionservice.New(provideConfig(), ledger, pools, engines, oracle)
}

func provideLiquidationService(
	ledger core.ILedger,
	engines core.IEngineService,
	positions core.IPositionService,
	oracle core.IOracleService,
	wallet core.IWallet,
) core.ILiquidationService {
	return liquidationservice.New(provideConfig(), ledger, engines, positions, oracle, wallet)
}
