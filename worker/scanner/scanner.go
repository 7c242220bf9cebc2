package scanner

import (
	"context"
	"sync"
	"time"

	"interest/core"
	"interest/pkg/concurrency"
	"interest/pkg/number"
	"interest/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// syncedAtKey property key holding the unix time of the last full scan
const syncedAtKey = "position_synced_at"

// Worker position scanner. Rebuilds the joined (user, mint) view from
// chain state on every tick, recomputes health factors at current
// prices and refreshes the local snapshots the REST surface and the
// liquidator read.
type Worker struct {
	worker.TickWorker
	DB            *db.DB
	PositionSrv   core.IPositionService
	EngineSrv     core.IEngineService
	PositionStore core.IPositionStore
	OracleSrv     core.IOracleService
	PropertyStore property.Store
}

// New new scanner worker
func New(
	database *db.DB,
	positionSrv core.IPositionService,
	engineSrv core.IEngineService,
	positionStore core.IPositionStore,
	oracleSrv core.IOracleService,
	propertyStore property.Store,
) *Worker {
	return &Worker{
		TickWorker:    worker.TickWorker{Delay: 30 * time.Second},
		DB:            database,
		PositionSrv:   positionSrv,
		EngineSrv:     engineSrv,
		PositionStore: positionStore,
		OracleSrv:     oracleSrv,
		PropertyStore: propertyStore,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "scanner")

	engine, err := w.EngineSrv.FetchEngine(ctx)
	if err != nil {
		log.Errorln("fetch engine:", err)
		return err
	}

	positions, err := w.PositionSrv.Combine(ctx)
	if err != nil {
		log.Errorln("combine positions:", err)
		return err
	}

	golimit := concurrency.DefaultGoLimit
	wg := sync.WaitGroup{}

	for _, pos := range positions {
		wg.Add(1)
		golimit.Add()
		go func(pos *core.Position) {
			defer wg.Done()
			defer golimit.Done()

			if err := w.saveSnapshot(ctx, engine, pos); err != nil {
				log.WithField("deposit", pos.Deposit.Address).Errorln("save snapshot:", err)
			}
		}(pos)
	}

	wg.Wait()

	if err := w.PropertyStore.Save(ctx, syncedAtKey, time.Now().Unix()); err != nil {
		log.Errorln("save sync property:", err)
	}

	return nil
}

func (w *Worker) saveSnapshot(ctx context.Context, engine *core.Engine, pos *core.Position) error {
	snapshot := &core.PositionSnapshot{
		User:           pos.Deposit.User,
		TokenMint:      pos.Deposit.TokenMint,
		DepositAddress: pos.Deposit.Address,
		Collateral:     number.FromUint64(pos.Deposit.TokenAmount).Decimal(core.TokenDecimals),
		UpdatedAt:      time.Now(),
	}

	if price, err := w.OracleSrv.GetPriceForMint(ctx, pos.Deposit.TokenMint); err == nil {
		snapshot.PriceUSD = price.Decimal(core.PriceDecimals)
	}

	if pos.UserData != nil {
		// borrowed amounts are booked in 1/1000 DSC units
		snapshot.Borrowed = number.FromUint64(pos.UserData.BorrowedAmount).
			Mul(number.FromUint64(core.DebtUnitsPerDsc)).
			Decimal(core.TokenDecimals)

		// stale means the recompute had no live price, not that the
		// stored on-chain hint drifted from the recompute
		snapshot.Stale = !pos.FreshHealthFactorValid

		if pos.FreshHealthFactor == core.HealthFactorInfinity {
			snapshot.Infinite = true
			snapshot.HealthFactor = decimal.Zero
		} else {
			snapshot.HealthFactor = number.FromUint64(pos.FreshHealthFactor).Decimal(core.RatioDecimals)
		}

		snapshot.Liquidatable = pos.ActionReady() &&
			pos.FreshHealthFactorValid &&
			w.EngineSrv.IsLiquidatable(engine, pos.FreshHealthFactor)
	}

	return w.PositionStore.Save(ctx, w.DB, snapshot)
}
