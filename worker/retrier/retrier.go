package retrier

import (
	"context"
	"time"

	"interest/core"
	"interest/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

// Worker health factor retry worker. An action whose primary
// instruction landed but whose health factor upload did not leaves a
// stale stored value behind; this loop picks those rows up and retries
// the upload until it sticks.
type Worker struct {
	worker.TickWorker
	DB               *db.DB
	EngineSrv        core.IEngineService
	TransactionStore core.ITransactionStore
	PositionStore    core.IPositionStore
}

// New new retrier worker
func New(database *db.DB, engineSrv core.IEngineService, transactionStore core.ITransactionStore, positionStore core.IPositionStore) *Worker {
	return &Worker{
		TickWorker:       worker.TickWorker{Delay: 30 * time.Second},
		DB:               database,
		EngineSrv:        engineSrv,
		TransactionStore: transactionStore,
		PositionStore:    positionStore,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "retrier")

	pending, err := w.TransactionStore.PendingFollowUps(ctx)
	if err != nil {
		log.Errorln("list pending follow ups:", err)
		return err
	}

	for _, transaction := range pending {
		if !transaction.NeedsHealthFactorRetry() {
			continue
		}

		if err := w.retry(ctx, transaction); err != nil {
			log.WithField("trace", transaction.TraceID).Errorln("retry follow up:", err)

			if err := w.PositionStore.MarkStale(ctx, w.DB, transaction.User, transaction.TokenMint); err != nil {
				log.Errorln("mark snapshot stale:", err)
			}
		}
	}

	return nil
}

func (w *Worker) retry(ctx context.Context, transaction *core.Transaction) error {
	signature, _, err := w.EngineSrv.UploadHealthFactor(ctx, transaction.User, transaction.TokenMint)
	if err != nil {
		return err
	}

	transaction.FollowUpStatus = core.PhaseOK
	transaction.FollowUpSig = signature
	transaction.UpdatedAt = time.Now()

	return w.TransactionStore.Update(ctx, w.DB, transaction)
}
