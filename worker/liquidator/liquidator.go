package liquidator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interest/config"
	"interest/core"
	"interest/pkg/id"
	"interest/pkg/number"
	"interest/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/errgroup"
)

const defaultCapacity = 4

// Worker liquidation bot. Scans for undercollateralized positions each
// tick and covers their full debt. Dry run mode logs what it would do
// without spending anything, and is the shipped default: running with
// real submissions is an explicit operator decision.
type Worker struct {
	worker.TickWorker
	DB               *db.DB
	LiquidationSrv   core.ILiquidationService
	TransactionStore core.ITransactionStore
	DryRun           bool
	Capacity         int64
}

// New new liquidator worker
func New(cfg *config.Config, database *db.DB, liquidationSrv core.ILiquidationService, transactionStore core.ITransactionStore) *Worker {
	capacity := cfg.Liquidator.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	return &Worker{
		TickWorker:       worker.TickWorker{Delay: 15 * time.Second},
		DB:               database,
		LiquidationSrv:   liquidationSrv,
		TransactionStore: transactionStore,
		DryRun:           cfg.Liquidator.DryRun,
		Capacity:         capacity,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "liquidator")

	candidates, err := w.LiquidationSrv.Candidates(ctx)
	if err != nil {
		log.Errorln("scan candidates:", err)
		return err
	}

	if len(candidates) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, w.Capacity)

	for _, candidate := range candidates {
		candidate := candidate
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			w.handle(ctx, candidate)
			return nil
		})
	}

	return g.Wait()
}

func (w *Worker) handle(ctx context.Context, candidate *core.LiquidationCandidate) {
	deposit := candidate.Position.Deposit
	log := logger.FromContext(ctx).
		WithField("worker", "liquidator").
		WithField("user", deposit.User).
		WithField("mint", deposit.TokenMint)

	if w.DryRun {
		log.WithField("hf", candidate.Position.FreshHealthFactor).
			WithField("max_debt_to_cover", candidate.MaxDebtToCover).
			Infoln("dry run, would liquidate")
		return
	}

	// one trace per (user, mint, tick window): a rescan inside the
	// window resolves to the same row instead of double firing
	traceID := id.TraceIDFrom(fmt.Sprintf("liquidate-%s-%s-%d",
		deposit.User, deposit.TokenMint, time.Now().Unix()/60))

	transaction := &core.Transaction{
		TraceID:   traceID,
		Action:    "liquidate_user",
		User:      deposit.User,
		TokenMint: deposit.TokenMint,
		Amount:    number.FromUint64(candidate.MaxDebtToCover).Format(core.TokenDecimals),
	}

	if err := w.TransactionStore.Create(ctx, w.DB, transaction); err != nil {
		log.Errorln("log transaction:", err)
		return
	}

	if transaction.PrimaryStatus != core.PhaseNotAttempted {
		// picked up by an earlier tick inside the same window
		return
	}

	result, err := w.LiquidationSrv.Liquidate(ctx, deposit.User, deposit.TokenMint, candidate.MaxDebtToCover)
	w.record(ctx, transaction, result, err)

	if err != nil {
		log.Errorln("liquidate:", err)
		return
	}

	log.WithField("signature", result.PrimarySignature).Infoln("liquidated")
}

func (w *Worker) record(ctx context.Context, transaction *core.Transaction, result *core.TwoPhaseResult, cause error) {
	log := logger.FromContext(ctx).WithField("worker", "liquidator")

	if result == nil {
		result = &core.TwoPhaseResult{}
	}

	transaction.PrimarySig = result.PrimarySignature
	transaction.FollowUpSig = result.FollowUpSignature
	transaction.HealthFactor = number.FromUint64(result.HealthFactor).Format(core.RatioDecimals)
	transaction.UpdatedAt = time.Now()

	switch {
	case result.PrimaryError != "" || (cause != nil && result.PrimarySignature == ""):
		transaction.PrimaryStatus = core.PhaseFailed
		if cause != nil {
			transaction.FailureReason = cause.Error()
		} else {
			transaction.FailureReason = result.PrimaryError
		}
	default:
		transaction.PrimaryStatus = core.PhaseOK
	}

	if result.FollowUpAttempted {
		if result.FollowUpError != "" {
			transaction.FollowUpStatus = core.PhaseFailed
			transaction.FailureReason = result.FollowUpError
		} else {
			transaction.FollowUpStatus = core.PhaseOK
		}
	}

	var rejection *core.LedgerRejection
	if errors.As(cause, &rejection) {
		transaction.LedgerLogs = rejection.Logs
	}

	if err := w.TransactionStore.Update(ctx, w.DB, transaction); err != nil {
		log.Errorln("update transaction:", err)
	}
}
