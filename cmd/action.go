package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"interest/core"

	"github.com/fox-one/pkg/qrcode"
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// actionRunner shared plumbing for commands that submit an instruction
// and optionally refresh the stored health factor afterwards
type actionRunner struct {
	database         *db.DB
	wallet           core.IWallet
	ledger           core.ILedger
	engineSrv        core.IEngineService
	transactionStore core.ITransactionStore
	system           *core.System
}

func newActionRunner() *actionRunner {
	database := provideDatabase()
	wallet := provideWallet()
	ledger := provideLedger(wallet)
	oracleSrv := provideOracleService()

	return &actionRunner{
		database:         database,
		wallet:           wallet,
		ledger:           ledger,
		engineSrv:        provideEngineService(ledger, oracleSrv, wallet),
		transactionStore: provideTransactionStore(database),
		system:           provideSystem(),
	}
}

func (r *actionRunner) close() {
	r.database.Close()
}

// run submit the instruction, wait for confirmation and, when followUp
// is set, recompute and upload the signer's health factor. The primary
// effect stands even when the follow up fails; the stored health factor
// is just stale until the next refresh.
func (r *actionRunner) run(cmd *cobra.Command, ins *core.Instruction, action, tokenMint, amount string, followUp bool) error {
	ctx := cmd.Context()

	transaction := &core.Transaction{
		TraceID:   ins.TraceID,
		Action:    action,
		User:      r.wallet.Address(),
		TokenMint: tokenMint,
		Amount:    amount,
	}
	if err := r.transactionStore.Create(ctx, r.database, transaction); err != nil {
		return err
	}

	result := &core.TwoPhaseResult{}
	defer r.record(ctx, transaction, result)

	signature, err := r.ledger.Submit(ctx, ins)
	if err != nil {
		result.PrimaryError = err.Error()
		r.printRejection(cmd, err)
		return err
	}
	result.PrimarySignature = signature

	if err := r.ledger.WaitConfirmed(ctx, signature); err != nil {
		result.PrimaryError = err.Error()
		r.printRejection(cmd, err)
		return err
	}

	if followUp {
		result.FollowUpAttempted = true
		followUpSig, hf, err := r.engineSrv.UploadHealthFactor(ctx, r.wallet.Address(), tokenMint)
		result.FollowUpSignature = followUpSig
		result.HealthFactor = hf
		if err != nil {
			result.FollowUpError = err.Error()
			cmd.PrintErrln("health factor upload failed, stored value is stale:", err)
		}
	}

	r.printResult(cmd, result)
	return nil
}

func (r *actionRunner) record(ctx context.Context, transaction *core.Transaction, result *core.TwoPhaseResult) {
	if result.PrimaryError != "" {
		transaction.PrimaryStatus = core.PhaseFailed
		transaction.FailureReason = result.PrimaryError
	} else {
		transaction.PrimaryStatus = core.PhaseOK
	}

	transaction.PrimarySig = result.PrimarySignature
	transaction.FollowUpSig = result.FollowUpSignature
	transaction.UpdatedAt = time.Now()

	if result.FollowUpAttempted {
		if result.FollowUpError != "" {
			transaction.FollowUpStatus = core.PhaseFailed
		} else {
			transaction.FollowUpStatus = core.PhaseOK
		}
	}

	_ = r.transactionStore.Update(ctx, r.database, transaction)
}

func (r *actionRunner) printRejection(cmd *cobra.Command, err error) {
	var rejection *core.LedgerRejection
	if !errors.As(err, &rejection) {
		return
	}

	cmd.PrintErrln("rejected by the program:", rejection.Message)
	for _, line := range rejection.Logs {
		cmd.PrintErrln("  ", line)
	}
}

func (r *actionRunner) printResult(cmd *cobra.Command, result *core.TwoPhaseResult) {
	out, err := json.MarshalIndent(result, "", "    ")
	if err == nil {
		cmd.Println(string(out))
	}

	if result.PrimarySignature == "" {
		return
	}

	url := r.system.ExplorerTx(result.PrimarySignature)
	cmd.Println(url)
	qrcode.Fprint(cmd.OutOrStdout(), url)
}
