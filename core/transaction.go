package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/lib/pq"
)

// PhaseStatus status of one phase of an action
type PhaseStatus int

const (
	// PhaseNotAttempted phase was never issued
	PhaseNotAttempted PhaseStatus = iota
	// PhaseOK phase confirmed
	PhaseOK
	// PhaseFailed phase rejected or unconfirmed
	PhaseFailed
)

// Transaction a submitted action and its two phase outcome. The
// primary instruction and the health factor upload are separate ledger
// round trips; a failed follow up marks the position's stored health
// factor stale without undoing the primary effect.
type Transaction struct {
	ID              int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID         string         `sql:"size:36;unique_index:idx_transactions_trace" json:"trace_id,omitempty"`
	Action          string         `sql:"size:32" json:"action,omitempty"`
	User            string         `sql:"size:64" json:"user,omitempty"`
	TokenMint       string         `sql:"size:64" json:"token_mint,omitempty"`
	Amount          string         `sql:"size:32" json:"amount,omitempty"`
	PrimaryStatus   PhaseStatus    `sql:"default:0" json:"primary_status,omitempty"`
	PrimarySig      string         `sql:"size:128" json:"primary_sig,omitempty"`
	FollowUpStatus  PhaseStatus    `sql:"default:0" json:"follow_up_status,omitempty"`
	FollowUpSig     string         `sql:"size:128" json:"follow_up_sig,omitempty"`
	HealthFactor    string         `sql:"size:32" json:"health_factor,omitempty"`
	FailureReason   string         `sql:"size:512" json:"failure_reason,omitempty"`
	LedgerLogs      pq.StringArray `sql:"type:varchar(2048)" json:"ledger_logs,omitempty"`
	CreatedAt       time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt       time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// NeedsHealthFactorRetry primary landed but the upload did not
func (t *Transaction) NeedsHealthFactorRetry() bool {
	return t.PrimaryStatus == PhaseOK && t.FollowUpStatus != PhaseOK
}

// ITransactionStore local action log
type ITransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	Update(ctx context.Context, tx *db.DB, transaction *Transaction) error
	FindTrace(ctx context.Context, traceID string) (*Transaction, bool, error)
	List(ctx context.Context, limit int) ([]*Transaction, error)
	PendingFollowUps(ctx context.Context) ([]*Transaction, error)
}
