package core

import (
	"context"
)

// RawAccount an undecoded ledger account
type RawAccount struct {
	Address string `json:"address,omitempty"`
	Data    []byte `json:"data,omitempty"`
}

// AccountMeta one account in an instruction's fixed account list
type AccountMeta struct {
	Address  string `json:"address,omitempty"`
	Signer   bool   `json:"signer,omitempty"`
	Writable bool   `json:"writable,omitempty"`
}

// Instruction a built instruction ready for signing. The data layout
// and account ordering per instruction name are a fixed external
// contract owned by the ledger program.
type Instruction struct {
	Program  string        `json:"program,omitempty"`
	Accounts []AccountMeta `json:"accounts,omitempty"`
	Data     []byte        `json:"data,omitempty"`
	TraceID  string        `json:"trace_id,omitempty"`
}

// ILedger the opaque external ledger. The client never owns
// authoritative state; it only reads decoded snapshots and submits
// signed instructions. Ledger rejection is authoritative even when
// client side checks passed.
type ILedger interface {
	// GetProgramAccounts all accounts owned by the program whose data
	// is exactly dataSize bytes. The size filter is a coarse type
	// pre-filter only; callers must tolerate decode failures.
	GetProgramAccounts(ctx context.Context, programID string, dataSize int) ([]*RawAccount, error)
	// GetAccount fetch one account's raw bytes; ok is false when the
	// account does not exist
	GetAccount(ctx context.Context, address string) (*RawAccount, bool, error)
	// Submit sign and send an instruction, returning the signature.
	// There is no cancellation once sent.
	Submit(ctx context.Context, ins *Instruction) (string, error)
	// WaitConfirmed block until the signature is confirmed or the
	// confirmation budget runs out
	WaitConfirmed(ctx context.Context, signature string) error
}

// IWallet signing collaborator
type IWallet interface {
	Address() string
	Sign(message []byte) ([]byte, error)
}

// LedgerRejection an execution or simulation failure returned by the
// program. Surfaced verbatim with its diagnostic log lines and never
// retried automatically: a retry needs a fresh price and health
// factor, which means restarting the whole flow.
type LedgerRejection struct {
	Message string   `json:"message,omitempty"`
	Logs    []string `json:"logs,omitempty"`
}

func (r *LedgerRejection) Error() string {
	return r.Message
}
