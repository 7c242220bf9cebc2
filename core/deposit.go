package core

import (
	"interest/pkg/layout"
)

// Deposit per (user, mint) collateral balance. Never deleted once
// created; zero balance is a valid resting state.
type Deposit struct {
	Address     string `json:"address,omitempty"`
	User        string `json:"user,omitempty"`
	TokenMint   string `json:"token_mint,omitempty"`
	TokenAmount uint64 `json:"token_amount,omitempty"`
	PoolAccount string `json:"pool_account,omitempty"`
	Bump        uint8  `json:"bump,omitempty"`
}

// DepositRecordSize deposit account byte size
const DepositRecordSize = layout.DiscriminatorLen + 3*layout.PubKeyLen + 8 + 1

// DecodeDeposit decode a deposit account
func DecodeDeposit(address string, data []byte) (*Deposit, error) {
	var (
		user layout.PubKey
		mint layout.PubKey
		pool layout.PubKey
		d    Deposit
	)

	_, err := layout.ScanRecord(data, "Deposit",
		&user, &mint, &d.TokenAmount, &pool, &d.Bump)
	if err != nil {
		return nil, ErrMalformedAccount
	}

	d.Address = address
	d.User = user.String()
	d.TokenMint = mint.String()
	d.PoolAccount = pool.String()
	return &d, nil
}
