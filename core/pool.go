package core

import (
	"context"

	"interest/pkg/layout"
)

// Pool per collateral mint pool state, the on-chain "config" account.
// One pool per mint; the vault balance reconciles against total
// liquidity plus collected fees.
type Pool struct {
	Address        string `json:"address,omitempty"`
	TokenMint      string `json:"token_mint,omitempty"`
	TotalLiquidity uint64 `json:"total_liquidity,omitempty"`
	TotalCollected uint64 `json:"total_collected,omitempty"`
	Vault          string `json:"vault,omitempty"`
	Authority      string `json:"authority,omitempty"`
	Bump           uint8  `json:"bump,omitempty"`
}

// PoolRecordSize pool account byte size
const PoolRecordSize = layout.DiscriminatorLen + 3*layout.PubKeyLen + 2*8 + 1

// DecodePool decode a pool account
func DecodePool(address string, data []byte) (*Pool, error) {
	var (
		mint      layout.PubKey
		vault     layout.PubKey
		authority layout.PubKey
		p         Pool
	)

	_, err := layout.ScanRecord(data, "Config",
		&mint, &p.TotalLiquidity, &p.TotalCollected,
		&vault, &authority, &p.Bump)
	if err != nil {
		return nil, ErrMalformedAccount
	}

	p.Address = address
	p.TokenMint = mint.String()
	p.Vault = vault.String()
	p.Authority = authority.String()
	return &p, nil
}

// LpData per user liquidity provider stake
type LpData struct {
	Address     string `json:"address,omitempty"`
	User        string `json:"user,omitempty"`
	TokenAmount uint64 `json:"token_amount,omitempty"`
	TokenMint   string `json:"token_mint,omitempty"`
	Bump        uint8  `json:"bump,omitempty"`
}

// LpDataRecordSize lp account byte size
const LpDataRecordSize = layout.DiscriminatorLen + 2*layout.PubKeyLen + 8 + 1

// DecodeLpData decode an lp stake account
func DecodeLpData(address string, data []byte) (*LpData, error) {
	var (
		user layout.PubKey
		mint layout.PubKey
		lp   LpData
	)

	_, err := layout.ScanRecord(data, "LpData",
		&user, &lp.TokenAmount, &mint, &lp.Bump)
	if err != nil {
		return nil, ErrMalformedAccount
	}

	lp.Address = address
	lp.User = user.String()
	lp.TokenMint = mint.String()
	return &lp, nil
}

// LqDeposit per user liquidity deposit record owned by a pool
type LqDeposit struct {
	Address     string `json:"address,omitempty"`
	User        string `json:"user,omitempty"`
	TokenMint   string `json:"token_mint,omitempty"`
	TokenAmount uint64 `json:"token_amount,omitempty"`
	PoolAccount string `json:"pool_account,omitempty"`
	Bump        uint8  `json:"bump,omitempty"`
}

// LqDepositRecordSize liquidity deposit account byte size. Shares its
// size with Deposit; only the discriminator separates the two.
const LqDepositRecordSize = layout.DiscriminatorLen + 3*layout.PubKeyLen + 8 + 1

// DecodeLqDeposit decode a liquidity deposit account
func DecodeLqDeposit(address string, data []byte) (*LqDeposit, error) {
	var (
		user layout.PubKey
		mint layout.PubKey
		pool layout.PubKey
		lq   LqDeposit
	)

	_, err := layout.ScanRecord(data, "LqDeposit",
		&user, &mint, &lq.TokenAmount, &pool, &lq.Bump)
	if err != nil {
		return nil, ErrMalformedAccount
	}

	lq.Address = address
	lq.User = user.String()
	lq.TokenMint = mint.String()
	lq.PoolAccount = pool.String()
	return &lq, nil
}

// IPoolService pool level reads
type IPoolService interface {
	// AllPools fetch and decode every pool account
	AllPools(ctx context.Context) ([]*Pool, error)
	// FindPool pool for the mint
	FindPool(ctx context.Context, tokenMint string) (*Pool, error)
	// ShareEarnings a provider's share of collected fees:
	// lp amount x total collected / total liquidity, 1e9 ratio math
	ShareEarnings(pool *Pool, lp *LpData) uint64
}
