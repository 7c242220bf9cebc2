package pool

import (
	"context"

	"interest/config"
	"interest/core"
	"interest/pkg/number"

	"github.com/fox-one/pkg/logger"
)

var shareScale = number.Pow10(core.ShareDecimals)

// PoolService pool level reads
type PoolService struct {
	programID string
	ledger    core.ILedger
}

// New new pool service
func New(cfg *config.Config, ledger core.ILedger) core.IPoolService {
	return &PoolService{
		programID: cfg.Ledger.ProgramID,
		ledger:    ledger,
	}
}

// AllPools fetch and decode every pool account. The size filter is a
// pre-filter only; records failing to decode are skipped with a log
// line, never fatal.
func (s *PoolService) AllPools(ctx context.Context) ([]*core.Pool, error) {
	accounts, err := s.ledger.GetProgramAccounts(ctx, s.programID, core.PoolRecordSize)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	pools := make([]*core.Pool, 0, len(accounts))
	seen := make(map[string]bool, len(accounts))

	for _, account := range accounts {
		if seen[account.Address] {
			continue
		}
		seen[account.Address] = true

		pool, err := core.DecodePool(account.Address, account.Data)
		if err != nil {
			log.WithField("account", account.Address).Errorln("skip malformed pool:", err)
			continue
		}

		pools = append(pools, pool)
	}

	return pools, nil
}

// FindPool pool for the mint
func (s *PoolService) FindPool(ctx context.Context, tokenMint string) (*core.Pool, error) {
	pools, err := s.AllPools(ctx)
	if err != nil {
		return nil, err
	}

	for _, pool := range pools {
		if pool.TokenMint == tokenMint {
			return pool, nil
		}
	}

	return nil, core.ErrPoolNotFound
}

// ShareEarnings a provider's cut of the pool's collected fees. The
// share ratio carries 9 decimals so small stakes in large pools do not
// truncate straight to zero.
func (s *PoolService) ShareEarnings(pool *core.Pool, lp *core.LpData) uint64 {
	if pool.TotalLiquidity == 0 || lp.TokenAmount == 0 {
		return 0
	}

	ratio := number.FromUint64(lp.TokenAmount).
		Mul(shareScale).
		Div(number.FromUint64(pool.TotalLiquidity))

	earnings, ok := number.FromUint64(pool.TotalCollected).
		Mul(ratio).
		Div(shareScale).
		Uint64()
	if !ok {
		return 0
	}

	return earnings
}
