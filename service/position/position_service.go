package position

import (
	"context"

	"interest/config"
	"interest/core"
	"interest/pkg/number"

	"github.com/fox-one/pkg/logger"
)

// PositionService aggregates raw ledger accounts into joined (user,
// mint) positions. The account size filter is only a coarse type
// pre-filter, and nothing stops a malformed or duplicated account from
// showing up in a scan, so every decode failure is skipped with a log
// line and duplicate addresses keep the first record seen.
type PositionService struct {
	programID string
	ledger    core.ILedger
	pools     core.IPoolService
	engines   core.IEngineService
	oracle    core.IOracleService
}

// New new position service
func New(
	cfg *config.Config,
	ledger core.ILedger,
	pools core.IPoolService,
	engines core.IEngineService,
	oracle core.IOracleService,
) core.IPositionService {
	return &PositionService{
		programID: cfg.Ledger.ProgramID,
		ledger:    ledger,
		pools:     pools,
		engines:   engines,
		oracle:    oracle,
	}
}

// scan fetch accounts of one size and hand each to decode; decode
// failures are skipped, duplicate addresses keep the first
func (s *PositionService) scan(ctx context.Context, dataSize int, decode func(address string, data []byte) error) error {
	accounts, err := s.ledger.GetProgramAccounts(ctx, s.programID, dataSize)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	seen := make(map[string]bool, len(accounts))

	for _, account := range accounts {
		if seen[account.Address] {
			log.WithField("account", account.Address).Debugln("skip duplicated account")
			continue
		}
		seen[account.Address] = true

		if err := decode(account.Address, account.Data); err != nil {
			log.WithField("account", account.Address).Errorln("skip malformed account:", err)
		}
	}

	return nil
}

// AllDeposits every collateral deposit. Deposit and liquidity deposit
// accounts share a byte size; the discriminator check inside the
// decoder is what separates them here.
func (s *PositionService) AllDeposits(ctx context.Context) ([]*core.Deposit, error) {
	var deposits []*core.Deposit
	err := s.scan(ctx, core.DepositRecordSize, func(address string, data []byte) error {
		deposit, err := core.DecodeDeposit(address, data)
		if err != nil {
			return err
		}
		deposits = append(deposits, deposit)
		return nil
	})

	return deposits, err
}

// AllUsers every borrowing record
func (s *PositionService) AllUsers(ctx context.Context) ([]*core.UserData, error) {
	var users []*core.UserData
	err := s.scan(ctx, core.UserDataRecordSize, func(address string, data []byte) error {
		user, err := core.DecodeUserData(address, data)
		if err != nil {
			return err
		}
		users = append(users, user)
		return nil
	})

	return users, err
}

// AllLps every liquidity provider stake
func (s *PositionService) AllLps(ctx context.Context) ([]*core.LpData, error) {
	var lps []*core.LpData
	err := s.scan(ctx, core.LpDataRecordSize, func(address string, data []byte) error {
		lp, err := core.DecodeLpData(address, data)
		if err != nil {
			return err
		}
		lps = append(lps, lp)
		return nil
	})

	return lps, err
}

// AllLqDeposits every liquidity deposit record
func (s *PositionService) AllLqDeposits(ctx context.Context) ([]*core.LqDeposit, error) {
	var lqs []*core.LqDeposit
	err := s.scan(ctx, core.LqDepositRecordSize, func(address string, data []byte) error {
		lq, err := core.DecodeLqDeposit(address, data)
		if err != nil {
			return err
		}
		lqs = append(lqs, lq)
		return nil
	})

	return lqs, err
}

// AllPriceRecords every on-chain price account
func (s *PositionService) AllPriceRecords(ctx context.Context) ([]*core.PriceRecord, error) {
	var records []*core.PriceRecord
	err := s.scan(ctx, core.PriceRecordSize, func(address string, data []byte) error {
		record, err := core.DecodePriceRecord(address, data)
		if err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})

	return records, err
}

// Combine join deposits, borrowing records and pools into positions and
// recompute every health factor at current prices. A deposit whose join
// partners are missing, or whose pool back reference does not match the
// fetched pool, still appears in the output but is not action ready.
func (s *PositionService) Combine(ctx context.Context) ([]*core.Position, error) {
	deposits, err := s.AllDeposits(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.AllUsers(ctx)
	if err != nil {
		return nil, err
	}

	pools, err := s.pools.AllPools(ctx)
	if err != nil {
		return nil, err
	}

	engine, err := s.engines.FetchEngine(ctx)
	if err != nil {
		return nil, err
	}

	userByKey := make(map[string]*core.UserData, len(users))
	for _, user := range users {
		key := user.User + "|" + user.PrimaryToken
		if _, ok := userByKey[key]; !ok {
			userByKey[key] = user
		}
	}

	poolByMint := make(map[string]*core.Pool, len(pools))
	for _, pool := range pools {
		if _, ok := poolByMint[pool.TokenMint]; !ok {
			poolByMint[pool.TokenMint] = pool
		}
	}

	log := logger.FromContext(ctx)
	positions := make([]*core.Position, 0, len(deposits))

	for _, deposit := range deposits {
		pos := &core.Position{Deposit: deposit}
		pos.UserData = userByKey[deposit.User+"|"+deposit.TokenMint]

		if pool, ok := poolByMint[deposit.TokenMint]; ok {
			if pool.Address == deposit.PoolAccount {
				pos.Pool = pool
			} else {
				log.WithField("deposit", deposit.Address).
					Errorln("deposit pool reference does not match pool account")
			}
		}

		if pos.UserData != nil {
			s.refreshHealthFactor(ctx, engine, pos)
		}

		positions = append(positions, pos)
	}

	return positions, nil
}

// refreshHealthFactor recompute from a fresh price. A failed price pull
// leaves the stored hint in place and marks the fresh value invalid; a
// recompute that disagrees with the stored hint is only flagged as
// drift, never disqualified, since a price move produces exactly that.
func (s *PositionService) refreshHealthFactor(ctx context.Context, engine *core.Engine, pos *core.Position) {
	price, err := s.oracle.GetPriceForMint(ctx, pos.Deposit.TokenMint)
	if err != nil {
		logger.FromContext(ctx).WithField("mint", pos.Deposit.TokenMint).
			Errorln("price pull failed, keeping stored health factor:", err)
		pos.FreshHealthFactor = pos.UserData.HealthFactor
		pos.FreshHealthFactorValid = false
		pos.HealthFactorStale = true
		return
	}

	pos.FreshHealthFactor = s.engines.ComputeHealthFactor(engine,
		number.FromUint64(pos.UserData.BorrowedAmount),
		number.FromUint64(pos.UserData.TokenBalance),
		price)
	pos.FreshHealthFactorValid = true
	pos.HealthFactorStale = pos.FreshHealthFactor != pos.UserData.HealthFactor
}

// UserPositions positions for one user
func (s *PositionService) UserPositions(ctx context.Context, user string) ([]*core.Position, error) {
	positions, err := s.Combine(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Position, 0, len(positions))
	for _, pos := range positions {
		if pos.Deposit.User == user {
			out = append(out, pos)
		}
	}

	return out, nil
}
