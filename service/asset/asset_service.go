package asset

import (
	"context"
	"sync"

	"interest/config"
	"interest/core"
	"interest/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
)

// known tokens pre-populate the cache so the hot assets never hit the
// list endpoint
var knownTokens = []*core.TokenMeta{
	{
		Address:  "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU",
		Name:     "USD Coin",
		Symbol:   "USDC",
		Decimals: 6,
	},
	{
		Address:  "HzwqbKZw8HxMN6bF2yFZNrht3c2iXXzpKcFu7uBEDKtr",
		Name:     "Euro Coin",
		Symbol:   "EURC",
		Decimals: 6,
	},
}

// AssetService token metadata read through cache. A cache fill racing
// another fill writes the same value for the same key, so no lock
// guards the cache itself; fetchOnce only dedupes the list download.
type AssetService struct {
	listURL   string
	cache     gcache.Cache
	fetchOnce sync.Once
}

// New new asset service
func New(cfg *config.Config) core.IAssetService {
	s := &AssetService{
		listURL: cfg.Oracle.TokenListURL,
		cache:   gcache.New(4096).LRU().Build(),
	}

	for _, token := range knownTokens {
		_ = s.cache.Set(token.Address, token)
	}

	return s
}

// Find metadata for the mint; unknown mints fall back to a truncated
// address entry instead of failing
func (s *AssetService) Find(ctx context.Context, tokenMint string) (*core.TokenMeta, error) {
	if v, err := s.cache.Get(tokenMint); err == nil {
		return v.(*core.TokenMeta), nil
	}

	s.fetchOnce.Do(func() {
		s.fillFromList(ctx)
	})

	if v, err := s.cache.Get(tokenMint); err == nil {
		return v.(*core.TokenMeta), nil
	}

	fallback := &core.TokenMeta{
		Address:  tokenMint,
		Name:     "Unknown Token",
		Symbol:   shortMint(tokenMint),
		Decimals: core.TokenDecimals,
	}
	_ = s.cache.Set(tokenMint, fallback)

	return fallback, nil
}

func (s *AssetService) fillFromList(ctx context.Context) {
	if s.listURL == "" {
		return
	}

	log := logger.FromContext(ctx)

	resp, err := resthttp.Request(ctx).Get(s.listURL)
	if err != nil {
		log.Errorln("fetch token list:", err)
		return
	}

	var list []*core.TokenMeta
	if err := resthttp.ParseResponse(resp, &list); err != nil {
		log.Errorln("parse token list:", err)
		return
	}

	for _, token := range list {
		if s.cache.Has(token.Address) {
			continue
		}
		_ = s.cache.Set(token.Address, token)
	}
}

func shortMint(mint string) string {
	if len(mint) <= 4 {
		return mint
	}
	return mint[:4] + ".."
}
