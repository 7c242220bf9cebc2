package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"interest/config"
	"interest/core"
	"interest/pkg/number"
	"interest/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
)

// Built in feed ids for the devnet mints the protocol launched with;
// config feeds are merged on top.
var defaultFeeds = map[string]string{
	"So11111111111111111111111111111111111111112":  "0xef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d",
	"2pFfLkkVjhQqz3Xb7j5dNQaiX3CbzJXqkM5JXWhzK2i4": "0xff61491a931112ddf1bd8147cd1b641375f79f5825126d665480874634fd0ace",
	"HzwqbKZw8HxMN6bF2yFZNrht3c2iXXzpKcFu7uBEDKtr": "0x76fa85158bf14ede77087fe3ae472f66213f6ea2f5b411cb2de472794990fa5c",
	"4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU": "0xeaa020c61cc479712813461ce153894a96a6c00b21ed0cfc2798d1f9a9e9c94a",
}

var priceScale = number.Pow10(core.PriceDecimals)

// PriceService price oracle adapter
type PriceService struct {
	endpoint  string
	feeds     map[string]string
	overrides map[string]uint64
	cache     gcache.Cache
	ttl       time.Duration
}

// New new oracle price service
func New(cfg *config.Config) core.IOracleService {
	feeds := make(map[string]string, len(defaultFeeds)+len(cfg.Oracle.Feeds))
	for mint, id := range defaultFeeds {
		feeds[mint] = id
	}
	for mint, id := range cfg.Oracle.Feeds {
		feeds[mint] = id
	}

	overrides := make(map[string]uint64, len(cfg.Oracle.Overrides)+1)
	if cfg.Ledger.DscMint != "" {
		// the protocol stablecoin is pegged at $1.0000 client side
		overrides[cfg.Ledger.DscMint] = 10000
	}
	for mint, price := range cfg.Oracle.Overrides {
		overrides[mint] = price
	}

	return &PriceService{
		endpoint:  strings.TrimSuffix(cfg.Oracle.Endpoint, "/"),
		feeds:     feeds,
		overrides: overrides,
		cache:     gcache.New(128).LRU().Build(),
		ttl:       time.Duration(cfg.Oracle.CacheSeconds) * time.Second,
	}
}

type feedUpdate struct {
	Parsed []struct {
		ID    string `json:"id"`
		Price struct {
			Price string `json:"price"`
			Expo  int32  `json:"expo"`
		} `json:"price"`
	} `json:"parsed"`
}

// GetPriceForMint current USD price for the mint, scaled by 1e4
func (s *PriceService) GetPriceForMint(ctx context.Context, tokenMint string) (number.Scaled, error) {
	if fixed, ok := s.overrides[tokenMint]; ok {
		return number.FromUint64(fixed), nil
	}

	feedID, ok := s.feeds[tokenMint]
	if !ok {
		return number.Zero(), core.ErrUnmappedMint
	}

	if v, err := s.cache.Get(tokenMint); err == nil {
		return v.(number.Scaled), nil
	}

	price, err := s.pullFeed(ctx, feedID)
	if err != nil {
		return number.Zero(), err
	}

	_ = s.cache.SetWithExpire(tokenMint, price, s.ttl)
	return price, nil
}

func (s *PriceService) pullFeed(ctx context.Context, feedID string) (number.Scaled, error) {
	url := fmt.Sprintf("%s/v2/updates/price/latest", s.endpoint)
	logger.FromContext(ctx).Debugln("pull price feed:", feedID)

	resp, err := resthttp.Request(ctx).SetQueryParam("ids[]", feedID).Get(url)
	if err != nil {
		return number.Zero(), err
	}

	var update feedUpdate
	if err := resthttp.ParseResponse(resp, &update); err != nil {
		return number.Zero(), err
	}

	want := normalizeFeedID(feedID)
	for _, feed := range update.Parsed {
		if normalizeFeedID(feed.ID) != want {
			continue
		}

		return normalizePrice(feed.Price.Price, feed.Price.Expo)
	}

	return number.Zero(), core.ErrFeedNotFound
}

// PullAllPrices fetch prices for every mapped and overridden mint
func (s *PriceService) PullAllPrices(ctx context.Context) map[string]core.PricePull {
	out := make(map[string]core.PricePull, len(s.feeds)+len(s.overrides))

	for mint := range s.feeds {
		price, err := s.GetPriceForMint(ctx, mint)
		out[mint] = core.PricePull{TokenMint: mint, Price: price, Err: err}
	}

	for mint := range s.overrides {
		price, err := s.GetPriceForMint(ctx, mint)
		out[mint] = core.PricePull{TokenMint: mint, Price: price, Err: err}
	}

	return out
}

// feed ids compare case insensitive with or without the 0x marker
func normalizeFeedID(id string) string {
	return strings.TrimPrefix(strings.ToLower(id), "0x")
}

// normalizePrice scale a (mantissa, expo) pair to 1e4 USD. The feed's
// native precision usually exceeds the target scale, so the negative
// expo path divides with truncation instead of multiplying.
func normalizePrice(mantissa string, expo int32) (number.Scaled, error) {
	m, ok := new(big.Int).SetString(strings.TrimSpace(mantissa), 10)
	if !ok {
		return number.Zero(), core.ErrFeedNotFound
	}

	raw := number.FromBig(m).Mul(priceScale)
	if expo < 0 {
		return raw.Div(number.Pow10(-expo)), nil
	}

	return raw.Mul(number.Pow10(expo)), nil
}
