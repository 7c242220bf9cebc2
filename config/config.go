package config

import (
	"github.com/fox-one/pkg/store/db"
)

// Config node config
type Config struct {
	DB         db.Config  `json:"db"`
	Ledger     Ledger     `json:"ledger"`
	Oracle     Oracle     `json:"oracle"`
	Wallet     Wallet     `json:"wallet"`
	API        API        `json:"api"`
	Liquidator Liquidator `json:"liquidator"`
	App        App        `json:"app"`
}

// App app level settings
type App struct {
	Location    string `json:"location"`
	ExplorerURL string `json:"explorer_url"`
}

// Ledger external program gateway
type Ledger struct {
	Endpoint  string `json:"end_point" valid:"required"`
	ProgramID string `json:"program_id" valid:"required"`
	DscMint   string `json:"dsc_mint" valid:"required"`
	// ConfirmTimeout seconds to wait for a confirmation before the
	// action is reported unconfirmed
	ConfirmTimeout int64 `json:"confirm_timeout"`
}

// Oracle price feed gateway
type Oracle struct {
	Endpoint string `json:"end_point" valid:"required"`
	// Feeds mint address to feed id; merged over the built in map
	Feeds map[string]string `json:"feeds"`
	// Overrides mint address to fixed 1e4 scaled price, bypassing the
	// feed entirely; the DSC mint belongs here
	Overrides map[string]uint64 `json:"overrides"`
	// CacheSeconds price cache ttl
	CacheSeconds int64 `json:"cache_seconds"`
	// TokenListURL metadata list endpoint
	TokenListURL string `json:"token_list_url"`
}

// Wallet signing key
type Wallet struct {
	KeystorePath string `json:"keystore_path"`
}

// API rest surface
type API struct {
	Port int `json:"port"`
}

// Liquidator liquidator worker settings
type Liquidator struct {
	Enabled bool `json:"enabled"`
	// DryRun log candidates without submitting
	DryRun   bool  `json:"dry_run"`
	Capacity int64 `json:"capacity"`
}
