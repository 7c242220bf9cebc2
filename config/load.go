package config

import (
	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file with INTEREST_* env overrides
func Load(configFile string, cfg *Config) error {
	configUtil.AutomaticLoadEnv("INTEREST")
	if err := configUtil.LoadYaml(configFile, cfg); err != nil {
		return err
	}

	defaults(cfg)

	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		return err
	}

	return nil
}

func defaults(cfg *Config) {
	if cfg.Ledger.ConfirmTimeout <= 0 {
		cfg.Ledger.ConfirmTimeout = 30
	}

	if cfg.Oracle.CacheSeconds <= 0 {
		cfg.Oracle.CacheSeconds = 10
	}

	if cfg.Liquidator.Capacity <= 0 {
		cfg.Liquidator.Capacity = 1
	}

	if cfg.API.Port <= 0 {
		cfg.API.Port = 8080
	}
}
