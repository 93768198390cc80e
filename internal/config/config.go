// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

// Backend names accepted by the store layer.
const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
)

type Config struct {
	Backend       string `mapstructure:"backend"`
	DataDir       string `mapstructure:"data_dir"`
	DebugLogging  bool   `mapstructure:"debug_logging"`
	GovernanceKey string `mapstructure:"governance_key"`
	TreasuryKey   string `mapstructure:"treasury_key"`
	Retries       int    `mapstructure:"retries"`
}

const (
	DefaultBackend = BackendMemory
	DefaultDataDir = "data"
	DefaultRetries = 3
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"backend":  DefaultBackend,
		"data_dir": DefaultDataDir,
		"retries":  DefaultRetries,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

// Governance returns the configured governance key, or a fresh one when the
// config leaves it empty.
func (c *Config) Governance() (solana.PublicKey, error) {
	return keyOrFresh(c.GovernanceKey)
}

// Treasury returns the configured treasury key, or a fresh one when the
// config leaves it empty.
func (c *Config) Treasury() (solana.PublicKey, error) {
	return keyOrFresh(c.TreasuryKey)
}

func keyOrFresh(raw string) (solana.PublicKey, error) {
	if raw == "" {
		return solana.NewWallet().PublicKey(), nil
	}
	pk, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid base58 key %q: %w", raw, err)
	}
	return pk, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Backend {
	case BackendMemory:
	case BackendPebble:
		if cfg.DataDir == "" {
			return errors.New("pebble backend requires data_dir")
		}
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if _, err := keyOrFresh(cfg.GovernanceKey); err != nil {
		return err
	}
	if _, err := keyOrFresh(cfg.TreasuryKey); err != nil {
		return err
	}
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if env := v.GetString("BACKEND"); env != "" {
		cfg.Backend = env
	}
	if env := v.GetString("DATA_DIR"); env != "" {
		cfg.DataDir = env
	}
	if env := v.GetString("GOVERNANCE_KEY"); env != "" {
		cfg.GovernanceKey = env
	}
	if env := v.GetString("TREASURY_KEY"); env != "" {
		cfg.TreasuryKey = env
	}
	return nil
}
