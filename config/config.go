// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads the client configuration. Values are layered, highest
// priority first: bound command-line flags, ANOMAC_* environment variables
// (optionally from a .env file), the configuration file, then defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/donyusuf12/namada/network"
)

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "ANOMAC"

// Transaction kinds that run fixed, configured code.
const (
	KindTransfer = "tx_transfer"
	KindUpdateVP = "tx_update_vp"
)

// Configuration keys. Nested keys use "."; the matching environment
// variable replaces "." with "_", e.g. ANOMAC_WASM_TX_TRANSFER.
const (
	KeyDataDir        = "data_dir"
	KeyLedgerAddress  = "ledger_address"
	KeyDNSServer      = "dns_server"
	KeyLogLevel       = "log_level"
	KeyWaitTimeout    = "wait_timeout"
	KeyWalletPassword = "wallet_password"
	KeyWasm           = "wasm"
)

// Wasm maps a transaction kind to the path of its code blob.
type Wasm map[string]string

// Config holds the client configuration.
type Config struct {
	DataDir       string        `mapstructure:"data_dir" validate:"required"`
	LedgerAddress string        `mapstructure:"ledger_address" validate:"required"`
	DNSServer     string        `mapstructure:"dns_server" validate:"omitempty,hostname_port|ip"`
	LogLevel      string        `mapstructure:"log_level"`
	WaitTimeout   time.Duration `mapstructure:"wait_timeout"` // 0 = wait forever
	Wasm          Wasm          `mapstructure:"wasm"`

	// WalletPassword is only read from the environment.
	WalletPassword string `mapstructure:"wallet_password"`
}

// DefaultDataDir returns ~/.anomac, or .anomac when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".anomac"
	}
	return filepath.Join(home, ".anomac")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:       DefaultDataDir(),
		LedgerAddress: network.DefaultLedgerAddress,
		LogLevel:      "info",
		Wasm: Wasm{
			KindTransfer: "wasm/tx_transfer.wasm",
			KindUpdateVP: "wasm/tx_update_vp.wasm",
		},
	}
}

// WalletPath returns the keystore file location.
func (c Config) WalletPath() string { return filepath.Join(c.DataDir, "wallet.db") }

// JournalPath returns the submission journal file location.
func (c Config) JournalPath() string { return filepath.Join(c.DataDir, "journal.db") }

// Ledger parses the configured ledger address.
func (c Config) Ledger() (network.Address, error) {
	addr, err := network.ParseAddress(c.LedgerAddress)
	if err != nil {
		return network.Address{}, fmt.Errorf("%w: %w", ErrInvalidLedgerAddress, err)
	}
	return addr, nil
}

// NewViper returns a viper instance carrying the defaults and environment
// binding. Callers bind their flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault(KeyDataDir, def.DataDir)
	v.SetDefault(KeyLedgerAddress, def.LedgerAddress)
	v.SetDefault(KeyDNSServer, "")
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyWaitTimeout, time.Duration(0))
	v.SetDefault(KeyWalletPassword, "")
	for kind, path := range def.Wasm {
		v.SetDefault(KeyWasm+"."+kind, path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// Load reads configFile (if non-empty) into v, decodes and validates the
// result. A named file that does not exist is ErrConfigNotFound.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configFile)
		}
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
