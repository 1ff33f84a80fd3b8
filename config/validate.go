// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/donyusuf12/namada/network"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if _, err := network.ParseAddress(cfg.LedgerAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLedgerAddress, err)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.WaitTimeout < 0 {
		return ErrNegativeWaitTimeout
	}

	for _, kind := range []string{KindTransfer, KindUpdateVP} {
		if cfg.Wasm[kind] == "" {
			return fmt.Errorf("%w: %s", ErrMissingWasm, kind)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
