// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidLedgerAddress indicates the ledger address is malformed.
	ErrInvalidLedgerAddress = errors.New("config: invalid ledger address")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration file or environment could not be decoded.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingWasm indicates no code path is configured for a transaction kind.
	ErrMissingWasm = errors.New("config: missing wasm path")

	// ErrNegativeWaitTimeout indicates a negative confirmation wait timeout.
	ErrNegativeWaitTimeout = errors.New("config: wait timeout must not be negative")
)
