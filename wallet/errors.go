package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrDecryptionFailed indicates wrong password or corrupted wallet data.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates seed checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrNotInitialized indicates the keystore file holds no seed.
	ErrNotInitialized = errors.New("wallet: keystore not initialized")

	// ErrAlreadyInitialized indicates Create was called on a keystore that has a seed.
	ErrAlreadyInitialized = errors.New("wallet: keystore already initialized")

	// ErrInvalidAlias indicates an empty or malformed account alias.
	ErrInvalidAlias = errors.New("wallet: invalid account alias")

	// ErrAccountNotFound indicates no account is registered under the alias.
	ErrAccountNotFound = errors.New("wallet: account not found")

	// ErrAccountExists indicates the alias is already taken.
	ErrAccountExists = errors.New("wallet: account already exists")

	// ErrAccountLimit indicates the account index would cross the BIP32 hardened boundary.
	ErrAccountLimit = errors.New("wallet: account limit reached")
)
