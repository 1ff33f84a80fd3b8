package wallet

import (
	"encoding/hex"
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

const (
	// BIP44 path constants.
	PurposeBIP44   = 44
	CoinTypeLedger = 877

	// ExternalChain is the only chain used; each account has one signing key.
	ExternalChain = 0

	// Hardened is the BIP32 hardened derivation offset.
	Hardened = 0x80000000

	// MaxAccountIndex is the highest account index that can be hardened.
	MaxAccountIndex = Hardened - 1
)

// HD derives account signing keys from a BIP39 seed.
type HD struct {
	masterKey *bip32.ExtendedKey
}

// KeyPair holds a derived public/private key pair.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"public_key"`
	Path       string         `json:"path"` // Human-readable derivation path
}

// PublicKeyHex returns the compressed public key in hex.
func (kp *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(kp.PublicKey.Compressed())
}

// NewHD creates an HD deriver from a BIP39 seed.
func NewHD(seed []byte) (*HD, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}

	masterKey, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &HD{masterKey: masterKey}, nil
}

// AccountPath returns the derivation path of an account's signing key.
func AccountPath(account uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d/0", PurposeBIP44, CoinTypeLedger, account, ExternalChain)
}

// DeriveAccountKey derives the signing key of an account:
//
//	m/44'/877'/account'/0/0
func (h *HD) DeriveAccountKey(account uint32) (*KeyPair, error) {
	if account > MaxAccountIndex {
		return nil, fmt.Errorf("%w: account index %d", ErrAccountLimit, account)
	}

	key := h.masterKey
	for i, idx := range []uint32{
		PurposeBIP44 + Hardened,
		CoinTypeLedger + Hardened,
		account + Hardened,
		ExternalChain,
		0,
	} {
		next, err := key.Child(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, i+1, err)
		}
		key = next
	}

	return extKeyToKeyPair(key, AccountPath(account))
}

// extKeyToKeyPair converts a BIP32 extended key to a KeyPair.
func extKeyToKeyPair(extKey *bip32.ExtendedKey, path string) (*KeyPair, error) {
	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}

	pubKey := privKey.PubKey()
	if pubKey == nil {
		return nil, fmt.Errorf("%w: failed to derive public key", ErrDerivationFailed)
	}

	return &KeyPair{
		PrivateKey: privKey,
		PublicKey:  pubKey,
		Path:       path,
	}, nil
}
