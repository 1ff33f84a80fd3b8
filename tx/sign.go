package tx

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// Sign returns a copy of t carrying a signature made with key.
//
// The signature is a DER-encoded secp256k1 ECDSA signature over
// SHA256(unsigned serialization). The code and data layout of the returned
// transaction is identical to t; only the signature field is set.
func (t *Transaction) Sign(key *ec.PrivateKey) (*Transaction, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	if t.Signed() {
		return nil, ErrAlreadySigned
	}

	msg, err := t.unsignedBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	sig, err := key.Sign(bsvhash.Sha256(msg))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	return &Transaction{
		Code:      t.Code,
		Data:      t.Data,
		Signature: sig.Serialize(),
	}, nil
}

// Verify reports whether the transaction's signature was made by pub.
// Unsigned transactions never verify.
func (t *Transaction) Verify(pub *ec.PublicKey) bool {
	if t == nil || pub == nil || !t.Signed() {
		return false
	}
	msg, err := t.unsignedBytes()
	if err != nil {
		return false
	}
	sig, err := ec.ParseDERSignature(t.Signature)
	if err != nil {
		return false
	}
	return sig.Verify(bsvhash.Sha256(msg), pub)
}
