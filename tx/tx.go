package tx

import (
	"encoding/hex"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// Transaction is a code blob executed by the ledger, with optional input data
// and an optional signature over both.
//
// A nil Data or Signature means the field is absent. An empty non-nil slice is
// a present, zero-length value and serializes differently from nil.
type Transaction struct {
	Code      []byte
	Data      []byte
	Signature []byte
}

// wireTx is the Borsh layout of a Transaction. Presence flags are explicit so
// that an empty data blob survives a Decode/Bytes round trip unchanged.
type wireTx struct {
	Code      []byte
	HasData   bool
	Data      []byte
	HasSig    bool
	Signature []byte
}

// New assembles an unsigned transaction. It performs no I/O and does not copy
// its arguments; callers must not mutate them afterwards.
func New(code, data []byte) *Transaction {
	return &Transaction{Code: code, Data: data}
}

// Signed reports whether the transaction carries a signature.
func (t *Transaction) Signed() bool {
	return t.Signature != nil
}

// Bytes returns the canonical serialization of the transaction. The same
// transaction always serializes to the same bytes.
func (t *Transaction) Bytes() ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	if len(t.Code) == 0 {
		return nil, ErrEmptyCode
	}
	w := wireTx{
		Code:      t.Code,
		HasData:   t.Data != nil,
		Data:      t.Data,
		HasSig:    t.Signature != nil,
		Signature: t.Signature,
	}
	b, err := bin.MarshalBorsh(&w)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return b, nil
}

// unsignedBytes serializes the transaction with its signature stripped. This
// is the message covered by the signature.
func (t *Transaction) unsignedBytes() ([]byte, error) {
	u := Transaction{Code: t.Code, Data: t.Data}
	return u.Bytes()
}

// Decode parses bytes produced by Bytes.
func Decode(b []byte) (*Transaction, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecoding)
	}
	var w wireTx
	if err := bin.UnmarshalBorsh(&w, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	t := &Transaction{Code: w.Code}
	if w.HasData {
		t.Data = nonNil(w.Data)
	}
	if w.HasSig {
		t.Signature = nonNil(w.Signature)
	}
	return t, nil
}

// Hash returns the correlation hash of serialized transaction bytes: the
// upper-case hex SHA-256 digest, which is how the node reports tx.hash in its
// events. It is never used as a trust anchor.
func Hash(txBytes []byte) string {
	return strings.ToUpper(hex.EncodeToString(bsvhash.Sha256(txBytes)))
}

// Hash serializes the transaction and returns the hash of those bytes.
func (t *Transaction) Hash() (string, error) {
	b, err := t.Bytes()
	if err != nil {
		return "", err
	}
	return Hash(b), nil
}

// Borsh decoding leaves zero-length slices nil.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
