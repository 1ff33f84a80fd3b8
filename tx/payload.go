package tx

import (
	"fmt"
	"strconv"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/go-playground/validator/v10"
)

// AmountDecimals is the number of fractional digits of a token amount.
const AmountDecimals = 6

const amountScale = 1_000_000

// Amount is a token amount in micro-units.
type Amount uint64

// ParseAmount converts a decimal string such as "10" or "0.25" to micro-units.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > AmountDecimals {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, AmountDecimals)
	}
	if hasFrac && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	var w uint64
	if whole != "" {
		v, err := strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
		}
		w = v
	}
	var f uint64
	if frac != "" {
		v, err := strconv.ParseUint(frac+strings.Repeat("0", AmountDecimals-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
		}
		f = v
	}
	if w > (^uint64(0)-f)/amountScale {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidAmount, s)
	}
	return Amount(w*amountScale + f), nil
}

// String formats the amount as a decimal, dropping trailing zeros.
func (a Amount) String() string {
	whole := uint64(a) / amountScale
	frac := uint64(a) % amountScale
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fs := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	return strconv.FormatUint(whole, 10) + "." + fs
}

// Transfer moves Amount of Token from Source to Target.
type Transfer struct {
	Source string `validate:"required"`
	Target string `validate:"required"`
	Token  string `validate:"required"`
	Amount Amount `validate:"gt=0"`
}

// Encode validates the transfer and returns its Borsh encoding, used as the
// data blob of a transfer transaction.
func (t Transfer) Encode() ([]byte, error) {
	if err := validator.New().Struct(t); err != nil {
		return nil, fmt.Errorf("%w: transfer: %w", ErrInvalidPayload, err)
	}
	return encodePayload(t)
}

// UpdateVP replaces the validity predicate of Address with VPCode.
type UpdateVP struct {
	Address string `validate:"required"`
	VPCode  []byte `validate:"required,min=1"`
}

// Encode validates the update and returns its Borsh encoding.
func (u UpdateVP) Encode() ([]byte, error) {
	if err := validator.New().Struct(u); err != nil {
		return nil, fmt.Errorf("%w: update vp: %w", ErrInvalidPayload, err)
	}
	return encodePayload(u)
}

func encodePayload(v interface{}) ([]byte, error) {
	b, err := bin.MarshalBorsh(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return b, nil
}
