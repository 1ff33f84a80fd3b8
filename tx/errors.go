package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrEmptyCode indicates the transaction carries no code to execute.
	ErrEmptyCode = errors.New("tx: code must not be empty")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrAlreadySigned indicates Sign was called on a signed transaction.
	ErrAlreadySigned = errors.New("tx: transaction is already signed")

	// ErrEncoding indicates a transaction or payload could not be serialized.
	ErrEncoding = errors.New("tx: encoding failed")

	// ErrDecoding indicates the bytes are not a valid serialized transaction.
	ErrDecoding = errors.New("tx: decoding failed")

	// ErrInvalidPayload indicates a transfer or update payload failed validation.
	ErrInvalidPayload = errors.New("tx: invalid payload")

	// ErrInvalidAmount indicates a token amount string could not be parsed.
	ErrInvalidAmount = errors.New("tx: invalid amount")
)
