package network

import "errors"

var (
	// ErrAddressInvalid indicates the ledger address cannot be parsed.
	ErrAddressInvalid = errors.New("network: invalid ledger address")

	// ErrConnectionFailed indicates the client could not connect to the node
	// or the link dropped while a call was in flight.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrSubscriptionFailed indicates the node refused or failed to install
	// an event subscription.
	ErrSubscriptionFailed = errors.New("network: subscription failed")

	// ErrBroadcastFailed indicates the broadcast call itself failed.
	ErrBroadcastFailed = errors.New("network: broadcast failed")

	// ErrBroadcastRejected indicates the node answered the broadcast with a
	// non-zero result code.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrDNSLookupFailed indicates the ledger host could not be resolved.
	ErrDNSLookupFailed = errors.New("network: DNS lookup failed")

	// ErrEmptyTx indicates an attempt to send or simulate zero transaction bytes.
	ErrEmptyTx = errors.New("network: empty transaction")

	// ErrClosed indicates a call on a connection that was already closed.
	ErrClosed = errors.New("network: connection closed")
)
