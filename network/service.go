package network

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Connection is a persistent streaming session with a consensus node.
//
// A Connection holds at most one active subscription. Unsubscribe and Close
// are each expected to be called once; calls after Close are not supported.
type Connection interface {
	// Subscribe installs an event subscription for query and returns once the
	// node has acknowledged it.
	Subscribe(ctx context.Context, query Query) error

	// BroadcastTxSync submits raw transaction bytes and returns the node's
	// mempool-level acknowledgment. A rejection is returned as a result with a
	// non-zero Code, not as an error.
	BroadcastTxSync(ctx context.Context, tx []byte) (*BroadcastResult, error)

	// Receive blocks until the next event delivered on the subscription.
	Receive(ctx context.Context) (*Event, error)

	// Unsubscribe removes the subscription installed for query.
	Unsubscribe(ctx context.Context, query Query) error

	// Close releases the underlying link.
	Close() error
}

// Dialer opens Connections to a node.
type Dialer interface {
	Dial(ctx context.Context) (Connection, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Connection, error)

// Dial calls f(ctx).
func (f DialerFunc) Dial(ctx context.Context) (Connection, error) { return f(ctx) }

// Simulator evaluates a transaction against current node state without
// submitting it.
type Simulator interface {
	DryRun(ctx context.Context, tx []byte) (*DryRunResult, error)
}

// BroadcastResult is the node's mempool-level answer to a broadcast. It is not
// proof of inclusion in a block.
type BroadcastResult struct {
	Code      uint32 `json:"code"`
	Data      string `json:"data"`
	Log       string `json:"log"`
	Codespace string `json:"codespace"`
	Hash      string `json:"hash"`
}

// Accepted reports whether the node queued the transaction.
func (r *BroadcastResult) Accepted() bool {
	return r != nil && r.Code == 0
}

func (r *BroadcastResult) String() string {
	if r == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("code=%d hash=%s", r.Code, r.Hash)
	if r.Codespace != "" {
		s += " codespace=" + r.Codespace
	}
	if r.Log != "" {
		s += fmt.Sprintf(" log=%q", r.Log)
	}
	return s
}

// Event is one message delivered on a subscription.
type Event struct {
	Query  string              `json:"query"`
	Data   json.RawMessage     `json:"data"`
	Events map[string][]string `json:"events"`
}

// Hashes returns the tx.hash attributes carried by the event.
func (e *Event) Hashes() []string {
	if e == nil {
		return nil
	}
	return e.Events["tx.hash"]
}

// Matches reports whether the event carries the given transaction hash.
func (e *Event) Matches(hash string) bool {
	for _, h := range e.Hashes() {
		if strings.EqualFold(h, hash) {
			return true
		}
	}
	return false
}

// Height returns the tx.height attribute, or "" when absent.
func (e *Event) Height() string {
	if e == nil {
		return ""
	}
	if hs := e.Events["tx.height"]; len(hs) > 0 {
		return hs[0]
	}
	return ""
}

func (e *Event) String() string {
	if e == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("tx %s", strings.Join(e.Hashes(), ","))
	if h := e.Height(); h != "" {
		s += " at height " + h
	}
	return s
}

// DryRunResult is the outcome of simulating a transaction.
type DryRunResult struct {
	Code   uint32 `json:"code"`
	Log    string `json:"log"`
	Info   string `json:"info"`
	Value  []byte `json:"value"`
	Height string `json:"height"`
}

func (r *DryRunResult) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("code=%d log=%q info=%q", r.Code, r.Log, r.Info)
}
