package network

import (
	"context"
	"sync"
	"sync/atomic"
)

// Call names recorded by MockConnection.
const (
	CallSubscribe   = "subscribe"
	CallBroadcast   = "broadcast_tx_sync"
	CallReceive     = "receive"
	CallUnsubscribe = "unsubscribe"
	CallClose       = "close"
)

// MockConnection is a recording test double for Connection.
//
// Every method call is appended to the call log before the corresponding
// function field runs. A nil function field succeeds with a zero result,
// except ReceiveFn which blocks until ctx is done.
type MockConnection struct {
	SubscribeFn       func(ctx context.Context, query Query) error
	BroadcastTxSyncFn func(ctx context.Context, tx []byte) (*BroadcastResult, error)
	ReceiveFn         func(ctx context.Context) (*Event, error)
	UnsubscribeFn     func(ctx context.Context, query Query) error
	CloseFn           func() error

	mu    sync.Mutex
	calls []string
}

var _ Connection = (*MockConnection)(nil)

func (m *MockConnection) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

// Calls returns a copy of the call log in order.
func (m *MockConnection) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Count returns how many times the named call was made.
func (m *MockConnection) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *MockConnection) Subscribe(ctx context.Context, query Query) error {
	m.record(CallSubscribe)
	if m.SubscribeFn == nil {
		return nil
	}
	return m.SubscribeFn(ctx, query)
}

func (m *MockConnection) BroadcastTxSync(ctx context.Context, tx []byte) (*BroadcastResult, error) {
	m.record(CallBroadcast)
	if m.BroadcastTxSyncFn == nil {
		return &BroadcastResult{}, nil
	}
	return m.BroadcastTxSyncFn(ctx, tx)
}

func (m *MockConnection) Receive(ctx context.Context) (*Event, error) {
	m.record(CallReceive)
	if m.ReceiveFn == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.ReceiveFn(ctx)
}

func (m *MockConnection) Unsubscribe(ctx context.Context, query Query) error {
	m.record(CallUnsubscribe)
	if m.UnsubscribeFn == nil {
		return nil
	}
	return m.UnsubscribeFn(ctx, query)
}

func (m *MockConnection) Close() error {
	m.record(CallClose)
	if m.CloseFn == nil {
		return nil
	}
	return m.CloseFn()
}

// MockDialer is a Dialer test double that hands out Conn, or fails with Err.
type MockDialer struct {
	Conn Connection
	Err  error

	dials atomic.Int32
}

var _ Dialer = (*MockDialer)(nil)

func (d *MockDialer) Dial(ctx context.Context) (Connection, error) {
	d.dials.Add(1)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Conn, nil
}

// Dials returns the number of Dial calls.
func (d *MockDialer) Dials() int { return int(d.dials.Load()) }

// MockSimulator is a Simulator test double.
type MockSimulator struct {
	DryRunFn func(ctx context.Context, tx []byte) (*DryRunResult, error)
}

var _ Simulator = (*MockSimulator)(nil)

func (m *MockSimulator) DryRun(ctx context.Context, tx []byte) (*DryRunResult, error) {
	return m.DryRunFn(ctx, tx)
}
