package network

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxQuery(t *testing.T) {
	assert.Equal(t, "tm.event = 'Tx' AND tx.hash = 'ABC'", TxQuery("ABC").String())
	assert.Equal(t, "tm.event = 'NewBlock'", NewQuery("NewBlock").String())
	assert.Equal(t, "a = 'it\\'s'", Query("").AndEq("a", "it's").String())
}

func TestEventMatches(t *testing.T) {
	ev := &Event{Events: map[string][]string{
		"tx.hash":   {"ABCDEF"},
		"tx.height": {"12"},
	}}
	assert.True(t, ev.Matches("ABCDEF"))
	assert.True(t, ev.Matches("abcdef"))
	assert.False(t, ev.Matches("123456"))
	assert.Equal(t, "12", ev.Height())
	assert.Equal(t, "tx ABCDEF at height 12", ev.String())

	var nilEvent *Event
	assert.False(t, nilEvent.Matches("ABCDEF"))
	assert.Equal(t, "", nilEvent.Height())
	assert.Equal(t, "", (&Event{}).Height())
}

func TestBroadcastResultAccepted(t *testing.T) {
	assert.True(t, (&BroadcastResult{Code: 0}).Accepted())
	assert.False(t, (&BroadcastResult{Code: 5}).Accepted())

	var nilResult *BroadcastResult
	assert.False(t, nilResult.Accepted())

	r := &BroadcastResult{Code: 1, Hash: "AB", Codespace: "sdk", Log: "out of gas"}
	assert.Equal(t, `code=1 hash=AB codespace=sdk log="out of gas"`, r.String())
}

func TestDialerFunc(t *testing.T) {
	want := &MockConnection{}
	var d Dialer = DialerFunc(func(ctx context.Context) (Connection, error) {
		return want, nil
	})
	got, err := d.Dial(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestMockConnectionRecordsCalls(t *testing.T) {
	errUnsub := errors.New("unsubscribe failed")
	m := &MockConnection{
		UnsubscribeFn: func(ctx context.Context, query Query) error { return errUnsub },
		ReceiveFn: func(ctx context.Context) (*Event, error) {
			return &Event{Query: "q"}, nil
		},
	}
	ctx := context.Background()

	require.NoError(t, m.Subscribe(ctx, "q"))
	ack, err := m.BroadcastTxSync(ctx, []byte{1})
	require.NoError(t, err)
	assert.True(t, ack.Accepted())
	ev, err := m.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "q", ev.Query)
	assert.ErrorIs(t, m.Unsubscribe(ctx, "q"), errUnsub)
	require.NoError(t, m.Close())

	assert.Equal(t, []string{CallSubscribe, CallBroadcast, CallReceive, CallUnsubscribe, CallClose}, m.Calls())
	assert.Equal(t, 1, m.Count(CallClose))
	assert.Equal(t, 0, m.Count("dial"))
}

func TestMockConnectionReceiveBlocksUntilDone(t *testing.T) {
	m := &MockConnection{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockDialer(t *testing.T) {
	conn := &MockConnection{}
	d := &MockDialer{Conn: conn}
	got, err := d.Dial(context.Background())
	require.NoError(t, err)
	assert.Same(t, conn, got)

	d.Err = ErrConnectionFailed
	_, err = d.Dial(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.Equal(t, 2, d.Dials())
}
