package network

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "9F86D081884C7D659A2FEAA0C55AD015A3BF4F1B2B0B822CD15D6C15B0F00A08"

// wsTestServer starts a fake node that passes every request to handle.
// handle runs on the connection's only writer goroutine.
func wsTestServer(t *testing.T, handle func(conn *websocket.Conn, req rpcRequest)) Address {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/websocket", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req rpcRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			handle(conn, req)
		}
	}))
	t.Cleanup(server.Close)

	addr, err := ParseAddress(server.Listener.Addr().String())
	require.NoError(t, err)
	return addr
}

func reply(t *testing.T, conn *websocket.Conn, id string, result interface{}) {
	t.Helper()
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(rpcResponse{JSONRPC: "2.0", ID: id, Result: raw}))
}

func replyError(t *testing.T, conn *websocket.Conn, id string, rerr *rpcError) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(rpcResponse{JSONRPC: "2.0", ID: id, Error: rerr}))
}

func txEvent(query, hash string) map[string]interface{} {
	return map[string]interface{}{
		"query": query,
		"data":  map[string]interface{}{"type": "tendermint/event/Tx", "value": map[string]interface{}{}},
		"events": map[string][]string{
			"tm.event":  {"Tx"},
			"tx.hash":   {hash},
			"tx.height": {"7"},
		},
	}
}

func dialTest(t *testing.T, addr Address) *WSClient {
	t.Helper()
	c, err := NewWSDialer(addr).DialWS(context.Background())
	require.NoError(t, err)
	return c
}

func TestWSClientSubmitFlow(t *testing.T) {
	txBytes := []byte("signed transaction")
	query := TxQuery(testHash)

	var subID string
	var mu sync.Mutex
	var methods []string
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		mu.Lock()
		methods = append(methods, req.Method)
		mu.Unlock()
		params, _ := req.Params.(map[string]interface{})

		switch req.Method {
		case "subscribe":
			assert.Equal(t, query.String(), params["query"])
			subID = req.ID
			reply(t, conn, req.ID, map[string]interface{}{})
		case "broadcast_tx_sync":
			assert.Equal(t, base64.StdEncoding.EncodeToString(txBytes), params["tx"])
			// The execution event overtakes the broadcast reply.
			reply(t, conn, subID+"#event", txEvent(query.String(), testHash))
			reply(t, conn, req.ID, map[string]interface{}{
				"code": 0, "data": "", "log": "", "codespace": "", "hash": testHash,
			})
		case "unsubscribe":
			assert.Equal(t, query.String(), params["query"])
			reply(t, conn, req.ID, map[string]interface{}{})
		}
	})

	ctx := context.Background()
	c := dialTest(t, addr)

	require.NoError(t, c.Subscribe(ctx, query))

	ack, err := c.BroadcastTxSync(ctx, txBytes)
	require.NoError(t, err)
	assert.True(t, ack.Accepted())
	assert.Equal(t, testHash, ack.Hash)

	ev, err := c.Receive(ctx)
	require.NoError(t, err)
	assert.True(t, ev.Matches(testHash))
	assert.Equal(t, "7", ev.Height())
	assert.Equal(t, query.String(), ev.Query)

	require.NoError(t, c.Unsubscribe(ctx, query))
	require.NoError(t, c.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"subscribe", "broadcast_tx_sync", "unsubscribe"}, methods)
}

func TestWSClientBroadcastRejected(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		reply(t, conn, req.ID, map[string]interface{}{
			"code": 1, "log": "insufficient balance", "codespace": "", "hash": testHash,
		})
	})

	c := dialTest(t, addr)
	defer c.Close()

	ack, err := c.BroadcastTxSync(context.Background(), []byte{0x01})
	require.NoError(t, err)
	assert.False(t, ack.Accepted())
	assert.Equal(t, uint32(1), ack.Code)
	assert.Equal(t, "insufficient balance", ack.Log)
}

func TestWSClientSubscribeError(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		replyError(t, conn, req.ID, &rpcError{Code: -32603, Message: "Internal error", Data: "max_subscriptions_per_client reached"})
	})

	c := dialTest(t, addr)
	defer c.Close()

	err := c.Subscribe(context.Background(), TxQuery(testHash))
	assert.ErrorIs(t, err, ErrSubscriptionFailed)
	assert.Contains(t, err.Error(), "max_subscriptions_per_client")
}

func TestWSClientBroadcastCallError(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		replyError(t, conn, req.ID, &rpcError{Code: -32603, Message: "Internal error", Data: "tx already exists in cache"})
	})

	c := dialTest(t, addr)
	defer c.Close()

	_, err := c.BroadcastTxSync(context.Background(), []byte{0x01})
	assert.ErrorIs(t, err, ErrBroadcastFailed)
}

func TestWSClientBroadcastEmpty(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		t.Errorf("unexpected request %s", req.Method)
	})

	c := dialTest(t, addr)
	defer c.Close()

	_, err := c.BroadcastTxSync(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyTx)
}

func TestWSClientReceiveContextDeadline(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {})

	c := dialTest(t, addr)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWSClientConnectionDropped(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		_ = conn.Close()
	})

	c := dialTest(t, addr)
	defer c.Close()

	err := c.Subscribe(context.Background(), TxQuery(testHash))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnectionFailed)

	_, err = c.Receive(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestWSClientSubscriptionCancelled(t *testing.T) {
	var subID string
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		subID = req.ID
		reply(t, conn, req.ID, map[string]interface{}{})
		replyError(t, conn, subID+"#event", &rpcError{Code: -32000, Message: "Server error", Data: "subscription was cancelled"})
	})

	c := dialTest(t, addr)
	defer c.Close()

	require.NoError(t, c.Subscribe(context.Background(), TxQuery(testHash)))
	_, err := c.Receive(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionFailed)
}

func TestWSClientCallAfterClose(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		reply(t, conn, req.ID, map[string]interface{}{})
	})

	c := dialTest(t, addr)
	require.NoError(t, c.Close())

	err := c.Subscribe(context.Background(), TxQuery(testHash))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = c.Receive(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWSDialerConnectionRefused(t *testing.T) {
	d := NewWSDialer(Address{Host: "127.0.0.1", Port: 1})
	_, err := d.Dial(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestWSDialerResolverFailure(t *testing.T) {
	d := &WSDialer{
		Address:  Address{Host: "node.invalid", Port: 26657},
		Resolver: staticResolver{},
	}
	_, err := d.Dial(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

type staticResolver map[string][]string

func (r staticResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if ips, ok := r[host]; ok {
		return ips, nil
	}
	return nil, ErrDNSLookupFailed
}

func TestWSDialerUsesResolver(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		reply(t, conn, req.ID, map[string]interface{}{})
	})

	d := &WSDialer{
		Address:  Address{Host: "validator.local", Port: addr.Port},
		Resolver: staticResolver{"validator.local": {addr.Host}},
	}
	conn, err := d.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.Subscribe(context.Background(), TxQuery(testHash)))
}
