package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// defaultHandshakeTimeout bounds the WebSocket upgrade handshake.
	defaultHandshakeTimeout = 10 * time.Second

	// eventBuffer is the number of subscription messages held for Receive.
	eventBuffer = 16

	// closeGrace bounds the write of the close frame.
	closeGrace = time.Second
)

// WSDialer opens WSClient connections to a node's /websocket endpoint.
type WSDialer struct {
	// Address is the node to dial.
	Address Address

	// Resolver resolves the node host before dialing. When nil the system
	// resolver is used.
	Resolver Resolver

	// HandshakeTimeout bounds the WebSocket handshake. Zero means 10s.
	HandshakeTimeout time.Duration
}

var _ Dialer = (*WSDialer)(nil)

// NewWSDialer creates a dialer for addr using the system resolver.
func NewWSDialer(addr Address) *WSDialer {
	return &WSDialer{Address: addr}
}

// Dial opens a WebSocket connection to the node.
func (d *WSDialer) Dial(ctx context.Context) (Connection, error) {
	c, err := d.DialWS(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DialWS is Dial returning the concrete client.
func (d *WSDialer) DialWS(ctx context.Context) (*WSClient, error) {
	timeout := d.HandshakeTimeout
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}
	wd := websocket.Dialer{
		HandshakeTimeout: timeout,
		NetDialContext:   d.netDial,
	}

	conn, resp, err := wd.DialContext(ctx, d.Address.WebSocketURL(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, d.Address, err)
	}
	return newWSClient(conn), nil
}

func (d *WSDialer) netDial(ctx context.Context, network, addr string) (net.Conn, error) {
	var nd net.Dialer
	if d.Resolver == nil {
		return nd.DialContext(ctx, network, addr)
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ips, err := d.Resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, ip := range ips {
		conn, err := nd.DialContext(ctx, network, net.JoinHostPort(ip, port))
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no addresses for %s", ErrDNSLookupFailed, host)
	}
	return nil, lastErr
}

// WSClient is a Connection over a node WebSocket speaking JSON-RPC 2.0.
//
// A single read loop owns the socket's read side. Replies are routed to the
// waiting call by request ID; every other message is treated as a
// subscription event and queued for Receive, so events that arrive before a
// broadcast reply are kept.
type WSClient struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan rpcResponse
	err     error

	events    chan wsEvent
	done      chan struct{}
	closeOnce sync.Once
}

var _ Connection = (*WSClient)(nil)

type wsEvent struct {
	event *Event
	err   error
}

func newWSClient(conn *websocket.Conn) *WSClient {
	c := &WSClient{
		conn:    conn,
		pending: make(map[string]chan rpcResponse),
		events:  make(chan wsEvent, eventBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *WSClient) readLoop() {
	for {
		var resp rpcResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.shutdown(fmt.Errorf("%w: read: %w", ErrConnectionFailed, err))
			return
		}
		c.dispatch(resp)
	}
}

func (c *WSClient) dispatch(resp rpcResponse) {
	c.mu.Lock()
	ch, ok := c.pending[resp.ID]
	if ok {
		delete(c.pending, resp.ID)
	}
	c.mu.Unlock()

	if ok {
		ch <- resp
		return
	}

	var msg wsEvent
	switch {
	case resp.Error != nil:
		msg.err = fmt.Errorf("%w: %w", ErrSubscriptionFailed, resp.Error)
	case len(resp.Result) == 0:
		return
	default:
		var ev Event
		if err := json.Unmarshal(resp.Result, &ev); err != nil {
			msg.err = fmt.Errorf("%w: decode event: %w", ErrInvalidResponse, err)
			break
		}
		// Late replies to abandoned calls decode as empty events.
		if ev.Query == "" && len(ev.Data) == 0 && len(ev.Events) == 0 {
			return
		}
		msg.event = &ev
	}

	select {
	case c.events <- msg:
	case <-c.done:
	}
}

func (c *WSClient) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *WSClient) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		return ErrClosed
	}
	return c.err
}

// call sends a request and waits for its reply.
func (c *WSClient) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
	ch := make(chan rpcResponse, 1)

	select {
	case <-c.done:
		return c.closedErr()
	default:
	}

	c.mu.Lock()
	c.pending[req.ID] = ch
	c.mu.Unlock()
	forget := func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}

	if err := c.write(ctx, req); err != nil {
		forget()
		return err
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("%w: unmarshal %s result: %w", ErrInvalidResponse, method, err)
			}
		}
		return nil
	case <-ctx.Done():
		forget()
		return ctx.Err()
	case <-c.done:
		return c.closedErr()
	}
}

func (c *WSClient) write(ctx context.Context, req rpcRequest) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrConnectionFailed, req.Method, err)
	}
	return nil
}

// Subscribe installs an event subscription for query.
func (c *WSClient) Subscribe(ctx context.Context, query Query) error {
	err := c.call(ctx, "subscribe", map[string]string{"query": query.String()}, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscriptionFailed, query, err)
	}
	return nil
}

// BroadcastTxSync submits tx and returns the node's acknowledgment.
func (c *WSClient) BroadcastTxSync(ctx context.Context, tx []byte) (*BroadcastResult, error) {
	if len(tx) == 0 {
		return nil, ErrEmptyTx
	}
	var res BroadcastResult
	// []byte marshals as base64, which is what the node expects for tx.
	err := c.call(ctx, "broadcast_tx_sync", map[string][]byte{"tx": tx}, &res)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBroadcastFailed, err)
	}
	return &res, nil
}

// Receive returns the next subscription event. Events already queued are
// returned even after the connection has failed.
func (c *WSClient) Receive(ctx context.Context) (*Event, error) {
	select {
	case msg := <-c.events:
		return msg.event, msg.err
	default:
	}

	select {
	case msg := <-c.events:
		return msg.event, msg.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, c.closedErr()
	}
}

// Unsubscribe removes the subscription for query.
func (c *WSClient) Unsubscribe(ctx context.Context, query Query) error {
	err := c.call(ctx, "unsubscribe", map[string]string{"query": query.String()}, nil)
	if err != nil {
		return fmt.Errorf("%w: unsubscribe %s: %w", ErrSubscriptionFailed, query, err)
	}
	return nil
}

// Close sends a close frame and releases the socket. The close frame is
// best-effort; only the socket close error is reported.
func (c *WSClient) Close() error {
	c.shutdown(ErrClosed)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("network: close: %w", err)
	}
	return nil
}
