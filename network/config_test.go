package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		host string
		port uint16
	}{
		{"tcp scheme", "tcp://127.0.0.1:26657", "127.0.0.1", 26657},
		{"bare host port", "localhost:26657", "localhost", 26657},
		{"ipv6", "tcp://[::1]:26657", "::1", 26657},
		{"whitespace", "  node.example.com:443 ", "node.example.com", 443},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.host, addr.Host)
			assert.Equal(t, tt.port, addr.Port)
		})
	}
}

func TestParseAddressInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"127.0.0.1",
		"http://127.0.0.1:26657",
		":26657",
		"127.0.0.1:0",
		"127.0.0.1:70000",
		"127.0.0.1:port",
		"tcp://user@host:1",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAddress(in)
			assert.ErrorIs(t, err, ErrAddressInvalid)
		})
	}
}

func TestAddressURLs(t *testing.T) {
	addr, err := ParseAddress(DefaultLedgerAddress)
	require.NoError(t, err)

	assert.Equal(t, "tcp://127.0.0.1:26657", addr.String())
	assert.Equal(t, "ws://127.0.0.1:26657/websocket", addr.WebSocketURL())
	assert.Equal(t, "http://127.0.0.1:26657", addr.HTTPURL())

	v6 := Address{Host: "::1", Port: 1}
	assert.Equal(t, "ws://[::1]:1/websocket", v6.WebSocketURL())
}
