package network

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DefaultLedgerAddress is the node RPC endpoint used when nothing else is configured.
const DefaultLedgerAddress = "tcp://127.0.0.1:26657"

// Address is a validated ledger node address.
type Address struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

// ParseAddress validates a ledger address of the form "tcp://host:port" or
// "host:port". It performs no network I/O; a bad address is reported as
// ErrAddressInvalid before any connection is attempted.
func ParseAddress(s string) (Address, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Address{}, fmt.Errorf("%w: empty", ErrAddressInvalid)
	}

	if scheme, rest, ok := strings.Cut(raw, "://"); ok {
		if scheme != "tcp" {
			return Address{}, fmt.Errorf("%w: unsupported scheme %q in %q", ErrAddressInvalid, scheme, s)
		}
		raw = rest
	}

	host, portStr, err := net.SplitHostPort(raw)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %w", ErrAddressInvalid, s, err)
	}
	if host == "" {
		return Address{}, fmt.Errorf("%w: %q has no host", ErrAddressInvalid, s)
	}
	if strings.ContainsAny(host, "/?#@ ") {
		return Address{}, fmt.Errorf("%w: %q has an invalid host", ErrAddressInvalid, s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return Address{}, fmt.Errorf("%w: %q has an invalid port", ErrAddressInvalid, s)
	}

	return Address{Host: host, Port: uint16(port)}, nil
}

// HostPort returns "host:port", bracketing IPv6 hosts.
func (a Address) HostPort() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// String returns the address in tcp:// form.
func (a Address) String() string {
	return "tcp://" + a.HostPort()
}

// WebSocketURL returns the node's streaming RPC endpoint.
func (a Address) WebSocketURL() string {
	u := url.URL{Scheme: "ws", Host: a.HostPort(), Path: "/websocket"}
	return u.String()
}

// HTTPURL returns the node's request/response RPC endpoint.
func (a Address) HTTPURL() string {
	u := url.URL{Scheme: "http", Host: a.HostPort()}
	return u.String()
}
