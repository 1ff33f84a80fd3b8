package network

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

const (
	// defaultDNSTimeout is the per-query timeout for DNSResolver.
	defaultDNSTimeout = 5 * time.Second
)

// Resolver maps a host name to IP addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

var _ Resolver = (*net.Resolver)(nil)

// DNSResolver resolves node hosts against a specific DNS server instead of the
// system configuration. It queries A and AAAA records.
type DNSResolver struct {
	// Upstream is the DNS server address, e.g. "10.0.0.2:53".
	Upstream string

	// Timeout bounds each query. Zero means 5s.
	Timeout time.Duration
}

var _ Resolver = (*DNSResolver)(nil)

// NewDNSResolver creates a DNSResolver that queries upstream. A bare IP is
// given the default DNS port.
func NewDNSResolver(upstream string) *DNSResolver {
	if _, _, err := net.SplitHostPort(upstream); err != nil {
		upstream = net.JoinHostPort(upstream, "53")
	}
	return &DNSResolver{Upstream: upstream}
}

// LookupHost returns the IPv4 addresses of host followed by its IPv6 addresses.
// IP literals are returned unchanged.
func (r *DNSResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []string{host}, nil
	}

	var addrs []string
	var lastErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		resp, err := r.query(ctx, host, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		for _, rr := range resp.Answer {
			switch rec := rr.(type) {
			case *dns.A:
				addrs = append(addrs, rec.A.String())
			case *dns.AAAA:
				addrs = append(addrs, rec.AAAA.String())
			}
		}
	}

	if len(addrs) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: no A or AAAA records for %s", ErrDNSLookupFailed, host)
	}
	return addrs, nil
}

func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultDNSTimeout
	}
	client := &dns.Client{Timeout: timeout}
	resp, _, err := client.ExchangeContext(ctx, msg, r.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s %s: %w",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype], err)
	}

	// NXDOMAIN yields an empty answer rather than an error.
	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("%w: query %s %s: rcode %s",
			ErrDNSLookupFailed, name, dns.TypeToString[qtype],
			dns.RcodeToString[resp.Rcode])
	}
	return resp, nil
}
