package network

import (
	"context"
	"net"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dnsTestServer starts a UDP DNS server on loopback answering from records,
// keyed by FQDN. "servfail.test." always fails; other unknown names are NXDOMAIN.
func dnsTestServer(t *testing.T, records map[string][]string) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		q := r.Question[0]

		rrs, known := records[q.Name]
		switch {
		case q.Name == "servfail.test.":
			m.SetRcode(r, dns.RcodeServerFailure)
		case !known:
			m.SetRcode(r, dns.RcodeNameError)
		default:
			for _, s := range rrs {
				rr, err := dns.NewRR(s)
				if err == nil && rr.Header().Rrtype == q.Qtype {
					m.Answer = append(m.Answer, rr)
				}
			}
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func TestDNSResolverLookupHost(t *testing.T) {
	upstream := dnsTestServer(t, map[string][]string{
		"node.test.": {"node.test. 60 IN A 127.0.0.1"},
		"dual.test.": {
			"dual.test. 60 IN AAAA ::1",
			"dual.test. 60 IN A 10.0.0.7",
		},
	})
	r := &DNSResolver{Upstream: upstream}

	addrs, err := r.LookupHost(context.Background(), "node.test")
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1"}, addrs)

	addrs, err = r.LookupHost(context.Background(), "dual.test")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.7", "::1"}, addrs)
}

func TestDNSResolverFailures(t *testing.T) {
	upstream := dnsTestServer(t, map[string][]string{})
	r := &DNSResolver{Upstream: upstream}

	for _, host := range []string{"missing.test", "servfail.test"} {
		t.Run(host, func(t *testing.T) {
			_, err := r.LookupHost(context.Background(), host)
			assert.ErrorIs(t, err, ErrDNSLookupFailed)
		})
	}
}

func TestDNSResolverIPLiteral(t *testing.T) {
	r := &DNSResolver{Upstream: "127.0.0.1:1"}
	addrs, err := r.LookupHost(context.Background(), "192.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"192.0.2.1"}, addrs)
}

func TestNewDNSResolverDefaultPort(t *testing.T) {
	assert.Equal(t, "10.0.0.2:53", NewDNSResolver("10.0.0.2").Upstream)
	assert.Equal(t, "10.0.0.2:5353", NewDNSResolver("10.0.0.2:5353").Upstream)
}

func TestWSDialerWithDNSResolver(t *testing.T) {
	addr := wsTestServer(t, func(conn *websocket.Conn, req rpcRequest) {
		reply(t, conn, req.ID, map[string]interface{}{})
	})
	upstream := dnsTestServer(t, map[string][]string{
		"validator.test.": {"validator.test. 60 IN A " + addr.Host},
	})

	d := &WSDialer{
		Address:  Address{Host: "validator.test", Port: addr.Port},
		Resolver: NewDNSResolver(upstream),
	}
	conn, err := d.Dial(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.Subscribe(context.Background(), TxQuery(testHash)))
}
