package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// DefaultDNSPort is appended to nameservers given without a port.
const DefaultDNSPort = "53"

// errNoServers is returned when a DNSLookuper has no nameserver.
var errNoServers = errors.New("no nameservers configured")

// DNSLookuper queries explicit nameservers. Servers are tried in order
// until one answers with NOERROR.
type DNSLookuper struct {
	client  *dns.Client
	servers []string
}

// NewDNSLookuper creates a DNSLookuper. Servers may be "host" or
// "host:port"; IPv6 literals are accepted with or without brackets.
func NewDNSLookuper(servers []string, timeout time.Duration) *DNSLookuper {
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		if s == "" {
			continue
		}
		normalized = append(normalized, NormalizeServer(s))
	}
	return &DNSLookuper{
		client:  &dns.Client{Timeout: timeout},
		servers: normalized,
	}
}

// NormalizeServer returns server as "host:port".
func NormalizeServer(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	host := server
	if len(host) > 1 && host[0] == '[' && host[len(host)-1] == ']' {
		host = host[1 : len(host)-1]
	}
	return net.JoinHostPort(host, DefaultDNSPort)
}

// Servers returns the normalized nameservers.
func (l *DNSLookuper) Servers() []string {
	return append([]string(nil), l.servers...)
}

// LookupIPv4 implements Lookuper.
func (l *DNSLookuper) LookupIPv4(ctx context.Context, host string) ([]string, error) {
	return l.lookup(ctx, host, dns.TypeA)
}

// LookupIPv6 implements Lookuper.
func (l *DNSLookuper) LookupIPv6(ctx context.Context, host string) ([]string, error) {
	return l.lookup(ctx, host, dns.TypeAAAA)
}

func (l *DNSLookuper) lookup(ctx context.Context, host string, qtype uint16) ([]string, error) {
	msg, err := l.query(ctx, host, qtype)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(msg.Answer))
	for _, rr := range msg.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				out = append(out, rec.A.String())
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				out = append(out, rec.AAAA.String())
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}

func (l *DNSLookuper) query(ctx context.Context, host string, qtype uint16) (*dns.Msg, error) {
	if len(l.servers) == 0 {
		return nil, errNoServers
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, srv := range l.servers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, _, err := l.client.ExchangeContext(ctx, msg, srv)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode == dns.RcodeSuccess {
			return resp, nil
		}
		lastErr = fmt.Errorf("rcode %s from %s", dns.RcodeToString[resp.Rcode], srv)
	}
	return nil, lastErr
}
