package resolve

import (
	"context"
	"errors"
	"net"
)

// ErrNoRecords is returned when a lookup succeeded without any address.
var ErrNoRecords = errors.New("no records")

// Lookuper resolves a host name for one address family.
// Addresses are returned in the order the backend received them.
type Lookuper interface {
	LookupIPv4(ctx context.Context, host string) ([]string, error)
	LookupIPv6(ctx context.Context, host string) ([]string, error)
}

// SystemLookuper resolves through the operating system configuration.
type SystemLookuper struct {
	resolver *net.Resolver
}

// NewSystemLookuper creates a SystemLookuper. A nil resolver uses
// net.DefaultResolver.
func NewSystemLookuper(r *net.Resolver) *SystemLookuper {
	if r == nil {
		r = net.DefaultResolver
	}
	return &SystemLookuper{resolver: r}
}

// LookupIPv4 implements Lookuper.
func (s *SystemLookuper) LookupIPv4(ctx context.Context, host string) ([]string, error) {
	return s.lookup(ctx, "ip4", host)
}

// LookupIPv6 implements Lookuper.
func (s *SystemLookuper) LookupIPv6(ctx context.Context, host string) ([]string, error) {
	return s.lookup(ctx, "ip6", host)
}

func (s *SystemLookuper) lookup(ctx context.Context, network, host string) ([]string, error) {
	ips, err := s.resolver.LookupIP(ctx, network, host)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, ErrNoRecords
	}
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		out = append(out, ip.String())
	}
	return out, nil
}
