package resolve

import (
	"context"
	"log/slog"

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

// Resolver resolves subdomains with a Lookuper.
type Resolver struct {
	lookuper Lookuper
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver. A nil lookuper uses the system resolver.
func New(lookuper Lookuper, opts ...Option) *Resolver {
	if lookuper == nil {
		lookuper = NewSystemLookuper(nil)
	}
	r := &Resolver{
		lookuper: lookuper,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks up subdomain for both families. It never fails; errors
// are recorded on the result.
func (r *Resolver) Resolve(ctx context.Context, subdomain string) model.Resolution {
	res := model.Resolution{Subdomain: subdomain}

	v4, err := r.lookuper.LookupIPv4(ctx, subdomain)
	if err != nil {
		res.IPv4Err = err
		r.logger.Debug("IPv4 lookup failed", "subdomain", subdomain, "error", err)
	} else if len(v4) > 0 {
		res.IPv4 = v4[:1]
	}

	v6, err := r.lookuper.LookupIPv6(ctx, subdomain)
	if err != nil {
		res.IPv6Err = err
		r.logger.Debug("IPv6 lookup failed", "subdomain", subdomain, "error", err)
	} else {
		res.IPv6 = v6
	}

	return res
}
