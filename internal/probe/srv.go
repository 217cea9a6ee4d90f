package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hamed0406/mcstatus/internal/domain"
)

type lookupSRVFunc func(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)

// SRVResolver looks up _<Service>._<Proto>.<name> and returns the first record.
type SRVResolver struct {
	Service string
	Proto   string
	Timeout time.Duration

	lookup lookupSRVFunc
}

func NewSRVResolver() *SRVResolver {
	r := &net.Resolver{} // OS resolver
	return &SRVResolver{
		Service: "minecraft",
		Proto:   "tcp",
		Timeout: 5 * time.Second,
		lookup:  r.LookupSRV,
	}
}

func (s *SRVResolver) Resolve(ctx context.Context, name string) (domain.Endpoint, error) {
	name = domain.NormalizeName(name)
	if name == "" || strings.Contains(name, "/") {
		return domain.Endpoint{}, fmt.Errorf("invalid domain %q: %w", name, domain.ErrNotFound)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	_, addrs, err := s.lookup(ctx, s.Service, s.Proto, name)
	// LookupSRV may return the valid records alongside an error about invalid ones.
	if len(addrs) == 0 {
		if err != nil {
			return domain.Endpoint{}, fmt.Errorf("lookup _%s._%s.%s: %v: %w", s.Service, s.Proto, name, err, domain.ErrNotFound)
		}
		return domain.Endpoint{}, fmt.Errorf("lookup _%s._%s.%s: no records: %w", s.Service, s.Proto, name, domain.ErrNotFound)
	}

	first := addrs[0]
	host := strings.TrimSuffix(first.Target, ".")
	if host == "" || first.Port == 0 {
		return domain.Endpoint{}, fmt.Errorf("lookup _%s._%s.%s: unusable record %q:%d: %w", s.Service, s.Proto, name, first.Target, first.Port, domain.ErrNotFound)
	}
	return domain.Endpoint{Host: host, Port: int(first.Port)}, nil
}
