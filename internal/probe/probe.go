package probe

import (
	"context"

	"github.com/hamed0406/mcstatus/internal/domain"
)

// Resolver turns a domain into the endpoint advertised by its SRV record.
// Failures wrap domain.ErrNotFound.
type Resolver interface {
	Resolve(ctx context.Context, name string) (domain.Endpoint, error)
}

// Prober checks whether an endpoint accepts TCP connections. It never fails;
// problems are reported in the result.
type Prober interface {
	Probe(ctx context.Context, host string, port int) domain.ProbeResult
}
