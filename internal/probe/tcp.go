package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hamed0406/mcstatus/internal/domain"
)

const DefaultProbeTimeout = 5 * time.Second

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// TCPProber reports a server online when a TCP connection can be opened.
// No game protocol handshake is attempted.
type TCPProber struct {
	Timeout time.Duration

	dial dialFunc
}

func NewTCPProber(timeout time.Duration) *TCPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	var d net.Dialer
	return &TCPProber{Timeout: timeout, dial: d.DialContext}
}

func (p *TCPProber) Probe(ctx context.Context, host string, port int) domain.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dial(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	elapsed := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			return domain.ProbeResult{
				Reason: domain.ReasonTimeout,
				Detail: fmt.Sprintf("connection timed out after %s", p.Timeout),
			}
		}
		return domain.ProbeResult{Reason: domain.ReasonConnectionError, Detail: err.Error()}
	}
	_ = conn.Close()
	return domain.ProbeResult{Online: true, LatencyMS: elapsed.Milliseconds()}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
