package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/hamed0406/mcstatus/internal/domain"
)

// DNSClass summarizes why a domain did or did not resolve.
type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNoSRV       DNSClass = "NO_SRV_RECORD"
	DNSNoARecord   DNSClass = "NO_A_RECORD"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSServfail    DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

// DNSStatus is a diagnostic snapshot returned next to a failed SRV lookup.
type DNSStatus struct {
	Domain        string   `json:"domain"`
	Class         DNSClass `json:"class"`
	HasSRV        bool     `json:"has_srv"`
	HasAOrAAAA    bool     `json:"has_a_or_aaaa"`
	IPs           []string `json:"ips,omitempty"`
	CNAME         string   `json:"cname,omitempty"`
	Nameservers   []string `json:"nameservers,omitempty"`
	ResolverError string   `json:"resolver_error,omitempty"`
}

var dnsTimeout = 3 * time.Second

// CheckDNS classifies a domain using the OS resolver. The SRV record is
// checked first; without one, the A/AAAA, CNAME and NS answers explain
// whether the name exists at all.
func CheckDNS(ctx context.Context, name string) DNSStatus {
	s := DNSStatus{Domain: domain.NormalizeName(name)}
	if s.Domain == "" || strings.Contains(s.Domain, "://") || strings.Contains(s.Domain, "/") {
		s.Class = DNSInvalidName
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	r := &net.Resolver{}

	if _, addrs, err := r.LookupSRV(ctx, "minecraft", "tcp", s.Domain); err == nil && len(addrs) > 0 {
		s.HasSRV = true
	}

	ips, err := r.LookupIP(ctx, "ip", s.Domain)
	if err == nil && len(ips) > 0 {
		s.HasAOrAAAA = true
		for _, ip := range ips {
			s.IPs = append(s.IPs, ip.String())
		}
	} else if err != nil {
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) {
			if de.IsNotFound {
				s.Class = DNSNXDomain
			} else if de.IsTemporary || de.Timeout() {
				s.Class = DNSServfail
			}
		}
	}

	if cname, err := r.LookupCNAME(ctx, s.Domain); err == nil && !strings.EqualFold(cname, s.Domain+".") {
		s.CNAME = strings.TrimSuffix(cname, ".")
	}

	if ns, err := r.LookupNS(ctx, s.Domain); err == nil && len(ns) > 0 {
		for _, n := range ns {
			s.Nameservers = append(s.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		if s.Class == DNSNXDomain {
			s.Class = DNSNoARecord
		}
	}

	switch {
	case s.HasSRV:
		s.Class = DNSResolves
	case s.Class != "":
	case s.HasAOrAAAA:
		// the name exists, only the game record is missing
		s.Class = DNSNoSRV
	case len(s.Nameservers) > 0:
		s.Class = DNSNoARecord
	case s.ResolverError != "":
		s.Class = DNSServfail
	default:
		s.Class = DNSNXDomain
	}
	return s
}
