package probe

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/mcstatus/internal/domain"
)

func fakeLookup(addrs []*net.SRV, err error, seen *string) lookupSRVFunc {
	return func(_ context.Context, service, proto, name string) (string, []*net.SRV, error) {
		if seen != nil {
			*seen = "_" + service + "._" + proto + "." + name
		}
		return "", addrs, err
	}
}

func TestSRVResolver_FirstRecordWins(t *testing.T) {
	var seen string
	r := NewSRVResolver()
	r.lookup = fakeLookup([]*net.SRV{
		{Target: "mc1.example.com.", Port: 25565},
		{Target: "mc2.example.com.", Port: 25566},
	}, nil, &seen)

	ep, err := r.Resolve(context.Background(), "Play.Example.com.")
	require.NoError(t, err)
	assert.Equal(t, "_minecraft._tcp.play.example.com", seen)
	assert.Equal(t, domain.Endpoint{Host: "mc1.example.com", Port: 25565}, ep)
}

func TestSRVResolver_NotFound(t *testing.T) {
	cases := []struct {
		name   string
		domain string
		addrs  []*net.SRV
		err    error
	}{
		{"lookup error", "x.example.com", nil, &net.DNSError{Err: "no such host", IsNotFound: true}},
		{"no records", "x.example.com", nil, nil},
		{"empty target", "x.example.com", []*net.SRV{{Target: ".", Port: 25565}}, nil},
		{"empty domain", "  ", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewSRVResolver()
			r.lookup = fakeLookup(tc.addrs, tc.err, nil)
			_, err := r.Resolve(context.Background(), tc.domain)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
		})
	}
}

func TestSRVResolver_PartialAnswerIsUsed(t *testing.T) {
	r := NewSRVResolver()
	r.lookup = fakeLookup([]*net.SRV{{Target: "mc.example.com.", Port: 25565}}, errors.New("invalid record filtered"), nil)
	ep, err := r.Resolve(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "mc.example.com", ep.Host)
}
