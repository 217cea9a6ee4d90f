package probe

import (
	"context"
	"testing"
)

func TestCheckDNS_InvalidName(t *testing.T) {
	for _, in := range []string{"", "   ", "https://play.example.com", "play.example.com/path"} {
		s := CheckDNS(context.Background(), in)
		if s.Class != DNSInvalidName {
			t.Errorf("CheckDNS(%q).Class = %s, want %s", in, s.Class, DNSInvalidName)
		}
	}
}
