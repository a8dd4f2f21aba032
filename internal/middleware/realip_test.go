package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name      string
		trusted   []netip.Prefix
		remote    string
		forwarded string
		want      string
	}{
		{name: "no trusted proxies", remote: "192.0.2.7:4000", forwarded: "203.0.113.9", want: "192.0.2.7:4000"},
		{name: "untrusted peer", trusted: proxies, remote: "192.0.2.7:4000", forwarded: "203.0.113.9", want: "192.0.2.7:4000"},
		{name: "trusted peer", trusted: proxies, remote: "10.1.2.3:4000", forwarded: "203.0.113.9", want: "203.0.113.9"},
		{name: "spoofed prefix hop", trusted: proxies, remote: "10.1.2.3:4000", forwarded: "1.1.1.1, 203.0.113.9, 10.0.0.5", want: "203.0.113.9"},
		{name: "malformed hop", trusted: proxies, remote: "10.1.2.3:4000", forwarded: "garbage", want: "10.1.2.3:4000"},
		{name: "only proxies", trusted: proxies, remote: "10.1.2.3:4000", forwarded: "10.0.0.5", want: "10.1.2.3:4000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set("X-Forwarded-For", tt.forwarded)
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
