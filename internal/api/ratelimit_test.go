package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trust     bool
		want      string
	}{
		{name: "remote with port", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded ignored by default", remote: "10.0.0.1:5555", forwarded: "203.0.113.7", want: "10.0.0.1"},
		{name: "forwarded chain behind proxy", remote: "10.0.0.1:5555", forwarded: "203.0.113.7, 10.0.0.1", trust: true, want: "203.0.113.7"},
		{name: "forwarded single behind proxy", remote: "10.0.0.1:5555", forwarded: " 198.51.100.2 ", trust: true, want: "198.51.100.2"},
		{name: "trusted without header", remote: "10.0.0.1:5555", trust: true, want: "10.0.0.1"},
		{name: "no port", remote: "10.0.0.9", want: "10.0.0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(r, tt.trust); got != tt.want {
				t.Fatalf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterMap_ReusesAndSweeps(t *testing.T) {
	m := newRateLimiterMap()
	defer m.stop()

	a := m.getLimiter("1.1.1.1", 5, 0)
	if a != m.getLimiter("1.1.1.1", 5, 0) {
		t.Fatal("expected limiter to be reused per IP")
	}
	if a.Burst() != 5 {
		t.Fatalf("expected burst to default to rps, got %d", a.Burst())
	}
	m.getLimiter("2.2.2.2", 5, 10)
	if m.len() != 2 {
		t.Fatalf("expected 2 limiters, got %d", m.len())
	}

	m.sweep(time.Now().Add(10*time.Minute), limiterIdleTTL)
	if m.len() != 0 {
		t.Fatalf("expected idle limiters swept, got %d", m.len())
	}

	// stop is idempotent
	m.stop()
}
