package scanner

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secureHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Content-Security-Policy", "default-src 'self'")
	headers.Set("X-Frame-Options", "DENY")
	headers.Set("X-Content-Type-Options", "nosniff")
	headers.Set("Referrer-Policy", "no-referrer")
	headers.Set("Permissions-Policy", "geolocation=()")
	return headers
}

func TestEvaluate_AllPass(t *testing.T) {
	report := Evaluate("https://example.com", secureHeaders(), RobotsFound)

	assert.Equal(t, 100, report.Score)
	assert.Equal(t, 8, report.Total)
	assert.Equal(t, 8, report.Passed)
	require.Len(t, report.Results, 8)
	for _, f := range report.Results {
		assert.Equal(t, StatusPass, f.Status, f.Text)
		assert.Empty(t, f.Fix, f.Text)
	}
}

func TestEvaluate_AllFail(t *testing.T) {
	headers := http.Header{}
	headers.Set("Server", "nginx/1.25")

	report := Evaluate("http://example.com", headers, RobotsMissing)

	assert.Equal(t, 0, report.Score)
	require.Len(t, report.Results, 8)
	for _, f := range report.Results {
		switch f.Status {
		case StatusFail:
			assert.NotEmpty(t, f.Fix, "fail finding %q must carry a fix", f.Text)
		case StatusWarn:
			assert.Empty(t, f.Fix)
		default:
			t.Errorf("unexpected status %s for %q", f.Status, f.Text)
		}
	}
}

func TestEvaluate_Order(t *testing.T) {
	report := Evaluate("http://example.com", http.Header{}, RobotsFound)

	want := []Finding{
		{Status: StatusFail, Text: "HTTPS Not Enabled", Fix: "Use SSL certificate"},
		{Status: StatusFail, Text: "content-security-policy Missing", Fix: "Add CSP header"},
		{Status: StatusFail, Text: "x-frame-options Missing", Fix: "Prevent clickjacking"},
		{Status: StatusFail, Text: "x-content-type-options Missing", Fix: "Prevent MIME sniffing"},
		{Status: StatusFail, Text: "referrer-policy Missing", Fix: "Limit referrer data"},
		{Status: StatusFail, Text: "permissions-policy Missing", Fix: "Restrict browser permissions"},
		{Status: StatusPass, Text: "Server Header Hidden"},
		{Status: StatusPass, Text: "robots.txt Found"},
	}
	assert.Equal(t, want, report.Results)
	assert.Equal(t, 25, report.Score)
}

func TestEvaluate_RobotsSkipped(t *testing.T) {
	report := Evaluate("https://example.com", secureHeaders(), RobotsSkipped)

	assert.Equal(t, 7, report.Total)
	assert.Len(t, report.Results, 7)
	assert.Equal(t, 100, report.Score)
	assert.Equal(t, "Server Header Hidden", report.Results[6].Text)
}

func TestEvaluate_EmptyHeaderValueIsMissing(t *testing.T) {
	headers := secureHeaders()
	headers["X-Frame-Options"] = []string{""}

	report := Evaluate("https://example.com", headers, RobotsSkipped)

	assert.Equal(t, Finding{Status: StatusFail, Text: "x-frame-options Missing", Fix: "Prevent clickjacking"}, report.Results[2])
	assert.Equal(t, 86, report.Score)
}

func TestEvaluate_Idempotent(t *testing.T) {
	headers := secureHeaders()
	headers.Set("Server", "Apache")

	first := Evaluate("https://example.com", headers, RobotsMissing)
	second := Evaluate("https://example.com", headers, RobotsMissing)

	assert.Equal(t, first, second)
}

func TestEvaluate_HTTPSPrefixIsLiteral(t *testing.T) {
	report := Evaluate("HTTPS://example.com", secureHeaders(), RobotsSkipped)
	assert.Equal(t, StatusFail, report.Results[0].Status)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		passed, total, want int
	}{
		{0, 8, 0},
		{1, 8, 13},
		{4, 8, 50},
		{7, 8, 88},
		{8, 8, 100},
		{1, 7, 14},
		{6, 7, 86},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percentage(tt.passed, tt.total), "%d/%d", tt.passed, tt.total)
	}
}
