package constants

import "time"

const (
	// DefaultPort is used when neither PORT nor server.port is set.
	DefaultPort = 3000
	// DefaultPublicDir holds the static front-end served at the web root.
	DefaultPublicDir = "public"
	// DefaultShutdownTimeout bounds graceful shutdown of the API server.
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultRateLimit is scan requests per second per client IP. Off by
	// default: a throttled scan is answered 429, not with a scan result.
	DefaultRateLimit = 0
	// DefaultRateBurst is the token bucket size for DefaultRateLimit.
	DefaultRateBurst = 10
)

const (
	// DefaultProbeTimeout caps a whole scan, robots.txt fetch included.
	DefaultProbeTimeout = 7 * time.Second
	// DefaultProbeMethod is the canonical probe method.
	DefaultProbeMethod = "GET"
	// DrainLimitBytes caps how much of a probed body is read before closing.
	DrainLimitBytes = 64 * 1024
	// MaxRequestBodyBytes limits POST /scan payloads.
	MaxRequestBodyBytes = 1 << 20
	// UserAgent identifies probe requests.
	UserAgent = "Sardhan-Security-Scanner/1.0"
)

// Client-facing messages. The underlying cause is logged, never returned.
const (
	MsgInvalidURL = "Invalid URL"
	MsgScanFailed = "Unable to scan website"
)
