package scanner

import (
	"context"
	"net/http"
	"time"

	consts "github.com/sardhan/security-scanner/internal/shared/constants"
	"go.uber.org/zap"
)

// Options configures a Scanner. Zero values fall back to the defaults in
// internal/shared/constants.
type Options struct {
	Timeout   time.Duration
	Method    string
	Robots    bool
	StrictURL bool
	Client    *http.Client // overrides the prober's transport, mainly for tests
	Logger    *zap.Logger

	// StrictRobots checks robots.txt at the origin root and requires a
	// status below 400.
	StrictRobots bool
}

// Scanner runs the full validate → probe → evaluate pipeline.
type Scanner struct {
	prober    *Prober
	timeout   time.Duration
	robots    bool
	strictURL bool
	logger    *zap.Logger
}

// New builds a Scanner. It fails only on an unsupported probe method.
func New(opts Options) (*Scanner, error) {
	prober, err := NewProber(opts.Method)
	if err != nil {
		return nil, err
	}
	if opts.Client != nil {
		prober.Client = opts.Client
	}
	prober.StrictRobots = opts.StrictRobots

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultProbeTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scanner{
		prober:    prober,
		timeout:   timeout,
		robots:    opts.Robots,
		strictURL: opts.StrictURL,
		logger:    logger,
	}, nil
}

// TotalChecks is the denominator used for the score.
func (s *Scanner) TotalChecks() int {
	if s.robots {
		return len(requiredHeaders) + 3
	}
	return len(requiredHeaders) + 2
}

// Scan validates target, probes it once and evaluates the checklist. On any
// error the returned Report is nil.
func (s *Scanner) Scan(ctx context.Context, target string) (*Report, error) {
	if err := ValidateURL(target, s.strictURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	probed, err := s.prober.Probe(ctx, target)
	if err != nil {
		return nil, err
	}

	robots := RobotsSkipped
	if s.robots {
		robots = s.prober.FetchRobots(ctx, target)
	}

	report := Evaluate(target, probed.Header, robots)
	report.StatusCode = probed.StatusCode
	report.Duration = time.Since(start)

	s.logger.Debug("scan_complete",
		zap.String("target", target),
		zap.Int("http_status", report.StatusCode),
		zap.Int("score", report.Score),
		zap.Int("passed", report.Passed),
		zap.Int("total", report.Total),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}
