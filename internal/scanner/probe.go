package scanner

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	consts "github.com/sardhan/security-scanner/internal/shared/constants"
	serr "github.com/sardhan/security-scanner/internal/shared/errors"
)

// ProbeResult is what the checklist needs from a probed response.
type ProbeResult struct {
	URL        string
	StatusCode int
	Header     http.Header
}

// Prober performs the outbound requests of a scan.
type Prober struct {
	Client *http.Client
	Method string // GET or HEAD

	// StrictRobots fetches robots.txt from the origin root and treats an
	// error status as missing. By default any response counts as found.
	StrictRobots bool
}

// NewProber returns a prober with its own transport. Deadlines come from the
// caller's context, not from the client.
func NewProber(method string) (*Prober, error) {
	m, err := normalizeMethod(method)
	if err != nil {
		return nil, err
	}
	return &Prober{
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		Method: m,
	}, nil
}

func normalizeMethod(method string) (string, error) {
	switch m := strings.ToUpper(strings.TrimSpace(method)); m {
	case "":
		return consts.DefaultProbeMethod, nil
	case http.MethodGet, http.MethodHead:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %s", serr.ErrInvalidMethod, method)
	}
}

// Probe issues the single request whose headers are evaluated.
func (p *Prober) Probe(ctx context.Context, target string) (*ProbeResult, error) {
	method := p.Method
	if method == "" {
		method = consts.DefaultProbeMethod
	}

	resp, err := p.do(ctx, method, target)
	if err != nil {
		return nil, err
	}

	// Some servers refuse HEAD; retry once with GET
	if method == http.MethodHead &&
		(resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		drain(resp)
		resp, err = p.do(ctx, http.MethodGet, target)
		if err != nil {
			return nil, err
		}
	}
	defer drain(resp)

	return &ProbeResult{
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
	}, nil
}

// FetchRobots requests target + "/robots.txt". Any HTTP response is found;
// only a transport failure (refused, DNS, TLS, deadline) is missing.
func (p *Prober) FetchRobots(ctx context.Context, target string) RobotsCheck {
	location := robotsURL(target)
	if p.StrictRobots {
		location = originRobotsURL(target)
	}

	resp, err := p.do(ctx, http.MethodGet, location)
	if err != nil {
		return RobotsMissing
	}
	defer drain(resp)
	if p.StrictRobots && resp.StatusCode >= http.StatusBadRequest {
		return RobotsMissing
	}
	return RobotsFound
}

func (p *Prober) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s request: %w", serr.ErrProbeFailed, method, err)
	}
	req.Header.Set("User-Agent", consts.UserAgent)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w: %s %s", serr.ErrProbeFailed, serr.ErrProbeTimeout, method, target)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", serr.ErrProbeFailed, method, target, err)
	}
	return resp, nil
}

// drain discards a bounded amount of the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, consts.DrainLimitBytes))
	_ = resp.Body.Close()
}
