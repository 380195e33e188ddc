package scanner

import (
	"net/http"
	"strings"
	"time"
)

// headerCheck describes one required response header.
type headerCheck struct {
	Name string // lower-case, as reported in finding text
	Fix  string
}

// requiredHeaders is evaluated in this order.
var requiredHeaders = []headerCheck{
	{Name: "content-security-policy", Fix: "Add CSP header"},
	{Name: "x-frame-options", Fix: "Prevent clickjacking"},
	{Name: "x-content-type-options", Fix: "Prevent MIME sniffing"},
	{Name: "referrer-policy", Fix: "Limit referrer data"},
	{Name: "permissions-policy", Fix: "Restrict browser permissions"},
}

// RobotsCheck carries the robots.txt outcome into Evaluate.
type RobotsCheck int

const (
	// RobotsSkipped leaves the check out of the checklist entirely.
	RobotsSkipped RobotsCheck = iota
	RobotsFound
	RobotsMissing
)

// Report is the evaluated checklist for one target.
type Report struct {
	Score   int       `json:"score" yaml:"score"`
	Results []Finding `json:"results" yaml:"results"`

	// Diagnostics, not part of the wire response.
	Target     string        `json:"-" yaml:"-"`
	StatusCode int           `json:"-" yaml:"-"`
	Passed     int           `json:"-" yaml:"-"`
	Total      int           `json:"-" yaml:"-"`
	Duration   time.Duration `json:"-" yaml:"-"`
}

// tally accumulates findings and the running score for a single evaluation.
type tally struct {
	passed  int
	total   int
	results []Finding
}

func (t *tally) pass(text string) {
	t.total++
	t.passed++
	t.results = append(t.results, passFinding(text))
}

func (t *tally) fail(text, fix string) {
	t.total++
	t.results = append(t.results, failFinding(text, fix))
}

func (t *tally) warn(text string) {
	t.total++
	t.results = append(t.results, warnFinding(text))
}

// Evaluate runs the fixed checklist against a probed response.
func Evaluate(target string, headers http.Header, robots RobotsCheck) *Report {
	t := &tally{results: make([]Finding, 0, 8)}

	if strings.HasPrefix(target, "https://") {
		t.pass("HTTPS Enabled")
	} else {
		t.fail("HTTPS Not Enabled", "Use SSL certificate")
	}

	for _, check := range requiredHeaders {
		if headers.Get(check.Name) != "" {
			t.pass(check.Name + " Present")
		} else {
			t.fail(check.Name+" Missing", check.Fix)
		}
	}

	if headers.Get("Server") != "" {
		t.fail("Server Header Exposed", "Hide server info")
	} else {
		t.pass("Server Header Hidden")
	}

	switch robots {
	case RobotsFound:
		t.pass("robots.txt Found")
	case RobotsMissing:
		t.warn("robots.txt Missing")
	}

	return &Report{
		Score:   percentage(t.passed, t.total),
		Results: t.results,
		Target:  target,
		Passed:  t.passed,
		Total:   t.total,
	}
}

// percentage rounds passed/total*100 to the nearest integer, halves up.
func percentage(passed, total int) int {
	if total <= 0 {
		return 0
	}
	return (passed*200 + total) / (2 * total)
}
