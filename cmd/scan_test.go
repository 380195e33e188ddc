package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sardhan/security-scanner/internal/scanner"
	serr "github.com/sardhan/security-scanner/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type stubScanner struct {
	report *scanner.Report
	err    error
}

func (s stubScanner) Scan(context.Context, string) (*scanner.Report, error) {
	return s.report, s.err
}

func sampleReport() *scanner.Report {
	return &scanner.Report{
		Score: 88,
		Results: []scanner.Finding{
			{Status: scanner.StatusPass, Text: "HTTPS Enabled"},
			{Status: scanner.StatusFail, Text: "permissions-policy Missing", Fix: "Restrict browser permissions"},
			{Status: scanner.StatusWarn, Text: "robots.txt Missing"},
		},
		Target: "https://example.com",
		Passed: 7,
		Total:  8,
	}
}

func TestRenderReport_Text(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer

	require.NoError(t, renderReport(&buf, sampleReport(), formatText))

	out := buf.String()
	assert.Contains(t, out, "Target: https://example.com")
	assert.Contains(t, out, "Score: 88% (7/8 checks passed)")
	assert.Contains(t, out, "[PASS] HTTPS Enabled")
	assert.Contains(t, out, "[FAIL] permissions-policy Missing\n         fix: Restrict browser permissions")
	assert.Contains(t, out, "[WARN] robots.txt Missing")
}

func TestRenderReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, sampleReport(), formatJSON))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2, "only score and results are serialized")
	assert.JSONEq(t, "88", string(decoded["score"]))
	assert.NotContains(t, buf.String(), "Target")
}

func TestRenderReport_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, sampleReport(), formatYAML))

	var decoded struct {
		Score   int               `yaml:"score"`
		Results []scanner.Finding `yaml:"results"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 88, decoded.Score)
	assert.Equal(t, sampleReport().Results, decoded.Results)
}

func TestRunScan_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := runScan(context.Background(), stubScanner{err: fmt.Errorf("%w: x", serr.ErrInvalidURL)}, "x", formatText, &buf, zap.NewNop())
	assert.EqualError(t, err, "Invalid URL")

	cause := errors.New("dial tcp: connection refused")
	err = runScan(context.Background(), stubScanner{err: fmt.Errorf("%w: %w", serr.ErrProbeFailed, cause)}, "https://x", formatText, &buf, zap.NewNop())
	assert.ErrorIs(t, err, serr.ErrProbeFailed)
	assert.True(t, strings.HasPrefix(err.Error(), "Unable to scan website"))
	assert.Empty(t, buf.String())
}

func TestRunScan_Success(t *testing.T) {
	disableColor(t)
	var buf bytes.Buffer

	err := runScan(context.Background(), stubScanner{report: sampleReport()}, "https://example.com", formatText, &buf, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Score: 88%")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "sardhan version dev\n", buf.String())
}
