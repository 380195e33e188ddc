package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sardhan/security-scanner/internal/scanner"
	consts "github.com/sardhan/security-scanner/internal/shared/constants"
	serr "github.com/sardhan/security-scanner/internal/shared/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan one URL and print its security-header findings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		format = strings.ToLower(format)
		if format != formatText && format != formatJSON && format != formatYAML {
			return fmt.Errorf("unsupported format %q (text, json, yaml)", format)
		}

		cfg, err := loadAppConfig(cmd.Flags(), cfgFile)
		if err != nil {
			return err
		}

		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer syncLogger(logger)

		sc, err := newScanner(cfg.Scan, logger)
		if err != nil {
			return err
		}

		return runScan(cmd.Context(), sc, args[0], format, cmd.OutOrStdout(), logger)
	},
}

func init() {
	scanCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
	registerScanFlags(scanCmd.Flags())
}

type reportScanner interface {
	Scan(ctx context.Context, target string) (*scanner.Report, error)
}

func runScan(ctx context.Context, sc reportScanner, target, format string, w io.Writer, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := sc.Scan(ctx, target)
	if err != nil {
		logger.Debug("scan_failed", zap.String("target", target), zap.Error(err))
		if errors.Is(err, serr.ErrInvalidURL) {
			return errors.New(consts.MsgInvalidURL)
		}
		return fmt.Errorf("%s: %w", consts.MsgScanFailed, err)
	}
	return renderReport(w, report, format)
}

func renderReport(w io.Writer, report *scanner.Report, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderText(w, report)
	}
}

func renderText(w io.Writer, report *scanner.Report) error {
	var b strings.Builder
	if report.Target != "" {
		fmt.Fprintf(&b, "%s %s\n", colorInfo("Target:"), report.Target)
	}
	fmt.Fprintf(&b, "%s %s (%d/%d checks passed)\n", colorInfo("Score:"), formatScore(report.Score), report.Passed, report.Total)
	for _, f := range report.Results {
		fmt.Fprintf(&b, "  [%s] %s\n", formatStatusWithColor(string(f.Status)), f.Text)
		if f.Fix != "" {
			fmt.Fprintf(&b, "         fix: %s\n", f.Fix)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
