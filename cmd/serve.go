package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sardhan/security-scanner/internal/api"
	"github.com/sardhan/security-scanner/internal/scanner"
	consts "github.com/sardhan/security-scanner/internal/shared/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scanner as an HTTP service (POST /scan)",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		server := api.NewServer(api.Config{
			Scanner:     sc,
			Health:      &publicDirHealth{dir: cfg.Server.PublicDir},
			PublicDir:   cfg.Server.PublicDir,
			Logger:      logger,
			CORSOrigins: cfg.Server.CORSOrigins,
			RateLimit:   cfg.Server.RateLimit,
			RateBurst:   cfg.Server.RateBurst,
			TrustProxy:  cfg.Server.TrustProxy,
		})
		defer server.Close()

		httpServer := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: writeTimeout(cfg.Scan.Timeout),
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("server_listening",
				zap.String("addr", httpServer.Addr),
				zap.String("public_dir", cfg.Server.PublicDir),
				zap.Duration("probe_timeout", cfg.Scan.Timeout),
				zap.Bool("robots_check", cfg.Scan.Robots),
				zap.Int("total_checks", sc.TotalChecks()),
			)
			fmt.Printf("%s Sardhan Security Scanner running on %s\n", colorInfo("→"), httpServer.Addr)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			logger.Info("shutdown_requested", zap.String("signal", sig.String()))

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorSuccess("✓"))
		}

		return nil
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.String("host", "", "Interface to bind (empty = all)")
	flags.Int("port", consts.DefaultPort, "Port to listen on (env PORT)")
	flags.String("public-dir", consts.DefaultPublicDir, "Directory served at the web root")
	flags.Duration("shutdown-timeout", consts.DefaultShutdownTimeout, "Graceful shutdown timeout")
	flags.StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	flags.Int("rate-limit", consts.DefaultRateLimit, "Scan requests per second per IP (0 = disabled)")
	flags.Int("rate-burst", consts.DefaultRateBurst, "Rate limit burst size")
	flags.Bool("trust-proxy", false, "Key the rate limiter on X-Forwarded-For (only behind a trusted proxy)")
	registerScanFlags(flags)
}

func newScanner(cfg ScanConfig, logger *zap.Logger) (*scanner.Scanner, error) {
	return scanner.New(scanner.Options{
		Timeout:      cfg.Timeout,
		Method:       cfg.Method,
		Robots:       cfg.Robots,
		StrictURL:    cfg.StrictURL,
		StrictRobots: cfg.StrictRobots,
		Logger:       logger,
	})
}

// writeTimeout leaves headroom past the probe budget so a slow scan still
// gets its JSON body out.
func writeTimeout(probe time.Duration) time.Duration {
	const minWrite = 30 * time.Second
	if w := probe + 5*time.Second; w > minWrite {
		return w
	}
	return minWrite
}

// publicDirHealth reports unhealthy when a configured public dir vanished.
type publicDirHealth struct {
	dir string
}

func (h *publicDirHealth) Check(ctx context.Context) error {
	if h.dir == "" {
		return nil
	}
	info, err := os.Stat(h.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("public dir %s is not a directory", h.dir)
	}
	return nil
}
