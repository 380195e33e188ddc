package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string
var debug bool

var rootCmd = &cobra.Command{
	Use:           "sardhan",
	Short:         "Website security-header scanner",
	Long:          "Probe a website once and score its HTTPS usage and security response headers.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError(err.Error()))
		os.Exit(1)
	}
}

// newLogger builds the process logger; --debug switches to the development
// encoder with debug level enabled.
func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil && debug {
		fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sardhan.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}
