package cmd

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	consts "github.com/sardhan/security-scanner/internal/shared/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SARDHAN"

// AppConfig captures runtime configuration shared across commands.
type AppConfig struct {
	Server ServerConfig `mapstructure:"server"`
	Scan   ScanConfig   `mapstructure:"scan"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PublicDir       string        `mapstructure:"public_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
	TrustProxy      bool          `mapstructure:"trust_proxy"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// ScanConfig holds probe settings shared by serve and scan.
type ScanConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	Method       string        `mapstructure:"method"`
	Robots       bool          `mapstructure:"robots"`
	StrictURL    bool          `mapstructure:"strict_url"`
	StrictRobots bool          `mapstructure:"strict_robots"`
}

// Addr is the listen address for http.Server.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// flagKeys maps command-line flags to config keys. Only flags present on the
// running command are bound.
var flagKeys = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"public-dir":       "server.public_dir",
	"shutdown-timeout": "server.shutdown_timeout",
	"rate-limit":       "server.rate_limit",
	"rate-burst":       "server.rate_burst",
	"trust-proxy":      "server.trust_proxy",
	"cors-origins":     "server.cors_origins",
	"timeout":          "scan.timeout",
	"method":           "scan.method",
	"robots":           "scan.robots",
	"strict-url":       "scan.strict_url",
	"strict-robots":    "scan.strict_robots",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", consts.DefaultPort)
	v.SetDefault("server.public_dir", consts.DefaultPublicDir)
	v.SetDefault("server.shutdown_timeout", consts.DefaultShutdownTimeout)
	v.SetDefault("server.rate_limit", consts.DefaultRateLimit)
	v.SetDefault("server.rate_burst", consts.DefaultRateBurst)
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("scan.timeout", consts.DefaultProbeTimeout)
	v.SetDefault("scan.method", consts.DefaultProbeMethod)
	v.SetDefault("scan.robots", true)
	v.SetDefault("scan.strict_url", false)
	v.SetDefault("scan.strict_robots", false)
}

// loadAppConfig resolves configuration with precedence
// changed flag > environment > config file > defaults.
// PORT is honoured for server.port alongside SARDHAN_SERVER_PORT.
func loadAppConfig(flags *pflag.FlagSet, configFile string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", envPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("$HOME")
		v.SetConfigName(".sardhan")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if flags != nil {
		if noRobots, err := flags.GetBool("no-robots"); err == nil && noRobots {
			cfg.Scan.Robots = false
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Scan.Timeout <= 0 {
		return fmt.Errorf("scan timeout must be positive, got %s", c.Scan.Timeout)
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("rate limit and burst cannot be negative")
	}
	return nil
}

// registerScanFlags adds the probe flags shared by serve and scan.
func registerScanFlags(flags *pflag.FlagSet) {
	flags.Duration("timeout", consts.DefaultProbeTimeout, "Probe timeout for the whole scan, robots.txt included")
	flags.String("method", consts.DefaultProbeMethod, "Probe method (GET or HEAD)")
	flags.Bool("robots", true, "Include the robots.txt check (8 checks instead of 7)")
	flags.Bool("no-robots", false, "Skip the robots.txt check (same as --robots=false)")
	flags.Bool("strict-url", false, "Reject URLs that are not well-formed request URLs")
	flags.Bool("strict-robots", false, "Check robots.txt at the origin root and count error statuses as missing")
}
