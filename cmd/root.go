package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/tokenscope/internal/config"
	"github.com/KaramelBytes/tokenscope/internal/logging"
	"github.com/KaramelBytes/tokenscope/internal/server"
)

// Version is set via ldflags during build.
var Version = "dev"

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "tokenscope",
	Short: "tokenscope: classify mixed tokens and report numeric and textual insights",
	Long: `tokenscope splits an array of mixed tokens into numbers and letters and reports
number theory, descriptive statistics, sequence patterns and anomalies for them.
It runs as an HTTP API (serve) or analyzes input directly from the command line (analyze).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tokenscope/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json|console (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "labeler HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max labeler retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyOverrides(cfg)
}

// applyOverrides copies explicitly set persistent flags onto c.
func applyOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") && logLevel != "" {
		c.LogLevel = logLevel
	}
	if f.Changed("log-format") && logFormat != "" {
		c.LogFormat = logFormat
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		c.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		c.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		c.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		c.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// requireConfig returns the loaded config or the load error.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyOverrides(c)
	cfg = c
	return cfg, nil
}

func newLogger(c *cfgpkg.Global) (*zap.Logger, error) {
	logger, err := logging.New(c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// inputLimits bounds tokens the same way for the CLI and the HTTP API.
func inputLimits(c *cfgpkg.Global) server.Limits {
	return server.Limits{
		MaxItems:     c.MaxItems,
		MaxStringLen: c.MaxStringLen,
		MaxAbsNumber: c.MaxAbsNumber,
	}
}
