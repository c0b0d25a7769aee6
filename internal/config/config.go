package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "TOKENSCOPE"
	dirName   = ".tokenscope"
)

// Global configuration structure.
type Global struct {
	// HTTP server
	ServerHost        string  `mapstructure:"server_host" yaml:"server_host"`
	ServerPort        int     `mapstructure:"server_port" yaml:"server_port"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
	BodyLimit         string  `mapstructure:"body_limit" yaml:"body_limit"`
	RateLimitRPS      float64 `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst    int     `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`

	// Input validation bounds
	MaxItems     int     `mapstructure:"max_items" yaml:"max_items"`
	MaxStringLen int     `mapstructure:"max_string_len" yaml:"max_string_len"`
	MaxAbsNumber float64 `mapstructure:"max_abs_number" yaml:"max_abs_number"`

	// Identity echoed in API responses
	UserID     string `mapstructure:"user_id" yaml:"user_id"`
	Email      string `mapstructure:"email" yaml:"email"`
	RollNumber string `mapstructure:"roll_number" yaml:"roll_number"`

	// Labeling runtime
	AIProvider      string  `mapstructure:"ai_provider" yaml:"ai_provider"`
	AIModel         string  `mapstructure:"ai_model" yaml:"ai_model"`
	APIKey          string  `mapstructure:"api_key" yaml:"api_key"`
	LabelTimeoutSec int     `mapstructure:"label_timeout_sec" yaml:"label_timeout_sec"`
	LabelRPS        float64 `mapstructure:"label_rps" yaml:"label_rps"`
	LabelBurst      int     `mapstructure:"label_burst" yaml:"label_burst"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtimes (Ollama)
	OllamaHost string `mapstructure:"ollama_host" yaml:"ollama_host"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Addr returns host:port for the HTTP listener.
func (g *Global) Addr() string { return fmt.Sprintf("%s:%d", g.ServerHost, g.ServerPort) }

// RequestTimeout returns the per-request deadline.
func (g *Global) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutSec) * time.Second
}

// LabelTimeout returns the deadline shared by all label lookups of one analysis.
func (g *Global) LabelTimeout() time.Duration {
	return time.Duration(g.LabelTimeoutSec) * time.Second
}

// DefaultPath returns ~/.tokenscope/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tokenscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)
	v.SetDefault("request_timeout_sec", 30)
	v.SetDefault("body_limit", "2M")
	v.SetDefault("rate_limit_rps", 10.0)
	v.SetDefault("rate_limit_burst", 20)

	v.SetDefault("max_items", 1000)
	v.SetDefault("max_string_len", 100)
	v.SetDefault("max_abs_number", MaxAbsNumberLimit)

	v.SetDefault("user_id", "")
	v.SetDefault("email", "")
	v.SetDefault("roll_number", "")

	v.SetDefault("ai_provider", "none")
	v.SetDefault("ai_model", "openai/gpt-4o-mini")
	v.SetDefault("api_key", "")
	v.SetDefault("label_timeout_sec", 10)
	v.SetDefault("label_rps", 2.0)
	v.SetDefault("label_burst", 3)

	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Ollama defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// MaxAbsNumberLimit is the largest max_abs_number the analysis core accepts.
const MaxAbsNumberLimit = 999999999.0

// Validate rejects values that would make the server or validator unusable.
func (g *Global) Validate() error {
	switch {
	case g.ServerPort < 0 || g.ServerPort > 65535:
		return fmt.Errorf("server_port out of range: %d", g.ServerPort)
	case g.MaxItems <= 0:
		return fmt.Errorf("max_items must be positive: %d", g.MaxItems)
	case g.MaxStringLen <= 0:
		return fmt.Errorf("max_string_len must be positive: %d", g.MaxStringLen)
	case g.MaxAbsNumber <= 0 || g.MaxAbsNumber > MaxAbsNumberLimit:
		return fmt.Errorf("max_abs_number must be in (0, %.0f]: %g", MaxAbsNumberLimit, g.MaxAbsNumber)
	case g.RateLimitRPS < 0 || g.RateLimitBurst < 0:
		return fmt.Errorf("rate limit must not be negative: rps=%g burst=%d", g.RateLimitRPS, g.RateLimitBurst)
	}
	return nil
}
