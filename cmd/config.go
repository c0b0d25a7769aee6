package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tokenscope/internal/ai"
	cfgpkg "github.com/KaramelBytes/tokenscope/internal/config"
	"github.com/KaramelBytes/tokenscope/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tokenscope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "server_host: %s\n", c.ServerHost)
		fmt.Fprintf(w, "server_port: %d\n", c.ServerPort)
		fmt.Fprintf(w, "request_timeout_sec: %d\n", c.RequestTimeoutSec)
		fmt.Fprintf(w, "body_limit: %s\n", c.BodyLimit)
		fmt.Fprintf(w, "rate_limit_rps: %.2f\n", c.RateLimitRPS)
		fmt.Fprintf(w, "rate_limit_burst: %d\n", c.RateLimitBurst)
		fmt.Fprintf(w, "max_items: %d\n", c.MaxItems)
		fmt.Fprintf(w, "max_string_len: %d\n", c.MaxStringLen)
		fmt.Fprintf(w, "max_abs_number: %.0f\n", c.MaxAbsNumber)
		if c.UserID != "" {
			fmt.Fprintf(w, "user_id: %s\n", c.UserID)
		}
		if c.Email != "" {
			fmt.Fprintf(w, "email: %s\n", c.Email)
		}
		if c.RollNumber != "" {
			fmt.Fprintf(w, "roll_number: %s\n", c.RollNumber)
		}
		fmt.Fprintf(w, "ai_provider: %s\n", c.AIProvider)
		if c.AIProvider != ai.ProviderNone {
			fmt.Fprintf(w, "ai_model: %s\n", c.AIModel)
			fmt.Fprintf(w, "api_key: %s\n", mask(c.APIKey))
			fmt.Fprintf(w, "ollama_host: %s\n", c.OllamaHost)
		}
		fmt.Fprintf(w, "label_timeout_sec: %d\n", c.LabelTimeoutSec)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// setKey assigns val to the named key after parsing it for the key's type.
func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "server_host":
		c.ServerHost = val
	case "server_port":
		return setInt(&c.ServerPort, key, val)
	case "request_timeout_sec":
		return setInt(&c.RequestTimeoutSec, key, val)
	case "body_limit":
		c.BodyLimit = val
	case "rate_limit_rps":
		return setFloat(&c.RateLimitRPS, key, val)
	case "rate_limit_burst":
		return setInt(&c.RateLimitBurst, key, val)
	case "max_items":
		return setInt(&c.MaxItems, key, val)
	case "max_string_len":
		return setInt(&c.MaxStringLen, key, val)
	case "max_abs_number":
		return setFloat(&c.MaxAbsNumber, key, val)
	case "user_id":
		c.UserID = val
	case "email":
		c.Email = val
	case "roll_number":
		c.RollNumber = val
	case "ai_provider":
		switch p := strings.ToLower(strings.TrimSpace(val)); p {
		case ai.ProviderNone, ai.ProviderOpenRouter:
			c.AIProvider = p
		case ai.ProviderOllama, ai.ProviderLocal:
			c.AIProvider = ai.ProviderOllama
		default:
			return fmt.Errorf("invalid ai_provider: %s (use none, openrouter or ollama)", val)
		}
	case "ai_model":
		c.AIModel = val
	case "api_key":
		c.APIKey = val
	case "label_timeout_sec":
		return setInt(&c.LabelTimeoutSec, key, val)
	case "label_rps":
		return setFloat(&c.LabelRPS, key, val)
	case "label_burst":
		return setInt(&c.LabelBurst, key, val)
	case "http_timeout_sec":
		return setInt(&c.HTTPTimeoutSec, key, val)
	case "retry_max_attempts":
		return setInt(&c.RetryMaxAttempts, key, val)
	case "retry_base_delay_ms":
		return setInt(&c.RetryBaseDelayMs, key, val)
	case "retry_max_delay_ms":
		return setInt(&c.RetryMaxDelayMs, key, val)
	case "ollama_host":
		c.OllamaHost = val
	case "log_level":
		if _, err := logging.New(val, c.LogFormat); err != nil {
			return err
		}
		c.LogLevel = val
	case "log_format":
		switch val {
		case "json", "console":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use json or console)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setInt(dst *int, key, val string) error {
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return fmt.Errorf("invalid int for %s: %v", key, val)
	}
	*dst = i
	return nil
}

func setFloat(dst *float64, key, val string) error {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("invalid float for %s: %v", key, val)
	}
	*dst = f
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
