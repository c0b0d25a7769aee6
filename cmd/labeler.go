package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/tokenscope/internal/ai"
	cfgpkg "github.com/KaramelBytes/tokenscope/internal/config"
	"github.com/KaramelBytes/tokenscope/internal/insight"
)

type labelerOptions struct {
	ProviderFlag string
	ModelFlag    string
	OllamaHost   string
}

// buildLabeler resolves the configured provider into a rate-limited labeler.
// Provider "none" yields a nil labeler and the analyzer falls back to fixed labels.
func buildLabeler(cfg *cfgpkg.Global, opts labelerOptions) (insight.Labeler, string, error) {
	httpTimeout := 30 * time.Second
	retryMax := 3
	baseDelay := 500 * time.Millisecond
	maxDelay := 4 * time.Second
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			httpTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.RetryMaxAttempts > 0 {
			retryMax = cfg.RetryMaxAttempts
		}
		if cfg.RetryBaseDelayMs > 0 {
			baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		}
		if cfg.RetryMaxDelayMs > 0 {
			maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
		}
	}

	providerName := strings.ToLower(strings.TrimSpace(opts.ProviderFlag))
	if providerName == "" && cfg != nil {
		providerName = strings.ToLower(strings.TrimSpace(cfg.AIProvider))
	}
	if providerName == "" {
		providerName = ai.ProviderNone
	}

	switch providerName {
	case ai.ProviderNone, "off", "disabled":
		return nil, ai.ProviderNone, nil
	case ai.ProviderLocal:
		providerName = ai.ProviderOllama
	case "openai", "anthropic", "google", "gemini", "meta", "llama":
		providerName = ai.ProviderOpenRouter
	}

	rc := ai.RuntimeConfig{
		HTTPTimeout: httpTimeout,
		RetryMax:    retryMax,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
	}
	if cfg != nil {
		rc.APIKey = cfg.APIKey
	}

	if providerName == ai.ProviderOllama {
		host := strings.TrimSpace(opts.OllamaHost)
		if host == "" && cfg != nil && cfg.OllamaHost != "" {
			host = cfg.OllamaHost
		}
		if host == "" {
			host = "http://127.0.0.1:11434"
		}
		rc.Host = host
	}

	rt, ok := ai.GetRuntime(providerName, rc)
	if !ok {
		return nil, providerName, fmt.Errorf("provider not supported: %s (available: none, %s)",
			providerName, strings.Join(ai.Providers(), ", "))
	}

	model := strings.TrimSpace(opts.ModelFlag)
	if model == "" && cfg != nil {
		model = cfg.AIModel
	}
	if model == "" {
		return nil, providerName, fmt.Errorf("ai_model is required for provider %s", providerName)
	}

	var rps float64
	var burst int
	if cfg != nil {
		rps, burst = cfg.LabelRPS, cfg.LabelBurst
	}
	return ai.NewLabeler(rt, model, rps, burst), providerName, nil
}
