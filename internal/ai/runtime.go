package ai

import "context"

// Runtime is the minimal interface implemented by text-generation backends
// such as OpenRouter and a local Ollama.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers accepted by configuration.
const (
	ProviderNone       = "none"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderLocal      = "local"
)
