package llm

import (
	"context"
	"errors"
)

// Client abstracts a text-in text-out LLM backend.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider resolves a Client for the given credential material.
type Provider interface {
	ClientFor(ctx context.Context, apiKey string) (Client, error)
}

// ErrNoCredentials is returned when neither the caller nor the environment
// supplies an API key.
var ErrNoCredentials = errors.New("no API key provided")
