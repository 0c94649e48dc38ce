package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"hireview-backend/internal/llm"
	"hireview-backend/internal/shared/util"
)

const (
	defaultModel   = "gemini-2.5-flash"
	requestTimeout = 60 * time.Second
)

// Client wraps the Google GenAI client behind the llm.Client interface.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, llm.ErrNoCredentials
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: client, modelName: model}, nil
}

// Generate sends the prompt to Gemini and returns the concatenated textual response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// Provider hands out Gemini clients, resolving credentials per request.
// Caller-supplied keys take precedence over the configured default; a client
// is built once per distinct key and reused.
type Provider struct {
	defaultKey string
	model      string

	mu      sync.Mutex
	clients map[string]*Client
}

// NewProvider creates a Provider. defaultKey may be empty; in that case every
// request must carry its own key.
func NewProvider(defaultKey, model string) *Provider {
	return &Provider{
		defaultKey: strings.TrimSpace(defaultKey),
		model:      model,
		clients:    make(map[string]*Client),
	}
}

// ClientFor returns a client for the caller-supplied key, falling back to the
// configured default key. Returns llm.ErrNoCredentials when neither is set.
func (p *Provider) ClientFor(ctx context.Context, apiKey string) (llm.Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = p.defaultKey
	}
	if key == "" {
		return nil, llm.ErrNoCredentials
	}

	cacheKey := util.HashCredential(key)

	p.mu.Lock()
	defer p.mu.Unlock()
	if client, ok := p.clients[cacheKey]; ok {
		return client, nil
	}

	client, err := NewClient(ctx, key, p.model)
	if err != nil {
		return nil, err
	}
	p.clients[cacheKey] = client
	return client, nil
}
