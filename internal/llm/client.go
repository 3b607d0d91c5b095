package llm

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps the OpenAI client for answer generation and embeddings
type Client struct {
	client      *openai.Client
	model       string
	embedModel  string
	temperature float64
	prompts     Prompts
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL     string
	temperature float64
	prompts     Prompts
}

// WithBaseURL points the client at an OpenAI-compatible API.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTemperature sets the sampling temperature for answers.
func WithTemperature(t float64) ClientOption {
	return func(c *clientConfig) {
		c.temperature = t
	}
}

// WithPrompts replaces the default prompts.
func WithPrompts(p Prompts) ClientOption {
	return func(c *clientConfig) {
		c.prompts = p
	}
}

// NewClient creates a new LLM client with API key
func NewClient(apiKey, model, embedModel string, opts ...ClientOption) *Client {
	cfg := clientConfig{
		temperature: 0.2,
		prompts:     DefaultPrompts(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(reqOpts...)

	return &Client{
		client:      &client,
		model:       model,
		embedModel:  embedModel,
		temperature: cfg.temperature,
		prompts:     cfg.prompts,
	}
}
