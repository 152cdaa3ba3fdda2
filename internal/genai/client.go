// Package genai wraps the external text-generation service and validates its
// structured output.
package genai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultChatModel is the generation model used unless configured otherwise
const DefaultChatModel = openai.GPT4o

var (
	// ErrEmptyContent is returned when user content is empty
	ErrEmptyContent = errors.New("user content cannot be empty")
	// ErrNoChoices is returned when the service responds without any completion
	ErrNoChoices = errors.New("no completion choices returned")
)

// CompletionAPI defines the single round trip to the generation service
type CompletionAPI interface {
	CreateCompletion(ctx context.Context, system, user, sessionID string) (string, error)
}

// Client wraps the generation service behind a transport-free surface
type Client struct {
	api CompletionAPI
}

type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string) *OpenAIAdapter {
	if model == "" {
		model = DefaultChatModel
	}
	return &OpenAIAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIAdapterWithBaseURL targets an alternate endpoint. Used to point the
// adapter at a stub server in tests.
func NewOpenAIAdapterWithBaseURL(apiKey, model, baseURL string) *OpenAIAdapter {
	if model == "" {
		model = DefaultChatModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// CreateCompletion performs one chat completion round trip. The session
// identity rides along as the request user so the provider can group a
// multi-turn exchange.
func (a *OpenAIAdapter) CreateCompletion(ctx context.Context, system, user, sessionID string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		User: sessionID,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewClient creates a new generation client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new generation client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	if cfg.BaseURL != "" {
		return &Client{api: NewOpenAIAdapterWithBaseURL(cfg.APIKey, cfg.Model, cfg.BaseURL)}
	}
	return &Client{api: NewOpenAIAdapter(cfg.APIKey, cfg.Model)}
}

// Complete sends one generation request and returns the raw model text.
// Transport and service failures surface as errors for the caller to map.
func (c *Client) Complete(ctx context.Context, system, user, sessionID string) (string, error) {
	if user == "" {
		return "", ErrEmptyContent
	}

	text, err := c.api.CreateCompletion(ctx, system, user, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	return text, nil
}
