package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/internal/config"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ErrLLMDisabled is returned when no API key is configured
var ErrLLMDisabled = errors.New("OpenAI API is not enabled")

// Completer sends one system instruction plus user text to a language model
// and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// OpenAIClient is a Completer backed by an OpenAI-compatible chat API
type OpenAIClient struct {
	config *config.OpenAIConfig
	client *openai.Client
}

// NewOpenAIClient creates the client. A config without an API key yields a
// client whose calls fail with ErrLLMDisabled.
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	if !cfg.Enabled {
		return &OpenAIClient{config: cfg}
	}

	c := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.APIBase),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second),
	)
	return &OpenAIClient{config: cfg, client: &c}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c.client != nil
}

// Complete requests a JSON-object reply for userText
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	if c.client == nil {
		return "", ErrLLMDisabled
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.config.ChatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userText),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openai.Float(c.config.ChatTemperature),
	}
	if c.config.ChatMaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.config.ChatMaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
