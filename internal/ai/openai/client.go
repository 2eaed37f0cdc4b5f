package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	defaultModel      = "gpt-4o-mini"
	defaultMaxRetries = 3
)

// test seam
var sleep = time.Sleep

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds the OpenAI provider configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
}

// Generator wraps the OpenAI chat completion API behind the oracle contract.
type Generator struct {
	client     chatCompleter
	modelName  string
	maxRetries int
}

// NewGenerator creates a new Generator for the OpenAI API (or any
// API-compatible endpoint via BaseURL).
func NewGenerator(cfg Config) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Generator{
		client:     openai.NewClientWithConfig(clientConfig),
		modelName:  model,
		maxRetries: maxRetries,
	}, nil
}

// GenerateContent sends the prompt as a single user message and returns the
// first choice. Transient failures are retried with a short linear backoff up
// to the configured attempt cap.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("openai generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			if attempt < g.maxRetries {
				sleep(time.Duration(attempt) * time.Second)
			}
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = errors.New("openai api returned no choices")
			continue
		}

		output := strings.TrimSpace(resp.Choices[0].Message.Content)
		if output == "" {
			lastErr = errors.New("openai api returned empty response")
			continue
		}

		return output, nil
	}

	return "", fmt.Errorf("chat completion failed after %d attempts: %w", g.maxRetries, lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
