// internal/translator/generator.go
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Generator produces a model reply for a system and a user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GeneratorConfig holds configuration for an OpenAI-compatible endpoint.
type GeneratorConfig struct {
	Endpoint    string // Base URL, e.g. "https://api.openai.com/v1"
	Model       string
	APIKey      string
	Temperature float32
	MaxTokens   int
}

// OpenAIGenerator talks to any OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         logrus.FieldLogger
}

// NewOpenAIGenerator creates a Generator for cfg.
func NewOpenAIGenerator(cfg GeneratorConfig, log logrus.FieldLogger) (*OpenAIGenerator, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log.WithField("component", "llm"),
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	g.log.WithFields(logrus.Fields{"model": g.model, "prompt_len": len(user)}).Debug("LLM request")
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.log.WithError(err).WithField("elapsed", time.Since(start)).Warn("LLM request failed")
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %s (status %d)", ErrGenerator, apiErr.Message, apiErr.HTTPStatusCode)
		}
		return "", fmt.Errorf("%w: %w", ErrGenerator, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrGenerator)
	}

	g.log.WithFields(logrus.Fields{
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"elapsed":           time.Since(start),
	}).Info("LLM request completed")
	return resp.Choices[0].Message.Content, nil
}

// MockGenerator is a configurable Generator for tests. It is safe for
// concurrent use; set GenerateFunc with SetFunc once requests are in flight.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, system, user string) (string, error)

	mu       sync.Mutex
	calls    int
	lastUser string
}

// SetFunc replaces GenerateFunc.
func (m *MockGenerator) SetFunc(fn func(ctx context.Context, system, user string) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = fn
}

// Calls returns how many times Generate ran.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastUser returns the user message of the most recent call.
func (m *MockGenerator) LastUser() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUser
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastUser = user
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, system, user)
	}
	return `{"commands": []}`, nil
}
