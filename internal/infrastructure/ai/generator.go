// Package ai provides the text generation capability used by intent
// classification and recommendation generation.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/campaignforge/campaignforge-go/internal/infrastructure/observability/logging"
	"github.com/campaignforge/campaignforge-go/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator is the single-shot text generation capability. Implementations
// are treated as fallible and possibly slow; every call carries a bounded
// timeout applied by the implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator implements Generator against any OpenAI-compatible chat
// completion endpoint via langchaingo.
type OpenAIGenerator struct {
	llm         llms.Model
	timeout     time.Duration
	temperature float64
	logger      *logging.ChanneledLogger
}

// NewOpenAIGenerator builds a generator from the central configuration.
func NewOpenAIGenerator(logger *logging.ChanneledLogger) (*OpenAIGenerator, error) {
	if config.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	opts := []openai.Option{
		openai.WithToken(config.OpenAIAPIKey),
		openai.WithModel(config.AIModel),
	}
	if config.AIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.AIBaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return &OpenAIGenerator{
		llm:         llm,
		timeout:     config.AITimeout,
		temperature: config.AITemperature,
		logger:      logger,
	}, nil
}

// Generate performs one chat completion round trip with a bounded timeout.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(g.temperature),
	)
	if g.logger != nil {
		g.logger.LogGenerationCall("generate", len(prompt), time.Since(start), err)
	}
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}

	return completion, nil
}
