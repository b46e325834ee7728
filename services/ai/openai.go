// Package aisvc talks to the chat completion models behind the survey feedback.
package aisvc

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/survey"
)

const providerName = "openai"

var errEmptyReply = errors.New("empty completion")

// OpenAIGenerator implements survey.Generator on the OpenAI chat completions API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int64
	temperature float64
	logger      core.Logger
}

var _ survey.Generator = (*OpenAIGenerator)(nil) // interface compliance check

// NewOpenAIGenerator returns nil when no API key is configured, leaving feedback disabled.
func NewOpenAIGenerator(conf core.OpenAIConfig, logger core.Logger, opts ...option.RequestOption) *OpenAIGenerator {
	if conf.APIKey == "" {
		return nil
	}
	options := []option.RequestOption{option.WithAPIKey(conf.APIKey)}
	if conf.BaseURL != "" {
		options = append(options, option.WithBaseURL(conf.BaseURL))
	}
	options = append(options, opts...)

	client := openai.NewClient(options...)
	return &OpenAIGenerator{
		client:      &client,
		model:       conf.Model,
		maxTokens:   conf.MaxTokens,
		temperature: conf.Temperature,
		logger:      logger,
	}
}

// Generate sends a system and a user message and returns the first choice. Every failure is a core.ProviderError.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(g.temperature),
	}
	if g.maxTokens > 0 {
		body.MaxTokens = openai.Int(g.maxTokens)
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", core.NewProviderError(providerName, err)
	}
	if g.logger != nil {
		g.logger.Debug("openai completion", map[string]interface{}{
			"model":       g.model,
			"durationMs":  time.Since(start).Milliseconds(),
			"totalTokens": resp.Usage.TotalTokens,
		})
	}

	if len(resp.Choices) == 0 {
		return "", core.NewProviderError(providerName, errEmptyReply)
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", core.NewProviderError(providerName, errEmptyReply)
	}
	return reply, nil
}
