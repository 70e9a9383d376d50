// Package openai adapts an OpenAI-compatible chat API for query generation.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
)

const systemPrompt = "Rewrite the conversation into a single standalone search query. " +
	"Resolve pronouns and references using earlier turns. " +
	"Reply with the query only, no quotes and no explanation."

// QueryGenerator rewrites a conversation into a standalone query using an
// OpenAI-compatible chat completion API (e.g. a local vLLM deployment).
type QueryGenerator struct {
	client   *openai.Client
	model    string
	maxTurns int
	logger   *zap.Logger
}

// Config holds the query generation provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	MaxTurns int
	Logger   *zap.Logger
}

// NewQueryGenerator creates an OpenAI-compatible query generator.
func NewQueryGenerator(cfg *Config) *QueryGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}

	return &QueryGenerator{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		maxTurns: maxTurns,
		logger:   cfg.Logger,
	}
}

// GetQuery sends the most recent conversation turns (chronological order) to
// the chat API and returns the rewritten query. Failures propagate; there is
// no retry and no fallback query.
func (g *QueryGenerator) GetQuery(ctx context.Context, conv []domain.Message) (string, error) {
	n := len(conv)
	if n > g.maxTurns {
		n = g.maxTurns
	}

	msgs := make([]openai.ChatCompletionMessage, 0, n+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for i := n - 1; i >= 0; i-- {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: conv[i].Text,
		})
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: msgs,
	})
	if err != nil {
		metrics.QueryGenerationsTotal.WithLabelValues("llm", "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.QueryGenerationsTotal.WithLabelValues("llm", "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrQueryGeneration)
	}

	query := strings.TrimSpace(resp.Choices[0].Message.Content)
	if query == "" {
		metrics.QueryGenerationsTotal.WithLabelValues("llm", "error").Inc()
		return "", fmt.Errorf("blank query from completion: %w", domain.ErrQueryGeneration)
	}

	metrics.QueryGenerationsTotal.WithLabelValues("llm", "success").Inc()
	g.logger.Debug("Query rewritten",
		zap.String("model", g.model),
		zap.Int("turns", n),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return query, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrQueryGeneration.
func parseAPIError(err error) error {
	wrap := domain.ErrQueryGeneration

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
