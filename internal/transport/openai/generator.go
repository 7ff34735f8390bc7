// Package openai talks to an OpenAI-compatible backend for text generation,
// structured completions and embeddings.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/metrics"
)

// Generator is a generation backend client over the OpenAI-compatible
// chat completions API (e.g. Ollama, vLLM, Nebius).
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Config holds the backend connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewGenerator creates a generation backend client.
func NewGenerator(cfg *Config) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// GenerateText returns a free-text completion for a system/user prompt pair.
func (g *Generator) GenerateText(ctx context.Context, system, user string, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "text", "error").Inc()
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "text", "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationBackend)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "text", "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model, "text").Observe(duration.Seconds())
	recordTokens(g.model, resp.Usage)

	return resp.Choices[0].Message.Content, nil
}

// GenerateStructured requests a completion constrained by a JSON schema and
// decodes the returned document into out. The schema travels as the response
// format, so a conforming backend cannot produce values outside it.
func (g *Generator) GenerateStructured(
	ctx context.Context, system, user string,
	schemaName string, schema json.Marshaler, temperature float32, out any,
) error {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schema,
				Strict: true,
			},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "structured", "error").Inc()
		return parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "structured", "error").Inc()
		return fmt.Errorf("empty structured response: %w", domain.ErrGenerationBackend)
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "structured", "error").Inc()
		g.logger.Warn("Structured response is not valid JSON",
			zap.String("model", g.model),
			zap.String("content", truncate(content, 200)),
		)
		return fmt.Errorf("decode structured response: %w: %w", err, domain.ErrGenerationBackend)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "structured", "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model, "structured").Observe(duration.Seconds())
	recordTokens(g.model, resp.Usage)

	return nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func recordTokens(model string, usage openai.Usage) {
	if usage.TotalTokens == 0 {
		return
	}
	metrics.GenerationTokensTotal.WithLabelValues(model, "prompt").Add(float64(usage.PromptTokens))
	metrics.GenerationTokensTotal.WithLabelValues(model, "completion").Add(float64(usage.CompletionTokens))
	metrics.GenerationTokensTotal.WithLabelValues(model, "total").Add(float64(usage.TotalTokens))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrGenerationBackend for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrGenerationBackend

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("backend API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("backend API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("backend API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("backend request failed: %w", wrap)
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
