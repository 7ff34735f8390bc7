package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/metrics"
)

// Embedder vectorizes text via the embeddings endpoint. The keyword
// extractor uses it to rank candidate words against the question.
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	logger *zap.Logger
}

// EmbedderConfig holds the embedding endpoint settings.
type EmbedderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewEmbedder creates an embeddings client.
func NewEmbedder(cfg *EmbedderConfig) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Embedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(cfg.Model),
		logger: cfg.Logger,
	}
}

// BatchEmbed vectorizes texts in one round-trip, preserving input order.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(string(e.model), "embedding", "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Data) != len(texts) {
		metrics.GenerationRequestsTotal.WithLabelValues(string(e.model), "embedding", "error").Inc()
		return nil, fmt.Errorf("embedding response size %d != input size %d: %w",
			len(resp.Data), len(texts), domain.ErrGenerationBackend)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(string(e.model), "embedding", "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(string(e.model), "embedding").Observe(duration.Seconds())

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range: %w", d.Index, domain.ErrGenerationBackend)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
