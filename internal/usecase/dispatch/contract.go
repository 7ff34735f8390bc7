package dispatch

import (
	"context"

	"github.com/kailas-cloud/askdata/internal/tools"
)

// Extractor produces search keywords from a question.
type Extractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

// ToolSource resolves registered tools by name.
type ToolSource interface {
	Get(name string) (tools.Tool, error)
}
