// Package tools holds the dataset search tools and their registry. Each tool
// carries an OpenAI-compatible function schema so the set can be advertised
// to a generation backend or listed over HTTP.
package tools

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kailas-cloud/askdata/internal/domain/dataset"
)

// FallbackPolicy controls what a tool returns when it cannot produce a
// meaningful match.
type FallbackPolicy string

const (
	// FallbackOriginal returns the head of the unfiltered dataset.
	FallbackOriginal FallbackPolicy = "original"
	// FallbackEmpty returns an empty dataset.
	FallbackEmpty FallbackPolicy = "empty"
)

// Params are the execution arguments shared by dataset search tools.
type Params struct {
	Keywords []string
	Column   string
	TopN     int
	Fallback FallbackPolicy
}

// Schema describes a tool in OpenAI function-calling terms.
type Schema struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Parameters  jsonschema.Definition `json:"parameters"`
}

// ToFunction converts the schema to the go-openai function definition.
func (s Schema) ToFunction() openai.FunctionDefinition {
	return openai.FunctionDefinition{
		Name:        s.Name,
		Description: s.Description,
		Parameters:  s.Parameters,
	}
}

// Tool narrows a dataset view and scores the surviving rows.
type Tool interface {
	Schema() Schema
	Execute(ctx context.Context, ds *dataset.Dataset, p Params) (*dataset.Dataset, dataset.ScoreMap, error)
}
