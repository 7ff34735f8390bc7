// Package dispatch applies the per-dataset relevance filtering strategy.
// Filtering refines an answer but never blocks one: every degenerate or
// failing path returns the input view unchanged.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/domain/dataset"
	"github.com/kailas-cloud/askdata/internal/tools"
)

// Strategy names a relevance filtering method.
type Strategy string

const (
	StrategyNone    Strategy = "none"
	StrategyKeyBERT Strategy = "keybert"
	StrategyLLM     Strategy = "llm"
	StrategyBoth    Strategy = "both"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, bool) {
	st := Strategy(s)
	switch st {
	case StrategyNone, StrategyKeyBERT, StrategyLLM, StrategyBoth:
		return st, true
	}
	return "", false
}

// keyword extraction is capped so a long question cannot dilute the overlap
// denominator into near-zero scores.
const maxKeywords = 7

// Route is the filtering configuration of one dataset kind.
type Route struct {
	Strategy Strategy
	Column   string
	TopN     int
	Fallback tools.FallbackPolicy
}

// Executor dispatches questions through the configured filtering strategy.
type Executor struct {
	routes    map[domain.Kind]Route
	extractor Extractor
	toolsrc   ToolSource
	logger    *zap.Logger
}

// New creates an executor with a route per dataset kind.
func New(routes map[domain.Kind]Route, extractor Extractor, toolsrc ToolSource, logger *zap.Logger) *Executor {
	return &Executor{routes: routes, extractor: extractor, toolsrc: toolsrc, logger: logger}
}

// Apply narrows ds per the kind's strategy. It never returns an error; an
// unusable strategy or a failing dependency passes the dataset through with
// an empty score map.
func (e *Executor) Apply(ctx context.Context, kind domain.Kind, question string, ds *dataset.Dataset) (*dataset.Dataset, dataset.ScoreMap) {
	route, ok := e.routes[kind]
	if !ok || route.Strategy == StrategyNone || route.Strategy == "" {
		return ds, dataset.ScoreMap{}
	}

	switch route.Strategy {
	case StrategyKeyBERT:
		return e.applyKeyBERT(ctx, kind, question, ds, route)
	case StrategyLLM:
		e.logger.Warn("LLM filtering strategy is not implemented, passing dataset through",
			zap.String("dataset", string(kind)))
		return ds, dataset.ScoreMap{}
	case StrategyBoth:
		e.logger.Warn("Combined filtering strategy is not implemented, passing dataset through",
			zap.String("dataset", string(kind)))
		return ds, dataset.ScoreMap{}
	default:
		e.logger.Warn("Unknown filtering strategy, passing dataset through",
			zap.String("dataset", string(kind)),
			zap.String("strategy", string(route.Strategy)))
		return ds, dataset.ScoreMap{}
	}
}

func (e *Executor) applyKeyBERT(ctx context.Context, kind domain.Kind, question string, ds *dataset.Dataset, route Route) (*dataset.Dataset, dataset.ScoreMap) {
	keywords, err := e.extractor.Extract(ctx, question, maxKeywords)
	if err != nil {
		e.logger.Warn("Keyword extraction failed, passing dataset through",
			zap.String("dataset", string(kind)),
			zap.Error(err),
		)
		return ds, dataset.ScoreMap{}
	}
	if len(keywords) == 0 {
		e.logger.Debug("No keywords extracted, passing dataset through",
			zap.String("dataset", string(kind)))
		return ds, dataset.ScoreMap{}
	}

	tool, err := e.toolsrc.Get(tools.SearchByKeywordsName)
	if err != nil {
		e.logger.Warn("Keyword search tool unavailable, passing dataset through",
			zap.String("dataset", string(kind)),
			zap.Error(err),
		)
		return ds, dataset.ScoreMap{}
	}

	filtered, scores, err := tool.Execute(ctx, ds, tools.Params{
		Keywords: keywords,
		Column:   route.Column,
		TopN:     route.TopN,
		Fallback: route.Fallback,
	})
	if err != nil {
		e.logger.Warn("Keyword search failed, passing dataset through",
			zap.String("dataset", string(kind)),
			zap.Error(err),
		)
		return ds, dataset.ScoreMap{}
	}
	return filtered, scores
}
