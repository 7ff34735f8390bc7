package tools

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/askdata/internal/domain"
)

// Registry is an explicit name-to-tool table populated at startup.
type Registry struct {
	tools  map[string]Tool
	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{tools: make(map[string]Tool), logger: logger}
}

// Register adds a tool under its schema name. Registering the same name
// twice replaces the previous tool with a warning.
func (r *Registry) Register(t Tool) {
	name := t.Schema().Name
	if _, exists := r.tools[name]; exists {
		r.logger.Warn("Replacing registered tool", zap.String("tool", name))
	}
	r.tools[name] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %q: %w", name, domain.ErrToolNotFound)
	}
	return t, nil
}

// Schemas lists registered tool schemas sorted by name.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Schema())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
