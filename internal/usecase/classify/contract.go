package classify

import (
	"context"
	"encoding/json"
)

// Generator is the structured-completion contract of the generation backend.
type Generator interface {
	GenerateStructured(
		ctx context.Context, system, user string,
		schemaName string, schema json.Marshaler, temperature float32, out any,
	) error
}
