package compose

import "context"

// TextGenerator is the free-text completion contract of the generation backend.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string, temperature float32) (string, error)
}
