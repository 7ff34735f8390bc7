package classify

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

// mockGenerator scripts the structured completion via a JSON payload.
type mockGenerator struct {
	response string
	err      error
	calls    int

	lastSystem string
	lastSchema json.Marshaler
}

func (m *mockGenerator) GenerateStructured(
	_ context.Context, system, _ string,
	_ string, schema json.Marshaler, _ float32, out any,
) error {
	m.calls++
	m.lastSystem = system
	m.lastSchema = schema
	if m.err != nil {
		return m.err
	}
	return json.Unmarshal([]byte(m.response), out)
}

func newTestService(t *testing.T, gen *mockGenerator) *Service {
	t.Helper()
	return New(gen, 0, zap.NewNop())
}
