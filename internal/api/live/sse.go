// Package live streams scene change events to the viewer UI over
// Datastar server-sent events.
package live

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"
)

// EmptyInput is a shared empty input struct for handlers with no parameters.
type EmptyInput struct{}

// SSEContext wraps the Datastar SSE generator with helper methods.
type SSEContext struct {
	SSE *datastar.ServerSentEventGenerator
}

// NewSSE creates an SSE context from a Huma context.
func NewSSE(humaCtx huma.Context) *SSEContext {
	r, w := humago.Unwrap(humaCtx)
	return &SSEContext{SSE: datastar.NewSSE(w, r)}
}

// Signals sends arbitrary signals to the client.
func (c *SSEContext) Signals(signals map[string]any) {
	c.SSE.MarshalAndPatchSignals(signals)
}

// Error sends an error signal to the client.
func (c *SSEContext) Error(msg string) {
	c.Signals(map[string]any{"error": msg})
}
