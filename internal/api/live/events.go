package live

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/odnoliu/geoscene/internal/scene"
)

// EventHandler streams scene mutation events to connected viewers. Each
// event patches the lastEvent signal so the map knows what changed and
// can refetch the affected resource.
type EventHandler struct {
	bus *scene.Bus
}

// NewEventHandler creates an event handler over the scene bus.
func NewEventHandler(bus *scene.Bus) *EventHandler {
	return &EventHandler{bus: bus}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/scene/events", h.Events, huma.OperationTags("live"))
}

func (h *EventHandler) Events(ctx context.Context, input *EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			ch := h.bus.Subscribe()
			defer h.bus.Unsubscribe(ch)

			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-ch:
					sse.Signals(map[string]any{
						"lastEvent": map[string]any{
							"resource": ev.Resource,
							"action":   ev.Action,
							"id":       ev.ID,
						},
					})
				}
			}
		},
	}, nil
}
