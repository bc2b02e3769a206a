// Package api defines the Huma API routes and handlers for the map scene.
package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/odnoliu/geoscene/internal/scene"
	"github.com/odnoliu/geoscene/internal/source"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Mutator  *scene.Mutator
	Factory  *scene.Factory
	Surface  scene.MapSurface
	Store    *source.Store
	Overlays *source.Overlays
}

// Types

// KindInput selects a vector layer kind in the path.
type KindInput struct {
	Kind string `path:"kind" enum:"default,user" doc:"Layer kind" example:"user"`
}

// LayerIDInput addresses one layer by kind and identifier.
type LayerIDInput struct {
	KindInput
	ID int64 `path:"id" doc:"Layer identifier" example:"9"`
}

// LayerSummary is the read view of one scene layer.
type LayerSummary struct {
	Kind     scene.Kind `json:"kind" doc:"Layer kind"`
	ID       int64      `json:"id" doc:"Layer identifier"`
	Name     string     `json:"name,omitempty" doc:"Display name"`
	ZIndex   int        `json:"z_index" doc:"Draw order"`
	Visible  bool       `json:"visible" doc:"Whether the layer is drawn"`
	Features int        `json:"features" doc:"Feature count"`
}

// MessageBody carries a plain result message.
type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

// HealthBody reports service health.
type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// SceneHandler holds the REST handlers for scene operations.
type SceneHandler struct {
	svc *Services
}

// NewSceneHandler creates the scene API handler.
func NewSceneHandler(svc *Services) *SceneHandler {
	return &SceneHandler{svc: svc}
}

// RegisterRoutes registers every scene route.
func (h *SceneHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))

	huma.Get(api, "/api/v1/scene/layers", h.ListLayers, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/scene/layers/default", h.LoadDefaultLayer, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/scene/layers/user", h.LoadUserLayer, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/scene/layers/marker", h.CreateMarkerLayer, huma.OperationTags("layers"))
	huma.Put(api, "/api/v1/scene/layers/{kind}/{id}/color", h.Recolor, huma.OperationTags("layers"))
	huma.Delete(api, "/api/v1/scene/layers/{kind}/{id}", h.DeleteLayer, huma.OperationTags("layers"))
	huma.Put(api, "/api/v1/scene/priority", h.Reorder, huma.OperationTags("layers"))

	huma.Get(api, "/api/v1/scene/basemaps", h.GetCatalog, huma.OperationTags("basemaps"))
	huma.Post(api, "/api/v1/scene/basemaps", h.LoadBasemaps, huma.OperationTags("basemaps"))

	huma.Post(api, "/api/v1/scene/layers/user/{id}/features", h.InsertFeatures, huma.OperationTags("features"))
	huma.Delete(api, "/api/v1/scene/layers/user/{id}/features/{fid}", h.RemoveFeature, huma.OperationTags("features"))
	huma.Post(api, "/api/v1/scene/highlight", h.Highlight, huma.OperationTags("features"))
	huma.Post(api, "/api/v1/scene/reset", h.Reset, huma.OperationTags("features"))
	huma.Post(api, "/api/v1/scene/zoom", h.Zoom, huma.OperationTags("features"))

	huma.Get(api, "/api/v1/overlays/{name}", h.GetOverlay, huma.OperationTags("overlays"))
}

func layerKind(s string) scene.Kind {
	if s == "default" {
		return scene.KindDefaultVector
	}
	return scene.KindUserVector
}

// Handlers

func (h *SceneHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *SceneHandler) ListLayers(ctx context.Context, input *struct{}) (*struct{ Body []LayerSummary }, error) {
	summaries := []LayerSummary{}
	for _, l := range h.svc.Surface.Layers() {
		summaries = append(summaries, LayerSummary{
			Kind:     l.Kind,
			ID:       l.ID,
			Name:     l.Name,
			ZIndex:   l.ZIndex,
			Visible:  l.Visible,
			Features: len(l.Features),
		})
	}
	return &struct{ Body []LayerSummary }{Body: summaries}, nil
}

// LoadDefaultLayerInput configures loading of an administrative layer.
type LoadDefaultLayerInput struct {
	Body struct {
		LayerID     int64   `json:"layer_id" required:"true" doc:"Default layer identifier"`
		Name        string  `json:"name,omitempty" doc:"Display name, derived from the records when empty"`
		Fill        string  `json:"fill,omitempty" doc:"Fill color (CSS)"`
		Stroke      string  `json:"stroke,omitempty" doc:"Stroke color (CSS)"`
		StrokeWidth float64 `json:"stroke_width,omitempty" doc:"Stroke width in pixels"`
		ZIndex      int     `json:"z_index,omitempty" doc:"Draw order"`
	}
}

func (h *SceneHandler) LoadDefaultLayer(ctx context.Context, input *LoadDefaultLayerInput) (*struct{ Body LayerSummary }, error) {
	if h.svc.Store == nil {
		return nil, huma.Error503ServiceUnavailable("record store not available")
	}

	records, err := h.svc.Store.DefaultFeatures(ctx, input.Body.LayerID)
	if err != nil {
		return nil, huma.Error500InternalServerError("loading default features", err)
	}

	style := scene.LayerStyle(input.Body.Fill, input.Body.Stroke, input.Body.StrokeWidth)
	layer := h.svc.Factory.DefaultVectorLayer(input.Body.Name, records, style, input.Body.ZIndex, input.Body.LayerID)
	h.svc.Mutator.Add(layer)

	return &struct{ Body LayerSummary }{Body: LayerSummary{
		Kind: layer.Kind, ID: layer.ID, Name: layer.Name, ZIndex: layer.ZIndex,
		Visible: layer.Visible, Features: len(layer.Features),
	}}, nil
}

// CreateMarkerLayerInput configures an icon-rendered overlay layer.
type CreateMarkerLayerInput struct {
	Body struct {
		Name    string `json:"name" required:"true" doc:"Display name"`
		LayerID int64  `json:"layer_id" required:"true" doc:"Layer identifier"`
		Overlay string `json:"overlay" required:"true" enum:"education,market,medical,tourism" doc:"Overlay collection to render"`
		IconURL string `json:"icon_url" required:"true" doc:"Marker icon image URL"`
		ZIndex  int    `json:"z_index,omitempty" doc:"Draw order"`
	}
}

func (h *SceneHandler) CreateMarkerLayer(ctx context.Context, input *CreateMarkerLayerInput) (*struct{ Body LayerSummary }, error) {
	if h.svc.Overlays == nil {
		return nil, huma.Error503ServiceUnavailable("overlays not available")
	}
	fc, err := h.svc.Overlays.Load(input.Body.Overlay)
	if err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}

	// The icon is acquired before the layer exists; a fetch failure aborts
	// this layer alone and the rest of the scene stays untouched.
	layer, err := h.svc.Factory.MarkerLayer(ctx, scene.MarkerLayerOptions{
		Name:       input.Body.Name,
		LayerID:    input.Body.LayerID,
		IconURL:    input.Body.IconURL,
		ZIndex:     input.Body.ZIndex,
		Collection: fc,
	})
	if err != nil {
		return nil, huma.Error502BadGateway("acquiring marker icon", err)
	}
	h.svc.Mutator.Add(layer)

	return &struct{ Body LayerSummary }{Body: LayerSummary{
		Kind: layer.Kind, ID: layer.ID, Name: layer.Name, ZIndex: layer.ZIndex,
		Visible: layer.Visible, Features: len(layer.Features),
	}}, nil
}

// LoadUserLayerInput selects a stored user layer to add to the scene.
type LoadUserLayerInput struct {
	Body struct {
		LayerID int64 `json:"layer_id" required:"true" doc:"User layer identifier"`
	}
}

func (h *SceneHandler) LoadUserLayer(ctx context.Context, input *LoadUserLayerInput) (*struct{ Body LayerSummary }, error) {
	if h.svc.Store == nil {
		return nil, huma.Error503ServiceUnavailable("record store not available")
	}

	meta, err := h.svc.Store.UserLayer(ctx, input.Body.LayerID)
	if err != nil {
		return nil, huma.Error404NotFound("layer not found")
	}
	records, err := h.svc.Store.UserFeatures(ctx, input.Body.LayerID)
	if err != nil {
		return nil, huma.Error500InternalServerError("loading features", err)
	}

	layer := h.svc.Factory.UserVectorLayer(meta, records)
	h.svc.Mutator.Add(layer)

	return &struct{ Body LayerSummary }{Body: LayerSummary{
		Kind: layer.Kind, ID: layer.ID, Name: layer.Name, ZIndex: layer.ZIndex,
		Visible: layer.Visible, Features: len(layer.Features),
	}}, nil
}

func (h *SceneHandler) GetCatalog(ctx context.Context, input *struct{}) (*struct{ Body []scene.CatalogEntry }, error) {
	return &struct{ Body []scene.CatalogEntry }{Body: scene.Catalog()}, nil
}

// LoadBasemapsInput selects basemaps by composite identifier string.
type LoadBasemapsInput struct {
	Body struct {
		Composite string `json:"composite" required:"true" doc:"Dash-joined catalog ids" example:"1-3"`
	}
}

// BasemapsBody reports the tile layers added to the scene.
type BasemapsBody struct {
	Count  int      `json:"count" doc:"Number of tile layers added"`
	Labels []string `json:"labels" doc:"Labels of the added basemaps"`
}

func (h *SceneHandler) LoadBasemaps(ctx context.Context, input *LoadBasemapsInput) (*struct{ Body BasemapsBody }, error) {
	layers := h.svc.Factory.TileLayers(input.Body.Composite)
	labels := []string{}
	for _, l := range layers {
		h.svc.Mutator.Add(l)
		labels = append(labels, l.Name)
	}
	return &struct{ Body BasemapsBody }{Body: BasemapsBody{Count: len(layers), Labels: labels}}, nil
}

// RecolorInput carries the new color channels for a layer.
type RecolorInput struct {
	LayerIDInput
	Body struct {
		Fill   string `json:"fill,omitempty" doc:"Fill color (CSS), empty for no fill"`
		Stroke string `json:"stroke,omitempty" doc:"Stroke color (CSS), empty for no stroke"`
	}
}

func (h *SceneHandler) Recolor(ctx context.Context, input *RecolorInput) (*struct{ Body MessageBody }, error) {
	h.svc.Mutator.Recolor(layerKind(input.Kind), input.ID, input.Body.Fill, input.Body.Stroke)
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer recolored"}}, nil
}

func (h *SceneHandler) DeleteLayer(ctx context.Context, input *LayerIDInput) (*struct{ Body MessageBody }, error) {
	h.svc.Mutator.Delete(layerKind(input.Kind), input.ID)
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer deleted"}}, nil
}

// ReorderInput carries a batch of draw-order assignments.
type ReorderInput struct {
	Body []scene.ReorderAssignment
}

func (h *SceneHandler) Reorder(ctx context.Context, input *ReorderInput) (*struct{ Body MessageBody }, error) {
	h.svc.Mutator.Reorder(input.Body)
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Priority updated"}}, nil
}

// InsertFeaturesInput carries feature records for one user layer.
type InsertFeaturesInput struct {
	ID   int64 `path:"id" doc:"User layer identifier"`
	Body []scene.UserFeatureRecord
}

// InsertedBody reports the resulting feature count of the layer.
type InsertedBody struct {
	LayerID  int64 `json:"layer_id" doc:"Target layer identifier"`
	Features int   `json:"features" doc:"Feature count after insertion"`
}

func (h *SceneHandler) InsertFeatures(ctx context.Context, input *InsertFeaturesInput) (*struct{ Body InsertedBody }, error) {
	if err := h.svc.Mutator.InsertUserFeatures(input.ID, input.Body); err != nil {
		if errors.Is(err, scene.ErrLayerNotFound) {
			return nil, huma.Error404NotFound(err.Error())
		}
		return nil, huma.Error500InternalServerError("inserting features", err)
	}

	count := 0
	if layer, ok := h.svc.Mutator.Registry().Resolve(scene.KindUserVector, input.ID); ok {
		count = len(layer.Features)
	}
	return &struct{ Body InsertedBody }{Body: InsertedBody{LayerID: input.ID, Features: count}}, nil
}

// FeatureIDInput addresses one feature within a user layer.
type FeatureIDInput struct {
	ID        int64 `path:"id" doc:"User layer identifier"`
	FeatureID int64 `path:"fid" doc:"Feature identifier"`
}

func (h *SceneHandler) RemoveFeature(ctx context.Context, input *FeatureIDInput) (*struct{ Body MessageBody }, error) {
	h.svc.Mutator.RemoveFeature(input.ID, input.FeatureID)
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Feature removed"}}, nil
}

// HighlightInput selects the feature to emphasize.
type HighlightInput struct {
	Body struct {
		LayerID   int64 `json:"layer_id" required:"true" doc:"User layer identifier"`
		FeatureID int64 `json:"feature_id" required:"true" doc:"Feature identifier"`
	}
}

// HighlightBody reports the highlight slot after the operation.
type HighlightBody struct {
	Current *scene.HighlightRef `json:"current,omitempty" doc:"Highlighted feature, absent when nothing is highlighted"`
}

func (h *SceneHandler) Highlight(ctx context.Context, input *HighlightInput) (*struct{ Body HighlightBody }, error) {
	h.svc.Mutator.Highlight(input.Body.LayerID, input.Body.FeatureID)
	return &struct{ Body HighlightBody }{Body: HighlightBody{Current: h.svc.Mutator.CurrentHighlight()}}, nil
}

func (h *SceneHandler) Reset(ctx context.Context, input *struct{}) (*struct{ Body MessageBody }, error) {
	h.svc.Mutator.ResetAllStyles()
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Styles reset"}}, nil
}

// ZoomInput selects the feature to recenter on.
type ZoomInput struct {
	Body struct {
		LayerID   int64 `json:"layer_id" required:"true" doc:"User layer identifier"`
		FeatureID int64 `json:"feature_id" required:"true" doc:"Feature identifier"`
	}
}

// ZoomBody reports whether the view moved.
type ZoomBody struct {
	Recentered bool `json:"recentered" doc:"Whether the feature was found and the view recentered"`
}

func (h *SceneHandler) Zoom(ctx context.Context, input *ZoomInput) (*struct{ Body ZoomBody }, error) {
	moved := h.svc.Mutator.ZoomToFeature(input.Body.LayerID, input.Body.FeatureID)
	return &struct{ Body ZoomBody }{Body: ZoomBody{Recentered: moved}}, nil
}

// OverlayInput selects a reference overlay by name.
type OverlayInput struct {
	Name string `path:"name" enum:"education,market,medical,tourism" doc:"Overlay name"`
}

func (h *SceneHandler) GetOverlay(ctx context.Context, input *OverlayInput) (*struct{ Body *geojson.FeatureCollection }, error) {
	if h.svc.Overlays == nil {
		return nil, huma.Error503ServiceUnavailable("overlays not available")
	}
	fc, err := h.svc.Overlays.Load(input.Name)
	if err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body *geojson.FeatureCollection }{Body: fc}, nil
}
