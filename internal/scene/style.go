package scene

// Styling is pure: every function here maps inputs to a Style with no state.
// Color channels left empty stay empty; the renderer treats an absent fill
// or stroke as "draw nothing" for that channel.

const (
	markerRadius      = 6
	markerFill        = "#FF0000"
	markerStroke      = "#1F2937"
	markerStrokeWidth = 1

	highlightPointRadius = 10
	highlightFill        = "rgba(255, 0, 0, 0.3)"
	highlightStroke      = "red"
)

// LayerStyle builds a layer-level style. A zero width with a stroke set
// falls back to a hairline of 1.
func LayerStyle(fill, stroke string, width float64) Style {
	if stroke != "" && width == 0 {
		width = 1
	}
	return Style{Fill: fill, Stroke: stroke, StrokeWidth: width}
}

// PointMarkerStyle is the fixed marker applied to every point feature at
// creation, overriding the layer style for that feature only.
func PointMarkerStyle() Style {
	return Style{
		Radius:      markerRadius,
		Fill:        markerFill,
		Stroke:      markerStroke,
		StrokeWidth: markerStrokeWidth,
	}
}

// HighlightStyle is the transient emphasis style for one feature. Points
// get an enlarged marker; everything else a translucent red overlay.
func HighlightStyle(geometryType string) Style {
	if geometryType == "Point" {
		return Style{
			Radius:      highlightPointRadius,
			Fill:        "yellow",
			Stroke:      highlightStroke,
			StrokeWidth: 2,
		}
	}
	return Style{
		Fill:        highlightFill,
		Stroke:      highlightStroke,
		StrokeWidth: 3,
	}
}
