package renderer

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	sceneKey = tag.MustNewKey("scene")

	raysTraced     = stats.Int64("rays_traced", "Ray segments followed by the integrator", stats.UnitDimensionless)
	pixelsRendered = stats.Int64("pixels_rendered", "Pixels written to output images", stats.UnitDimensionless)

	raysTracedView = &view.View{
		Name:        "rays_traced",
		Description: "Total ray segments followed, by scene",
		TagKeys:     []tag.Key{sceneKey},
		Measure:     raysTraced,
		Aggregation: view.Sum(),
	}
	pixelsRenderedView = &view.View{
		Name:        "pixels_rendered",
		Description: "Total pixels rendered, by scene",
		TagKeys:     []tag.Key{sceneKey},
		Measure:     pixelsRendered,
		Aggregation: view.Sum(),
	}
)

// RegisterMetrics registers the renderer's views with the default exporter pipeline
func RegisterMetrics() error {
	return view.Register(raysTracedView, pixelsRenderedView)
}

func recordRender(ctx context.Context, sceneName string, s RenderStats) {
	stats.RecordWithOptions(
		ctx,
		stats.WithTags(tag.Upsert(sceneKey, sceneName)),
		stats.WithMeasurements(raysTraced.M(s.RaysTraced), pixelsRendered.M(int64(s.TotalPixels))))
}
