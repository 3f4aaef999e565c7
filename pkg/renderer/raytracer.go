package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidImageSize is returned when asked to render an image without pixels
var ErrInvalidImageSize = errors.New("image width and height must be positive")

// Scene interface to avoid circular imports
type Scene interface {
	GetName() string
	GetCamera() *geometry.Camera
	GetWorld() geometry.World
}

// ProgressFunc is told how many pixels are done after every finished tile.
// Calls are serialized.
type ProgressFunc func(pixelsDone, pixelsTotal int)

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger

	progressMu sync.Mutex
	progress   ProgressFunc
	pixelsDone int
}

// NewRaytracer creates a new raytracer. Zero fields of config fall back to
// DefaultSamplingConfig.
func NewRaytracer(scene Scene, width, height int, config SamplingConfig, logger core.Logger) *Raytracer {
	config = MergeSamplingConfig(DefaultSamplingConfig(), config)
	if logger == nil {
		logger = NewGlogLogger()
	}
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(config.MaxDepth),
		logger:     logger,
	}
}

// GetSamplingConfig returns the effective configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// SetProgressFunc installs a callback invoked after each tile completes
func (rt *Raytracer) SetProgressFunc(fn ProgressFunc) {
	rt.progress = fn
}

// SamplePixel averages SamplesPerPixel jittered camera rays through pixel
// (ix, iy), where iy counts rows from the bottom of the image. It returns the
// [0,1] color and the number of ray segments traced.
func (rt *Raytracer) SamplePixel(ix, iy int, random *rand.Rand) (core.Vec3, int) {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	// A single row or column has nothing to divide by
	uDenom := float64(max(rt.width-1, 1))
	vDenom := float64(max(rt.height-1, 1))

	var ps PixelStats
	rays := 0
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		u := (float64(ix) + random.Float64()) / uDenom
		v := (float64(iy) + random.Float64()) / vDenom

		color, traced := rt.integrator.RayColor(camera.GetRay(u, v), world, random)
		ps.AddSample(color)
		rays += traced
	}

	return ps.GetColor(), rays
}

// Render renders the whole image. Tiles run in parallel but each one draws
// from its own seeded generator, so the result does not depend on NumWorkers.
func (rt *Raytracer) Render(ctx context.Context) (*Image, RenderStats, error) {
	tracer := otel.Tracer("go-sphere-raytracer/renderer")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Raytracer.Render")
	defer span.End()

	span.SetAttributes(
		attribute.String("scene", rt.scene.GetName()),
		attribute.Int("width", rt.width),
		attribute.Int("height", rt.height),
		attribute.Int("samples_per_pixel", rt.config.SamplesPerPixel),
		attribute.Int("max_depth", rt.config.MaxDepth),
	)

	if rt.width <= 0 || rt.height <= 0 {
		err := fmt.Errorf("while rendering %dx%d: %w", rt.width, rt.height, ErrInvalidImageSize)
		span.SetStatus(codes.Error, err.Error())
		return nil, RenderStats{}, err
	}

	startTime := time.Now()
	img := NewImage(rt.width, rt.height)
	tiles := NewTileGrid(rt.width, rt.height, rt.config.TileSize, rt.config.Seed)
	tileStats := make([]RenderStats, len(tiles))
	pool := NewWorkerPool(rt.config.NumWorkers)
	rt.pixelsDone = 0

	rt.logger.Printf("Rendering %q at %dx%d, %d samples per pixel, %d tiles on %d workers...\n",
		rt.scene.GetName(), rt.width, rt.height, rt.config.SamplesPerPixel, len(tiles), pool.GetNumWorkers())

	err := pool.Run(ctx, tiles, func(ctx context.Context, tile *Tile) error {
		// Each tile has non-overlapping bounds, so writing img and tileStats is thread-safe
		stats, err := rt.renderTile(ctx, tile, img)
		if err != nil {
			return err
		}
		tileStats[tile.ID] = stats
		rt.reportProgress(stats.TotalPixels)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, RenderStats{}, fmt.Errorf("while rendering %q: %w", rt.scene.GetName(), err)
	}

	var stats RenderStats
	for _, s := range tileStats {
		stats.add(s)
	}
	stats.finalize(time.Since(startTime))

	recordRender(ctx, rt.scene.GetName(), stats)
	span.SetAttributes(attribute.Int64("rays_traced", stats.RaysTraced))
	rt.logger.Printf("Rendered %d pixels in %v (%d rays)\n", stats.TotalPixels, stats.Duration, stats.RaysTraced)

	return img, stats, nil
}

// renderTile samples every pixel of a tile, top row first, left to right
func (rt *Raytracer) renderTile(ctx context.Context, tile *Tile, img *Image) (RenderStats, error) {
	tracer := otel.Tracer("go-sphere-raytracer/renderer")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Raytracer.renderTile")
	defer span.End()
	span.SetAttributes(attribute.Int("tile", tile.ID))

	var stats RenderStats
	bounds := tile.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return RenderStats{}, fmt.Errorf("while rendering tile %d: %w", tile.ID, err)
		}

		iy := rt.height - 1 - y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			color, rays := rt.SamplePixel(x, iy, tile.Random)
			img.SetRGB(x, y, ToByteColor(color))

			stats.TotalPixels++
			stats.TotalSamples += rt.config.SamplesPerPixel
			stats.RaysTraced += int64(rays)
		}
	}

	if glog.V(2) {
		glog.Infof("Tile %d %v done: %d rays", tile.ID, bounds, stats.RaysTraced)
	}
	return stats, nil
}

func (rt *Raytracer) reportProgress(pixels int) {
	rt.progressMu.Lock()
	defer rt.progressMu.Unlock()

	rt.pixelsDone += pixels
	if rt.progress != nil {
		rt.progress(rt.pixelsDone, rt.width*rt.height)
	}
}
