package renderer

import "github.com/df07/go-sphere-raytracer/pkg/integrator"

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of jittered rays averaged per pixel
	MaxDepth        int   // Recursion cutoff; a ray at this depth returns black
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	TileSize        int   // Edge length of the square tiles handed to workers
	Seed            int64 // Base seed; tile N draws from Seed+N
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        integrator.DefaultMaxDepth,
		NumWorkers:      0, // Auto-detect CPU count
		TileSize:        32,
		Seed:            42,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied on top
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	if override.SamplesPerPixel > 0 {
		base.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth > 0 {
		base.MaxDepth = override.MaxDepth
	}
	if override.NumWorkers > 0 {
		base.NumWorkers = override.NumWorkers
	}
	if override.TileSize > 0 {
		base.TileSize = override.TileSize
	}
	if override.Seed != 0 {
		base.Seed = override.Seed
	}
	return base
}
