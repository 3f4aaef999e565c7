package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

const (
	// TMin keeps scattered rays from re-hitting the surface they left
	TMin = 1e-7

	// DefaultMaxDepth allows depths 0 through 50; depth 51 returns black
	DefaultMaxDepth = 51
)

// PathTracingIntegrator follows a ray through the scene one bounce at a time,
// multiplying attenuations until it escapes to the sky, hits a terminal
// material, is absorbed, or runs out of depth.
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A maxDepth of zero or less uses DefaultMaxDepth.
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the recursion cutoff
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.World, random *rand.Rand) (core.Vec3, int) {
	rays := 0
	color := pt.rayColor(ray, world, random, 0, &rays)
	return color, rays
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, world geometry.World, random *rand.Rand, depth int, rays *int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth >= pt.maxDepth {
		return core.Vec3{}
	}
	*rays++

	hit, isHit := world.Hit(ray, TMin, math.Inf(1))
	if !isHit {
		return SkyColor(ray)
	}

	switch m := hit.Material.(type) {
	case material.ConstantColor:
		return m.Color

	case material.FancyNormals:
		return m.Color(hit)

	case material.Diffuse:
		scatter := m.Scatter(ray, hit, random)
		return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, world, random, depth+1, rays))

	case material.Metal:
		scatter, didScatter := m.Scatter(ray, hit, random)
		if !didScatter {
			return core.Vec3{} // Absorbed
		}
		return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, world, random, depth+1, rays))

	case material.Dielectric:
		scatter := m.Scatter(ray, hit)
		return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, world, random, depth+1, rays))

	default:
		// A sphere without a material absorbs
		return core.Vec3{}
	}
}

// SkyColor is the ambient term for rays that escape the scene: a vertical
// blend from white (straight down) to (0.5, 0.7, 1.0) (straight up).
func SkyColor(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return core.NewVec3(1.0-0.5*t, 1.0-0.3*t, 1.0)
}
