package integrator

import (
	"math/rand"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color carried back along a camera ray.
	// Returns (color in [0,1] scale, number of ray segments traced)
	RayColor(ray core.Ray, world geometry.World, random *rand.Rand) (core.Vec3, int)
}
