package material

import (
	"math/rand"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Diffuse represents a matte material
type Diffuse struct {
	Albedo core.Vec3 // Per-channel reflectance in [0,1]
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo core.Vec3) Diffuse {
	return Diffuse{Albedo: albedo}
}

// Scatter bounces the ray towards normal + a random point in the unit sphere.
// This approximates Lambertian scattering without cosine weighting.
func (d Diffuse) Scatter(rayIn core.Ray, hit HitRecord, random *rand.Rand) ScatterResult {
	target := hit.Normal.Add(core.RandomInUnitSphere(random))

	// The random point can cancel the normal almost exactly
	if target.NearZero() {
		target = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, target),
		Attenuation: d.Albedo,
	}
}
