package material

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Dielectric represents a clear transparent material like glass
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) Dielectric {
	return Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter always continues the ray, either refracted or, under total internal
// reflection, mirrored. Clear glass does not tint, so attenuation is white.
//
// The refraction step subtracts RefractiveIndex*sqrt(discriminant) from every
// component rather than scaling the normal as Snell's law would. Rendered output
// depends on this exact form.
func (d Dielectric) Scatter(rayIn core.Ray, hit HitRecord) ScatterResult {
	unitDirection := rayIn.Direction.Normalize()
	reflected := Reflect(rayIn.Direction, hit.Normal)

	// Entering or exiting is decided by which side the mirror direction lands on
	var outwardNormal core.Vec3
	var ratio float64
	if reflected.Normalize().Dot(hit.Normal) > 0 {
		outwardNormal = hit.Normal.Negate()
		ratio = d.RefractiveIndex
	} else {
		outwardNormal = hit.Normal
		ratio = 1.0 / d.RefractiveIndex
	}

	dt := unitDirection.Dot(outwardNormal)
	discriminant := 1.0 - ratio*ratio*(1.0-dt*dt)

	direction := reflected
	if discriminant > 0 {
		refracted := unitDirection.Subtract(outwardNormal.Multiply(dt)).
			Multiply(ratio).
			SubtractScalar(d.RefractiveIndex * math.Sqrt(discriminant))
		if !refracted.NearZero() {
			direction = refracted
		}
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: core.NewVec3(1.0, 1.0, 1.0),
	}
}
