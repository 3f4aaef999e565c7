package material

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Material is the closed set of surface behaviors: Diffuse, Metal, Dielectric,
// ConstantColor and FancyNormals. The unexported method seals the set so a type
// switch over these five cases is exhaustive.
type Material interface {
	isMaterial()
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The continuation ray
	Attenuation core.Vec3 // Applied component-wise to whatever the continuation ray resolves to
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T        float64   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Outward unit normal, (point - center) / radius; never flipped toward the ray
	Material Material  // Material of the hit object
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

func (Diffuse) isMaterial()       {}
func (Metal) isMaterial()         {}
func (Dielectric) isMaterial()    {}
func (ConstantColor) isMaterial() {}
func (FancyNormals) isMaterial()  {}
