package material

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ConstantColor is a terminal material: every hit resolves to Color without bouncing
type ConstantColor struct {
	Color core.Vec3 // Linear color in [0,1]
}

// NewConstantColor creates a new constant color material
func NewConstantColor(color core.Vec3) ConstantColor {
	return ConstantColor{Color: color}
}

// FancyNormals is a terminal debug material that maps the hit normal to a color
type FancyNormals struct{}

// NewFancyNormals creates a new normal-visualizing material
func NewFancyNormals() FancyNormals {
	return FancyNormals{}
}

// fancyNormalsScale makes each channel come out as 127.5*(n+1) once scaled to bytes
const fancyNormalsScale = 127.5 / core.ColorScale

// Color maps each normal component from [-1,1] onto [0, 255/255.9]
func (FancyNormals) Color(hit HitRecord) core.Vec3 {
	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(fancyNormalsScale)
}
