package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// NewNormalsScene colors every surface by its normal. The 2:1 viewport is
// given directly as vectors.
func NewNormalsScene() *Scene {
	normals := material.NewFancyNormals()

	camera := geometry.NewCameraFromVectors(
		core.NewVec3(0, 0, 0),    // origin
		core.NewVec3(-2, -1, -1), // lower left corner
		core.NewVec3(4, 0, 0),    // horizontal
		core.NewVec3(0, 2, 0),    // vertical
	)

	return &Scene{
		Name:   "normals",
		Camera: camera,
		Spheres: geometry.SphereList{
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, normals),
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, normals),
		},
		Width:  600,
		Height: 300,
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: 10, // Terminal material, so only edges need more
		},
	}
}
