package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// NewMirrorsScene places two perfect mirrors facing each other; rays caught
// between them bounce until the depth limit
func NewMirrorsScene() *Scene {
	ground := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))
	silver := material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)
	rose := material.NewMetal(core.NewVec3(0.95, 0.8, 0.8), 0.0)

	return &Scene{
		Name:   "mirrors",
		Camera: geometry.NewCamera(geometry.DefaultCameraConfig()),
		Spheres: geometry.SphereList{
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
			geometry.NewSphere(core.NewVec3(-1.05, 0, -1.5), 1, silver),
			geometry.NewSphere(core.NewVec3(1.05, 0, -1.5), 1, rose),
		},
		Width:  400,
		Height: 225,
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: 50,
		},
	}
}
