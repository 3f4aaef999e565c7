package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// NewDefaultScene creates a reddish diffuse sphere resting on a large yellow
// ground sphere, seen from the origin looking down -Z
func NewDefaultScene() *Scene {
	ground := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewDiffuse(core.NewVec3(0.7, 0.3, 0.3))

	return &Scene{
		Name:   "default",
		Camera: geometry.NewCamera(geometry.DefaultCameraConfig()),
		Spheres: geometry.SphereList{
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
		},
		Width:  400,
		Height: 225,
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: 100,
		},
	}
}
