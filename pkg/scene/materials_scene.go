package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// NewMaterialsScene lines up one sphere of every material
func NewMaterialsScene() *Scene {
	ground := material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.5))
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(1.5)
	lamp := material.NewConstantColor(core.NewVec3(1.0, 0.9, 0.5))

	return &Scene{
		Name:   "materials",
		Camera: geometry.NewCamera(geometry.DefaultCameraConfig()),
		Spheres: geometry.SphereList{
			geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
			geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
			geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, gold),
			geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, glass),
			geometry.NewSphere(core.NewVec3(0, 0.9, -1.6), 0.2, lamp),
		},
		Width:  400,
		Height: 225,
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: 100,
		},
	}
}
