package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// World is anything a ray can be traced against to find the nearest hit
type World interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}
