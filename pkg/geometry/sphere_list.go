package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// SphereList is an ordered collection of spheres searched linearly.
// Order only matters for ties: the first sphere at the minimal t wins.
type SphereList []*Sphere

// Hit finds the nearest sphere hit in (tMin, tMax) and builds its hit record
func (l SphereList) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closest *Sphere
	closestSoFar := tMax

	for _, sphere := range l {
		// Each test is bounded by the best t found so far, so later spheres must be strictly closer
		if t, isHit := sphere.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = t
			closest = sphere
		}
	}

	if closest == nil {
		return material.HitRecord{}, false
	}

	point := ray.At(closestSoFar)
	return material.HitRecord{
		T:        closestSoFar,
		Point:    point,
		Normal:   closest.NormalAt(point),
		Material: closest.Material,
	}, true
}
