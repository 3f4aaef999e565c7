package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/google/go-cmp/cmp"
)

func TestSphereList_NearestHit(t *testing.T) {
	nearMaterial := material.NewConstantColor(core.NewVec3(1, 0, 0))
	farMaterial := material.NewConstantColor(core.NewVec3(0, 0, 1))
	near := NewSphere(core.NewVec3(0, 0, -1), 0.5, nearMaterial)
	far := NewSphere(core.NewVec3(0, 0, -3), 0.5, farMaterial)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	want := material.HitRecord{
		T:        0.5,
		Point:    core.NewVec3(0, 0, -0.5),
		Normal:   core.NewVec3(0, 0, 1),
		Material: nearMaterial,
	}

	orders := map[string]SphereList{
		"near first": {near, far},
		"far first":  {far, near},
	}
	for name, world := range orders {
		t.Run(name, func(t *testing.T) {
			hit, isHit := world.Hit(ray, 1e-7, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if diff := cmp.Diff(hit, want); diff != "" {
				t.Errorf("Bad hit record; diff (-got +want)\n%s", diff)
			}
		})
	}
}

func TestSphereList_TieGoesToFirst(t *testing.T) {
	first := material.NewConstantColor(core.NewVec3(1, 0, 0))
	second := material.NewConstantColor(core.NewVec3(0, 1, 0))
	world := SphereList{
		NewSphere(core.NewVec3(0, 0, -1), 0.5, first),
		NewSphere(core.NewVec3(0, 0, -1), 0.5, second),
	}

	hit, isHit := world.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 1e-7, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material != material.Material(first) {
		t.Errorf("Expected the first sphere's material %v, got %v", first, hit.Material)
	}
}

func TestSphereList_Miss(t *testing.T) {
	world := SphereList{NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewFancyNormals())}

	if _, isHit := world.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), 1e-7, math.Inf(1)); isHit {
		t.Error("Expected miss")
	}
	if _, isHit := (SphereList{}).Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 1e-7, math.Inf(1)); isHit {
		t.Error("Empty world should never be hit")
	}
}

func TestSphereList_NormalIsNotFlipped(t *testing.T) {
	world := SphereList{NewSphere(core.NewVec3(0, 0, 0), 2, material.NewFancyNormals())}

	// From inside, the ray exits through +Z and the normal still points outward
	hit, isHit := world.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 1e-7, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if !hit.Normal.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected outward normal (0,0,1), got %v", hit.Normal)
	}
}
