package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

var (
	// ErrInvalidSphere is wrapped by every sphere or material validation failure
	ErrInvalidSphere = errors.New("invalid sphere")
	// ErrInvalidCamera is returned for a missing camera or a viewport without area
	ErrInvalidCamera = errors.New("invalid camera")
	// ErrUnknownScene is returned when no built-in scene has the requested name
	ErrUnknownScene = errors.New("unknown scene")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	Spheres        geometry.SphereList     // Objects in the scene, in tie-break order
	Width          int                     // Recommended image width
	Height         int                     // Recommended image height
	SamplingConfig renderer.SamplingConfig // Recommended sampling; zero fields use renderer defaults
}

func (s *Scene) GetName() string             { return s.Name }
func (s *Scene) GetCamera() *geometry.Camera { return s.Camera }
func (s *Scene) GetWorld() geometry.World    { return s.Spheres }

// Validate rejects scenes the renderer cannot trace without producing NaNs:
// non-positive or non-finite radii, out of range material parameters, and
// cameras whose viewport has no area.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("scene %q has no camera: %w", s.Name, ErrInvalidCamera)
	}
	if s.Camera.Horizontal().NearZero() || s.Camera.Vertical().NearZero() {
		return fmt.Errorf("scene %q viewport has zero area: %w", s.Name, ErrInvalidCamera)
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("scene %q has size %dx%d: %w", s.Name, s.Width, s.Height, renderer.ErrInvalidImageSize)
	}

	for i, sphere := range s.Spheres {
		if err := validateSphere(sphere); err != nil {
			return fmt.Errorf("while validating sphere %d of scene %q: %w", i, s.Name, err)
		}
	}
	return nil
}

func validateSphere(sphere *geometry.Sphere) error {
	if sphere == nil {
		return fmt.Errorf("nil sphere: %w", ErrInvalidSphere)
	}
	if !(sphere.Radius > 0) || math.IsInf(sphere.Radius, 0) {
		return fmt.Errorf("radius %v must be positive and finite: %w", sphere.Radius, ErrInvalidSphere)
	}
	if !isFinite(sphere.Center) {
		return fmt.Errorf("center %v must be finite: %w", sphere.Center, ErrInvalidSphere)
	}

	switch m := sphere.Material.(type) {
	case nil:
		return fmt.Errorf("no material: %w", ErrInvalidSphere)
	case material.Metal:
		if !(m.Fuzz >= 0 && m.Fuzz <= 1) {
			return fmt.Errorf("metal fuzz %v outside [0,1]: %w", m.Fuzz, ErrInvalidSphere)
		}
	case material.Dielectric:
		if !(m.RefractiveIndex > 0) || math.IsInf(m.RefractiveIndex, 0) {
			return fmt.Errorf("refractive index %v must be positive: %w", m.RefractiveIndex, ErrInvalidSphere)
		}
	}
	return nil
}

func isFinite(v core.Vec3) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// builtins maps scene IDs to their constructors
var builtins = map[string]func() *Scene{
	"default":   NewDefaultScene,
	"normals":   NewNormalsScene,
	"materials": NewMaterialsScene,
	"mirrors":   NewMirrorsScene,
}

// NewSceneByName builds one of the built-in scenes
func NewSceneByName(name string) (*Scene, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownScene)
	}
	return build(), nil
}
