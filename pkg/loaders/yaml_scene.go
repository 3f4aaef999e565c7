package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
	"gopkg.in/yaml.v3"
)

// ErrUnknownMaterial is returned for a material type the loader does not know
var ErrUnknownMaterial = errors.New("unknown material type")

// defaultWidth is used when a scene file gives neither width nor height
const defaultWidth = 400

// SceneFile is the YAML form of a scene
type SceneFile struct {
	Name     string       `yaml:"name,omitempty"`
	Width    int          `yaml:"width,omitempty"`
	Height   int          `yaml:"height,omitempty"`
	Samples  int          `yaml:"samples,omitempty"`
	MaxDepth int          `yaml:"maxDepth,omitempty"`
	Seed     int64        `yaml:"seed,omitempty"`
	Camera   CameraSpec   `yaml:"camera"`
	Spheres  []SphereSpec `yaml:"spheres"`
}

// CameraSpec describes the camera either by aspect ratio, viewport height and
// focal length, or by the explicit lowerLeft/horizontal/vertical vectors
type CameraSpec struct {
	Origin         []float64 `yaml:"origin,flow,omitempty"`
	AspectRatio    float64   `yaml:"aspectRatio,omitempty"`
	ViewportHeight float64   `yaml:"viewportHeight,omitempty"`
	FocalLength    float64   `yaml:"focalLength,omitempty"`
	LowerLeft      []float64 `yaml:"lowerLeft,flow,omitempty"`
	Horizontal     []float64 `yaml:"horizontal,flow,omitempty"`
	Vertical       []float64 `yaml:"vertical,flow,omitempty"`
}

// SphereSpec is one sphere of a scene file
type SphereSpec struct {
	Center   []float64    `yaml:"center,flow"`
	Radius   float64      `yaml:"radius"`
	Material MaterialSpec `yaml:"material"`
}

// MaterialSpec selects a material by type; only the fields of that type are read
type MaterialSpec struct {
	Type            string    `yaml:"type"`
	Albedo          []float64 `yaml:"albedo,flow,omitempty"`
	Fuzz            float64   `yaml:"fuzz,omitempty"`
	RefractiveIndex float64   `yaml:"refractiveIndex,omitempty"`
	Color           []float64 `yaml:"color,flow,omitempty"`
}

// LoadYAMLScene reads and validates a scene file. Scenes without a name are
// named after the file.
func LoadYAMLScene(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("while reading scene file: %w", err)
	}

	fallbackName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := ParseYAMLScene(data, fallbackName)
	if err != nil {
		return nil, fmt.Errorf("while loading %q: %w", path, err)
	}
	return s, nil
}

// ParseYAMLScene builds and validates a scene from YAML. Unknown keys are errors.
func ParseYAMLScene(data []byte, fallbackName string) (*scene.Scene, error) {
	var file SceneFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("while decoding scene YAML: %w", err)
	}

	s, err := file.toScene()
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = fallbackName
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *SceneFile) toScene() (*scene.Scene, error) {
	camera, aspectRatio, err := f.Camera.toCamera()
	if err != nil {
		return nil, fmt.Errorf("while building camera: %w", err)
	}

	width, height := f.Width, f.Height
	switch {
	case width == 0 && height == 0:
		width = defaultWidth
		height = int(math.Round(float64(width) / aspectRatio))
	case height == 0:
		height = int(math.Round(float64(width) / aspectRatio))
	case width == 0:
		width = int(math.Round(float64(height) * aspectRatio))
	}

	spheres := make(geometry.SphereList, 0, len(f.Spheres))
	for i, spec := range f.Spheres {
		center, err := toVec3(spec.Center, "center")
		if err != nil {
			return nil, fmt.Errorf("while building sphere %d: %w", i, err)
		}
		mat, err := spec.Material.toMaterial()
		if err != nil {
			return nil, fmt.Errorf("while building sphere %d: %w", i, err)
		}
		spheres = append(spheres, geometry.NewSphere(center, spec.Radius, mat))
	}

	return &scene.Scene{
		Name:    f.Name,
		Camera:  camera,
		Spheres: spheres,
		Width:   width,
		Height:  height,
		SamplingConfig: renderer.SamplingConfig{
			SamplesPerPixel: f.Samples,
			MaxDepth:        f.MaxDepth,
			Seed:            f.Seed,
		},
	}, nil
}

// toCamera returns the camera and the aspect ratio of its viewport
func (c *CameraSpec) toCamera() (*geometry.Camera, float64, error) {
	config := geometry.DefaultCameraConfig()
	if c.Origin != nil {
		origin, err := toVec3(c.Origin, "origin")
		if err != nil {
			return nil, 0, err
		}
		config.Origin = origin
	}

	explicit := c.LowerLeft != nil || c.Horizontal != nil || c.Vertical != nil
	if !explicit {
		if c.AspectRatio != 0 {
			config.AspectRatio = c.AspectRatio
		}
		if c.ViewportHeight != 0 {
			config.ViewportHeight = c.ViewportHeight
		}
		if c.FocalLength != 0 {
			config.FocalLength = c.FocalLength
		}
		if !(config.AspectRatio > 0) || !(config.ViewportHeight > 0) {
			return nil, 0, fmt.Errorf("aspect ratio %v and viewport height %v must be positive: %w",
				config.AspectRatio, config.ViewportHeight, scene.ErrInvalidCamera)
		}
		return geometry.NewCamera(config), config.AspectRatio, nil
	}

	lowerLeft, err := toVec3(c.LowerLeft, "lowerLeft")
	if err != nil {
		return nil, 0, err
	}
	horizontal, err := toVec3(c.Horizontal, "horizontal")
	if err != nil {
		return nil, 0, err
	}
	vertical, err := toVec3(c.Vertical, "vertical")
	if err != nil {
		return nil, 0, err
	}
	if vertical.NearZero() {
		return nil, 0, fmt.Errorf("vertical span is zero: %w", scene.ErrInvalidCamera)
	}

	camera := geometry.NewCameraFromVectors(config.Origin, lowerLeft, horizontal, vertical)
	return camera, horizontal.Length() / vertical.Length(), nil
}

func (m *MaterialSpec) toMaterial() (material.Material, error) {
	switch m.Type {
	case "diffuse":
		albedo, err := toVec3(m.Albedo, "albedo")
		if err != nil {
			return nil, err
		}
		return material.NewDiffuse(albedo), nil

	case "metal":
		albedo, err := toVec3(m.Albedo, "albedo")
		if err != nil {
			return nil, err
		}
		if m.Fuzz < 0 || m.Fuzz > 1 {
			return nil, fmt.Errorf("metal fuzz %v outside [0,1]: %w", m.Fuzz, scene.ErrInvalidSphere)
		}
		return material.NewMetal(albedo, m.Fuzz), nil

	case "dielectric":
		return material.NewDielectric(m.RefractiveIndex), nil

	case "constant":
		color, err := toVec3(m.Color, "color")
		if err != nil {
			return nil, err
		}
		return material.NewConstantColor(color), nil

	case "normals":
		return material.NewFancyNormals(), nil

	default:
		return nil, fmt.Errorf("%q: %w", m.Type, ErrUnknownMaterial)
	}
}

func toVec3(values []float64, field string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s needs 3 components, got %d", field, len(values))
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.Vec3{}, fmt.Errorf("%s has non-finite component %v", field, v)
		}
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func fromVec3(v core.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// MarshalYAMLScene writes a scene in the form ParseYAMLScene reads. The camera
// is always written as explicit vectors.
func MarshalYAMLScene(s *scene.Scene) ([]byte, error) {
	file := SceneFile{
		Name:     s.Name,
		Width:    s.Width,
		Height:   s.Height,
		Samples:  s.SamplingConfig.SamplesPerPixel,
		MaxDepth: s.SamplingConfig.MaxDepth,
		Seed:     s.SamplingConfig.Seed,
	}
	if s.Camera != nil {
		file.Camera = CameraSpec{
			Origin:     fromVec3(s.Camera.Origin()),
			LowerLeft:  fromVec3(s.Camera.LowerLeftCorner()),
			Horizontal: fromVec3(s.Camera.Horizontal()),
			Vertical:   fromVec3(s.Camera.Vertical()),
		}
	}

	for i, sphere := range s.Spheres {
		spec := SphereSpec{Center: fromVec3(sphere.Center), Radius: sphere.Radius}
		switch m := sphere.Material.(type) {
		case material.Diffuse:
			spec.Material = MaterialSpec{Type: "diffuse", Albedo: fromVec3(m.Albedo)}
		case material.Metal:
			spec.Material = MaterialSpec{Type: "metal", Albedo: fromVec3(m.Albedo), Fuzz: m.Fuzz}
		case material.Dielectric:
			spec.Material = MaterialSpec{Type: "dielectric", RefractiveIndex: m.RefractiveIndex}
		case material.ConstantColor:
			spec.Material = MaterialSpec{Type: "constant", Color: fromVec3(m.Color)}
		case material.FancyNormals:
			spec.Material = MaterialSpec{Type: "normals"}
		default:
			return nil, fmt.Errorf("sphere %d has material %T: %w", i, sphere.Material, ErrUnknownMaterial)
		}
		file.Spheres = append(file.Spheres, spec)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&file); err != nil {
		return nil, fmt.Errorf("while encoding scene YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("while encoding scene YAML: %w", err)
	}
	return buf.Bytes(), nil
}
