package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
	"github.com/google/go-cmp/cmp"
)

const twoSpheresYAML = `# Scene: Two Spheres
name: two-spheres
width: 200
samples: 8
maxDepth: 20
camera:
  aspectRatio: 2
  viewportHeight: 2
  focalLength: 1
spheres:
  - center: [0, -100.5, -1]
    radius: 100
    material: {type: diffuse, albedo: [0.8, 0.8, 0.0]}
  - center: [0, 0, -1]
    radius: 0.5
    material: {type: metal, albedo: [0.8, 0.6, 0.2], fuzz: 0.3}
  - center: [1, 0, -1]
    radius: 0.5
    material: {type: dielectric, refractiveIndex: 1.5}
  - center: [-1, 0, -1]
    radius: 0.25
    material: {type: constant, color: [1, 0, 0]}
  - center: [0, 1, -1]
    radius: 0.25
    material: {type: normals}
`

func TestParseYAMLScene(t *testing.T) {
	s, err := ParseYAMLScene([]byte(twoSpheresYAML), "fallback")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s.Name != "two-spheres" {
		t.Errorf("Expected name two-spheres, got %q", s.Name)
	}
	if s.Width != 200 || s.Height != 100 {
		t.Errorf("Expected 200x100 from the 2:1 aspect ratio, got %dx%d", s.Width, s.Height)
	}
	wantConfig := renderer.SamplingConfig{SamplesPerPixel: 8, MaxDepth: 20}
	if diff := cmp.Diff(s.SamplingConfig, wantConfig); diff != "" {
		t.Errorf("Bad sampling config; diff (-got +want)\n%s", diff)
	}
	if got := s.Camera.Horizontal(); !got.Equals(core.NewVec3(4, 0, 0)) {
		t.Errorf("Expected horizontal (4,0,0), got %v", got)
	}

	wantMaterials := []material.Material{
		material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0)),
		material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3),
		material.NewDielectric(1.5),
		material.NewConstantColor(core.NewVec3(1, 0, 0)),
		material.NewFancyNormals(),
	}
	if len(s.Spheres) != len(wantMaterials) {
		t.Fatalf("Expected %d spheres, got %d", len(wantMaterials), len(s.Spheres))
	}
	for i, want := range wantMaterials {
		if s.Spheres[i].Material != want {
			t.Errorf("Sphere %d: expected material %#v, got %#v", i, want, s.Spheres[i].Material)
		}
	}
	if s.Spheres[0].Radius != 100 || !s.Spheres[0].Center.Equals(core.NewVec3(0, -100.5, -1)) {
		t.Errorf("Bad ground sphere %+v", s.Spheres[0])
	}
}

func TestParseYAMLScene_Defaults(t *testing.T) {
	s, err := ParseYAMLScene([]byte("spheres: []\ncamera: {}\n"), "empty")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Name != "empty" {
		t.Errorf("Expected fallback name, got %q", s.Name)
	}
	if s.Width != 400 || s.Height != 225 {
		t.Errorf("Expected 400x225, got %dx%d", s.Width, s.Height)
	}
}

func TestParseYAMLScene_ExplicitCamera(t *testing.T) {
	data := `
height: 300
camera:
  lowerLeft: [-2, -1, -1]
  horizontal: [4, 0, 0]
  vertical: [0, 2, 0]
spheres: []
`
	s, err := ParseYAMLScene([]byte(data), "explicit")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Width != 600 {
		t.Errorf("Expected width 600 from a 2:1 viewport, got %d", s.Width)
	}
	if got := s.Camera.GetRay(0.5, 0.5).Direction; !got.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected center direction (0,0,-1), got %v", got)
	}
}

func TestParseYAMLScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "unknown material",
			data:    "spheres:\n  - {center: [0,0,-1], radius: 1, material: {type: plastic}}\n",
			wantErr: ErrUnknownMaterial,
		},
		{
			name:    "zero radius",
			data:    "spheres:\n  - {center: [0,0,-1], radius: 0, material: {type: normals}}\n",
			wantErr: scene.ErrInvalidSphere,
		},
		{
			name:    "fuzz out of range",
			data:    "spheres:\n  - {center: [0,0,-1], radius: 1, material: {type: metal, albedo: [1,1,1], fuzz: 2}}\n",
			wantErr: scene.ErrInvalidSphere,
		},
		{
			name:    "zero refractive index",
			data:    "spheres:\n  - {center: [0,0,-1], radius: 1, material: {type: dielectric}}\n",
			wantErr: scene.ErrInvalidSphere,
		},
		{
			name:    "flat explicit camera",
			data:    "camera: {lowerLeft: [0,0,-1], horizontal: [1,0,0], vertical: [0,0,0]}\n",
			wantErr: scene.ErrInvalidCamera,
		},
		{
			name:    "negative aspect ratio",
			data:    "camera: {aspectRatio: -1}\n",
			wantErr: scene.ErrInvalidCamera,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAMLScene([]byte(tt.data), "bad")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error wrapping %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseYAMLScene_Malformed(t *testing.T) {
	for name, data := range map[string]string{
		"typo in key":       "sphers: []\n",
		"short vector":      "spheres:\n  - {center: [0,0], radius: 1, material: {type: normals}}\n",
		"not yaml":          "spheres: [",
		"wrong scalar type": "width: wide\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseYAMLScene([]byte(data), "bad"); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadYAMLScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "from-file.yaml")
	if err := os.WriteFile(path, []byte("spheres: []\n"), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	s, err := LoadYAMLScene(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Name != "from-file" {
		t.Errorf("Expected the file name as scene name, got %q", s.Name)
	}

	if _, err := LoadYAMLScene(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestMarshalYAMLScene_BuiltinsReload(t *testing.T) {
	for _, info := range scene.ListScenes() {
		t.Run(info.ID, func(t *testing.T) {
			original, err := scene.NewSceneByName(info.ID)
			if err != nil {
				t.Fatalf("NewSceneByName failed: %v", err)
			}

			data, err := MarshalYAMLScene(original)
			if err != nil {
				t.Fatalf("MarshalYAMLScene failed: %v", err)
			}
			reloaded, err := ParseYAMLScene(data, "unused")
			if err != nil {
				t.Fatalf("ParseYAMLScene failed on\n%s\nerror: %v", data, err)
			}

			if reloaded.Name != original.Name || reloaded.Width != original.Width || reloaded.Height != original.Height {
				t.Errorf("Header changed: got %s %dx%d", reloaded.Name, reloaded.Width, reloaded.Height)
			}
			if len(reloaded.Spheres) != len(original.Spheres) {
				t.Fatalf("Expected %d spheres, got %d", len(original.Spheres), len(reloaded.Spheres))
			}
			for i := range original.Spheres {
				if diff := cmp.Diff(*reloaded.Spheres[i], *original.Spheres[i]); diff != "" {
					t.Errorf("Sphere %d changed; diff (-got +want)\n%s", i, diff)
				}
			}
			if !reloaded.Camera.LowerLeftCorner().Equals(original.Camera.LowerLeftCorner()) {
				t.Errorf("Camera changed: %v vs %v", reloaded.Camera.LowerLeftCorner(), original.Camera.LowerLeftCorner())
			}
		})
	}
}
