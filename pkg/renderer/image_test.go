package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestToByteColor(t *testing.T) {
	tests := []struct {
		name  string
		color core.Vec3
		want  [3]uint8
	}{
		{"black", core.NewVec3(0, 0, 0), [3]uint8{0, 0, 0}},
		{"white clamps to 255", core.NewVec3(1, 1, 1), [3]uint8{255, 255, 255}},
		{"sky zenith truncates", core.NewVec3(0.5, 0.7, 1.0), [3]uint8{127, 179, 255}},
		{"negative clamps to 0", core.NewVec3(-0.5, 0.25, 3), [3]uint8{0, 63, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToByteColor(tt.color); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestImage(t *testing.T) {
	var _ image.Image = (*Image)(nil)

	img := NewImage(3, 2)
	img.SetRGB(2, 1, [3]uint8{10, 20, 30})

	if r, g, b := img.RGB(2, 1); r != 10 || g != 20 || b != 30 {
		t.Errorf("Expected (10,20,30), got (%d,%d,%d)", r, g, b)
	}
	if got := img.At(2, 1); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("Bad At: %v", got)
	}
	if got := img.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("Expected transparent outside bounds, got %v", got)
	}
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("Bad bounds %v", img.Bounds())
	}
}
