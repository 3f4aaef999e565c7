package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Image is the rendered result: one byte triple per pixel, stored top row first.
// It implements image.Image so it can be handed straight to image encoders.
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // R, G, B per pixel; row y starts at Pix[3*Width*y]
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
}

// RGB returns the pixel at column x of row y, counting rows from the top
func (img *Image) RGB(x, y int) (r, g, b uint8) {
	i := 3 * (y*img.Width + x)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// SetRGB stores the pixel at column x of row y, counting rows from the top
func (img *Image) SetRGB(x, y int, rgb [3]uint8) {
	i := 3 * (y*img.Width + x)
	copy(img.Pix[i:i+3], rgb[:])
}

func (img *Image) ColorModel() color.Model { return color.RGBAModel }

func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.Width, img.Height) }

func (img *Image) At(x, y int) color.Color {
	if !image.Pt(x, y).In(img.Bounds()) {
		return color.RGBA{}
	}
	r, g, b := img.RGB(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ToByteColor converts a [0,1] color to output bytes: scale by 255.9, clamp to
// [0,255], truncate.
func ToByteColor(c core.Vec3) [3]uint8 {
	scaled := c.ToByteScale().Clamp(0, 255)
	return [3]uint8{uint8(scaled.X), uint8(scaled.Y), uint8(scaled.Z)}
}
