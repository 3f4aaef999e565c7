package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera looking down -Z
type CameraConfig struct {
	Origin         core.Vec3 // Eye point
	AspectRatio    float64   // Viewport width / height
	ViewportHeight float64   // Height of the virtual viewport in world units
	FocalLength    float64   // Distance from the eye to the viewport
}

// DefaultCameraConfig returns a 16:9 camera at the origin with a viewport 2 units high, 1 unit away
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera derives the viewport vectors from the config
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := config.Origin
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// NewCameraFromVectors creates a camera from explicit viewport vectors
func NewCameraFromVectors(origin, lowerLeftCorner, horizontal, vertical core.Vec3) *Camera {
	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
	}
}

// GetRay generates a ray for normalized image-plane coordinates (u, v).
// Values outside [0,1] are valid and sample just outside the frame.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

func (c *Camera) Origin() core.Vec3          { return c.origin }
func (c *Camera) LowerLeftCorner() core.Vec3 { return c.lowerLeftCorner }
func (c *Camera) Horizontal() core.Vec3      { return c.horizontal }
func (c *Camera) Vertical() core.Vec3        { return c.vertical }
