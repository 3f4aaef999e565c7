package core

// ColorScale maps a linear [0,1] color channel onto the byte range. Values just
// below 1 truncate to 255, which is why it is 255.9 rather than 255.
const ColorScale = 255.9

// ToByteScale returns the color scaled into byte range, before clamping or truncation
func (v Vec3) ToByteScale() Vec3 {
	return v.Multiply(ColorScale)
}
