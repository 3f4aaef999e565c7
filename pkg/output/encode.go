package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/nfnt/resize"
)

// ErrUnsupportedFormat is returned for an image format other than ppm or png
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output image encoding
type Format string

const (
	FormatPPM Format = "ppm"
	FormatPNG Format = "png"
)

// ParseFormat accepts "ppm" or "png" in any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPPM, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to PPM
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatPPM
}

// ContentType returns the MIME type served or uploaded for f
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// WritePNG writes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("while encoding PNG: %w", err)
	}
	return nil
}

// Preview downscales img to the given width, keeping its aspect ratio. Images
// already narrower than width are returned as is.
func Preview(img image.Image, width uint) image.Image {
	if width == 0 || int(width) >= img.Bounds().Dx() {
		return img
	}
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

// Encode renders img in the requested format
func Encode(img *renderer.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatPPM:
		if err := WritePPM(&buf, img); err != nil {
			return nil, err
		}
	case FormatPNG:
		if err := WritePNG(&buf, img); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return buf.Bytes(), nil
}
