package output

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/google/go-cmp/cmp"
)

// checkerImage is 2x2: red top left, green top right, blue bottom left, white bottom right
func checkerImage() *renderer.Image {
	img := renderer.NewImage(2, 2)
	img.SetRGB(0, 0, [3]uint8{255, 0, 0})
	img.SetRGB(1, 0, [3]uint8{0, 255, 0})
	img.SetRGB(0, 1, [3]uint8{0, 0, 255})
	img.SetRGB(1, 1, [3]uint8{255, 255, 255})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, checkerImage()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := "P3\n2 2\n255\n" +
		"255 0 0\n" +
		"0 255 0\n" +
		"0 0 255\n" +
		"255 255 255\n"
	if diff := cmp.Diff(buf.String(), want); diff != "" {
		t.Errorf("Bad PPM; diff (-got +want)\n%s", diff)
	}
}

func TestWritePPM_RenderedOrder(t *testing.T) {
	// The renderer stores the highest sampler row first, so the first PPM line is the top of the frame
	img := renderer.NewImage(1, 3)
	img.SetRGB(0, 0, [3]uint8{1, 1, 1})
	img.SetRGB(0, 2, [3]uint8{3, 3, 3})

	var buf bytes.Buffer
	if err := WritePPM(&buf, img); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := "P3\n1 3\n255\n1 1 1\n0 0 0\n3 3 3\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, checkerImage()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("PNG did not decode: %v", err)
	}
	r, g, b, a := decoded.At(0, 1).RGBA()
	if r != 0 || g != 0 || b != 0xffff || a != 0xffff {
		t.Errorf("Expected opaque blue at (0,1), got %d %d %d %d", r, g, b, a)
	}
}

func TestPreview(t *testing.T) {
	img := renderer.NewImage(40, 20)

	small := Preview(img, 10)
	if small.Bounds().Dx() != 10 || small.Bounds().Dy() != 5 {
		t.Errorf("Expected 10x5 preview, got %v", small.Bounds())
	}
	if same := Preview(img, 100); same != img {
		t.Error("Expected a wider preview to return the original")
	}
	if same := Preview(img, 0); same != img {
		t.Error("Expected width 0 to return the original")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"ppm", FormatPPM, false},
		{"PNG", FormatPNG, false},
		{".png", FormatPNG, false},
		{"jpeg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Expected %q, got %q (err %v)", tt.want, got, err)
			}
		})
	}

	if FormatFromPath("out/image.PNG") != FormatPNG || FormatFromPath("image") != FormatPPM {
		t.Error("Bad format from path")
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(checkerImage(), FormatPPM)
	if err != nil || !bytes.HasPrefix(data, []byte("P3\n")) {
		t.Errorf("Expected PPM data, got %q (err %v)", data, err)
	}

	data, err = Encode(checkerImage(), FormatPNG)
	if err != nil || !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("Expected PNG data (err %v)", err)
	}

	if _, err := Encode(checkerImage(), "gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseDestination(t *testing.T) {
	tests := []struct {
		dest    string
		want    Destination
		wantErr bool
	}{
		{"image.ppm", Destination{Scheme: "file", Path: "image.ppm"}, false},
		{"out/dir/image.png", Destination{Scheme: "file", Path: "out/dir/image.png"}, false},
		{"gs://renders/2024/image.png", Destination{Scheme: "gs", Bucket: "renders", Path: "2024/image.png"}, false},
		{"s3://renders/image.png", Destination{Scheme: "s3", Bucket: "renders", Path: "image.png"}, false},
		{"gs://renders", Destination{}, true},
		{"s3:///image.png", Destination{}, true},
		{"", Destination{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			got, err := ParseDestination(tt.dest)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Errorf("Bad destination; diff (-got +want)\n%s", diff)
			}
		})
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "image.ppm")

	sink, err := NewSink(context.Background(), path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sink.String() != path {
		t.Errorf("Expected sink %q, got %q", path, sink.String())
	}
	if err := sink.Write(context.Background(), []byte("P3\n"), FormatPPM.ContentType()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil || string(got) != "P3\n" {
		t.Errorf("Expected file contents P3, got %q (err %v)", got, err)
	}
}
