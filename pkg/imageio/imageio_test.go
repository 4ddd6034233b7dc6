package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/tiff"

	"saltpick/internal/models"
	"saltpick/pkg/boundary"
)

// createTestImage creates a grayscale test image with the specified dimensions and pattern
func createTestImage(width, height int, pattern func(x, y int) uint16) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.Gray16{Y: pattern(x, y)})
		}
	}
	return img
}

// TestLoadImageAxes checks file decoding and the (x, y) -> (i2, i1) mapping
func TestLoadImageAxes(t *testing.T) {
	src := createTestImage(7, 4, func(x, y int) uint16 { return uint16(1000*x + 10*y) })
	dir := t.TempDir()

	encoders := map[string]func(*bytes.Buffer) error{
		"slice.png": func(b *bytes.Buffer) error { return png.Encode(b, src) },
		"slice.tif": func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) },
	}
	for name, encode := range encoders {
		var buf bytes.Buffer
		if err := encode(&buf); err != nil {
			t.Fatalf("%s: encode failed: %v", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		img, err := LoadImage(path)
		if err != nil {
			t.Fatalf("%s: LoadImage failed: %v", name, err)
		}
		if img.N1 != 4 || img.N2 != 7 {
			t.Fatalf("%s: expected n1=4 n2=7, got n1=%d n2=%d", name, img.N1, img.N2)
		}
		for x := 0; x < 7; x++ {
			for y := 0; y < 4; y++ {
				want := float64(1000*x+10*y) / 65535.0
				if got := img.Data[x][y]; got != want {
					t.Errorf("%s: sample (x=%d,y=%d) = %f, expected %f", name, x, y, got, want)
				}
			}
		}
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
	path := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadImage(path); err == nil {
		t.Errorf("Expected a decode error")
	}
}

// TestRawRoundTrip writes and reads a float32 grid in both byte orders
func TestRawRoundTrip(t *testing.T) {
	img := models.NewImage(5, 3)
	for i2 := range img.Data {
		for i1 := range img.Data[i2] {
			img.Data[i2][i1] = float64(i1) - 0.25*float64(i2)
		}
	}
	for _, name := range []string{"big", "little"} {
		order, err := ParseByteOrder(name)
		if err != nil {
			t.Fatalf("ParseByteOrder(%q) failed: %v", name, err)
		}
		path := filepath.Join(t.TempDir(), "image.raw")
		if err := SaveRaw(path, img, order); err != nil {
			t.Fatalf("SaveRaw failed: %v", err)
		}
		got, err := LoadRaw(path, 5, 3, order)
		if err != nil {
			t.Fatalf("LoadRaw failed: %v", err)
		}
		if d := cmp.Diff(img, got); d != "" {
			t.Errorf("%s endian round trip (-want +got):\n%s", name, d)
		}
	}
}

func TestReadRawShortInput(t *testing.T) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, []float32{1, 2, 3}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := ReadRaw(&buf, 2, 2, binary.BigEndian); err == nil {
		t.Errorf("Expected an error for truncated input")
	}
	if _, err := LoadRaw("unused", 0, 2, binary.BigEndian); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero size, got %v", err)
	}
	if _, err := ParseByteOrder("middle"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown byte order, got %v", err)
	}
}

func TestSeedsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	seeds := []models.SeedPoint{{I1: 3, I2: 4}, {I1: 10, I2: 4}, {I1: 10, I2: 12}}
	if err := SaveSeeds(path, seeds); err != nil {
		t.Fatalf("SaveSeeds failed: %v", err)
	}
	got, err := LoadSeeds(path)
	if err != nil {
		t.Fatalf("LoadSeeds failed: %v", err)
	}
	if d := cmp.Diff(seeds, got); d != "" {
		t.Errorf("Seed round trip (-want +got):\n%s", d)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("- [1, 2, 3]\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadSeeds(bad); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a triple, got %v", err)
	}
}

func TestCurveRoundTrip(t *testing.T) {
	seeds := []models.Point{{X1: 0, X2: 0}, {X1: 0, X2: 10}, {X1: 10, X2: 10}, {X1: 10, X2: 0}}
	c, err := boundary.Initialize(seeds, 1, 2)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "curve.yaml")
	if err := SaveCurve(path, c); err != nil {
		t.Fatalf("SaveCurve failed: %v", err)
	}
	got, err := LoadCurve(path)
	if err != nil {
		t.Fatalf("LoadCurve failed: %v", err)
	}
	for name, pair := range map[string][2][]float64{
		"x1": {c.X1, got.X1}, "x2": {c.X2, got.X2}, "u1": {c.U1, got.U1}, "u2": {c.U2, got.U2},
	} {
		if d := cmp.Diff(pair[0], pair[1]); d != "" {
			t.Errorf("Channel %s differs (-want +got):\n%s", name, d)
		}
	}

	open := filepath.Join(t.TempDir(), "open.yaml")
	content := "x1: [0, 1, 2]\nx2: [0, 0, 1]\nu1: [0, 0, 0]\nu2: [1, 1, 1]\n"
	if err := os.WriteFile(open, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadCurve(open); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for an open curve, got %v", err)
	}
}
