// Package imageio reads input images and writes the plain arrays exchanged
// with the outside world: seed lists, curves and raw float grids.
package imageio

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	_ "golang.org/x/image/tiff"

	"saltpick/internal/models"
)

// SupportedExtensions lists the file types LoadImage can decode
func SupportedExtensions() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// LoadImage decodes a PNG, JPEG or TIFF file into a grayscale image with
// values in [0, 1]. Image columns become rows of the result, so the vertical
// pixel axis is the fast axis i1 and the horizontal axis is i2.
func LoadImage(path string) (*models.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// FromImage converts any image.Image to a grayscale sample grid
func FromImage(img image.Image) *models.Image {
	bounds := img.Bounds()
	out := models.NewImage(bounds.Dy(), bounds.Dx())
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		row := out.Data[x-bounds.Min.X]
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			// Convert 16-bit gray to float64 (0-1 range)
			row[y-bounds.Min.Y] = float64(g.Y) / 65535.0
		}
	}
	return out
}

// ParseByteOrder maps "big" or "little" to a binary.ByteOrder
func ParseByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "big", "be", "":
		return binary.BigEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q: %w", name, models.ErrInvalidInput)
	}
}

// LoadRaw reads n2 rows of n1 float32 samples, i1 varying fastest
func LoadRaw(path string, n1, n2 int, order binary.ByteOrder) (*models.Image, error) {
	if n1 <= 0 || n2 <= 0 {
		return nil, fmt.Errorf("raw dimensions must be positive, got %dx%d: %w", n1, n2, models.ErrInvalidInput)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw file: %w", err)
	}
	defer file.Close()
	return ReadRaw(file, n1, n2, order)
}

// ReadRaw reads n2 rows of n1 float32 samples from r
func ReadRaw(r io.Reader, n1, n2 int, order binary.ByteOrder) (*models.Image, error) {
	img := models.NewImage(n1, n2)
	buf := make([]float32, n1)
	for i2 := 0; i2 < n2; i2++ {
		if err := binary.Read(r, order, buf); err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", i2, err)
		}
		for i1, v := range buf {
			img.Data[i2][i1] = float64(v)
		}
	}
	return img, nil
}

// LoadRawVolume reads n3 slices of n2 rows of n1 float32 samples
func LoadRawVolume(path string, n1, n2, n3 int, order binary.ByteOrder) (*models.Volume, error) {
	if n1 <= 0 || n2 <= 0 || n3 <= 0 {
		return nil, fmt.Errorf("raw dimensions must be positive, got %dx%dx%d: %w", n1, n2, n3, models.ErrInvalidInput)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw file: %w", err)
	}
	defer file.Close()

	vol := &models.Volume{Data: make([][][]float64, n3), N1: n1, N2: n2, N3: n3}
	for i3 := range vol.Data {
		slice, err := ReadRaw(file, n1, n2, order)
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", i3, err)
		}
		vol.Data[i3] = slice.Data
	}
	return vol, nil
}

// SaveRaw writes img as float32 samples in the given byte order
func SaveRaw(path string, img *models.Image, order binary.ByteOrder) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create raw file: %w", err)
	}
	buf := make([]float32, img.N1)
	for i2, row := range img.Data {
		for i1, v := range row {
			buf[i1] = float32(v)
		}
		if err := binary.Write(file, order, buf); err != nil {
			file.Close()
			return fmt.Errorf("failed to write row %d: %w", i2, err)
		}
	}
	return file.Close()
}
