// Package visualization renders images, boundaries and band images to
// ordinary raster files for inspection.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"saltpick/internal/models"
	"saltpick/pkg/pathsearch"
)

var (
	// CurveColor is used for boundary polylines
	CurveColor = color.RGBA{R: 255, G: 40, B: 40, A: 255}

	// SeedColor is used for seed markers
	SeedColor = color.RGBA{R: 40, G: 200, B: 255, A: 255}

	// PathColor marks the picked offsets on a band image
	PathColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}
)

// Viewer draws a sample grid as a grayscale picture. The fast axis i1 runs
// down the picture and i2 runs across, matching the layout of loaded images.
type Viewer struct {
	// img holds the samples to display
	img *models.Image

	// lo and hi map to black and white
	lo, hi float64
}

// NewViewer creates a viewer whose gray scale spans the image's value range
func NewViewer(img *models.Image) *Viewer {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range img.Data {
		if len(row) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
	}
	return &Viewer{img: img, lo: lo, hi: hi}
}

// SetClip overrides the value range mapped to black and white
func (v *Viewer) SetClip(lo, hi float64) {
	v.lo, v.hi = lo, hi
}

// Render returns the grayscale picture of the image
func (v *Viewer) Render() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, v.img.N2, v.img.N1))
	span := v.hi - v.lo
	for i2, row := range v.img.Data {
		for i1, x := range row {
			g := 0.0
			if span > 0 {
				g = (x - v.lo) / span
			}
			value := uint8(math.Max(0, math.Min(255, g*255)))
			out.SetRGBA(i2, i1, color.RGBA{R: value, G: value, B: value, A: 255})
		}
	}
	return out
}

// Overlay renders the image with a boundary polyline and seed markers on top.
// Boundary positions equal to the empty sentinel (all negative) are skipped.
func (v *Viewer) Overlay(x1, x2 []float64, seeds []models.SeedPoint) *image.RGBA {
	out := v.Render()
	DrawPolyline(out, x1, x2, CurveColor)
	for _, s := range seeds {
		DrawMarker(out, s.I1, s.I2, SeedColor)
	}
	return out
}

// DrawPolyline draws straight segments between consecutive (x1, x2) samples.
// Points outside the picture are clipped.
func DrawPolyline(dst *image.RGBA, x1, x2 []float64, c color.RGBA) {
	for i := 1; i < len(x1); i++ {
		a1, a2 := x1[i-1], x2[i-1]
		b1, b2 := x1[i], x2[i]
		steps := int(math.Ceil(2 * math.Hypot(b1-a1, b2-a2)))
		if steps < 1 {
			steps = 1
		}
		for s := 0; s <= steps; s++ {
			f := float64(s) / float64(steps)
			setPixel(dst, a1+f*(b1-a1), a2+f*(b2-a2), c)
		}
	}
}

// DrawMarker draws a 3x3 square centred on pixel (i1, i2)
func DrawMarker(dst *image.RGBA, i1, i2 int, c color.RGBA) {
	for j2 := i2 - 1; j2 <= i2+1; j2++ {
		for j1 := i1 - 1; j1 <= i1+1; j1++ {
			setPixel(dst, float64(j1), float64(j2), c)
		}
	}
}

func setPixel(dst *image.RGBA, x1, x2 float64, c color.RGBA) {
	if x1 < 0 || x2 < 0 {
		return
	}
	px, py := int(math.Round(x2)), int(math.Round(x1))
	if image.Pt(px, py).In(dst.Bounds()) {
		dst.SetRGBA(px, py, c)
	}
}

// RenderBand draws a band image with curve samples across and lateral
// offsets down, so the band centre is the middle row. When path is not nil
// the picked offset of every sample is highlighted.
func RenderBand(b *mat.Dense, path pathsearch.Offsets) (*image.RGBA, error) {
	n, m := b.Dims()
	if path != nil && len(path) != n {
		return nil, fmt.Errorf("path has %d offsets for %d band rows: %w", len(path), n, models.ErrInvalidInput)
	}
	out := image.NewRGBA(image.Rect(0, 0, n, m))
	for i := 0; i < n; i++ {
		for o := 0; o < m; o++ {
			value := uint8(math.Max(0, math.Min(255, b.At(i, o)*255)))
			out.SetRGBA(i, o, color.RGBA{R: value, G: value, B: value, A: 255})
		}
		if path != nil && path[i] >= 0 && path[i] < m {
			out.SetRGBA(i, path[i], PathColor)
		}
	}
	return out, nil
}

// SaveImage writes a picture as PNG or JPEG depending on the file extension
func SaveImage(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	case ".png":
		err = png.Encode(file, img)
	default:
		err = fmt.Errorf("unsupported image format: %s", filepath.Ext(filename))
	}
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
