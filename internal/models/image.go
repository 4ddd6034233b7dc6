package models

import "fmt"

// Image is a dense 2D array of samples stored as Data[i2][i1].
// The first index (i1) is the fast axis; continuous coordinates (x1, x2)
// address the same layout.
type Image struct {
	// Data holds N2 rows of N1 samples each
	Data [][]float64

	// N1 is the number of samples per row
	N1 int

	// N2 is the number of rows
	N2 int
}

// NewImage allocates a zero-filled image with n1 samples per row and n2 rows
func NewImage(n1, n2 int) *Image {
	data := make([][]float64, n2)
	for i2 := range data {
		data[i2] = make([]float64, n1)
	}
	return &Image{Data: data, N1: n1, N2: n2}
}

// ImageFromRows wraps an existing row-major array. All rows must have the
// same length.
func ImageFromRows(rows [][]float64) (*Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty image: %w", ErrInvalidInput)
	}
	n1 := len(rows[0])
	for i2, row := range rows {
		if len(row) != n1 {
			return nil, fmt.Errorf("row %d has %d samples, expected %d: %w", i2, len(row), n1, ErrInvalidInput)
		}
	}
	return &Image{Data: rows, N1: n1, N2: len(rows)}, nil
}

// At returns the sample at integer coordinates
func (img *Image) At(i1, i2 int) float64 {
	return img.Data[i2][i1]
}

// Clone returns a deep copy of the image
func (img *Image) Clone() *Image {
	c := NewImage(img.N1, img.N2)
	for i2 := range img.Data {
		copy(c.Data[i2], img.Data[i2])
	}
	return c
}

// Volume is a dense 3D array stored as Data[i3][i2][i1]
type Volume struct {
	Data [][][]float64

	N1, N2, N3 int
}

// NewVolume allocates a zero-filled volume
func NewVolume(n1, n2, n3 int) *Volume {
	data := make([][][]float64, n3)
	for i3 := range data {
		data[i3] = make([][]float64, n2)
		for i2 := range data[i3] {
			data[i3][i2] = make([]float64, n1)
		}
	}
	return &Volume{Data: data, N1: n1, N2: n2, N3: n3}
}

// Point is a position in continuous image coordinates
type Point struct {
	X1, X2 float64
}

// SeedPoint is an integer pixel coordinate picked by the user.
// I1 indexes the fast (row sample) axis and I2 the row.
type SeedPoint struct {
	I1, I2 int
}

// Point converts the seed to continuous coordinates
func (s SeedPoint) Point() Point {
	return Point{X1: float64(s.I1), X2: float64(s.I2)}
}
