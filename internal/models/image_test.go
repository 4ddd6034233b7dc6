package models

import (
	"errors"
	"testing"
)

func TestImageFromRows(t *testing.T) {
	img, err := ImageFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.N1 != 3 || img.N2 != 2 {
		t.Errorf("Expected 3x2 image, got %dx%d", img.N1, img.N2)
	}
	if img.At(2, 1) != 6 {
		t.Errorf("Expected At(2,1)=6, got %f", img.At(2, 1))
	}

	if _, err := ImageFromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for ragged rows, got %v", err)
	}
	if _, err := ImageFromRows(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty image, got %v", err)
	}
}

func TestImageClone(t *testing.T) {
	img := NewImage(2, 2)
	img.Data[0][0] = 1
	c := img.Clone()
	c.Data[0][0] = 7
	if img.Data[0][0] != 1 {
		t.Errorf("Clone shares storage with the original")
	}
}
