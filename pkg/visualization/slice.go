package visualization

import (
	"fmt"

	"saltpick/internal/models"
)

// ExtractSlice extracts a 2D image from a volume at a fixed index along one
// axis. The result keeps the volume's fast axis as its own fast axis:
//   - axis "3": Data[i2][i1] of slice i3
//   - axis "2": Data[i3][i1] of line i2
//   - axis "1": Data[i3][i2] of sample i1
func ExtractSlice(vol *models.Volume, axis string, position int) (*models.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative: %w", models.ErrInvalidInput)
	}

	switch axis {
	case "3":
		if position >= vol.N3 {
			return nil, fmt.Errorf("position %d exceeds n3 %d: %w", position, vol.N3, models.ErrInvalidInput)
		}
		img := models.NewImage(vol.N1, vol.N2)
		for i2 := 0; i2 < vol.N2; i2++ {
			copy(img.Data[i2], vol.Data[position][i2])
		}
		return img, nil

	case "2":
		if position >= vol.N2 {
			return nil, fmt.Errorf("position %d exceeds n2 %d: %w", position, vol.N2, models.ErrInvalidInput)
		}
		img := models.NewImage(vol.N1, vol.N3)
		for i3 := 0; i3 < vol.N3; i3++ {
			copy(img.Data[i3], vol.Data[i3][position])
		}
		return img, nil

	case "1":
		if position >= vol.N1 {
			return nil, fmt.Errorf("position %d exceeds n1 %d: %w", position, vol.N1, models.ErrInvalidInput)
		}
		img := models.NewImage(vol.N2, vol.N3)
		for i3 := 0; i3 < vol.N3; i3++ {
			for i2 := 0; i2 < vol.N2; i2++ {
				img.Data[i3][i2] = vol.Data[i3][i2][position]
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be 1, 2, or 3): %w", axis, models.ErrInvalidInput)
	}
}
