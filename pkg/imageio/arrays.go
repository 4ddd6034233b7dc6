package imageio

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"saltpick/internal/models"
	"saltpick/pkg/boundary"
)

// curveFile is the on-disk layout of a boundary: four parallel channels
type curveFile struct {
	X1 []float64 `yaml:"x1"`
	X2 []float64 `yaml:"x2"`
	U1 []float64 `yaml:"u1"`
	U2 []float64 `yaml:"u2"`
}

// LoadSeeds reads a YAML list of [i1, i2] pairs
func LoadSeeds(path string) ([]models.SeedPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	var pairs [][]int
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}
	seeds := make([]models.SeedPoint, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("seed %d has %d coordinates, expected 2: %w", i, len(p), models.ErrInvalidInput)
		}
		seeds[i] = models.SeedPoint{I1: p[0], I2: p[1]}
	}
	return seeds, nil
}

// SaveSeeds writes seeds as a YAML list of [i1, i2] pairs
func SaveSeeds(path string, seeds []models.SeedPoint) error {
	pairs := make([][]int, len(seeds))
	for i, s := range seeds {
		pairs[i] = []int{s.I1, s.I2}
	}
	return writeYAML(path, pairs)
}

// SaveCurve writes the position and normal channels of c
func SaveCurve(path string, c *boundary.Curve) error {
	return writeYAML(path, curveFile{X1: c.X1, X2: c.X2, U1: c.U1, U2: c.U2})
}

// LoadCurve reads a curve written by SaveCurve. The channels must have equal
// lengths and the curve must be closed.
func LoadCurve(path string) (*boundary.Curve, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading curve file: %w", err)
	}
	var cf curveFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("error parsing curve file: %w", err)
	}
	n := len(cf.X1)
	if n < 2 || len(cf.X2) != n || len(cf.U1) != n || len(cf.U2) != n {
		return nil, fmt.Errorf("curve channels have lengths %d/%d/%d/%d: %w",
			len(cf.X1), len(cf.X2), len(cf.U1), len(cf.U2), models.ErrInvalidInput)
	}
	c := &boundary.Curve{X1: cf.X1, X2: cf.X2, U1: cf.U1, U2: cf.U2}
	if !c.Closed() {
		return nil, fmt.Errorf("curve in %s is not closed: %w", path, models.ErrInvalidInput)
	}
	return c, nil
}

func writeYAML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
