package envelope

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"saltpick/internal/models"
	"saltpick/pkg/filter"
)

// Gain applies automatic gain control along every row: each sample is
// divided by the square root of the locally smoothed signal energy, using an
// exponential smoother of half-width sigma. Samples with zero local energy
// become zero.
func Gain(img *models.Image, sigma float64) *models.Image {
	out := models.NewImage(img.N1, img.N2)
	f := filter.NewExponential(sigma)
	energy := make([]float64, img.N1)
	for i2, row := range img.Data {
		floats.MulTo(energy, row, row)
		f.Apply(energy, energy)
		for i1, v := range row {
			e := math.Sqrt(energy[i1])
			g := v / e
			if e == 0 || math.IsNaN(g) || math.IsInf(g, 0) {
				g = 0
			}
			out.Data[i2][i1] = g
		}
	}
	return out
}

// CombineWithSaltLikelihood merges an amplitude volume into a salt
// likelihood volume. Both are first normalized to [0, 1] in place. Where the
// magnitudes of both dip components p2 and p3 are below pmin, the salt
// likelihood is replaced by the amplitude. Finally the first and last line of
// every slice are set to half the maximum likelihood so that boundaries can
// close along the image edges. sl is modified in place and returned.
func CombineWithSaltLikelihood(pmin float64, p2, p3, pa, sl *models.Volume) *models.Volume {
	normalizeVolume(pa)
	normalizeVolume(sl)

	for i3 := 0; i3 < sl.N3; i3++ {
		for i2 := 0; i2 < sl.N2; i2++ {
			for i1 := 0; i1 < sl.N1; i1++ {
				p2i := math.Abs(p2.Data[i3][i2][i1])
				p3i := math.Abs(p3.Data[i3][i2][i1])
				if p2i < pmin && p3i < pmin {
					sl.Data[i3][i2][i1] = pa.Data[i3][i2][i1]
				}
			}
		}
	}

	slm := 0.5 * volumeMax(sl)
	if sl.N2 > 0 {
		for i3 := 0; i3 < sl.N3; i3++ {
			for i1 := 0; i1 < sl.N1; i1++ {
				sl.Data[i3][0][i1] = slm
				sl.Data[i3][sl.N2-1][i1] = slm
			}
		}
	}
	return sl
}

// normalizeVolume rescales a volume in place to [0, 1]; constant volumes
// become zero
func normalizeVolume(v *models.Volume) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, slice := range v.Data {
		for _, row := range slice {
			if len(row) == 0 {
				continue
			}
			lo = math.Min(lo, floats.Min(row))
			hi = math.Max(hi, floats.Max(row))
		}
	}
	span := hi - lo
	for _, slice := range v.Data {
		for _, row := range slice {
			for i := range row {
				if span > 0 {
					row[i] = (row[i] - lo) / span
				} else {
					row[i] = 0
				}
			}
		}
	}
}

func volumeMax(v *models.Volume) float64 {
	hi := math.Inf(-1)
	for _, slice := range v.Data {
		for _, row := range slice {
			if len(row) > 0 {
				hi = math.Max(hi, floats.Max(row))
			}
		}
	}
	return hi
}

// PinEdges sets the first and last row of img to a third of its largest
// absolute value, so that a boundary touching the left or right image edge
// has bright samples to follow. img is modified in place.
func PinEdges(img *models.Image) {
	if img.N2 == 0 {
		return
	}
	pm := 0.0
	for _, row := range img.Data {
		for _, v := range row {
			pm = math.Max(pm, math.Abs(v))
		}
	}
	pm /= 3
	for i1 := 0; i1 < img.N1; i1++ {
		img.Data[0][i1] = pm
		img.Data[img.N2-1][i1] = pm
	}
}
