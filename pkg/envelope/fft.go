package envelope

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// hilbertFFT computes the Hilbert transform of x into y in the frequency
// domain: positive frequencies are rotated by -pi/2, and the DC and Nyquist
// terms are removed. The signal is treated as periodic.
func hilbertFFT(x, y []float64) {
	n := len(x)
	if len(y) != n {
		panic("envelope: input and output lengths differ")
	}
	if n < 2 {
		for i := range y {
			y[i] = 0
		}
		return
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, x)
	for k := range coeff {
		if k == 0 || (n%2 == 0 && k == n/2) {
			coeff[k] = 0
			continue
		}
		coeff[k] *= -1i
	}

	// Sequence is unnormalized, so scale back by 1/n
	fft.Sequence(y, coeff)
	scale := 1 / float64(n)
	for i := range y {
		y[i] *= scale
	}
}
