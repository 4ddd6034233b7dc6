package envelope

import (
	"math"
	"runtime"
	"sync"

	"saltpick/internal/models"
)

// Method selects how the Hilbert transform of each row is computed
type Method int

const (
	// MethodFIR uses the fixed-length FIR Hilbert filter
	MethodFIR Method = iota

	// MethodFFT computes the exact periodic analytic signal with an FFT
	MethodFFT
)

// String returns the name used in configuration files
func (m Method) String() string {
	switch m {
	case MethodFIR:
		return "fir"
	case MethodFFT:
		return "fft"
	default:
		return "unknown"
	}
}

// ParseMethod maps a configuration name to a Method; unknown names select
// MethodFIR
func ParseMethod(name string) Method {
	if name == "fft" {
		return MethodFFT
	}
	return MethodFIR
}

// Options controls instantaneous-amplitude extraction
type Options struct {
	// Method selects the Hilbert transform implementation
	Method Method

	// HalfLength is the FIR filter half length (MethodFIR only)
	HalfLength int

	// NumWorkers bounds the number of rows processed concurrently.
	// Values below 1 use all available CPUs.
	NumWorkers int
}

// rowTransform computes the Hilbert transform of one row into out
type rowTransform func(row, out []float64)

func (o Options) transform() rowTransform {
	if o.Method == MethodFFT {
		return hilbertFFT
	}
	h := NewHilbertFilter(o.HalfLength)
	return h.Apply
}

func (o Options) workers() int {
	if o.NumWorkers < 1 {
		return runtime.NumCPU()
	}
	return o.NumWorkers
}

// InstantaneousAmplitude computes sqrt(f^2 + H(f)^2) along every row of img.
// Rows are independent and are processed in parallel; non-finite results are
// replaced with zero. The output has the same shape as the input.
func InstantaneousAmplitude(img *models.Image, opts Options) *models.Image {
	out := models.NewImage(img.N1, img.N2)
	hilbert := opts.transform()

	parallelFor(img.N2, opts.workers(), func(i2 int) {
		amplitudeRow(hilbert, img.Data[i2], out.Data[i2])
	})
	return out
}

// InstantaneousAmplitude3D applies the row-wise envelope to every line of a
// volume, in parallel over the slowest axis
func InstantaneousAmplitude3D(vol *models.Volume, opts Options) *models.Volume {
	out := models.NewVolume(vol.N1, vol.N2, vol.N3)
	hilbert := opts.transform()

	parallelFor(vol.N3, opts.workers(), func(i3 int) {
		for i2 := 0; i2 < vol.N2; i2++ {
			amplitudeRow(hilbert, vol.Data[i3][i2], out.Data[i3][i2])
		}
	})
	return out
}

// amplitudeRow writes the instantaneous amplitude of row into out
func amplitudeRow(hilbert rowTransform, row, out []float64) {
	hi := make([]float64, len(row))
	hilbert(row, hi)
	for i1, fr := range row {
		pa := math.Sqrt(fr*fr + hi[i1]*hi[i1])
		if math.IsNaN(pa) || math.IsInf(pa, 0) {
			pa = 0
		}
		out[i1] = pa
	}
}

// parallelFor calls fn(i) for i in [0, n) using at most workers goroutines.
// Each index is handled exactly once; there is no ordering between indices.
func parallelFor(n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
