// Package picker drives boundary refinement: it samples a band around the
// current curve, searches the optimal path through it and moves the curve
// onto that path.
//
// The refinement process consists of these steps:
// 1. Take a snapshot of the current curve
// 2. Sample the image in a band perpendicular to the curve
// 3. Remap the band to a traversal cost and run the cyclic path search
// 4. Move every sample along its normal by its picked offset
// 5. Swap the moved curve into the boundary model
//
// A failure at any step leaves the current curve untouched.
package picker

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"saltpick/internal/models"
	"saltpick/pkg/band"
	"saltpick/pkg/boundary"
	"saltpick/pkg/config"
	"saltpick/pkg/pathsearch"
)

// Picker refines one closed boundary against an image
type Picker struct {
	// model holds the current boundary
	model *boundary.Model

	// cfg supplies the parameters used by Run and the smoothing half-widths
	cfg *config.Config

	logger *logrus.Logger

	// mu guards last, the diagnostics of the most recent successful
	// refinement
	mu   sync.RWMutex
	last Report
}

// NewPicker creates a picker with an empty boundary. A nil cfg selects the
// default configuration; a nil logger discards all log output.
func NewPicker(cfg *config.Config, logger *logrus.Logger) *Picker {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Picker{
		model:  boundary.NewModel(),
		cfg:    cfg,
		logger: logger,
	}
}

// Initialize builds a new boundary from seed points, replacing any current one
func (p *Picker) Initialize(seeds []models.Point, d float64) error {
	if err := p.model.Initialize(seeds, d, p.cfg.Boundary.SeedSmoothing); err != nil {
		return fmt.Errorf("failed to initialize boundary: %w", err)
	}
	p.logger.WithFields(logrus.Fields{
		"seeds":   len(seeds),
		"spacing": d,
	}).Debug("Boundary initialized")
	return nil
}

// Refine moves the current boundary onto the optimal path through a band of
// half-width r and spacing d, with maximum step w and bending penalty a.
// It returns the band image that was searched.
func (p *Picker) Refine(r int, d float64, w int, a float64, img *models.Image) (*mat.Dense, error) {
	c := p.model.Snapshot()
	if c == nil {
		return nil, fmt.Errorf("no boundary to refine: %w", models.ErrInvalidInput)
	}
	return p.refineAndStore(c, r, d, w, a, img)
}

// PickNext smooths the positions of curve, resamples it at spacing d and
// refines the result. A nil curve selects the current boundary.
func (p *Picker) PickNext(r int, d float64, w int, a float64, curve *boundary.Curve, img *models.Image) (*mat.Dense, error) {
	if curve == nil {
		curve = p.model.Snapshot()
		if curve == nil {
			return nil, fmt.Errorf("no boundary to pick from: %w", models.ErrInvalidInput)
		}
	} else {
		curve = curve.Clone()
	}

	curve.SmoothPositions(p.cfg.Boundary.PickNextSigma)
	rc, err := curve.Resample(d)
	if err != nil {
		return nil, fmt.Errorf("failed to resample boundary: %w", err)
	}
	return p.refineAndStore(rc, r, d, w, a, img)
}

// Run initializes a boundary from a closed seed snapshot and refines it with
// the configured band and search parameters. The model only changes when
// both steps succeed.
func (p *Picker) Run(seeds []models.SeedPoint, img *models.Image) (*mat.Dense, error) {
	pts := make([]models.Point, len(seeds))
	for i, s := range seeds {
		pts[i] = s.Point()
	}
	c, err := boundary.Initialize(pts, p.cfg.Boundary.Spacing, p.cfg.Boundary.SeedSmoothing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize boundary: %w", err)
	}
	return p.refineAndStore(c,
		p.cfg.Band.Radius, p.cfg.Band.Spacing,
		p.cfg.Search.MaxStep, p.cfg.Search.Bending, img)
}

// Clear discards the current boundary
func (p *Picker) Clear() {
	p.model.Clear()
	p.logger.Debug("Boundary cleared")
}

// Boundary returns a copy of the current curve, or nil when there is none
func (p *Picker) Boundary() *boundary.Curve {
	return p.model.Snapshot()
}

// Query returns the boundary positions for display, or the empty sentinel
func (p *Picker) Query() ([]float64, []float64) {
	return p.model.Query()
}

// LastReport returns the diagnostics of the most recent refinement
func (p *Picker) LastReport() Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// refineAndStore refines c and installs the result in the model
func (p *Picker) refineAndStore(c *boundary.Curve, r int, d float64, w int, a float64, img *models.Image) (*mat.Dense, error) {
	moved, b, offsets, err := p.refineCurve(c, r, d, w, a, img)
	if err != nil {
		p.logger.WithError(err).Warn("Refinement failed, keeping previous boundary")
		return nil, err
	}
	if err := p.model.Replace(moved); err != nil {
		return nil, fmt.Errorf("failed to store refined boundary: %w", err)
	}

	report := newReport(offsets, r, d, c, moved)
	p.mu.Lock()
	p.last = report
	p.mu.Unlock()

	entry := p.logger.WithFields(logrus.Fields{
		"samples":       report.Samples,
		"mean_shift":    report.MeanShift,
		"max_shift":     report.MaxShift,
		"max_deviation": report.MaxDeviation,
		"degenerate":    report.Degenerate,
	})
	if err := report.Err(); err != nil {
		entry.WithError(err).Warn("Boundary refined with stationary samples")
	} else {
		entry.Info("Boundary refined")
	}
	return b, nil
}

// refineCurve runs the band sampling and path search on c without touching
// the model. c itself is not modified.
func (p *Picker) refineCurve(c *boundary.Curve, r int, d float64, w int, a float64, img *models.Image) (*boundary.Curve, *mat.Dense, pathsearch.Offsets, error) {
	b, err := band.Sample(r, d, c, img, band.Options{Sigma: p.cfg.Band.Sigma})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to sample band: %w", err)
	}

	search, err := pathsearch.NewPicker(w, a, pathsearch.Options{
		Gain:           p.cfg.Search.Gain,
		CoherenceSigma: p.cfg.Search.CoherenceSigma,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	offsets, err := search.Search(search.Transform(b))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("path search failed: %w", err)
	}

	return move(c, offsets, r, d), b, offsets, nil
}

// move displaces every sample along its normal by (o-r)*d and re-closes the
// loop. Normals are carried over unchanged.
func move(c *boundary.Curve, offsets pathsearch.Offsets, r int, d float64) *boundary.Curve {
	m := c.Clone()
	for i, o := range offsets {
		s := float64(o-r) * d
		m.X1[i] += s * m.U1[i]
		m.X2[i] += s * m.U2[i]
	}
	m.Close()
	return m
}
