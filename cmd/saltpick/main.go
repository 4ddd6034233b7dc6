package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"saltpick/internal/models"
	"saltpick/pkg/config"
	"saltpick/pkg/envelope"
	"saltpick/pkg/imageio"
	"saltpick/pkg/picker"
	"saltpick/pkg/seeds"
	"saltpick/pkg/visualization"
)

// rawInput describes how a raw float32 grid or volume is laid out
type rawInput struct {
	n1, n2, n3 int
	slice      int
	endian     string

	// likelihood, dip2 and dip3 name raw volumes of the same shape; when
	// likelihood is set the envelope is merged into it
	likelihood string
	dip2, dip3 string
	pmin       float64
}

func main() {
	// Parse command line arguments
	imagePath := flag.String("image", "", "Input image (PNG, JPEG, TIFF) or raw float32 grid")
	n1 := flag.Int("n1", 0, "Samples per row of a raw grid (fast axis)")
	n2 := flag.Int("n2", 0, "Rows of a raw grid")
	n3 := flag.Int("n3", 0, "Slices of a raw volume (0 for a 2D grid)")
	slice := flag.Int("slice", 0, "Slice of a raw volume to pick on")
	endian := flag.String("endian", "big", "Byte order of raw input: big or little")
	seedsPath := flag.String("seeds", "", "YAML list of [i1, i2] seed points")
	curvePath := flag.String("curve", "", "YAML curve to re-pick instead of starting from seeds")
	configPath := flag.String("config", "", "YAML configuration file")
	outPath := flag.String("out", "boundary.yaml", "Output YAML curve")
	overlayPath := flag.String("overlay", "", "Optional PNG/JPEG of the image with the boundary")
	bandPath := flag.String("band", "", "Optional PNG/JPEG of the last band image and picked path")
	useEnvelope := flag.Bool("envelope", true, "Pick on the instantaneous amplitude instead of the raw image")
	gainSigma := flag.Float64("gain", -1, "Automatic gain control half-width (overrides config when >= 0)")
	likelihoodPath := flag.String("likelihood", "", "Raw salt likelihood volume to merge the volume envelope into")
	dip2Path := flag.String("dip2", "", "Raw dip component volume (i2 direction) for -likelihood")
	dip3Path := flag.String("dip3", "", "Raw dip component volume (i3 direction) for -likelihood")
	pmin := flag.Float64("pmin", 0.1, "Dip magnitude below which the envelope replaces the salt likelihood")
	pinEdges := flag.Bool("pin-edges", false, "Brighten the first and last rows so boundaries can follow the image sides")
	iterations := flag.Int("iterations", 1, "Number of refinement passes")
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	flag.Parse()

	if *imagePath == "" || (*seedsPath == "" && *curvePath == "") {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			logrus.Fatalf("Failed to load configuration: %v", err)
		}
	}
	// Flags given explicitly win over the configuration file
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "envelope" {
			cfg.Envelope.Enabled = *useEnvelope
		}
	})
	if *gainSigma >= 0 {
		cfg.Envelope.GainSigma = *gainSigma
	}

	logger := initLogger(*debugMode, cfg.Output.Verbose, cfg.Output.LogFormat)
	logger.WithFields(logrus.Fields{
		"image":    *imagePath,
		"envelope": cfg.Envelope.Enabled,
		"radius":   cfg.Band.Radius,
		"max_step": cfg.Search.MaxStep,
	}).Info("Starting salt boundary picking")

	startTime := time.Now()
	raw := rawInput{
		n1: *n1, n2: *n2, n3: *n3,
		slice:      *slice,
		endian:     *endian,
		likelihood: *likelihoodPath,
		dip2:       *dip2Path,
		dip3:       *dip3Path,
		pmin:       *pmin,
	}
	img, err := loadInput(*imagePath, raw, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load input")
	}
	if *pinEdges {
		envelope.PinEdges(img)
	}
	logger.WithFields(logrus.Fields{
		"n1":      img.N1,
		"n2":      img.N2,
		"elapsed": time.Since(startTime).String(),
	}).Info("Input ready")

	p := picker.NewPicker(cfg, logger)
	var (
		picks []models.SeedPoint
		band  *mat.Dense
	)
	if *curvePath != "" {
		curve, err := imageio.LoadCurve(*curvePath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load curve")
		}
		if band, err = p.PickNext(cfg.Band.Radius, cfg.Band.Spacing, cfg.Search.MaxStep, cfg.Search.Bending, curve, img); err != nil {
			logger.WithError(err).Fatal("Refinement failed")
		}
	} else {
		loaded, err := imageio.LoadSeeds(*seedsPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load seeds")
		}
		picks = filterSeeds(loaded, img.N1, img.N2)
		if dropped := len(loaded) - len(picks); dropped > 0 {
			logger.WithField("dropped", dropped).Warn("Ignored seeds outside the image or repeating the previous pick")
		}
		if band, err = p.Run(picks, img); err != nil {
			logger.WithError(err).Fatal("Refinement failed")
		}
	}

	// Further passes re-pick from the smoothed, resampled result
	for i := 1; i < *iterations; i++ {
		if band, err = p.PickNext(cfg.Band.Radius, cfg.Band.Spacing, cfg.Search.MaxStep, cfg.Search.Bending, nil, img); err != nil {
			logger.WithError(err).WithField("pass", i+1).Fatal("Refinement failed")
		}
	}

	if err := imageio.SaveCurve(*outPath, p.Boundary()); err != nil {
		logger.WithError(err).Fatal("Failed to save boundary")
	}
	report := p.LastReport()
	logger.WithFields(logrus.Fields{
		"output":     *outPath,
		"samples":    report.Samples,
		"length":     report.Length,
		"mean_shift": report.MeanShift,
		"elapsed":    time.Since(startTime).String(),
	}).Info("Boundary saved")

	if *overlayPath != "" {
		x1, x2 := p.Query()
		pic := visualization.NewViewer(img).Overlay(x1, x2, picks)
		if err := visualization.SaveImage(pic, *overlayPath); err != nil {
			logger.WithError(err).Warn("Failed to save overlay")
		}
	}
	if *bandPath != "" {
		if err := saveBand(*bandPath, band, report); err != nil {
			logger.WithError(err).Warn("Failed to save band image")
		}
	}
}

// loadInput reads the image, applies gain control and extracts the envelope
// as configured
func loadInput(path string, raw rawInput, cfg *config.Config, logger *logrus.Logger) (*models.Image, error) {
	opts := envelope.Options{
		Method:     envelope.ParseMethod(cfg.Envelope.Method),
		HalfLength: cfg.Envelope.HalfLength,
		NumWorkers: cfg.Envelope.NumWorkers,
	}

	if !isRaw(path, raw.n1) {
		if raw.likelihood != "" {
			return nil, fmt.Errorf("-likelihood needs a raw volume input: %w", models.ErrInvalidInput)
		}
		img, err := imageio.LoadImage(path)
		if err != nil {
			return nil, err
		}
		return prepare(img, cfg, opts, logger), nil
	}

	order, err := imageio.ParseByteOrder(raw.endian)
	if err != nil {
		return nil, err
	}
	if raw.n3 <= 0 {
		if raw.likelihood != "" {
			return nil, fmt.Errorf("-likelihood needs -n3: %w", models.ErrInvalidInput)
		}
		img, err := imageio.LoadRaw(path, raw.n1, raw.n2, order)
		if err != nil {
			return nil, err
		}
		return prepare(img, cfg, opts, logger), nil
	}

	vol, err := imageio.LoadRawVolume(path, raw.n1, raw.n2, raw.n3, order)
	if err != nil {
		return nil, err
	}
	if cfg.Envelope.GainSigma > 0 {
		for i3 := range vol.Data {
			s := &models.Image{Data: vol.Data[i3], N1: raw.n1, N2: raw.n2}
			vol.Data[i3] = envelope.Gain(s, cfg.Envelope.GainSigma).Data
		}
	}
	if cfg.Envelope.Enabled {
		logger.WithField("method", opts.Method.String()).Debug("Extracting volume envelope")
		vol = envelope.InstantaneousAmplitude3D(vol, opts)
	}
	if raw.likelihood != "" {
		if vol, err = combineLikelihood(vol, raw, order); err != nil {
			return nil, err
		}
		logger.WithField("pmin", raw.pmin).Debug("Merged envelope into salt likelihood")
	}
	return visualization.ExtractSlice(vol, "3", raw.slice)
}

// combineLikelihood loads the salt likelihood and dip volumes named in raw
// and merges the amplitude volume into the likelihood
func combineLikelihood(amp *models.Volume, raw rawInput, order binary.ByteOrder) (*models.Volume, error) {
	if raw.dip2 == "" || raw.dip3 == "" {
		return nil, fmt.Errorf("-likelihood needs both -dip2 and -dip3: %w", models.ErrInvalidInput)
	}
	load := func(name, path string) (*models.Volume, error) {
		v, err := imageio.LoadRawVolume(path, amp.N1, amp.N2, amp.N3, order)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s volume: %w", name, err)
		}
		return v, nil
	}
	sl, err := load("likelihood", raw.likelihood)
	if err != nil {
		return nil, err
	}
	p2, err := load("dip2", raw.dip2)
	if err != nil {
		return nil, err
	}
	p3, err := load("dip3", raw.dip3)
	if err != nil {
		return nil, err
	}
	return envelope.CombineWithSaltLikelihood(raw.pmin, p2, p3, amp, sl), nil
}

// filterSeeds drops seeds outside an n1 x n2 image and immediate repeats
func filterSeeds(loaded []models.SeedPoint, n1, n2 int) []models.SeedPoint {
	e := seeds.NewEditor(n1, n2)
	e.AddAll(loaded)
	return e.Snapshot()
}

// prepare applies gain control and envelope extraction to a single image
func prepare(img *models.Image, cfg *config.Config, opts envelope.Options, logger *logrus.Logger) *models.Image {
	if cfg.Envelope.GainSigma > 0 {
		img = envelope.Gain(img, cfg.Envelope.GainSigma)
	}
	if cfg.Envelope.Enabled {
		logger.WithField("method", opts.Method.String()).Debug("Extracting envelope")
		img = envelope.InstantaneousAmplitude(img, opts)
	}
	return img
}

// isRaw reports whether path should be read as a raw float grid
func isRaw(path string, n1 int) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range imageio.SupportedExtensions() {
		if ext == known {
			return false
		}
	}
	return n1 > 0
}

// saveBand renders the last searched band with its picked path
func saveBand(path string, b *mat.Dense, report picker.Report) error {
	pic, err := visualization.RenderBand(b, report.Offsets)
	if err != nil {
		return err
	}
	return visualization.SaveImage(pic, path)
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode, verbose bool, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	switch {
	case debugMode:
		logger.SetLevel(logrus.DebugLevel)
	case verbose:
		logger.SetLevel(logrus.InfoLevel)
	default:
		logger.SetLevel(logrus.WarnLevel)
	}

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	logger.Debug("Debug logging enabled")

	return logger
}
