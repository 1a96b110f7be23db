package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"hyperspec/internal/models"
	"hyperspec/pkg/config"
	"hyperspec/pkg/cube"
	"hyperspec/pkg/histogram"
	"hyperspec/pkg/quicklook"
	"hyperspec/pkg/raster"
	"hyperspec/pkg/spectral"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "hyperspec.yaml", "Path to the YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write the default configuration file and exit")
	roiSpec := flag.String("roi", "0.25,0.25;0.75,0.25;0.75,0.75;0.25,0.75",
		"Region polygon as x,y;x,y;... in normalized coordinates")
	pointSpec := flag.String("point", "", "Point query as x,y in normalized coordinates")
	tiles := flag.Int("tiles", 0, "Split the image into NxN tiles and extract them in parallel")
	countBins := flag.Int("bins", 0, "Number of value bins per histogram (0: use config)")
	wavelengthBins := flag.Int("wlbins", 0, "Requested number of wavelength groups (0: use config)")
	minSamples := flag.Int("min-samples", -1, "Sample count the cube must exceed (-1: use config)")
	detectMax := flag.Bool("detect-max", false, "Detect the histogram ceiling from the data")
	reflectance := flag.Bool("reflectance", false, "Treat the scene as reflectance data")
	workers := flag.Int("workers", 0, "Workers for tile extraction (0: use config)")
	csvPath := flag.String("csv", "", "Write the region spectrum to this CSV file (overrides config)")
	saveQuicklooks := flag.Bool("quicklook", false, "Render band and region-mask quicklooks")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default configuration: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override the configuration where given
	if *countBins > 0 {
		cfg.Analysis.CountBins = *countBins
	}
	if *wavelengthBins > 0 {
		cfg.Analysis.WavelengthBins = *wavelengthBins
	}
	if *minSamples >= 0 {
		cfg.Analysis.MinSamples = *minSamples
	}
	if *workers > 0 {
		cfg.Analysis.Workers = *workers
	}
	if *detectMax {
		cfg.Analysis.DetectMaxValue = true
	}
	if *csvPath != "" {
		cfg.Output.SpectrumCSV = *csvPath
	}

	mode := cube.ModeRaw
	if *reflectance {
		mode = cube.ModeReflectance
	}

	fmt.Println("================================")
	fmt.Println("HYPERSPEC - REGION SPECTRA AND BAND HISTOGRAMS FROM HYPERSPECTRAL CUBES")
	fmt.Println("================================")

	// Build the synthetic scene measurement
	fmt.Println("Step 1: Building synthetic scene...")
	scene, err := buildScene(cfg)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	meas := models.Measurement{
		ID:                fmt.Sprintf("scene-%04d", cfg.Scene.Seed),
		CaptureTime:       time.Now(),
		IntegrationTimeMS: 10.0,
		Averages:          1,
		Mode:              mode,
		Comment:           "synthetic illumination ramp with embedded disc",
	}
	fmt.Printf("Measurement %s: %dx%d pixels, %d bands (%d-%dnm), mode %s\n",
		meas.ID, scene.Width(), scene.Height(), scene.Channels(),
		scene.Wavelength(0), scene.Wavelength(scene.Channels()-1), meas.Mode)

	roi, err := parsePolygon(*roiSpec)
	if err != nil {
		log.Fatalf("Invalid region polygon: %v", err)
	}

	// Extract the region spectrum
	fmt.Println("\nStep 2: Extracting region spectrum...")
	startTime := time.Now()
	spectrum, err := spectral.Extract(scene, roi)
	if err != nil {
		log.Fatalf("Spectral extraction failed: %v", err)
	}
	fmt.Printf("Region of %d vertices extracted in %.3f ms\n",
		len(roi), float64(time.Since(startTime).Microseconds())/1000)
	printSpectrum(spectrum, cfg.Output.Verbose)

	// Answer a point query if one was given
	if *pointSpec != "" {
		fmt.Println("\nStep 3: Answering point query...")
		point, err := parsePoint(*pointSpec)
		if err != nil {
			log.Fatalf("Invalid point query: %v", err)
		}
		pointSpectrum, err := spectral.Extract(scene, spectral.Polygon{point})
		if err != nil {
			log.Fatalf("Point query failed: %v", err)
		}
		fmt.Printf("Spectrum at (%.3f, %.3f):\n", point.X, point.Y)
		printSpectrum(pointSpectrum, cfg.Output.Verbose)
	}

	// Extract tile regions in parallel if requested
	if *tiles > 0 {
		fmt.Printf("\nStep 4: Extracting %dx%d tile grid with %d workers...\n",
			*tiles, *tiles, cfg.Analysis.Workers)
		regions := tileRegions(*tiles)
		outlines := make([]spectral.Polygon, len(regions))
		for i, region := range regions {
			outlines[i] = region.Outline
		}

		startTime = time.Now()
		batch, err := spectral.ExtractBatch(scene, outlines, cfg.Analysis.Workers)
		if err != nil {
			log.Fatalf("Tile extraction failed: %v", err)
		}
		fmt.Printf("%d tiles extracted in %.3f ms\n",
			len(batch), float64(time.Since(startTime).Microseconds())/1000)

		for i, tileSpectrum := range batch {
			values := validBandValues(tileSpectrum)
			if len(values) == 0 {
				fmt.Printf("  %-10s no data\n", regions[i].Name)
				continue
			}
			fmt.Printf("  %-10s mean over bands %.2f\n", regions[i].Name, stat.Mean(values, nil))
		}
	}

	// Build the band histograms
	fmt.Println("\nStep 5: Building band histograms...")
	params := histogram.Params{
		MinSamples:     cfg.Analysis.MinSamples,
		CountBins:      cfg.Analysis.CountBins,
		WavelengthBins: cfg.Analysis.WavelengthBins,
		DetectMaxValue: cfg.Analysis.DetectMaxValue,
		Mode:           mode,
	}
	startTime = time.Now()
	histograms, err := histogram.Build(scene, params)
	if err != nil {
		log.Fatalf("Histogram analysis failed: %v", err)
	}
	fmt.Printf("%d wavelength groups built in %.3f ms\n",
		len(histograms), float64(time.Since(startTime).Microseconds())/1000)
	printHistograms(histograms)

	// Export results
	if cfg.Output.SpectrumCSV != "" {
		if err := writeSpectrumCSV(spectrum, cfg.Output.SpectrumCSV); err != nil {
			log.Fatalf("Failed to write spectrum CSV: %v", err)
		}
		fmt.Printf("\nRegion spectrum written to %s\n", cfg.Output.SpectrumCSV)
	}

	if *saveQuicklooks {
		fmt.Println("\nStep 6: Rendering quicklooks...")
		if err := saveSceneQuicklooks(scene, roi, meas, cfg.Output.QuicklookDir); err != nil {
			log.Printf("Warning: Failed to render quicklooks: %v", err)
		} else {
			fmt.Printf("Quicklooks saved to %s\n", cfg.Output.QuicklookDir)
		}
	}
}

// buildScene synthesizes a measurement cube: a horizontal illumination
// ramp, a brighter disc in the image center with a response that rises
// toward longer wavelengths, and seeded uniform noise.
func buildScene(cfg *config.Config) (*cube.Cube[uint16], error) {
	width, height, channels := cfg.Scene.Width, cfg.Scene.Height, cfg.Scene.Channels

	wavelengths := make([]uint32, channels)
	for z := range wavelengths {
		wavelengths[z] = uint32(cfg.Scene.FirstWavelength + z*cfg.Scene.WavelengthStep)
	}

	rng := rand.New(rand.NewSource(cfg.Scene.Seed))
	data := make([]uint16, width*height*channels)

	centerX, centerY := float64(width-1)/2, float64(height-1)/2
	radius := float64(min(width, height)) / 4

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ramp := 500 + 3000*float64(x)/float64(width-1)
			dx, dy := float64(x)-centerX, float64(y)-centerY
			inDisc := dx*dx+dy*dy <= radius*radius

			for z := 0; z < channels; z++ {
				position := float64(z) / float64(max(channels-1, 1))

				// Background response peaks mid-spectrum
				value := ramp * (0.5 + 0.5*math.Sin(math.Pi*position))
				if inDisc {
					// The disc brightens toward longer wavelengths
					value += 400 + 1200*position
				}
				value += (rng.Float64() - 0.5) * cfg.Scene.NoiseAmplitude

				data[(y*width+x)*channels+z] = uint16(math.Max(0, math.Min(65535, value)))
			}
		}
	}

	return cube.New(width, height, channels, wavelengths, data)
}

// tileRegions builds an n x n grid of named tile regions covering the
// whole image
func tileRegions(n int) []models.Region {
	regions := make([]models.Region, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			x0, x1 := float64(col)/float64(n), float64(col+1)/float64(n)
			y0, y1 := float64(row)/float64(n), float64(row+1)/float64(n)
			regions = append(regions, models.Region{
				Name:    fmt.Sprintf("tile_%d_%d", row, col),
				Outline: spectral.Polygon{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}},
			})
		}
	}
	return regions
}

// parsePolygon parses a "x,y;x,y;..." vertex list in normalized coordinates
func parsePolygon(spec string) (spectral.Polygon, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	var poly spectral.Polygon
	for _, part := range strings.Split(spec, ";") {
		point, err := parsePoint(part)
		if err != nil {
			return nil, err
		}
		poly = append(poly, point)
	}
	return poly, nil
}

// parsePoint parses a single "x,y" pair in normalized coordinates
func parsePoint(spec string) (spectral.Point, error) {
	coords := strings.Split(strings.TrimSpace(spec), ",")
	if len(coords) != 2 {
		return spectral.Point{}, fmt.Errorf("expected x,y pair, got %q", spec)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
	if err != nil {
		return spectral.Point{}, fmt.Errorf("invalid x coordinate in %q: %w", spec, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
	if err != nil {
		return spectral.Point{}, fmt.Errorf("invalid y coordinate in %q: %w", spec, err)
	}
	return spectral.Point{X: x, Y: y}, nil
}

// validBandValues collects the band means of a spectrum, skipping
// sentinel-marked bands
func validBandValues(spectrum spectral.Spectrum) []float64 {
	values := make([]float64, 0, len(spectrum))
	for _, sm := range spectrum {
		if sm.Value == spectral.Sentinel {
			continue
		}
		values = append(values, sm.Value)
	}
	return values
}

// printSpectrum prints the per-band table (when verbose) and a summary line
func printSpectrum(spectrum spectral.Spectrum, verbose bool) {
	if verbose {
		fmt.Printf("%-6s %-12s %-12s %-12s\n", "Band", "Wavelength", "Mean", "Std")
		for z, sm := range spectrum {
			fmt.Printf("%-6d %-12d %-12.2f %-12.2f\n", z, sm.Wavelength, sm.Value, sm.Std)
		}
	}

	values := validBandValues(spectrum)
	if len(values) == 0 {
		fmt.Println("No data under the region (sentinel spectrum)")
		return
	}
	fmt.Printf("Mean over %d bands: %.2f\n", len(values), stat.Mean(values, nil))
}

// printHistograms prints one summary line per wavelength group
func printHistograms(histograms histogram.Vector) {
	for g, h := range histograms {
		var total uint64
		peak := 0
		for i, n := range h.Occurrence {
			total += n
			if n > h.Occurrence[peak] {
				peak = i
			}
		}
		fmt.Printf("  group %-3d %4dnm  %8d samples  peak bin %d (edge %.2f, %d samples)\n",
			g, h.Wavelength, total, peak, h.Count[peak], h.Occurrence[peak])
	}
}

// writeSpectrumCSV exports the spectrum as one band per row with a header
func writeSpectrumCSV(spectrum spectral.Spectrum, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating spectrum file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"band", "wavelength_nm", "mean", "std"}); err != nil {
		return fmt.Errorf("error writing spectrum header: %w", err)
	}
	for z, sm := range spectrum {
		record := []string{
			strconv.Itoa(z),
			strconv.FormatUint(uint64(sm.Wavelength), 10),
			strconv.FormatFloat(sm.Value, 'f', -1, 64),
			strconv.FormatFloat(sm.Std, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing spectrum row: %w", err)
		}
	}
	return nil
}

// saveSceneQuicklooks renders the region mask and a band sequence
func saveSceneQuicklooks(scene *cube.Cube[uint16], roi spectral.Polygon, meas models.Measurement, outputDir string) error {
	dir := filepath.Join(outputDir, meas.ID)

	renderer, err := quicklook.NewRenderer(scene, 0)
	if err != nil {
		return err
	}

	// Save every fourth band
	if err := renderer.SaveBandSequence(dir, 4); err != nil {
		return err
	}

	mask := raster.FillPolygon(scene.Width(), scene.Height(),
		roi.PixelVertices(scene.Width(), scene.Height()))
	return quicklook.SaveImage(quicklook.RenderMask(mask), filepath.Join(dir, "roi_mask.png"))
}
