// Package config provides configuration loading and management for hyperspec.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Analysis parameters
	Analysis struct {
		// MinSamples is the sample count a cube must exceed before
		// histogram analysis is attempted
		MinSamples int `yaml:"minSamples"`

		// CountBins is the number of value bins per histogram
		CountBins int `yaml:"countBins"`

		// WavelengthBins is the requested number of wavelength groups
		WavelengthBins int `yaml:"wavelengthBins"`

		// DetectMaxValue switches the histogram ceiling from the sample
		// type's maximum to the largest value present in the cube
		DetectMaxValue bool `yaml:"detectMaxValue"`

		// Workers is the number of goroutines used for batch region
		// extraction
		Workers int `yaml:"workers"`
	} `yaml:"analysis"`

	// Synthetic scene parameters for the demo driver
	Scene struct {
		// Width and Height are the scene dimensions in pixels
		Width  int `yaml:"width"`
		Height int `yaml:"height"`

		// Channels is the number of spectral bands
		Channels int `yaml:"channels"`

		// FirstWavelength is the center wavelength of band 0 in nm
		FirstWavelength int `yaml:"firstWavelength"`

		// WavelengthStep is the spacing between band centers in nm
		WavelengthStep int `yaml:"wavelengthStep"`

		// NoiseAmplitude is the peak amplitude of the additive noise in counts
		NoiseAmplitude float64 `yaml:"noiseAmplitude"`

		// Seed makes the scene noise reproducible
		Seed int64 `yaml:"seed"`
	} `yaml:"scene"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// QuicklookDir is the directory for rendered band images
		QuicklookDir string `yaml:"quicklookDir"`

		// SpectrumCSV is the path the extracted spectrum is written to;
		// empty disables the export
		SpectrumCSV string `yaml:"spectrumCSV"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default analysis parameters
	cfg.Analysis.MinSamples = 100
	cfg.Analysis.CountBins = 64
	cfg.Analysis.WavelengthBins = 10
	cfg.Analysis.DetectMaxValue = false
	cfg.Analysis.Workers = runtime.NumCPU() // Use all available cores by default

	// Set default scene parameters
	cfg.Scene.Width = 64
	cfg.Scene.Height = 64
	cfg.Scene.Channels = 32
	cfg.Scene.FirstWavelength = 430
	cfg.Scene.WavelengthStep = 4
	cfg.Scene.NoiseAmplitude = 150
	cfg.Scene.Seed = 42

	// Set default output parameters
	cfg.Output.Verbose = true
	cfg.Output.QuicklookDir = "quicklooks"
	cfg.Output.SpectrumCSV = ""

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
