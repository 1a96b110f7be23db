package models

import (
	"time"

	"hyperspec/pkg/cube"
	"hyperspec/pkg/spectral"
)

// Measurement describes one processed capture with the context needed to
// interpret its cube
type Measurement struct {
	// ID identifies the measurement within a session
	ID string

	// CaptureTime is when the frame was taken
	CaptureTime time.Time

	// IntegrationTimeMS is the sensor integration time in milliseconds
	IntegrationTimeMS float64

	// Averages is the number of raw frames averaged into the cube
	Averages int

	// Mode is the processing stage of the cube's samples
	Mode cube.ProcessingMode

	// Comment is a free-form operator note
	Comment string
}

// Region pairs a named region of interest with its outline
type Region struct {
	// Name labels the region in reports and output file names
	Name string

	// Outline is the region polygon in normalized image coordinates
	Outline spectral.Polygon
}
