package cube

// ProcessingMode identifies the pipeline stage a cube's samples went
// through before analysis. The mode travels with the measurement metadata;
// only ModeReflectance changes analysis behavior (histogram bin edges are
// converted from the percent-scaled sample domain to fractions).
type ProcessingMode int

const (
	// ModeRaw holds unprocessed sensor counts
	ModeRaw ProcessingMode = iota

	// ModeDarkSubtract holds counts with the dark reference removed
	ModeDarkSubtract

	// ModeReflectance holds reflectance values scaled by 100
	ModeReflectance

	// ModeSpectralRadiance holds calibrated radiance values
	ModeSpectralRadiance
)

// String returns the mode name used in logs and metadata output.
func (m ProcessingMode) String() string {
	switch m {
	case ModeRaw:
		return "Raw"
	case ModeDarkSubtract:
		return "DarkSubtract"
	case ModeReflectance:
		return "Reflectance"
	case ModeSpectralRadiance:
		return "SpectralRadiance"
	default:
		return "Unknown"
	}
}
