// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Capture constants
const (
	// DefaultQuota is the number of accepted photos collected per person
	DefaultQuota = 6

	// DefaultDatasetDir is the root folder for captured photos
	DefaultDatasetDir = "dataset"

	// FilenameTimeLayout is the timestamp layout used in stored filenames
	FilenameTimeLayout = "20060102_150405"
)

// Image constants
const (
	// MaxImageSize is the maximum dimension (width or height) for stored photos
	MaxImageSize = 1920

	// JPEGQuality is the encoder quality for stored photos
	JPEGQuality = 85
)

// Web constants
const (
	// MaxUploadSize is the maximum size of a single captured frame upload (32 MB)
	MaxUploadSize = 32 << 20
)
