package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/face-capture/internal/constants"
)

//go:embed detectors.yaml
var detectorsYAML []byte

type Config struct {
	Capture    CaptureConfig
	Landmarks  LandmarksConfig
	PhotoPrism PhotoPrismConfig
	Database   DatabaseConfig
	Detectors  DetectorsConfig
}

type CaptureConfig struct {
	DatasetDir   string  // root folder for captured photos (default "dataset")
	Quota        int     // accepted photos per person (default 6)
	MaxOffset    float64 // frontal pose accept threshold, overrides the profile default
	MaxImageSize int     // longest side of stored JPEGs (default 1920)
}

type LandmarksConfig struct {
	URL     string // landmark service base URL, defaults to http://localhost:8000
	Profile string // detector profile name from detectors.yaml (default "insightface")
}

type PhotoPrismConfig struct {
	URL      string // optional remote mirror (e.g., https://photos.example.com)
	Username string
	Password string
}

// Enabled reports whether a PhotoPrism mirror is configured.
func (c *PhotoPrismConfig) Enabled() bool {
	return c.URL != ""
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; empty disables capture history
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type DetectorsConfig struct {
	Profiles map[string]DetectorProfile `yaml:"profiles"`
}

type DetectorProfile struct {
	MaxOffset float64 `yaml:"max_offset"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var detectors DetectorsConfig
	if err := yaml.Unmarshal(detectorsYAML, &detectors); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded detectors.yaml: " + err.Error())
	}

	profile := envString("LANDMARKS_PROFILE", "insightface")

	cfg := &Config{
		Capture: CaptureConfig{
			DatasetDir:   envString("DATASET_DIR", constants.DefaultDatasetDir),
			Quota:        envInt("CAPTURE_QUOTA", constants.DefaultQuota),
			MaxImageSize: envInt("MAX_IMAGE_SIZE", constants.MaxImageSize),
		},
		Landmarks: LandmarksConfig{
			URL:     os.Getenv("LANDMARKS_URL"),
			Profile: profile,
		},
		PhotoPrism: PhotoPrismConfig{
			URL:      os.Getenv("PHOTOPRISM_URL"),
			Username: os.Getenv("PHOTOPRISM_USERNAME"),
			Password: os.Getenv("PHOTOPRISM_PASSWORD"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Detectors: detectors,
	}

	cfg.Capture.MaxOffset = envFloat("POSE_MAX_OFFSET", cfg.ProfileMaxOffset(profile))
	return cfg
}

// ProfileMaxOffset returns the accept threshold for a detector profile.
// Unknown profiles fall back to the insightface default.
func (c *Config) ProfileMaxOffset(profile string) float64 {
	if p, ok := c.Detectors.Profiles[profile]; ok && p.MaxOffset > 0 {
		return p.MaxOffset
	}
	if p, ok := c.Detectors.Profiles["insightface"]; ok {
		return p.MaxOffset
	}
	return 0.35
}
