package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DATASET_DIR", "CAPTURE_QUOTA", "POSE_MAX_OFFSET", "MAX_IMAGE_SIZE",
		"LANDMARKS_URL", "LANDMARKS_PROFILE",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Capture.DatasetDir != "dataset" {
		t.Errorf("expected default dataset dir 'dataset', got '%s'", cfg.Capture.DatasetDir)
	}
	if cfg.Capture.Quota != 6 {
		t.Errorf("expected default quota 6, got %d", cfg.Capture.Quota)
	}
	if cfg.Capture.MaxOffset != 0.35 {
		t.Errorf("expected default max offset 0.35, got %f", cfg.Capture.MaxOffset)
	}
	if cfg.Capture.MaxImageSize != 1920 {
		t.Errorf("expected default max image size 1920, got %d", cfg.Capture.MaxImageSize)
	}
	if cfg.Landmarks.Profile != "insightface" {
		t.Errorf("expected default profile 'insightface', got '%s'", cfg.Landmarks.Profile)
	}
}

func TestLoad_CaptureOverrides(t *testing.T) {
	t.Setenv("DATASET_DIR", "/data/faces")
	t.Setenv("CAPTURE_QUOTA", "10")
	t.Setenv("POSE_MAX_OFFSET", "0.25")

	cfg := Load()

	if cfg.Capture.DatasetDir != "/data/faces" {
		t.Errorf("expected dataset dir '/data/faces', got '%s'", cfg.Capture.DatasetDir)
	}
	if cfg.Capture.Quota != 10 {
		t.Errorf("expected quota 10, got %d", cfg.Capture.Quota)
	}
	if cfg.Capture.MaxOffset != 0.25 {
		t.Errorf("expected max offset 0.25, got %f", cfg.Capture.MaxOffset)
	}
}

func TestLoad_InvalidQuota(t *testing.T) {
	tests := []string{"invalid", "-3", "0"}
	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			t.Setenv("CAPTURE_QUOTA", value)

			cfg := Load()

			if cfg.Capture.Quota != 6 {
				t.Errorf("expected fallback quota 6 for %q, got %d", value, cfg.Capture.Quota)
			}
		})
	}
}

func TestLoad_ProfileThreshold(t *testing.T) {
	os.Unsetenv("POSE_MAX_OFFSET")
	t.Setenv("LANDMARKS_PROFILE", "dlib")

	cfg := Load()

	if cfg.Capture.MaxOffset != 0.50 {
		t.Errorf("expected dlib profile threshold 0.50, got %f", cfg.Capture.MaxOffset)
	}
}

func TestLoad_ExplicitThresholdBeatsProfile(t *testing.T) {
	t.Setenv("LANDMARKS_PROFILE", "dlib")
	t.Setenv("POSE_MAX_OFFSET", "0.20")

	cfg := Load()

	if cfg.Capture.MaxOffset != 0.20 {
		t.Errorf("expected explicit threshold 0.20, got %f", cfg.Capture.MaxOffset)
	}
}

func TestProfileMaxOffset_UnknownProfile(t *testing.T) {
	cfg := Load()

	if got := cfg.ProfileMaxOffset("unknown-detector"); got != 0.35 {
		t.Errorf("expected insightface fallback 0.35 for unknown profile, got %f", got)
	}
}

func TestLoad_DetectorProfilesEmbedded(t *testing.T) {
	cfg := Load()

	if len(cfg.Detectors.Profiles) == 0 {
		t.Fatal("expected detector profiles to be loaded from embedded YAML")
	}

	for _, profile := range []string{"insightface", "mediapipe", "dlib"} {
		if _, ok := cfg.Detectors.Profiles[profile]; !ok {
			t.Errorf("expected profile '%s' in detectors.yaml", profile)
		}
	}
}

func TestLoad_PhotoPrismConfig(t *testing.T) {
	t.Setenv("PHOTOPRISM_URL", "https://photos.test.com")
	t.Setenv("PHOTOPRISM_USERNAME", "testuser")
	t.Setenv("PHOTOPRISM_PASSWORD", "testpass")

	cfg := Load()

	if cfg.PhotoPrism.URL != "https://photos.test.com" {
		t.Errorf("expected URL 'https://photos.test.com', got '%s'", cfg.PhotoPrism.URL)
	}
	if cfg.PhotoPrism.Username != "testuser" {
		t.Errorf("expected username 'testuser', got '%s'", cfg.PhotoPrism.Username)
	}
	if !cfg.PhotoPrism.Enabled() {
		t.Error("expected mirror to be enabled when URL is set")
	}
}

func TestPhotoPrismConfig_Disabled(t *testing.T) {
	os.Unsetenv("PHOTOPRISM_URL")

	cfg := Load()

	if cfg.PhotoPrism.Enabled() {
		t.Error("expected mirror to be disabled without PHOTOPRISM_URL")
	}
}

func TestLoad_DatabaseDefaults(t *testing.T) {
	os.Unsetenv("DATABASE_MAX_OPEN_CONNS")
	os.Unsetenv("DATABASE_MAX_IDLE_CONNS")

	cfg := Load()

	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected default max open conns 25, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("expected default max idle conns 5, got %d", cfg.Database.MaxIdleConns)
	}
}
