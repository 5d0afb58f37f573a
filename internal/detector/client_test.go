package detector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const oneFaceResponse = `{
	"faces_count": 1,
	"faces": [
		{
			"face_index": 0,
			"det_score": 0.98,
			"landmarks": {
				"left_eye": [{"x": 0.30, "y": 0.45}],
				"right_eye": [{"x": 0.70, "y": 0.45}],
				"nose_tip": [{"x": 0.50, "y": 0.60}]
			}
		}
	],
	"model": "buffalo_l"
}`

func TestDetectFaces_SingleFace(t *testing.T) {
	var gotPath, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "bad multipart", http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file part", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(oneFaceResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	faces, err := client.DetectFaces(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46})
	if err != nil {
		t.Fatalf("DetectFaces() failed: %v", err)
	}

	if gotPath != "/landmarks/face" {
		t.Errorf("expected request to /landmarks/face, got %s", gotPath)
	}
	if gotContentType == "" {
		t.Error("expected multipart content type header")
	}
	if len(faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(faces))
	}

	lm := faces[0]
	if len(lm.LeftEye) != 1 || lm.LeftEye[0].X != 0.30 {
		t.Errorf("unexpected left eye landmarks: %+v", lm.LeftEye)
	}
	if len(lm.RightEye) != 1 || lm.RightEye[0].X != 0.70 {
		t.Errorf("unexpected right eye landmarks: %+v", lm.RightEye)
	}
	if len(lm.NoseTip) != 1 || lm.NoseTip[0].X != 0.50 {
		t.Errorf("unexpected nose tip landmarks: %+v", lm.NoseTip)
	}
}

func TestDetectFaces_NoFaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"faces_count": 0, "faces": [], "model": "buffalo_l"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	faces, err := client.DetectFaces(context.Background(), []byte("frame"))
	if err != nil {
		t.Fatalf("DetectFaces() failed: %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("expected no faces, got %d", len(faces))
	}
}

func TestDetectFaces_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.DetectFaces(context.Background(), []byte("frame")); err == nil {
		t.Error("DetectFaces() should surface non-200 responses as errors")
	}
}

func TestDetectFaces_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.DetectFaces(context.Background(), []byte("frame")); err == nil {
		t.Error("DetectFaces() should fail on malformed responses")
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}, "image/jpeg"},
		{"jpeg signature only", []byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"png signature only", []byte{0x89, 0x50, 0x4E, 0x47}, "image/png"},
		{"too short", []byte{0x01}, "application/octet-stream"},
		{"truncated jpeg signature", []byte{0xFF, 0xD8}, "application/octet-stream"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectMIMEType(tt.data); got != tt.expected {
				t.Errorf("detectMIMEType() = %q, want %q", got, tt.expected)
			}
		})
	}
}
