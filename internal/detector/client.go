// Package detector talks to the facial-landmark service. The service wraps an
// InsightFace-style model behind HTTP; this package only consumes its typed
// output and never runs detection itself.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/kozaktomas/face-capture/internal/pose"
)

const defaultLandmarksURL = "http://localhost:8000"

// Client calls the landmark service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a landmark service client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultLandmarksURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// detectedFace is one face in the service response.
type detectedFace struct {
	FaceIndex int            `json:"face_index"`
	DetScore  float64        `json:"det_score"`
	Landmarks pose.Landmarks `json:"landmarks"`
}

// landmarksResponse is the response from the landmark endpoint.
type landmarksResponse struct {
	FacesCount int            `json:"faces_count"`
	Faces      []detectedFace `json:"faces"`
	Model      string         `json:"model"`
}

// DetectFaces submits one frame and returns the landmark sets of all detected
// faces, in normalized [0,1] coordinates.
func (c *Client) DetectFaces(ctx context.Context, imageData []byte) ([]pose.Landmarks, error) {
	body, err := c.postMultipartImage(ctx, "/landmarks/face", imageData)
	if err != nil {
		return nil, err
	}

	var resp landmarksResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	landmarks := make([]pose.Landmarks, 0, len(resp.Faces))
	for _, face := range resp.Faces {
		landmarks = append(landmarks, face.Landmarks)
	}
	return landmarks, nil
}

// postMultipartImage constructs a multipart form with the image data and posts
// it to the given endpoint. The part carries an explicit Content-Type header
// based on magic byte detection.
func (c *Client) postMultipartImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="frame.jpg"`)
	h.Set("Content-Type", detectMIMEType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// detectMIMEType detects the MIME type from image data
func detectMIMEType(data []byte) string {
	// JPEG: FF D8 FF
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if len(data) >= 4 && data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	// WebP: 52 49 46 46 ... 57 45 42 50
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return "image/webp"
	}
	return "application/octet-stream"
}
