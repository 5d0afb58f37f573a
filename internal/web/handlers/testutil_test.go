package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-capture/internal/session"
)

// stubWorkflow is a scripted capture workflow for handler tests.
type stubWorkflow struct {
	identifyStatus session.Status
	identifyErr    error
	captureResult  *session.CaptureResult
	captureErr     error
	status         session.Status

	lastName  string
	lastFrame []byte
}

func (s *stubWorkflow) Identify(ctx context.Context, name string) (session.Status, error) {
	s.lastName = name
	return s.identifyStatus, s.identifyErr
}

func (s *stubWorkflow) Capture(ctx context.Context, frame []byte) (*session.CaptureResult, error) {
	s.lastFrame = frame
	return s.captureResult, s.captureErr
}

func (s *stubWorkflow) Status() session.Status {
	return s.status
}

// multipartFrameRequest builds a POST request carrying frame data as a
// multipart "frame" file.
func multipartFrameRequest(t *testing.T, path string, frame []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("frame", "frame.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(frame); err != nil {
		t.Fatalf("failed to write frame data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}
