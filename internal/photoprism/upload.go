package photoprism

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// UploadFile uploads a single file to the user's upload folder
// Returns the upload token used for processing
func (pp *PhotoPrism) UploadFile(ctx context.Context, filePath string) (string, error) {
	if pp.userUID == "" {
		return "", errors.New("user UID not available")
	}

	file, err := os.Open(filePath) //nolint:gosec // path comes from the local dataset folder
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	return pp.uploadReader(ctx, filepath.Base(filePath), file)
}

// UploadBytes uploads in-memory image data under the given filename.
// Returns the upload token used for processing
func (pp *PhotoPrism) UploadBytes(ctx context.Context, fileName string, data []byte) (string, error) {
	if pp.userUID == "" {
		return "", errors.New("user UID not available")
	}
	return pp.uploadReader(ctx, fileName, bytes.NewReader(data))
}

func (pp *PhotoPrism) uploadReader(ctx context.Context, fileName string, r io.Reader) (string, error) {
	// Upload token is just a unique folder name on the server side
	uploadToken := strconv.FormatInt(time.Now().UnixNano(), 10)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("files", fileName)
	if err != nil {
		return "", fmt.Errorf("could not create form file: %w", err)
	}

	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("could not copy file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("could not close writer: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/upload/%s", pp.Url, pp.userUID, uploadToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+pp.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	return uploadToken, nil
}

// ProcessUpload processes previously uploaded files and optionally adds them to albums
func (pp *PhotoPrism) ProcessUpload(ctx context.Context, uploadToken string, albumUIDs []string) error {
	if pp.userUID == "" {
		return errors.New("user UID not available")
	}

	options := struct {
		Albums []string `json:"albums,omitempty"`
	}{
		Albums: albumUIDs,
	}

	return doRequestRaw(ctx, pp, "PUT", fmt.Sprintf("users/%s/upload/%s", pp.userUID, uploadToken), options)
}
