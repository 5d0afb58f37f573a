// Package dataset persists accepted capture frames to a local folder tree,
// one subfolder per person key.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kozaktomas/face-capture/internal/constants"
)

// SavedPhoto describes a frame that was durably written to disk. Data holds
// the encoded bytes exactly as written, so mirrors can upload the photo
// without reading the file back.
type SavedPhoto struct {
	Filename string
	Path     string
	Sequence int
	Data     []byte
}

// Store writes photos under a root dataset directory.
type Store struct {
	root         string
	maxImageSize int
	now          func() time.Time
}

// NewStore creates a folder store rooted at the given directory.
func NewStore(root string, maxImageSize int) *Store {
	if maxImageSize <= 0 {
		maxImageSize = constants.MaxImageSize
	}
	return &Store{
		root:         root,
		maxImageSize: maxImageSize,
		now:          time.Now,
	}
}

// Folder returns the destination folder for a person key.
func (s *Store) Folder(personKey string) string {
	return filepath.Join(s.root, personKey)
}

// EnsureFolder creates the person's folder (and the dataset root) if needed.
func (s *Store) EnsureFolder(personKey string) (string, error) {
	folder := s.Folder(personKey)
	if err := os.MkdirAll(folder, 0750); err != nil {
		return "", fmt.Errorf("could not create folder %s: %w", folder, err)
	}
	return folder, nil
}

// Save re-encodes the frame as JPEG and writes it to the person's folder.
// The filename encodes the person key, a two-digit sequence number and a
// capture timestamp: {personKey}_{NN}_{yyyyMMdd_HHmmss}.jpg. The sequence
// number counts existing *.jpg files at save time, so repeated runs for the
// same person never collide with earlier photos.
func (s *Store) Save(personKey string, data []byte) (SavedPhoto, error) {
	folder, err := s.EnsureFolder(personKey)
	if err != nil {
		return SavedPhoto{}, err
	}

	encoded, err := EncodeJPEG(data, s.maxImageSize)
	if err != nil {
		return SavedPhoto{}, err
	}

	count, err := s.CountPhotos(personKey)
	if err != nil {
		return SavedPhoto{}, err
	}
	sequence := count + 1

	timestamp := s.now().Format(constants.FilenameTimeLayout)
	filename := fmt.Sprintf("%s_%02d_%s.jpg", personKey, sequence, timestamp)
	path := filepath.Join(folder, filename)

	if err := os.WriteFile(path, encoded, 0640); err != nil {
		return SavedPhoto{}, fmt.Errorf("could not write photo %s: %w", path, err)
	}

	return SavedPhoto{Filename: filename, Path: path, Sequence: sequence, Data: encoded}, nil
}

// List returns the sorted filenames in the person's folder. A missing folder
// yields an empty list, not an error.
func (s *Store) List(personKey string) ([]string, error) {
	entries, err := os.ReadDir(s.Folder(personKey))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// CountPhotos counts the *.jpg files in the person's folder.
func (s *Store) CountPhotos(personKey string) (int, error) {
	files, err := s.List(personKey)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ".jpg") {
			count++
		}
	}
	return count, nil
}
