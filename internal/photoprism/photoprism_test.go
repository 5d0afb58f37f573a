package photoprism

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const sessionResponse = `{
	"id": "sess123",
	"access_token": "token123",
	"user": {"UID": "usr123", "Name": "admin"}
}`

// mockPrism is a fake PhotoPrism API that records uploads and album writes.
type mockPrism struct {
	mu       sync.Mutex
	albums   []Album
	uploads  map[string]string  // upload token -> uploaded file name
	process  []string           // upload tokens processed
	photos   map[string][]Photo // album UID -> indexed photos
	albumIDs int
}

func (m *mockPrism) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sessionResponse))
	})

	mux.HandleFunc("/api/v1/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/api/v1/albums", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			query := r.URL.Query().Get("q")
			matches := []Album{}
			for _, a := range m.albums {
				if query == "" || strings.Contains(a.Title, query) {
					matches = append(matches, a)
				}
			}
			json.NewEncoder(w).Encode(matches)
		case http.MethodPost:
			var input struct {
				Title string `json:"Title"`
			}
			json.NewDecoder(r.Body).Decode(&input)
			m.albumIDs++
			album := Album{UID: fmt.Sprintf("album%d", m.albumIDs), Title: input.Title, Type: "album"}
			m.albums = append(m.albums, album)
			json.NewEncoder(w).Encode(album)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/users/usr123/upload/", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		token := strings.TrimPrefix(r.URL.Path, "/api/v1/users/usr123/upload/")

		switch r.Method {
		case http.MethodPost:
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				http.Error(w, "bad multipart", http.StatusBadRequest)
				return
			}
			_, hdr, err := r.FormFile("files")
			if err != nil {
				http.Error(w, "missing files part", http.StatusBadRequest)
				return
			}
			m.uploads[token] = hdr.Filename
			w.Write([]byte(`{}`))
		case http.MethodPut:
			var opts struct {
				Albums []string `json:"albums"`
			}
			json.NewDecoder(r.Body).Decode(&opts)
			m.process = append(m.process, token)
			for _, uid := range opts.Albums {
				m.photos[uid] = append(m.photos[uid], Photo{
					UID:          fmt.Sprintf("photo%d", len(m.photos[uid])+1),
					OriginalName: m.uploads[token],
					FileName:     "originals/" + m.uploads[token],
				})
			}
			w.Write([]byte(`{}`))
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/photos", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		matches := append([]Photo{}, m.photos[r.URL.Query().Get("s")]...)
		json.NewEncoder(w).Encode(matches)
	})

	return mux
}

func setupMockServer(t *testing.T) (*httptest.Server, *mockPrism) {
	t.Helper()
	mock := &mockPrism{uploads: make(map[string]string), photos: make(map[string][]Photo)}
	server := httptest.NewServer(mock.handler())
	t.Cleanup(server.Close)
	return server, mock
}

func TestAuth(t *testing.T) {
	server, _ := setupMockServer(t)

	pp, err := NewPhotoPrism(context.Background(), server.URL, "test", "test")
	if err != nil {
		t.Fatalf("NewPhotoPrism failed: %v", err)
	}

	if pp.token != "token123" {
		t.Errorf("expected access token 'token123', got %q", pp.token)
	}
	if pp.userUID != "usr123" {
		t.Errorf("expected user UID 'usr123', got %q", pp.userUID)
	}
}

func TestLogout(t *testing.T) {
	server, _ := setupMockServer(t)
	ctx := context.Background()

	pp, err := NewPhotoPrism(ctx, server.URL, "test", "test")
	if err != nil {
		t.Fatalf("NewPhotoPrism failed: %v", err)
	}

	if err := pp.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if pp.token != "" {
		t.Errorf("expected token to be empty after logout, got %q", pp.token)
	}

	// Logout again should be no-op
	if err := pp.Logout(ctx); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
}

func TestFindOrCreateAlbum(t *testing.T) {
	server, mock := setupMockServer(t)
	ctx := context.Background()

	pp, err := NewPhotoPrism(ctx, server.URL, "test", "test")
	if err != nil {
		t.Fatalf("NewPhotoPrism failed: %v", err)
	}

	created, err := pp.FindOrCreateAlbum(ctx, "jane_doe")
	if err != nil {
		t.Fatalf("FindOrCreateAlbum failed: %v", err)
	}
	if created.Title != "jane_doe" {
		t.Errorf("album title = %q, want %q", created.Title, "jane_doe")
	}

	// Second call must find the existing album instead of creating a duplicate.
	found, err := pp.FindOrCreateAlbum(ctx, "jane_doe")
	if err != nil {
		t.Fatalf("FindOrCreateAlbum failed: %v", err)
	}
	if found.UID != created.UID {
		t.Errorf("expected existing album %q, got %q", created.UID, found.UID)
	}
	if len(mock.albums) != 1 {
		t.Errorf("expected 1 album on the server, got %d", len(mock.albums))
	}
}

func TestUploadFile(t *testing.T) {
	server, mock := setupMockServer(t)
	ctx := context.Background()

	pp, err := NewPhotoPrism(ctx, server.URL, "test", "test")
	if err != nil {
		t.Fatalf("NewPhotoPrism failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "jane_doe_01_20260830_120000.jpg")
	if err := os.WriteFile(path, []byte("fake jpeg"), 0640); err != nil {
		t.Fatalf("could not write test file: %v", err)
	}

	token, err := pp.UploadFile(ctx, path)
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty upload token")
	}

	if err := pp.ProcessUpload(ctx, token, []string{"album1"}); err != nil {
		t.Fatalf("ProcessUpload failed: %v", err)
	}
	if len(mock.uploads) != 1 || len(mock.process) != 1 {
		t.Errorf("expected 1 upload and 1 process call, got %d/%d", len(mock.uploads), len(mock.process))
	}
}

func TestMirrorPhoto(t *testing.T) {
	server, mock := setupMockServer(t)
	ctx := context.Background()

	pp, err := NewPhotoPrism(ctx, server.URL, "test", "test")
	if err != nil {
		t.Fatalf("NewPhotoPrism failed: %v", err)
	}

	mirror := NewMirror(pp)

	remoteID, err := mirror.MirrorPhoto(ctx, "jane_doe", "jane_doe_01_20260830_120000.jpg", []byte("fake jpeg"))
	if err != nil {
		t.Fatalf("MirrorPhoto failed: %v", err)
	}
	if remoteID == "" {
		t.Error("expected a remote reference")
	}

	if _, err := mirror.MirrorPhoto(ctx, "jane_doe", "jane_doe_02_20260830_120001.jpg", []byte("fake jpeg")); err != nil {
		t.Fatalf("MirrorPhoto failed: %v", err)
	}

	// One album for the person, reused for the second photo.
	if len(mock.albums) != 1 {
		t.Errorf("expected 1 album, got %d", len(mock.albums))
	}
	if len(mock.uploads) != 2 {
		t.Errorf("expected 2 uploads, got %d", len(mock.uploads))
	}

	// Both photos end up queryable through the album.
	photos, err := pp.GetAlbumPhotos(ctx, mock.albums[0].UID, 100, 0)
	if err != nil {
		t.Fatalf("GetAlbumPhotos failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos in the album, got %d", len(photos))
	}
	if photos[0].OriginalName != "jane_doe_01_20260830_120000.jpg" {
		t.Errorf("unexpected original name: %q", photos[0].OriginalName)
	}
}

func TestResolveURL(t *testing.T) {
	parsed, err := url.Parse("http://photos.example.com/api/v1")
	if err != nil {
		t.Fatalf("could not parse URL: %v", err)
	}
	pp := &PhotoPrism{Url: parsed.String(), parsedURL: parsed}

	tests := []struct {
		name     string
		segments []string
		expected string
	}{
		{"simple", []string{"albums"}, "http://photos.example.com/api/v1/albums"},
		{"nested", []string{"albums", "abc123"}, "http://photos.example.com/api/v1/albums/abc123"},
		{"query", []string{"albums?count=10&type=album"}, "http://photos.example.com/api/v1/albums?count=10&type=album"},
		{"none", nil, "http://photos.example.com/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pp.resolveURL(tt.segments...); got != tt.expected {
				t.Errorf("resolveURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}
