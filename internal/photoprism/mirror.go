package photoprism

import (
	"context"
	"fmt"
	"sync"
)

// Mirror copies locally stored photos to PhotoPrism, one album per person.
// Album UIDs are cached so repeated captures for the same person only hit the
// album API once.
type Mirror struct {
	pp *PhotoPrism

	mu     sync.Mutex
	albums map[string]string // person key -> album UID
}

// NewMirror wraps an authenticated client.
func NewMirror(pp *PhotoPrism) *Mirror {
	return &Mirror{pp: pp, albums: make(map[string]string)}
}

// MirrorPhoto uploads the encoded photo bytes and files them under the
// person's album. Returns the upload token as the remote reference.
func (m *Mirror) MirrorPhoto(ctx context.Context, personKey, fileName string, data []byte) (string, error) {
	albumUID, err := m.albumFor(ctx, personKey)
	if err != nil {
		return "", err
	}

	token, err := m.pp.UploadBytes(ctx, fileName, data)
	if err != nil {
		return "", fmt.Errorf("could not upload %s: %w", fileName, err)
	}

	if err := m.pp.ProcessUpload(ctx, token, []string{albumUID}); err != nil {
		return "", fmt.Errorf("could not process upload: %w", err)
	}

	return token, nil
}

func (m *Mirror) albumFor(ctx context.Context, personKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uid, ok := m.albums[personKey]; ok {
		return uid, nil
	}

	album, err := m.pp.FindOrCreateAlbum(ctx, personKey)
	if err != nil {
		return "", fmt.Errorf("could not resolve album for %q: %w", personKey, err)
	}

	m.albums[personKey] = album.UID
	return album.UID, nil
}
