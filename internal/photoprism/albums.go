package photoprism

import (
	"context"
	"fmt"
	"net/url"
)

// GetAlbums retrieves manual albums, optionally filtered by a search query.
func (pp *PhotoPrism) GetAlbums(ctx context.Context, count int, offset int, query string) ([]Album, error) {
	endpoint := fmt.Sprintf("albums?count=%d&offset=%d&type=album", count, offset)
	if query != "" {
		endpoint += "&q=" + url.QueryEscape(query)
	}

	result, err := doGetJSON[[]Album](ctx, pp, endpoint)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// CreateAlbum creates a new album with the given title
func (pp *PhotoPrism) CreateAlbum(ctx context.Context, title string) (*Album, error) {
	input := struct {
		Title string `json:"Title"`
	}{
		Title: title,
	}

	return doPostJSON[Album](ctx, pp, "albums", input)
}

// FindOrCreateAlbum returns the album with the given title, creating it when
// no exact match exists. Title comparison is exact because the search query
// matches substrings.
func (pp *PhotoPrism) FindOrCreateAlbum(ctx context.Context, title string) (*Album, error) {
	albums, err := pp.GetAlbums(ctx, 100, 0, title)
	if err != nil {
		return nil, fmt.Errorf("could not search albums: %w", err)
	}

	for i := range albums {
		if albums[i].Title == title {
			return &albums[i], nil
		}
	}

	return pp.CreateAlbum(ctx, title)
}

// GetAlbumPhotos retrieves photos from a specific album
func (pp *PhotoPrism) GetAlbumPhotos(ctx context.Context, albumUID string, count int, offset int) ([]Photo, error) {
	endpoint := fmt.Sprintf("photos?count=%d&offset=%d&s=%s", count, offset, albumUID)
	result, err := doGetJSON[[]Photo](ctx, pp, endpoint)
	if err != nil {
		return nil, err
	}
	return *result, nil
}
