// Package catalog wraps the Spotify Web API behind the narrow surface the
// dashboard needs: playlist listing, track retrieval, audio features and
// playlist materialization. Upstream failures are translated into the
// taxonomy in errors.go; nothing in this package retries.
package catalog

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

const maxTracksPerRequest = 100

// Client wraps an already-authorized Spotify API client. The core pipeline
// never sees credentials, only this capability.
type Client struct {
	api *spotify.Client
}

// New creates a catalog client from an authenticated Spotify client.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// UserID returns the current user's Spotify ID.
func (c *Client) UserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("getting current user: %w", classify(err))
	}
	return user.ID, nil
}
